package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/resource-planner-api/internal/dto"
	"github.com/noah-isme/resource-planner-api/internal/models"
	appErrors "github.com/noah-isme/resource-planner-api/pkg/errors"
)

type assignmentStore interface {
	FindByID(ctx context.Context, id string) (*models.Assignment, error)
	Create(ctx context.Context, assignment *models.Assignment) error
	Update(ctx context.Context, assignment *models.Assignment) error
	Delete(ctx context.Context, id string) error
}

type assignmentRequestStore interface {
	FindByID(ctx context.Context, id string) (*models.AssignmentRequest, error)
	Create(ctx context.Context, req *models.AssignmentRequest) error
	Delete(ctx context.Context, id string) error
	Reject(ctx context.Context, id, reviewer, observations string) error
	Approve(ctx context.Context, req *models.AssignmentRequest, reviewer string) error
}

// AssignmentService manages weekly hour assignments and the change requests people
// file against them.
type AssignmentService struct {
	assignments assignmentStore
	requests    assignmentRequestStore
	weeks       controlWeekStore
	cache       cacheInvalidator
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewAssignmentService constructs the service.
func NewAssignmentService(assignments assignmentStore, requests assignmentRequestStore, weeks controlWeekStore, cache cacheInvalidator, validate *validator.Validate, logger *zap.Logger) *AssignmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{assignments: assignments, requests: requests, weeks: weeks, cache: cache, validator: validate, logger: logger}
}

func assignmentWriteFailed(err error, action string) error {
	if pqCode(err) == pqForeignKeyViolation {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "unknown person, project or role")
	}
	if pqCode(err) == pqUniqueViolation {
		return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "assignment already exists for this week")
	}
	return writeFailed(err, action, "assignment")
}

// Get returns an assignment.
func (s *AssignmentService) Get(ctx context.Context, id string) (*models.Assignment, error) {
	assignment, err := s.assignments.FindByID(ctx, id)
	if err != nil {
		return nil, loadFailed(err, "assignment")
	}
	return assignment, nil
}

// Create allocates hours for the week containing req.Week.
func (s *AssignmentService) Create(ctx context.Context, req dto.CreateAssignmentRequest) (*models.Assignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalid(err, "invalid assignment payload")
	}
	assignment := &models.Assignment{
		PersonID:  req.PersonID,
		ProjectID: req.ProjectID,
		RoleID:    req.RoleID,
		Week:      req.Week.WeekStart(),
		Hours:     req.Hours,
	}
	if err := s.assignments.Create(ctx, assignment); err != nil {
		return nil, assignmentWriteFailed(err, "create")
	}
	invalidatePlanning(ctx, s.cache, s.logger)
	return assignment, nil
}

// Update changes the role or hours of an assignment.
func (s *AssignmentService) Update(ctx context.Context, id string, req dto.UpdateAssignmentRequest) (*models.Assignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalid(err, "invalid assignment payload")
	}
	assignment, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	setString(&assignment.RoleID, req.RoleID)
	if req.Hours != nil {
		assignment.Hours = *req.Hours
	}
	if err := s.assignments.Update(ctx, assignment); err != nil {
		return nil, assignmentWriteFailed(err, "update")
	}
	invalidatePlanning(ctx, s.cache, s.logger)
	return assignment, nil
}

// Delete removes an assignment.
func (s *AssignmentService) Delete(ctx context.Context, id string) error {
	if err := s.assignments.Delete(ctx, id); err != nil {
		return writeFailed(err, "delete", "assignment")
	}
	invalidatePlanning(ctx, s.cache, s.logger)
	return nil
}

// GetRequest returns a change request visible to actor.
func (s *AssignmentService) GetRequest(ctx context.Context, id string, actor *models.JWTClaims) (*models.AssignmentRequest, error) {
	req, err := s.requests.FindByID(ctx, id)
	if err != nil {
		return nil, loadFailed(err, "assignment request")
	}
	if err := actFor(actor, req.PersonID); err != nil {
		return nil, err
	}
	return req, nil
}

// RequestChange files a change of weekly hours. The person's control week for that
// week must be open; a missing week is opened on the fly.
func (s *AssignmentService) RequestChange(ctx context.Context, req dto.CreateAssignmentChangeRequest, actor *models.JWTClaims) (*models.AssignmentRequest, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalid(err, "invalid assignment request payload")
	}
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	personID := req.PersonID
	if personID == "" {
		personID = actor.PersonID
	}
	if personID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "person_id is required")
	}
	if err := actFor(actor, personID); err != nil {
		return nil, err
	}
	week := req.Week.WeekStart()
	if _, err := weekFor(ctx, s.weeks, personID, week); err != nil {
		return nil, err
	}
	change := &models.AssignmentRequest{
		PersonID:    personID,
		ProjectID:   req.ProjectID,
		RoleID:      req.RoleID,
		Week:        week,
		Hours:       req.Hours,
		Status:      models.RequestStatusPending,
		RequestedBy: actor.UserID,
	}
	if err := s.requests.Create(ctx, change); err != nil {
		return nil, assignmentWriteFailed(err, "create")
	}
	return change, nil
}

// ReviewRequest approves or rejects a pending change request. Approval applies the
// hours to the assignment in the same transaction.
func (s *AssignmentService) ReviewRequest(ctx context.Context, id string, decision dto.ReviewDecisionRequest, reviewer string) (*models.AssignmentRequest, error) {
	if err := s.validator.Struct(decision); err != nil {
		return nil, invalid(err, "invalid review payload")
	}
	if decision.Rejected() && decision.ObservationText() == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, msgObservationsRequired)
	}
	req, err := s.requests.FindByID(ctx, id)
	if err != nil {
		return nil, loadFailed(err, "assignment request")
	}
	if req.Status != models.RequestStatusPending {
		return nil, appErrors.Rule("La solicitud ya fue revisada")
	}

	if decision.Rejected() {
		obs := decision.ObservationText()
		if err := s.requests.Reject(ctx, id, reviewer, obs); err != nil {
			return nil, writeFailed(err, "reject", "assignment request")
		}
		req.Status, req.Reviewer, req.Observations = models.RequestStatusRejected, &reviewer, &obs
		return req, nil
	}

	if _, err := weekFor(ctx, s.weeks, req.PersonID, req.Week); err != nil {
		return nil, err
	}
	if err := s.requests.Approve(ctx, req, reviewer); err != nil {
		return nil, writeFailed(err, "approve", "assignment request")
	}
	invalidatePlanning(ctx, s.cache, s.logger)
	req.Status, req.Reviewer, req.Observations = models.RequestStatusApproved, &reviewer, nil
	return req, nil
}

// DeleteRequest withdraws a pending change request.
func (s *AssignmentService) DeleteRequest(ctx context.Context, id string, actor *models.JWTClaims) error {
	req, err := s.GetRequest(ctx, id, actor)
	if err != nil {
		return err
	}
	if req.Status != models.RequestStatusPending {
		return appErrors.Rule("La solicitud ya fue revisada")
	}
	if err := s.requests.Delete(ctx, id); err != nil {
		return writeFailed(err, "delete", "assignment request")
	}
	return nil
}
