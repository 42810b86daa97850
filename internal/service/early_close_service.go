package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/resource-planner-api/internal/dto"
	"github.com/noah-isme/resource-planner-api/internal/models"
	"github.com/noah-isme/resource-planner-api/internal/repository"
	appErrors "github.com/noah-isme/resource-planner-api/pkg/errors"
	"github.com/noah-isme/resource-planner-api/pkg/mailer"
)

const msgEarlyCloseTaken = "Ya existe una solicitud de cierre anticipado pendiente para esta semana"

type earlyCloseStore interface {
	FindByID(ctx context.Context, id string) (*models.EarlyCloseRequest, error)
	IsTaken(ctx context.Context, weekControl string) (bool, error)
	Create(ctx context.Context, req *models.EarlyCloseRequest) error
	Delete(ctx context.Context, id string) error
	CloseWeek(ctx context.Context, week *models.ControlWeek) (int64, error)
}

// EarlyCloseService handles requests to close a control week before it ends.
type EarlyCloseService struct {
	repo      earlyCloseStore
	weeks     controlWeekStore
	people    personReader
	mail      mailSender
	cache     cacheInvalidator
	publisher personPublisher
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEarlyCloseService constructs the service.
func NewEarlyCloseService(repo earlyCloseStore, weeks controlWeekStore, people personReader, mail mailSender, cache cacheInvalidator, publisher personPublisher, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *EarlyCloseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EarlyCloseService{
		repo:      repo,
		weeks:     weeks,
		people:    people,
		mail:      mail,
		cache:     cache,
		publisher: publisher,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
	}
}

// Get returns a request.
func (s *EarlyCloseService) Get(ctx context.Context, id string) (*models.EarlyCloseRequest, error) {
	req, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, loadFailed(err, "early close request")
	}
	return req, nil
}

// Request files an early-close request for the person's open control week and mails
// the reviewers. When the mail cannot be sent the request is withdrawn.
func (s *EarlyCloseService) Request(ctx context.Context, req dto.CreateEarlyCloseRequest, actor *models.JWTClaims) (*models.EarlyCloseRequest, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalid(err, "invalid early close payload")
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

	week, err := s.weeks.FindOpenByPerson(ctx, personID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Rule(msgNoOpenWeek)
		}
		return nil, appErrors.Internal(err, "failed to load control week")
	}
	taken, err := s.repo.IsTaken(ctx, week.ID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to check early close requests")
	}
	if taken {
		return nil, appErrors.Rule(msgEarlyCloseTaken)
	}

	request := &models.EarlyCloseRequest{WeekControl: week.ID, Message: strings.TrimSpace(req.Message), RequestedBy: actor.UserID}
	if err := s.repo.Create(ctx, request); err != nil {
		return nil, writeFailed(err, "create", "early close request")
	}

	data := mailer.TemplateData{Week: week.Week.String(), Message: request.Message, Reference: request.ID}
	if person, err := s.people.FindByID(ctx, personID); err == nil {
		data.PersonName = person.Name
	}
	if err := s.mail.Send(ctx, mailer.EventEarlyCloseRequested, s.mail.Reviewers(), data); err != nil {
		s.logger.Error("early close mail failed", zap.String("request_id", request.ID), zap.Error(err))
		if delErr := s.repo.Delete(ctx, request.ID); delErr != nil {
			s.logger.Error("failed to withdraw early close request", zap.String("request_id", request.ID), zap.Error(delErr))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrNotificationFailed.Code, appErrors.ErrNotificationFailed.Status, notificationFailedPrefix)
	}
	s.metrics.RecordReviewTransition("early_close", string(models.RequestStatusPending))
	return request, nil
}

// Review resolves a request. Approval deletes the person's pending assignment requests
// for the week and closes it atomically; rejection changes nothing. The request is
// removed in both cases, and an outcome mail failure is reported after the fact.
func (s *EarlyCloseService) Review(ctx context.Context, id string, decision dto.ReviewDecisionRequest, reviewer string) (*models.EarlyCloseOutcome, error) {
	if err := s.validator.Struct(decision); err != nil {
		return nil, invalid(err, "invalid review payload")
	}
	if decision.Rejected() && decision.ObservationText() == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, msgObservationsRequired)
	}
	if reviewer == "" {
		return nil, appErrors.ErrUnauthorized
	}
	request, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	week, err := s.weeks.FindByID(ctx, request.WeekControl)
	if err != nil {
		return nil, loadFailed(err, "control week")
	}

	outcome := &models.EarlyCloseOutcome{RequestID: id, Approved: !decision.Rejected(), Week: week}
	event := mailer.EventEarlyCloseRejected
	status := models.RequestStatusRejected
	if outcome.Approved {
		if !week.IsOpen() {
			return nil, appErrors.Rule(msgWeekClosed)
		}
		deleted, err := s.repo.CloseWeek(ctx, week)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Rule(msgWeekClosed)
			}
			return nil, appErrors.Internal(err, "failed to close control week")
		}
		outcome.DeletedRequests = deleted
		invalidatePlanning(ctx, s.cache, s.logger)
		if closed, err := s.weeks.FindByID(ctx, week.ID); err == nil {
			outcome.Week = closed
		}
		event = mailer.EventEarlyCloseApproved
		status = models.RequestStatusApproved
	}
	s.metrics.RecordReviewTransition("early_close", string(status))

	mailErr := s.sendOutcome(ctx, event, week, decision.ObservationText())
	if err := s.repo.Delete(ctx, id); err != nil && !errors.Is(err, sql.ErrNoRows) {
		s.logger.Error("failed to delete early close request", zap.String("request_id", id), zap.Error(err))
	}
	s.publish(ctx, week.PersonID, id, status)

	if mailErr != nil {
		outcome.NotificationError = mailErr.Error()
		return outcome, appErrors.Wrap(mailErr, appErrors.ErrNotificationFailed.Code, appErrors.ErrNotificationFailed.Status, notificationFailedPrefix)
	}
	return outcome, nil
}

func (s *EarlyCloseService) sendOutcome(ctx context.Context, event mailer.Event, week *models.ControlWeek, observations string) error {
	person, err := s.people.FindByID(ctx, week.PersonID)
	if err != nil {
		return err
	}
	data := mailer.TemplateData{PersonName: person.Name, Week: week.Week.String(), Observations: observations}
	err = s.mail.Send(ctx, event, []string{person.Email}, data)
	if err != nil {
		s.logger.Error("early close outcome mail failed", zap.String("person_id", person.ID), zap.Error(err))
	}
	return err
}

func (s *EarlyCloseService) publish(ctx context.Context, personID, reference string, status models.RequestStatus) {
	if s.publisher == nil {
		return
	}
	note := repository.Notification{Event: "early_close", Resource: "control_week", Reference: reference, Status: string(status)}
	if err := s.publisher.PublishPerson(ctx, personID, note); err != nil {
		s.logger.Debug("early close notification not published", zap.Error(err))
	}
}
