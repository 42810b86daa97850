package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/resource-planner-api/internal/dto"
	"github.com/noah-isme/resource-planner-api/internal/models"
	"github.com/noah-isme/resource-planner-api/internal/repository"
	appErrors "github.com/noah-isme/resource-planner-api/pkg/errors"
	"github.com/noah-isme/resource-planner-api/pkg/mailer"
)

const (
	msgReviewNotFound        = "Revisión no encontrada"
	msgObservationsRequired  = "Las observaciones son obligatorias para rechazar"
	notificationFailedPrefix = "No se pudo enviar la notificación"
)

// NotifyPolicy decides how a category reacts to mail delivery.
type NotifyPolicy int

const (
	// NotifyNone sends nothing.
	NotifyNone NotifyPolicy = iota
	// NotifyAsync hands mail to the outbox; failures never affect the review.
	NotifyAsync
	// NotifyRequired sends inline and undoes the transition when delivery fails.
	NotifyRequired
)

// OwnerLookup resolves the person owning a reviewed record.
type OwnerLookup func(ctx context.Context, reference string) (personID string, err error)

// ReviewCategory registers one reviewable data type with the engine.
type ReviewCategory struct {
	Type   models.ReviewType
	Label  string
	Policy NotifyPolicy
	Owner  OwnerLookup
}

type reviewStore interface {
	FindByTypeAndData(ctx context.Context, dataType models.ReviewType, reference string) (*models.Review, error)
	Create(ctx context.Context, review *models.Review) error
	Save(ctx context.Context, review *models.Review) error
	Delete(ctx context.Context, id string) error
}

type personReader interface {
	FindByID(ctx context.Context, id string) (*models.Person, error)
}

type mailSender interface {
	Send(ctx context.Context, event mailer.Event, to []string, data mailer.TemplateData) error
	Enqueue(ctx context.Context, event mailer.Event, to []string, data mailer.TemplateData) error
	Reviewers() []string
}

type personPublisher interface {
	PublishPerson(ctx context.Context, personID string, note repository.Notification) error
}

// ReviewService is the single review engine shared by every data category.
type ReviewService struct {
	repo       reviewStore
	people     personReader
	mail       mailSender
	publisher  personPublisher
	metrics    *MetricsService
	validator  *validator.Validate
	logger     *zap.Logger
	categories map[models.ReviewType]ReviewCategory
}

// NewReviewService constructs the engine; categories are added with Register.
func NewReviewService(repo reviewStore, people personReader, mail mailSender, publisher personPublisher, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *ReviewService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReviewService{
		repo:       repo,
		people:     people,
		mail:       mail,
		publisher:  publisher,
		metrics:    metrics,
		validator:  validate,
		logger:     logger,
		categories: make(map[models.ReviewType]ReviewCategory),
	}
}

// Register adds or replaces categories.
func (s *ReviewService) Register(categories ...ReviewCategory) {
	for _, c := range categories {
		if c.Label == "" {
			c.Label = string(c.Type)
		}
		s.categories[c.Type] = c
	}
}

func (s *ReviewService) category(dataType models.ReviewType) (ReviewCategory, error) {
	c, ok := s.categories[dataType]
	if !ok {
		return ReviewCategory{}, appErrors.Clone(appErrors.ErrValidation, "unknown review type")
	}
	return c, nil
}

// Find returns the review of (dataType, reference).
func (s *ReviewService) Find(ctx context.Context, dataType models.ReviewType, reference string) (*models.Review, error) {
	if _, err := s.category(dataType); err != nil {
		return nil, err
	}
	review, err := s.repo.FindByTypeAndData(ctx, dataType, reference)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, msgReviewNotFound)
		}
		return nil, appErrors.Internal(err, "failed to load review")
	}
	return review, nil
}

// Attach returns the current review of a record, or nil when none exists.
func (s *ReviewService) Attach(ctx context.Context, dataType models.ReviewType, reference string) *models.Review {
	review, err := s.repo.FindByTypeAndData(ctx, dataType, reference)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("failed to load review", zap.String("type", string(dataType)), zap.String("reference", reference), zap.Error(err))
		}
		return nil
	}
	return review
}

// RequestReview puts (dataType, reference) into pending, creating the review on first
// request. Reviewers are notified according to the category policy.
func (s *ReviewService) RequestReview(ctx context.Context, dataType models.ReviewType, reference string) (*models.Review, error) {
	cat, err := s.category(dataType)
	if err != nil {
		return nil, err
	}

	var previous *models.Review
	review, err := s.repo.FindByTypeAndData(ctx, dataType, reference)
	switch {
	case err == nil:
		snapshot := *review
		previous = &snapshot
		review.RequestReview()
		if err := s.repo.Save(ctx, review); err != nil {
			return nil, appErrors.Internal(err, "failed to reset review")
		}
	case errors.Is(err, sql.ErrNoRows):
		review = &models.Review{DataType: dataType, DataReference: reference}
		review.RequestReview()
		if err := s.repo.Create(ctx, review); err != nil {
			return nil, appErrors.Internal(err, "failed to create review")
		}
	default:
		return nil, appErrors.Internal(err, "failed to load review")
	}
	s.metrics.RecordReviewTransition(string(dataType), string(review.Status))

	owner := s.owner(ctx, cat, reference)
	data := mailer.TemplateData{Category: cat.Label, Reference: reference}
	if owner != nil {
		data.PersonName = owner.Name
	}
	if err := s.notify(ctx, cat, mailer.EventReviewRequested, s.mail.Reviewers(), data); err != nil {
		s.restore(ctx, review, previous)
		return nil, err
	}
	s.publish(ctx, owner, review)
	return review, nil
}

// Decide approves or rejects the review of (dataType, reference) on behalf of reviewer.
// Rejections require observations.
func (s *ReviewService) Decide(ctx context.Context, dataType models.ReviewType, reference string, req dto.ReviewDecisionRequest, reviewer string) (*models.Review, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid review payload")
	}
	if req.Rejected() && req.ObservationText() == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, msgObservationsRequired)
	}
	if reviewer == "" {
		return nil, appErrors.ErrUnauthorized
	}
	cat, err := s.category(dataType)
	if err != nil {
		return nil, err
	}
	review, err := s.Find(ctx, dataType, reference)
	if err != nil {
		return nil, err
	}

	previous := *review
	event := mailer.EventReviewApproved
	if req.Rejected() {
		review.UpdateComments(reviewer, req.ObservationText())
		event = mailer.EventReviewRejected
	} else {
		review.Approve(reviewer)
	}
	if err := s.repo.Save(ctx, review); err != nil {
		return nil, appErrors.Internal(err, "failed to save review")
	}
	s.metrics.RecordReviewTransition(string(dataType), string(review.Status))

	owner := s.owner(ctx, cat, reference)
	if owner != nil {
		data := mailer.TemplateData{PersonName: owner.Name, Category: cat.Label, Reference: reference, Observations: req.ObservationText()}
		if err := s.notify(ctx, cat, event, []string{owner.Email}, data); err != nil {
			s.restore(ctx, review, &previous)
			return nil, err
		}
	} else if cat.Policy == NotifyRequired {
		s.restore(ctx, review, &previous)
		return nil, appErrors.Clone(appErrors.ErrNotificationFailed, notificationFailedPrefix)
	}
	s.publish(ctx, owner, review)
	return review, nil
}

// Delete removes the review of (dataType, reference); a missing review is not an error.
func (s *ReviewService) Delete(ctx context.Context, dataType models.ReviewType, reference string) error {
	review, err := s.repo.FindByTypeAndData(ctx, dataType, reference)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return appErrors.Internal(err, "failed to load review")
	}
	if err := s.repo.Delete(ctx, review.ID); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return appErrors.Internal(err, "failed to delete review")
	}
	return nil
}

func (s *ReviewService) notify(ctx context.Context, cat ReviewCategory, event mailer.Event, to []string, data mailer.TemplateData) error {
	switch cat.Policy {
	case NotifyAsync:
		if err := s.mail.Enqueue(ctx, event, to, data); err != nil {
			s.logger.Warn("failed to queue review mail", zap.String("type", string(cat.Type)), zap.Error(err))
		}
	case NotifyRequired:
		if err := s.mail.Send(ctx, event, to, data); err != nil {
			s.logger.Error("review mail failed", zap.String("type", string(cat.Type)), zap.String("reference", data.Reference), zap.Error(err))
			return appErrors.Wrap(err, appErrors.ErrNotificationFailed.Code, appErrors.ErrNotificationFailed.Status, notificationFailedPrefix)
		}
	}
	return nil
}

// restore undoes a transition whose notification failed: a review created by the
// transition is removed, otherwise the previous state is written back.
func (s *ReviewService) restore(ctx context.Context, review, previous *models.Review) {
	var err error
	if previous == nil {
		err = s.repo.Delete(ctx, review.ID)
	} else {
		err = s.repo.Save(ctx, previous)
	}
	if err != nil {
		s.logger.Error("failed to compensate review", zap.String("review_id", review.ID), zap.Error(err))
	}
}

func (s *ReviewService) owner(ctx context.Context, cat ReviewCategory, reference string) *models.Person {
	if cat.Owner == nil || s.people == nil {
		return nil
	}
	personID, err := cat.Owner(ctx, reference)
	if err != nil || personID == "" {
		if err != nil {
			s.logger.Warn("failed to resolve review owner", zap.String("type", string(cat.Type)), zap.String("reference", reference), zap.Error(err))
		}
		return nil
	}
	person, err := s.people.FindByID(ctx, personID)
	if err != nil {
		s.logger.Warn("failed to load review owner", zap.String("person_id", personID), zap.Error(err))
		return nil
	}
	return person
}

func (s *ReviewService) publish(ctx context.Context, owner *models.Person, review *models.Review) {
	if s.publisher == nil || owner == nil {
		return
	}
	note := repository.Notification{
		Event:     "review",
		Resource:  string(review.DataType),
		Reference: review.DataReference,
		Status:    string(review.Status),
	}
	if err := s.publisher.PublishPerson(ctx, owner.ID, note); err != nil {
		s.logger.Debug("review notification not published", zap.Error(err))
	}
}
