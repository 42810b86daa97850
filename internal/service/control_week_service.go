package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/resource-planner-api/internal/dto"
	"github.com/noah-isme/resource-planner-api/internal/models"
	appErrors "github.com/noah-isme/resource-planner-api/pkg/errors"
)

const (
	msgNoOpenWeek = "No tiene una semana de control abierta"
	msgWeekClosed = "La semana de control está cerrada"
)

type controlWeekStore interface {
	FindByID(ctx context.Context, id string) (*models.ControlWeek, error)
	FindByPersonWeek(ctx context.Context, personID string, week models.Date) (*models.ControlWeek, error)
	FindOpenByPerson(ctx context.Context, personID string) (*models.ControlWeek, error)
	Open(ctx context.Context, personID string, week models.Date) (*models.ControlWeek, error)
	Close(ctx context.Context, id string) error
}

type cacheInvalidator interface {
	Invalidate(ctx context.Context, pattern string) error
}

// ControlWeekService opens and closes the weekly time-control periods of people.
type ControlWeekService struct {
	repo      controlWeekStore
	people    personReader
	cache     cacheInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewControlWeekService constructs the service.
func NewControlWeekService(repo controlWeekStore, people personReader, cache cacheInvalidator, validate *validator.Validate, logger *zap.Logger) *ControlWeekService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ControlWeekService{repo: repo, people: people, cache: cache, validator: validate, logger: logger}
}

// Get returns a control week visible to actor.
func (s *ControlWeekService) Get(ctx context.Context, id string, actor *models.JWTClaims) (*models.ControlWeek, error) {
	week, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, loadFailed(err, "control week")
	}
	if err := actFor(actor, week.PersonID); err != nil {
		return nil, err
	}
	return week, nil
}

// Open opens the week containing req.Week for the person. Opening an existing week
// returns it unchanged.
func (s *ControlWeekService) Open(ctx context.Context, req dto.OpenControlWeekRequest, actor *models.JWTClaims) (*models.ControlWeek, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalid(err, "invalid control week payload")
	}
	if err := actFor(actor, req.PersonID); err != nil {
		return nil, err
	}
	if _, err := s.people.FindByID(ctx, req.PersonID); err != nil {
		return nil, loadFailed(err, "person")
	}
	week, err := s.repo.Open(ctx, req.PersonID, req.Week.WeekStart())
	if err != nil {
		return nil, appErrors.Internal(err, "failed to open control week")
	}
	return week, nil
}

// Current returns the open control week of personID.
func (s *ControlWeekService) Current(ctx context.Context, personID string, actor *models.JWTClaims) (*models.ControlWeek, error) {
	if err := actFor(actor, personID); err != nil {
		return nil, err
	}
	week, err := s.repo.FindOpenByPerson(ctx, personID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, msgNoOpenWeek)
		}
		return nil, appErrors.Internal(err, "failed to load control week")
	}
	return week, nil
}

// Close ends a control week normally.
func (s *ControlWeekService) Close(ctx context.Context, id string, actor *models.JWTClaims) (*models.ControlWeek, error) {
	week, err := s.Get(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	if !week.IsOpen() {
		return nil, appErrors.Rule(msgWeekClosed)
	}
	if err := s.repo.Close(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Rule(msgWeekClosed)
		}
		return nil, appErrors.Internal(err, "failed to close control week")
	}
	invalidatePlanning(ctx, s.cache, s.logger)
	closed, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, loadFailed(err, "control week")
	}
	return closed, nil
}

// weekFor returns the person's control week for week, opening it when missing. A closed
// week is a rule violation.
func weekFor(ctx context.Context, repo controlWeekStore, personID string, week models.Date) (*models.ControlWeek, error) {
	cw, err := repo.FindByPersonWeek(ctx, personID, week)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		cw, err = repo.Open(ctx, personID, week)
		if err != nil {
			return nil, appErrors.Internal(err, "failed to open control week")
		}
	case err != nil:
		return nil, appErrors.Internal(err, "failed to load control week")
	}
	if !cw.IsOpen() {
		return nil, appErrors.Rule(msgWeekClosed)
	}
	return cw, nil
}
