package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/resource-planner-api/internal/dto"
	"github.com/noah-isme/resource-planner-api/internal/models"
)

type personRepository interface {
	FindByID(ctx context.Context, id string) (*models.Person, error)
	Create(ctx context.Context, person *models.Person) error
	Update(ctx context.Context, person *models.Person) error
	Delete(ctx context.Context, id string) error
}

// PersonService handles person master data.
type PersonService struct {
	repo      personRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPersonService creates a new person service.
func NewPersonService(repo personRepository, validate *validator.Validate, logger *zap.Logger) *PersonService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PersonService{repo: repo, validator: validate, logger: logger}
}

// Get returns a person by identifier.
func (s *PersonService) Get(ctx context.Context, id string) (*models.Person, error) {
	person, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, loadFailed(err, "person")
	}
	return person, nil
}

// Create adds a person; new people are active unless stated otherwise.
func (s *PersonService) Create(ctx context.Context, req dto.CreatePersonRequest) (*models.Person, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalid(err, "invalid person payload")
	}
	person := &models.Person{
		Name:     strings.TrimSpace(req.Name),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Position: strings.TrimSpace(req.Position),
		Active:   true,
	}
	if req.Active != nil {
		person.Active = *req.Active
	}
	if err := s.repo.Create(ctx, person); err != nil {
		return nil, writeFailed(err, "create", "person")
	}
	return person, nil
}

// Update applies a partial update.
func (s *PersonService) Update(ctx context.Context, id string, req dto.UpdatePersonRequest) (*models.Person, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalid(err, "invalid person payload")
	}
	person, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	setString(&person.Name, req.Name)
	setString(&person.Position, req.Position)
	if req.Email != nil {
		person.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Active != nil {
		person.Active = *req.Active
	}
	if err := s.repo.Update(ctx, person); err != nil {
		return nil, writeFailed(err, "update", "person")
	}
	return person, nil
}

// Delete removes a person.
func (s *PersonService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return writeFailed(err, "delete", "person")
	}
	return nil
}
