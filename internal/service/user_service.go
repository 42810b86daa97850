package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/resource-planner-api/internal/models"
	appErrors "github.com/noah-isme/resource-planner-api/pkg/errors"
)

type userRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Deactivate(ctx context.Context, id string) error
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// CreateUserRequest represents payload for creating accounts.
type CreateUserRequest struct {
	Email    string          `json:"email" validate:"required,email"`
	FullName string          `json:"full_name" validate:"required,max=160"`
	Role     models.UserRole `json:"role" validate:"required,oneof=ADMIN HR MANAGER EMPLOYEE"`
	PersonID *string         `json:"person_id" validate:"omitempty,uuid"`
	Active   bool            `json:"active"`
	Password string          `json:"password" validate:"required,min=8"`
}

// UpdateUserRequest payload for updating accounts. Omitted fields keep their value.
type UpdateUserRequest struct {
	FullName *string          `json:"full_name" validate:"omitempty,max=160"`
	Role     *models.UserRole `json:"role" validate:"omitempty,oneof=ADMIN HR MANAGER EMPLOYEE"`
	PersonID *string          `json:"person_id" validate:"omitempty,uuid"`
	Active   *bool            `json:"active"`
}

// UserService manages application accounts and their link to a person.
type UserService struct {
	repo      userRepository
	people    personReader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserService creates an instance of UserService.
func NewUserService(repo userRepository, people personReader, validate *validator.Validate, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &UserService{repo: repo, people: people, validator: validate, logger: logger}
}

// Get returns a user by ID.
func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, loadFailed(err, "user")
	}
	return user, nil
}

// Create adds a new account. Employees must be linked to a person.
func (s *UserService) Create(ctx context.Context, req CreateUserRequest, actorID string, meta models.LoginRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalid(err, "invalid create user payload")
	}
	if req.Role == models.RoleEmployee && (req.PersonID == nil || *req.PersonID == "") {
		return nil, appErrors.Clone(appErrors.ErrValidation, "employee accounts must be linked to a person")
	}
	if err := s.checkPerson(ctx, req.PersonID); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "email already exists")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Internal(err, "failed to check email uniqueness")
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to hash password")
	}

	user := &models.User{
		Email:        email,
		FullName:     strings.TrimSpace(req.FullName),
		Role:         req.Role,
		PersonID:     req.PersonID,
		Active:       req.Active,
		PasswordHash: string(passwordHash),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, writeFailed(err, "create", "user")
	}

	s.audit(ctx, models.AuditActionCreate, user, actorID, meta)
	return user, nil
}

// Update modifies role, name, person link or active flag.
func (s *UserService) Update(ctx context.Context, id string, req UpdateUserRequest, actorID string, meta models.LoginRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalid(err, "invalid update payload")
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, loadFailed(err, "user")
	}
	if err := s.checkPerson(ctx, req.PersonID); err != nil {
		return nil, err
	}

	if req.FullName != nil {
		user.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.PersonID != nil {
		user.PersonID = req.PersonID
	}
	if req.Active != nil {
		if !*req.Active && user.ID == actorID {
			return nil, appErrors.Clone(appErrors.ErrValidation, "cannot deactivate your own account")
		}
		user.Active = *req.Active
	}
	if user.Role == models.RoleEmployee && (user.PersonID == nil || *user.PersonID == "") {
		return nil, appErrors.Clone(appErrors.ErrValidation, "employee accounts must be linked to a person")
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, writeFailed(err, "update", "user")
	}

	s.audit(ctx, models.AuditActionUpdate, user, actorID, meta)
	return user, nil
}

// Delete deactivates an account; rows are kept for the audit trail.
func (s *UserService) Delete(ctx context.Context, id string, actorID string, meta models.LoginRequest) error {
	if id == actorID {
		return appErrors.Clone(appErrors.ErrValidation, "cannot deactivate your own account")
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return loadFailed(err, "user")
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return writeFailed(err, "deactivate", "user")
	}
	user.Active = false

	s.audit(ctx, models.AuditActionDelete, user, actorID, meta)
	return nil
}

func (s *UserService) checkPerson(ctx context.Context, personID *string) error {
	if personID == nil || *personID == "" {
		return nil
	}
	if _, err := s.people.FindByID(ctx, *personID); err != nil {
		return loadFailed(err, "person")
	}
	return nil
}

func (s *UserService) audit(ctx context.Context, action string, user *models.User, actorID string, meta models.LoginRequest) {
	payload, _ := json.Marshal(map[string]interface{}{"email": user.Email, "role": user.Role, "active": user.Active, "person_id": user.PersonID})
	entry := &models.AuditLog{
		Action:     action,
		Resource:   "users",
		ResourceID: &user.ID,
		NewValues:  payload,
		IPAddress:  meta.IP,
		UserAgent:  meta.UserAgent,
	}
	if actorID != "" {
		entry.UserID = &actorID
	}
	if err := s.repo.CreateAuditLog(ctx, entry); err != nil {
		s.logger.Warn("failed to record user audit log", zap.String("action", action), zap.Error(err))
	}
}
