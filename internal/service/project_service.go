package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/resource-planner-api/internal/dto"
	"github.com/noah-isme/resource-planner-api/internal/models"
	appErrors "github.com/noah-isme/resource-planner-api/pkg/errors"
)

type projectRepository interface {
	FindByID(ctx context.Context, id string) (*models.Project, error)
	ExistsByCode(ctx context.Context, code, excludeID string) (bool, error)
	Create(ctx context.Context, project *models.Project) error
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, id string) error
}

type budgetRepository interface {
	FindByID(ctx context.Context, id string) (*models.Budget, error)
	Create(ctx context.Context, budget *models.Budget) error
	Update(ctx context.Context, budget *models.Budget) error
	Delete(ctx context.Context, id string) error
}

type roleRepository interface {
	FindByID(ctx context.Context, id string) (*models.Role, error)
	Create(ctx context.Context, role *models.Role) error
	Update(ctx context.Context, role *models.Role) error
	Delete(ctx context.Context, id string) error
}

// ProjectService handles projects, their budgets and the role catalog.
type ProjectService struct {
	projects  projectRepository
	budgets   budgetRepository
	roles     roleRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewProjectService creates a new project service.
func NewProjectService(projects projectRepository, budgets budgetRepository, roles roleRepository, validate *validator.Validate, logger *zap.Logger) *ProjectService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProjectService{projects: projects, budgets: budgets, roles: roles, validator: validate, logger: logger}
}

// GetProject returns a project by identifier.
func (s *ProjectService) GetProject(ctx context.Context, id string) (*models.Project, error) {
	project, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return nil, loadFailed(err, "project")
	}
	return project, nil
}

func (s *ProjectService) ensureUniqueCode(ctx context.Context, code, excludeID string) error {
	exists, err := s.projects.ExistsByCode(ctx, code, excludeID)
	if err != nil {
		return appErrors.Internal(err, "failed to check project code")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrConflict, "project code already exists")
	}
	return nil
}

// CreateProject adds a project ensuring code uniqueness.
func (s *ProjectService) CreateProject(ctx context.Context, req dto.CreateProjectRequest) (*models.Project, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalid(err, "invalid project payload")
	}
	if !validRange(*req.StartDate, req.EndDate) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end_date must not precede start_date")
	}
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if err := s.ensureUniqueCode(ctx, code, ""); err != nil {
		return nil, err
	}
	project := &models.Project{
		Code:      code,
		Name:      strings.TrimSpace(req.Name),
		Client:    strings.TrimSpace(req.Client),
		StartDate: *req.StartDate,
		EndDate:   req.EndDate,
		Active:    true,
	}
	if req.Active != nil {
		project.Active = *req.Active
	}
	if err := s.projects.Create(ctx, project); err != nil {
		return nil, writeFailed(err, "create", "project")
	}
	return project, nil
}

// UpdateProject applies a partial update.
func (s *ProjectService) UpdateProject(ctx context.Context, id string, req dto.UpdateProjectRequest) (*models.Project, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalid(err, "invalid project payload")
	}
	project, err := s.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Code != nil {
		code := strings.ToUpper(strings.TrimSpace(*req.Code))
		if code != project.Code {
			if err := s.ensureUniqueCode(ctx, code, id); err != nil {
				return nil, err
			}
		}
		project.Code = code
	}
	setString(&project.Name, req.Name)
	setString(&project.Client, req.Client)
	if req.StartDate != nil {
		project.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		project.EndDate = req.EndDate
	}
	if req.Active != nil {
		project.Active = *req.Active
	}
	if !validRange(project.StartDate, project.EndDate) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end_date must not precede start_date")
	}
	if err := s.projects.Update(ctx, project); err != nil {
		return nil, writeFailed(err, "update", "project")
	}
	return project, nil
}

// DeleteProject removes a project.
func (s *ProjectService) DeleteProject(ctx context.Context, id string) error {
	if err := s.projects.Delete(ctx, id); err != nil {
		return writeFailed(err, "delete", "project")
	}
	return nil
}

// GetBudget returns a budget line.
func (s *ProjectService) GetBudget(ctx context.Context, id string) (*models.Budget, error) {
	budget, err := s.budgets.FindByID(ctx, id)
	if err != nil {
		return nil, loadFailed(err, "budget")
	}
	return budget, nil
}

// CreateBudget adds a budget line to an existing project.
func (s *ProjectService) CreateBudget(ctx context.Context, req dto.CreateBudgetRequest) (*models.Budget, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalid(err, "invalid budget payload")
	}
	if !validRange(*req.StartDate, req.EndDate) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end_date must not precede start_date")
	}
	if _, err := s.GetProject(ctx, req.ProjectID); err != nil {
		return nil, err
	}
	budget := &models.Budget{
		ProjectID: req.ProjectID,
		Name:      strings.TrimSpace(req.Name),
		Amount:    req.Amount,
		Currency:  strings.ToUpper(req.Currency),
		StartDate: *req.StartDate,
		EndDate:   req.EndDate,
	}
	if err := s.budgets.Create(ctx, budget); err != nil {
		return nil, writeFailed(err, "create", "budget")
	}
	return budget, nil
}

// UpdateBudget applies a partial update.
func (s *ProjectService) UpdateBudget(ctx context.Context, id string, req dto.UpdateBudgetRequest) (*models.Budget, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalid(err, "invalid budget payload")
	}
	budget, err := s.GetBudget(ctx, id)
	if err != nil {
		return nil, err
	}
	setString(&budget.Name, req.Name)
	if req.Currency != nil {
		budget.Currency = strings.ToUpper(*req.Currency)
	}
	if req.Amount != nil {
		budget.Amount = *req.Amount
	}
	if req.StartDate != nil {
		budget.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		budget.EndDate = req.EndDate
	}
	if !validRange(budget.StartDate, budget.EndDate) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end_date must not precede start_date")
	}
	if err := s.budgets.Update(ctx, budget); err != nil {
		return nil, writeFailed(err, "update", "budget")
	}
	return budget, nil
}

// DeleteBudget removes a budget line.
func (s *ProjectService) DeleteBudget(ctx context.Context, id string) error {
	if err := s.budgets.Delete(ctx, id); err != nil {
		return writeFailed(err, "delete", "budget")
	}
	return nil
}

// GetRole returns a catalog role.
func (s *ProjectService) GetRole(ctx context.Context, id string) (*models.Role, error) {
	role, err := s.roles.FindByID(ctx, id)
	if err != nil {
		return nil, loadFailed(err, "role")
	}
	return role, nil
}

// CreateRole adds a catalog role.
func (s *ProjectService) CreateRole(ctx context.Context, req dto.CreateRoleRequest) (*models.Role, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalid(err, "invalid role payload")
	}
	role := &models.Role{Name: strings.TrimSpace(req.Name), Description: strings.TrimSpace(req.Description)}
	if err := s.roles.Create(ctx, role); err != nil {
		return nil, writeFailed(err, "create", "role")
	}
	return role, nil
}

// UpdateRole applies a partial update.
func (s *ProjectService) UpdateRole(ctx context.Context, id string, req dto.UpdateRoleRequest) (*models.Role, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalid(err, "invalid role payload")
	}
	role, err := s.GetRole(ctx, id)
	if err != nil {
		return nil, err
	}
	setString(&role.Name, req.Name)
	setString(&role.Description, req.Description)
	if err := s.roles.Update(ctx, role); err != nil {
		return nil, writeFailed(err, "update", "role")
	}
	return role, nil
}

// DeleteRole removes a catalog role.
func (s *ProjectService) DeleteRole(ctx context.Context, id string) error {
	if err := s.roles.Delete(ctx, id); err != nil {
		return writeFailed(err, "delete", "role")
	}
	return nil
}
