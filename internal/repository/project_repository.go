package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/resource-planner-api/internal/models"
)

const (
	projectColumns = `id, code, name, client, start_date, end_date, active, created_at, updated_at`
	budgetColumns  = `id, project_id, name, amount, currency, start_date, end_date, created_at, updated_at`
	roleColumns    = `id, name, description, created_at, updated_at`
)

// ProjectRepository provides database access for projects.
type ProjectRepository struct {
	db *sqlx.DB
}

// NewProjectRepository creates a new ProjectRepository.
func NewProjectRepository(db *sqlx.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// FindByID returns a project by identifier.
func (r *ProjectRepository) FindByID(ctx context.Context, id string) (*models.Project, error) {
	var project models.Project
	if err := getOne(ctx, r.db, &project, "find project", `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &project, nil
}

// ExistsByCode reports whether another project already uses code.
func (r *ProjectRepository) ExistsByCode(ctx context.Context, code, excludeID string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM projects WHERE LOWER(code) = LOWER($1) AND id <> $2)`, code, excludeID)
	return exists, err
}

// Create inserts a project.
func (r *ProjectRepository) Create(ctx context.Context, project *models.Project) error {
	if project.ID == "" {
		project.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	project.CreatedAt, project.UpdatedAt = now, now
	const query = `INSERT INTO projects (` + projectColumns + `)
	VALUES (:id, :code, :name, :client, :start_date, :end_date, :active, :created_at, :updated_at)`
	return namedExecOne(ctx, r.db, "create project", query, project)
}

// Update persists every mutable column of project.
func (r *ProjectRepository) Update(ctx context.Context, project *models.Project) error {
	project.UpdatedAt = time.Now().UTC()
	const query = `UPDATE projects SET code = :code, name = :name, client = :client, start_date = :start_date,
	end_date = :end_date, active = :active, updated_at = :updated_at WHERE id = :id`
	return namedExecOne(ctx, r.db, "update project", query, project)
}

// Delete removes a project.
func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	return execOne(ctx, r.db, "delete project", `DELETE FROM projects WHERE id = $1`, id)
}

// BudgetRepository provides database access for project budgets.
type BudgetRepository struct {
	db *sqlx.DB
}

// NewBudgetRepository creates a new BudgetRepository.
func NewBudgetRepository(db *sqlx.DB) *BudgetRepository {
	return &BudgetRepository{db: db}
}

// FindByID returns a budget by identifier.
func (r *BudgetRepository) FindByID(ctx context.Context, id string) (*models.Budget, error) {
	var budget models.Budget
	if err := getOne(ctx, r.db, &budget, "find budget", `SELECT `+budgetColumns+` FROM budgets WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &budget, nil
}

// Create inserts a budget.
func (r *BudgetRepository) Create(ctx context.Context, budget *models.Budget) error {
	if budget.ID == "" {
		budget.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	budget.CreatedAt, budget.UpdatedAt = now, now
	const query = `INSERT INTO budgets (` + budgetColumns + `)
	VALUES (:id, :project_id, :name, :amount, :currency, :start_date, :end_date, :created_at, :updated_at)`
	return namedExecOne(ctx, r.db, "create budget", query, budget)
}

// Update persists every mutable column of budget.
func (r *BudgetRepository) Update(ctx context.Context, budget *models.Budget) error {
	budget.UpdatedAt = time.Now().UTC()
	const query = `UPDATE budgets SET name = :name, amount = :amount, currency = :currency, start_date = :start_date,
	end_date = :end_date, updated_at = :updated_at WHERE id = :id`
	return namedExecOne(ctx, r.db, "update budget", query, budget)
}

// Delete removes a budget.
func (r *BudgetRepository) Delete(ctx context.Context, id string) error {
	return execOne(ctx, r.db, "delete budget", `DELETE FROM budgets WHERE id = $1`, id)
}

// RoleRepository provides database access for the role catalog.
type RoleRepository struct {
	db *sqlx.DB
}

// NewRoleRepository creates a new RoleRepository.
func NewRoleRepository(db *sqlx.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

// FindByID returns a role by identifier.
func (r *RoleRepository) FindByID(ctx context.Context, id string) (*models.Role, error) {
	var role models.Role
	if err := getOne(ctx, r.db, &role, "find role", `SELECT `+roleColumns+` FROM roles WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &role, nil
}

// Create inserts a role.
func (r *RoleRepository) Create(ctx context.Context, role *models.Role) error {
	if role.ID == "" {
		role.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	role.CreatedAt, role.UpdatedAt = now, now
	const query = `INSERT INTO roles (` + roleColumns + `) VALUES (:id, :name, :description, :created_at, :updated_at)`
	return namedExecOne(ctx, r.db, "create role", query, role)
}

// Update persists every mutable column of role.
func (r *RoleRepository) Update(ctx context.Context, role *models.Role) error {
	role.UpdatedAt = time.Now().UTC()
	const query = `UPDATE roles SET name = :name, description = :description, updated_at = :updated_at WHERE id = :id`
	return namedExecOne(ctx, r.db, "update role", query, role)
}

// Delete removes a role.
func (r *RoleRepository) Delete(ctx context.Context, id string) error {
	return execOne(ctx, r.db, "delete role", `DELETE FROM roles WHERE id = $1`, id)
}
