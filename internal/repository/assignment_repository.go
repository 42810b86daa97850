package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/resource-planner-api/internal/models"
)

const assignmentColumns = `id, person_id, project_id, role_id, week, hours, created_at, updated_at`

// AssignmentRepository provides database access for weekly hour assignments.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository creates a new AssignmentRepository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// FindByID returns an assignment by identifier.
func (r *AssignmentRepository) FindByID(ctx context.Context, id string) (*models.Assignment, error) {
	var assignment models.Assignment
	if err := getOne(ctx, r.db, &assignment, "find assignment", `SELECT `+assignmentColumns+` FROM assignments WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &assignment, nil
}

// Create inserts an assignment.
func (r *AssignmentRepository) Create(ctx context.Context, assignment *models.Assignment) error {
	if assignment.ID == "" {
		assignment.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	assignment.CreatedAt, assignment.UpdatedAt = now, now
	const query = `INSERT INTO assignments (` + assignmentColumns + `)
	VALUES (:id, :person_id, :project_id, :role_id, :week, :hours, :created_at, :updated_at)`
	return namedExecOne(ctx, r.db, "create assignment", query, assignment)
}

// Update persists role and hours of an assignment.
func (r *AssignmentRepository) Update(ctx context.Context, assignment *models.Assignment) error {
	assignment.UpdatedAt = time.Now().UTC()
	const query = `UPDATE assignments SET role_id = :role_id, hours = :hours, updated_at = :updated_at WHERE id = :id`
	return namedExecOne(ctx, r.db, "update assignment", query, assignment)
}

// Delete removes an assignment.
func (r *AssignmentRepository) Delete(ctx context.Context, id string) error {
	return execOne(ctx, r.db, "delete assignment", `DELETE FROM assignments WHERE id = $1`, id)
}

// upsertAssignmentTx sets the hours of (person, project, role, week), removing the row when hours is zero.
func upsertAssignmentTx(ctx context.Context, tx *sqlx.Tx, a *models.Assignment) error {
	if a.Hours == 0 {
		const del = `DELETE FROM assignments WHERE person_id = $1 AND project_id = $2 AND role_id = $3 AND week = $4`
		if _, err := tx.ExecContext(ctx, del, a.PersonID, a.ProjectID, a.RoleID, a.Week); err != nil {
			return fmt.Errorf("clear assignment: %w", err)
		}
		return nil
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	a.CreatedAt, a.UpdatedAt = now, now
	const query = `INSERT INTO assignments (` + assignmentColumns + `)
	VALUES (:id, :person_id, :project_id, :role_id, :week, :hours, :created_at, :updated_at)
	ON CONFLICT (person_id, project_id, role_id, week) DO UPDATE SET hours = EXCLUDED.hours, updated_at = EXCLUDED.updated_at`
	if _, err := tx.NamedExecContext(ctx, query, a); err != nil {
		return fmt.Errorf("upsert assignment: %w", err)
	}
	return nil
}
