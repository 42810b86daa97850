package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/resource-planner-api/internal/models"
)

const assignmentRequestColumns = `id, person_id, project_id, role_id, week, hours, status, requested_by, reviewer, observations, created_at, updated_at`

// AssignmentRequestRepository persists assignment-change requests.
type AssignmentRequestRepository struct {
	db *sqlx.DB
}

// NewAssignmentRequestRepository creates a new AssignmentRequestRepository.
func NewAssignmentRequestRepository(db *sqlx.DB) *AssignmentRequestRepository {
	return &AssignmentRequestRepository{db: db}
}

// FindByID returns a request by identifier.
func (r *AssignmentRequestRepository) FindByID(ctx context.Context, id string) (*models.AssignmentRequest, error) {
	var req models.AssignmentRequest
	if err := getOne(ctx, r.db, &req, "find assignment request", `SELECT `+assignmentRequestColumns+` FROM assignment_requests WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &req, nil
}

// Create inserts a pending request.
func (r *AssignmentRequestRepository) Create(ctx context.Context, req *models.AssignmentRequest) error {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if req.Status == "" {
		req.Status = models.RequestStatusPending
	}
	now := time.Now().UTC()
	req.CreatedAt, req.UpdatedAt = now, now
	const query = `INSERT INTO assignment_requests (` + assignmentRequestColumns + `)
	VALUES (:id, :person_id, :project_id, :role_id, :week, :hours, :status, :requested_by, :reviewer, :observations, :created_at, :updated_at)`
	return namedExecOne(ctx, r.db, "create assignment request", query, req)
}

// Delete removes a request.
func (r *AssignmentRequestRepository) Delete(ctx context.Context, id string) error {
	return execOne(ctx, r.db, "delete assignment request", `DELETE FROM assignment_requests WHERE id = $1`, id)
}

// Reject records a rejection of a pending request.
func (r *AssignmentRequestRepository) Reject(ctx context.Context, id, reviewer, observations string) error {
	const query = `UPDATE assignment_requests SET status = $2, reviewer = $3, observations = $4, updated_at = $5
	WHERE id = $1 AND status = $6`
	return execOne(ctx, r.db, "reject assignment request", query,
		id, models.RequestStatusRejected, reviewer, observations, time.Now().UTC(), models.RequestStatusPending)
}

// Approve applies the requested hours and marks the request approved atomically.
func (r *AssignmentRequestRepository) Approve(ctx context.Context, req *models.AssignmentRequest, reviewer string) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin approve assignment request: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const mark = `UPDATE assignment_requests SET status = $2, reviewer = $3, observations = NULL, updated_at = $4
	WHERE id = $1 AND status = $5`
	if err = execOne(ctx, tx, "approve assignment request", mark,
		req.ID, models.RequestStatusApproved, reviewer, time.Now().UTC(), models.RequestStatusPending); err != nil {
		return err
	}
	if err = upsertAssignmentTx(ctx, tx, &models.Assignment{
		PersonID:  req.PersonID,
		ProjectID: req.ProjectID,
		RoleID:    req.RoleID,
		Week:      req.Week,
		Hours:     req.Hours,
	}); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit approve assignment request: %w", err)
	}
	return nil
}

// deletePendingAssignmentRequestsTx removes every pending request of a person for a week.
func deletePendingAssignmentRequestsTx(ctx context.Context, tx *sqlx.Tx, personID string, week models.Date) (int64, error) {
	const query = `DELETE FROM assignment_requests WHERE person_id = $1 AND week = $2 AND status = $3`
	result, err := tx.ExecContext(ctx, query, personID, week, models.RequestStatusPending)
	if err != nil {
		return 0, fmt.Errorf("delete pending assignment requests: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete pending assignment requests rows: %w", err)
	}
	return n, nil
}

// CountPending returns the pending requests of a person for a week.
func (r *AssignmentRequestRepository) CountPending(ctx context.Context, personID string, week models.Date) (int, error) {
	var n int
	const query = `SELECT COUNT(*) FROM assignment_requests WHERE person_id = $1 AND week = $2 AND status = $3`
	if err := r.db.GetContext(ctx, &n, query, personID, week, models.RequestStatusPending); err != nil {
		return 0, fmt.Errorf("count pending assignment requests: %w", err)
	}
	return n, nil
}
