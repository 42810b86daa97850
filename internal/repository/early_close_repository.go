package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/resource-planner-api/internal/models"
)

const earlyCloseColumns = `id, week_control, message, requested_by, created_at`

// EarlyCloseRepository persists early-close requests.
type EarlyCloseRepository struct {
	db *sqlx.DB
}

// NewEarlyCloseRepository creates a new EarlyCloseRepository.
func NewEarlyCloseRepository(db *sqlx.DB) *EarlyCloseRepository {
	return &EarlyCloseRepository{db: db}
}

// FindByID returns a request by identifier.
func (r *EarlyCloseRepository) FindByID(ctx context.Context, id string) (*models.EarlyCloseRequest, error) {
	var req models.EarlyCloseRequest
	if err := getOne(ctx, r.db, &req, "find early close request", `SELECT `+earlyCloseColumns+` FROM early_close_requests WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &req, nil
}

// IsTaken reports whether an outstanding request exists for the control week.
func (r *EarlyCloseRepository) IsTaken(ctx context.Context, weekControl string) (bool, error) {
	var taken bool
	if err := r.db.GetContext(ctx, &taken, `SELECT EXISTS(SELECT 1 FROM early_close_requests WHERE week_control = $1)`, weekControl); err != nil {
		return false, fmt.Errorf("check early close request: %w", err)
	}
	return taken, nil
}

// Create inserts a request.
func (r *EarlyCloseRepository) Create(ctx context.Context, req *models.EarlyCloseRequest) error {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	req.CreatedAt = time.Now().UTC()
	const query = `INSERT INTO early_close_requests (` + earlyCloseColumns + `)
	VALUES (:id, :week_control, :message, :requested_by, :created_at)`
	return namedExecOne(ctx, r.db, "create early close request", query, req)
}

// Delete removes a request.
func (r *EarlyCloseRepository) Delete(ctx context.Context, id string) error {
	return execOne(ctx, r.db, "delete early close request", `DELETE FROM early_close_requests WHERE id = $1`, id)
}

// CloseWeek deletes the person's pending assignment requests for the week and closes
// the control week in one transaction. It returns the number of requests removed.
func (r *EarlyCloseRepository) CloseWeek(ctx context.Context, week *models.ControlWeek) (deleted int64, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin early close: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	deleted, err = deletePendingAssignmentRequestsTx(ctx, tx, week.PersonID, week.Week)
	if err != nil {
		return 0, err
	}
	if err = closeControlWeek(ctx, tx, week.ID); err != nil {
		return 0, err
	}
	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit early close: %w", err)
	}
	return deleted, nil
}
