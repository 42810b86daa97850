package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/resource-planner-api/internal/models"
)

const controlWeekColumns = `id, person_id, week, state, closed_at, created_at, updated_at`

// ControlWeekRepository persists weekly time-control periods.
type ControlWeekRepository struct {
	db *sqlx.DB
}

// NewControlWeekRepository creates a new ControlWeekRepository.
func NewControlWeekRepository(db *sqlx.DB) *ControlWeekRepository {
	return &ControlWeekRepository{db: db}
}

// FindByID returns a control week by identifier.
func (r *ControlWeekRepository) FindByID(ctx context.Context, id string) (*models.ControlWeek, error) {
	var week models.ControlWeek
	if err := getOne(ctx, r.db, &week, "find control week", `SELECT `+controlWeekColumns+` FROM control_weeks WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &week, nil
}

// FindByPersonWeek returns the control week of person for week.
func (r *ControlWeekRepository) FindByPersonWeek(ctx context.Context, personID string, week models.Date) (*models.ControlWeek, error) {
	var cw models.ControlWeek
	const query = `SELECT ` + controlWeekColumns + ` FROM control_weeks WHERE person_id = $1 AND week = $2`
	if err := getOne(ctx, r.db, &cw, "find control week by person", query, personID, week); err != nil {
		return nil, err
	}
	return &cw, nil
}

// FindOpenByPerson returns the earliest open control week of a person.
func (r *ControlWeekRepository) FindOpenByPerson(ctx context.Context, personID string) (*models.ControlWeek, error) {
	var cw models.ControlWeek
	const query = `SELECT ` + controlWeekColumns + ` FROM control_weeks WHERE person_id = $1 AND state = $2 ORDER BY week ASC LIMIT 1`
	if err := getOne(ctx, r.db, &cw, "find open control week", query, personID, models.ControlWeekOpen); err != nil {
		return nil, err
	}
	return &cw, nil
}

// Open creates an open control week, or returns the existing one for (person, week).
func (r *ControlWeekRepository) Open(ctx context.Context, personID string, week models.Date) (*models.ControlWeek, error) {
	now := time.Now().UTC()
	cw := models.ControlWeek{
		ID:        uuid.NewString(),
		PersonID:  personID,
		Week:      week,
		State:     models.ControlWeekOpen,
		CreatedAt: now,
		UpdatedAt: now,
	}
	const insert = `INSERT INTO control_weeks (` + controlWeekColumns + `)
	VALUES (:id, :person_id, :week, :state, :closed_at, :created_at, :updated_at)
	ON CONFLICT (person_id, week) DO NOTHING`
	if _, err := r.db.NamedExecContext(ctx, insert, cw); err != nil {
		return nil, fmt.Errorf("open control week: %w", err)
	}
	return r.FindByPersonWeek(ctx, personID, week)
}

// Close marks an open control week closed and withdraws its outstanding early-close
// request in the same transaction.
func (r *ControlWeekRepository) Close(ctx context.Context, id string) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin close control week: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = closeControlWeek(ctx, tx, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM early_close_requests WHERE week_control = $1`, id); err != nil {
		return fmt.Errorf("withdraw early close request: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit close control week: %w", err)
	}
	return nil
}

func closeControlWeek(ctx context.Context, e sqlx.ExecerContext, id string) error {
	now := time.Now().UTC()
	const query = `UPDATE control_weeks SET state = $2, closed_at = $3, updated_at = $3 WHERE id = $1 AND state = $4`
	return execOne(ctx, e, "close control week", query, id, models.ControlWeekClosed, now, models.ControlWeekOpen)
}
