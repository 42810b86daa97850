package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/resource-planner-api/internal/models"
)

// PlanningRepository aggregates assignments for the planning view.
type PlanningRepository struct {
	db *sqlx.DB
}

// NewPlanningRepository creates a new PlanningRepository.
func NewPlanningRepository(db *sqlx.DB) *PlanningRepository {
	return &PlanningRepository{db: db}
}

// WeeklyHours returns the total assigned hours per active person and week in range.
func (r *PlanningRepository) WeeklyHours(ctx context.Context, filter models.HeatmapFilter) ([]models.HeatmapCell, error) {
	query := `SELECT p.id AS person_id, p.name AS person_name, a.week, SUM(a.hours) AS hours
	FROM assignments a
	JOIN persons p ON p.id = a.person_id
	WHERE p.active AND a.week BETWEEN $1 AND $2`
	args := []interface{}{filter.From, filter.To}
	if filter.PersonID != "" {
		args = append(args, filter.PersonID)
		query += fmt.Sprintf(" AND p.id = $%d", len(args))
	}
	query += ` GROUP BY p.id, p.name, a.week ORDER BY p.name, a.week`

	var cells []models.HeatmapCell
	if err := r.db.SelectContext(ctx, &cells, query, args...); err != nil {
		return nil, fmt.Errorf("weekly hours: %w", err)
	}
	return cells, nil
}
