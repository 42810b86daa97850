package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/resource-planner-api/internal/models"
)

const reviewColumns = `id, data_type, data_reference, status, comments, reviewer, created_at, updated_at`

// ReviewRepository persists review records.
type ReviewRepository struct {
	db *sqlx.DB
}

// NewReviewRepository creates a new ReviewRepository.
func NewReviewRepository(db *sqlx.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// FindByTypeAndData returns the review of (dataType, reference).
func (r *ReviewRepository) FindByTypeAndData(ctx context.Context, dataType models.ReviewType, reference string) (*models.Review, error) {
	var review models.Review
	const query = `SELECT ` + reviewColumns + ` FROM reviews WHERE data_type = $1 AND data_reference = $2 LIMIT 1`
	if err := getOne(ctx, r.db, &review, "find review", query, dataType, reference); err != nil {
		return nil, err
	}
	return &review, nil
}

// Create inserts a pending review.
func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) error {
	if review.ID == "" {
		review.ID = uuid.NewString()
	}
	if review.Status == "" {
		review.Status = models.ReviewStatusPending
	}
	now := time.Now().UTC()
	review.CreatedAt, review.UpdatedAt = now, now
	const query = `INSERT INTO reviews (` + reviewColumns + `)
	VALUES (:id, :data_type, :data_reference, :status, :comments, :reviewer, :created_at, :updated_at)`
	return namedExecOne(ctx, r.db, "create review", query, review)
}

// Save persists the decision columns of review.
func (r *ReviewRepository) Save(ctx context.Context, review *models.Review) error {
	review.UpdatedAt = time.Now().UTC()
	const query = `UPDATE reviews SET status = :status, comments = :comments, reviewer = :reviewer, updated_at = :updated_at WHERE id = :id`
	return namedExecOne(ctx, r.db, "save review", query, review)
}

// Delete removes a review.
func (r *ReviewRepository) Delete(ctx context.Context, id string) error {
	return execOne(ctx, r.db, "delete review", `DELETE FROM reviews WHERE id = $1`, id)
}
