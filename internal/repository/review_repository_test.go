package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/resource-planner-api/internal/models"
)

var reviewCols = []string{"id", "data_type", "data_reference", "status", "comments", "reviewer", "created_at", "updated_at"}

func TestReviewRepositoryFindByTypeAndData(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewReviewRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM reviews WHERE data_type = $1 AND data_reference = $2")).
		WithArgs(models.ReviewTypeResidence, "res-1").
		WillReturnRows(sqlmock.NewRows(reviewCols).AddRow("rv-1", "residence", "res-1", "rejected", "falta firma", "hr-1", now, now))

	review, err := repo.FindByTypeAndData(context.Background(), models.ReviewTypeResidence, "res-1")
	require.NoError(t, err)
	assert.Equal(t, models.ReviewStatusRejected, review.Status)
	require.NotNil(t, review.Comments)
	assert.Equal(t, "falta firma", *review.Comments)
}

func TestReviewRepositoryFindMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewReviewRepository(db)

	mock.ExpectQuery("FROM reviews").WillReturnRows(sqlmock.NewRows(reviewCols))
	_, err := repo.FindByTypeAndData(context.Background(), models.ReviewTypeDocument, "doc-1")
	require.ErrorIs(t, err, sql.ErrNoRows)
}

func TestReviewRepositoryCreateSaveDelete(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewReviewRepository(db)

	mock.ExpectExec("INSERT INTO reviews").WillReturnResult(sqlmock.NewResult(1, 1))
	review := &models.Review{DataType: models.ReviewTypeCertification, DataReference: "c-1"}
	require.NoError(t, repo.Create(context.Background(), review))
	assert.Equal(t, models.ReviewStatusPending, review.Status)
	assert.NotEmpty(t, review.ID)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE reviews SET status = ?, comments = ?, reviewer = ?, updated_at = ? WHERE id = ?")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	review.Approve("hr-1")
	require.NoError(t, repo.Save(context.Background(), review))

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM reviews WHERE id = $1")).WithArgs(review.ID).WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Delete(context.Background(), review.ID))
	assert.NoError(t, mock.ExpectationsWereMet())
}
