package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/resource-planner-api/internal/models"
)

func TestControlWeekRepositoryCloseWithdrawsEarlyClose(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewControlWeekRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE control_weeks SET state = $2")).
		WithArgs("cw-1", models.ControlWeekClosed, sqlmock.AnyArg(), models.ControlWeekOpen).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM early_close_requests WHERE week_control = $1")).
		WithArgs("cw-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Close(context.Background(), "cw-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestControlWeekRepositoryCloseAlreadyClosed(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewControlWeekRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE control_weeks").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Close(context.Background(), "cw-1")
	require.True(t, errors.Is(err, sql.ErrNoRows))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestControlWeekRepositoryCloseRollsBackOnWithdrawFailure(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewControlWeekRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE control_weeks").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM early_close_requests").WillReturnError(errors.New("lock timeout"))
	mock.ExpectRollback()

	require.Error(t, repo.Close(context.Background(), "cw-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
