package service

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/noah-isme/resource-planner-api/internal/models"
	appErrors "github.com/noah-isme/resource-planner-api/pkg/errors"
)

func invalid(err error, message string) error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
}

// loadFailed maps a repository read error for entity.
func loadFailed(err error, entity string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, entity+" not found")
	}
	return appErrors.Internal(err, "failed to load "+entity)
}

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

func pqCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

// writeFailed maps a repository write error. A vanished row is reported as not found
// and constraint violations as conflicts.
func writeFailed(err error, action, entity string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, entity+" not found")
	}
	switch pqCode(err) {
	case pqUniqueViolation:
		return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, entity+" already exists")
	case pqForeignKeyViolation:
		return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, entity+" is referenced by other records")
	}
	return appErrors.Internal(err, "failed to "+action+" "+entity)
}

func validRange(start models.Date, end *models.Date) bool {
	return end == nil || end.IsZero() || !end.Before(start.Time)
}

// actFor checks that actor may manage data belonging to personID. Employees only
// manage their own records.
func actFor(actor *models.JWTClaims, personID string) error {
	if actor == nil {
		return appErrors.ErrUnauthorized
	}
	if actor.Role == models.RoleEmployee && actor.PersonID != personID {
		return appErrors.Clone(appErrors.ErrForbidden, "cannot manage another person's data")
	}
	return nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
