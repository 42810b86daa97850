package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// getOne loads a single row into dest, passing sql.ErrNoRows through unwrapped.
func getOne(ctx context.Context, q sqlx.QueryerContext, dest interface{}, op, query string, args ...interface{}) error {
	if err := sqlx.GetContext(ctx, q, dest, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sql.ErrNoRows
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// namedExecOne runs a named statement that must touch exactly one row.
func namedExecOne(ctx context.Context, e sqlx.ExtContext, op, query string, arg interface{}) error {
	result, err := sqlx.NamedExecContext(ctx, e, query, arg)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return requireAffected(result, op)
}

// execOne runs a positional statement that must touch exactly one row.
func execOne(ctx context.Context, e sqlx.ExecerContext, op, query string, args ...interface{}) error {
	result, err := e.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return requireAffected(result, op)
}

func requireAffected(result sql.Result, op string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows: %w", op, err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
