package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"boutique-pos/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx so repositories can run
// inside or outside a sale unit.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// SQLSTATE codes reported as constraint violations
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgNotNullViolation    = "23502"
)

// pgNumericOutOfRange is raised when a value overflows its column type
const pgNumericOutOfRange = "22003"

// IsConstraintViolation checks for Postgres integrity constraint errors
func IsConstraintViolation(err error) bool {
	return isViolation(err, pgUniqueViolation, pgForeignKeyViolation, pgCheckViolation, pgNotNullViolation)
}

func isViolation(err error, codes ...string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	for _, code := range codes {
		if pgErr.Code == code {
			return true
		}
	}
	return false
}

// wrapErr annotates err with the failed action, tagging integrity errors
// with domain.ErrConstraintViolation.
func wrapErr(action string, err error) error {
	if IsConstraintViolation(err) {
		var pgErr *pgconn.PgError
		errors.As(err, &pgErr)
		return fmt.Errorf("failed to %s: %w (%s): %w", action, domain.ErrConstraintViolation, pgErr.ConstraintName, err)
	}
	if isViolation(err, pgNumericOutOfRange) {
		return fmt.Errorf("failed to %s: %w: %w", action, domain.ErrValueOutOfRange, err)
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}

// nullString stores blank strings as NULL
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
