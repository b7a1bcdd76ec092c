package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// IsPgDuplicateError checks if err is a unique constraint violation
func IsPgDuplicateError(err error) bool {
	return pgCode(err) == pgUniqueViolation
}

// IsPgForeignKeyError checks if err is a foreign key violation
func IsPgForeignKeyError(err error) bool {
	return pgCode(err) == pgForeignKeyViolation
}

// IsPgNoRowsError checks if err is a "no rows" error
func IsPgNoRowsError(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// ConstraintName returns the violated constraint, "" if err is not a PgError
func ConstraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
