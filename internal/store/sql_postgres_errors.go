package store

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// postgresError returns the SQLSTATE code of err, or "" when err does not
// come from the server.
func postgresError(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}

	return ""
}

// constraintName returns the name of the violated constraint, if any.
func constraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}

	return ""
}

// isUniqueViolation reports whether err is a unique_violation (23505).
func isUniqueViolation(err error) bool {
	return postgresError(err) == pgerrcode.UniqueViolation
}

// isForeignKeyViolation reports whether err is a foreign_key_violation (23503).
func isForeignKeyViolation(err error) bool {
	return postgresError(err) == pgerrcode.ForeignKeyViolation
}
