package dberrors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn" // Import pgconn for PgError
)

// PostgreSQL SQLSTATE codes the application reacts to.
const (
	CodeUniqueViolation     = "23505"
	CodeForeignKeyViolation = "23503"
	CodeNotNullViolation    = "23502"
	CodeCheckViolation      = "23514"
	CodeInvalidTextRepr     = "22P02"
	CodeStringTooLong       = "22001"
)

// AsPgError returns the underlying *pgconn.PgError, if any.
func AsPgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr, true
	}
	return nil, false
}

// IsDuplicateConstraintError checks if the error is a PostgreSQL unique violation error
// for a specific constraint.
func IsDuplicateConstraintError(err error, constraintName string) bool {
	pgErr, ok := AsPgError(err)
	return ok && pgErr.Code == CodeUniqueViolation && pgErr.ConstraintName == constraintName
}

// IsUniqueViolation reports whether err is any unique_violation.
func IsUniqueViolation(err error) bool {
	pgErr, ok := AsPgError(err)
	return ok && pgErr.Code == CodeUniqueViolation
}

// IsForeignKeyViolation reports whether err is a foreign_key_violation, optionally
// restricted to one constraint (empty name matches any).
func IsForeignKeyViolation(err error, constraintName string) bool {
	pgErr, ok := AsPgError(err)
	if !ok || pgErr.Code != CodeForeignKeyViolation {
		return false
	}
	return constraintName == "" || pgErr.ConstraintName == constraintName
}

// IsInputViolation reports whether err was raised by the store rejecting the
// shape of the data (constraints or malformed values) rather than by a failure
// of the store itself.
func IsInputViolation(err error) bool {
	pgErr, ok := AsPgError(err)
	if !ok {
		return false
	}
	switch pgErr.Code {
	case CodeUniqueViolation, CodeNotNullViolation, CodeCheckViolation, CodeInvalidTextRepr, CodeStringTooLong:
		return true
	}
	return false
}
