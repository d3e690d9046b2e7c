package database

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes the repositories care about.
const (
	CodeExclusionViolation   = "23P01"
	CodeSerializationFailure = "40001"
	CodeDeadlockDetected     = "40P01"
	CodeLockNotAvailable     = "55P03"
)

// HasCode reports whether err wraps a Postgres error with the given SQLSTATE.
func HasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

// IsRetryable reports transaction failures the caller may retry from the
// transaction boundary.
func IsRetryable(err error) bool {
	return HasCode(err, CodeSerializationFailure) ||
		HasCode(err, CodeDeadlockDetected) ||
		HasCode(err, CodeLockNotAvailable)
}
