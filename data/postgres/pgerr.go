package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	SQLStateUniqueViolation      = "23505"
	SQLStateSerializationFailure = "40001"
	SQLStateDeadlockDetected     = "40P01"
)

func sqlState(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func IsUniqueViolation(err error) bool {
	return sqlState(err) == SQLStateUniqueViolation
}

// IsRetryable reports errors after which the whole transaction can be run
// again.
func IsRetryable(err error) bool {
	switch sqlState(err) {
	case SQLStateSerializationFailure, SQLStateDeadlockDetected:
		return true
	}
	return false
}
