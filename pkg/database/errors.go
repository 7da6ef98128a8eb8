package database

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL SQLSTATE codes
const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
)

// IsSerializationFailure reports whether err aborted a transaction that
// can be retried as a whole
func IsSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == codeSerializationFailure || pgErr.Code == codeDeadlockDetected
}
