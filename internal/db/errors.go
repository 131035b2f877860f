package db

import (
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	DuplicateEntry = 1062
	LockDeadlock   = 1213

	pgUniqueViolation      = "23505"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

// IsDuplicateEntry reports a unique index violation from either supported driver.
func IsDuplicateEntry(err error) bool {
	var mysqlError *mysql.MySQLError
	if errors.As(err, &mysqlError) {
		return mysqlError.Number == DuplicateEntry
	}

	var pgError *pgconn.PgError
	if errors.As(err, &pgError) {
		return pgError.Code == pgUniqueViolation
	}

	return false
}

// IsRetryable reports errors after which the whole transaction may simply be run again.
func IsRetryable(err error) bool {
	var mysqlError *mysql.MySQLError
	if errors.As(err, &mysqlError) {
		return mysqlError.Number == LockDeadlock
	}

	var pgError *pgconn.PgError
	if errors.As(err, &pgError) {
		return pgError.Code == pgSerializationFailure || pgError.Code == pgDeadlockDetected
	}

	return false
}
