package db

import (
	"errors"
	"fmt"
	"hash/fnv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrLockTimeout is returned when an advisory lock could not be acquired
// within the transaction's lock_timeout. Callers should treat it as
// retryable.
var ErrLockTimeout = errors.New("advisory lock wait timed out")

// AdvisoryXactLock takes an exclusive transaction-scoped advisory lock
// keyed by namespace and id. The lock is released automatically when the
// enclosing transaction commits or rolls back. lockTimeoutMillis bounds
// the wait; <= 0 waits indefinitely.
func AdvisoryXactLock(tx *gorm.DB, namespace string, id uuid.UUID, lockTimeoutMillis int) error {
	if tx == nil || namespace == "" || id == uuid.Nil {
		return nil
	}
	if lockTimeoutMillis > 0 {
		// SET LOCAL scopes the timeout to this transaction only.
		if err := tx.Exec(fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", lockTimeoutMillis)).Error; err != nil {
			return err
		}
	}
	key := AdvisoryKey64(namespace, id)
	if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", key).Error; err != nil {
		if isLockNotAvailable(err) {
			return ErrLockTimeout
		}
		return err
	}
	return nil
}

// AdvisoryKey64 derives a stable 64-bit lock key from a namespace and uuid.
func AdvisoryKey64(namespace string, id uuid.UUID) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(namespace))
	_, _ = h.Write([]byte{':'})
	_, _ = h.Write([]byte(id.String()))
	return int64(h.Sum64())
}

// 55P03 is lock_not_available, raised when lock_timeout expires.
func isLockNotAvailable(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "55P03"
	}
	return false
}

// IsUniqueViolation reports whether err is a Postgres unique constraint
// violation, optionally on a specific constraint.
func IsUniqueViolation(err error, constraint string) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" {
			if constraint == "" {
				return true
			}
			return pgErr.ConstraintName == constraint
		}
	}
	return false
}
