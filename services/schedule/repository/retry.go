package repository

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// RetryPolicy wraps write transactions that can hit SQLite lock contention
// ("database is locked" / "database is busy"). Reads go straight through;
// the driver's busy timeout covers them.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     func(attempt int) time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		Backoff: func(attempt int) time.Duration {
			return time.Duration(attempt) * 500 * time.Millisecond
		},
	}
}

func isLockError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "locked") || strings.Contains(msg, "busy")
}

// Transact runs fn inside a transaction, retrying on lock contention up to
// MaxAttempts. Non-lock errors surface immediately.
func (p RetryPolicy) Transact(db *gorm.DB, fn func(tx *gorm.DB) error) error {
	var err error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		err = db.Transaction(fn)
		if err == nil || !isLockError(err) {
			return err
		}
		if attempt < p.MaxAttempts {
			time.Sleep(p.Backoff(attempt))
		}
	}
	return err
}
