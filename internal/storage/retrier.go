package storage

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	sqlite3 "modernc.org/sqlite/lib"

	"cuentas/internal/log"
)

// Retrier re-runs write operations with exponential backoff while SQLite
// reports the database as busy or locked.
type Retrier struct {
	maxRetries      int
	initialInterval time.Duration
	maxInterval     time.Duration
	maxElapsedTime  time.Duration
	logger          *log.Logger
}

// NewRetrier creates a retrier allowing maxRetries extra attempts.
func NewRetrier(maxRetries int, logger *log.Logger) *Retrier {
	if maxRetries < 0 {
		maxRetries = 0
	}
	if logger == nil {
		logger = log.Discard()
	}
	return &Retrier{
		maxRetries:      maxRetries,
		initialInterval: 25 * time.Millisecond,
		maxInterval:     500 * time.Millisecond,
		maxElapsedTime:  5 * time.Second,
		logger:          logger,
	}
}

// Retry executes operation, retrying only busy/locked errors.
func (r *Retrier) Retry(ctx context.Context, operation func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.initialInterval
	b.MaxInterval = r.maxInterval
	b.MaxElapsedTime = r.maxElapsedTime

	retryCount := 0

	return backoff.Retry(func() error {
		err := operation()
		if err == nil {
			return nil
		}

		if !isRetryableError(err) {
			return backoff.Permanent(err)
		}

		retryCount++
		if retryCount > r.maxRetries {
			return backoff.Permanent(err)
		}

		r.logger.WarnContext(ctx, "database busy, retrying",
			log.FieldError, err,
			log.FieldRetry, retryCount,
		)

		return err
	}, backoff.WithContext(b, ctx))
}

// sqliteCoder is satisfied by *sqlite.Error.
type sqliteCoder interface {
	Code() int
}

func isRetryableError(err error) bool {
	var coded sqliteCoder
	if errors.As(err, &coded) {
		switch coded.Code() & 0xff {
		case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
			return true
		}
	}
	return false
}
