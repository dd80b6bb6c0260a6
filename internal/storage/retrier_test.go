package storage

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

// busyError mimics *sqlite.Error carrying SQLITE_BUSY.
type busyError struct{}

func (busyError) Error() string { return "database is locked (5)" }
func (busyError) Code() int     { return 5 }

func fastRetrier(maxRetries int) *Retrier {
	r := NewRetrier(maxRetries, nil)
	r.initialInterval = 1 * time.Millisecond
	r.maxInterval = 2 * time.Millisecond
	r.maxElapsedTime = 100 * time.Millisecond
	return r
}

func TestRetrierRetriesOnBusy(t *testing.T) {
	r := fastRetrier(2)

	attempts := 0
	err := r.Retry(context.Background(), func() error {
		attempts++
		if attempts < 2 {
			return busyError{}
		}
		return nil
	})

	if err != nil {
		t.Fatalf("expected success after retry, got %v", err)
	}
	if attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", attempts)
	}
}

func TestRetrierGivesUpAfterMaxRetries(t *testing.T) {
	r := fastRetrier(1)

	attempts := 0
	err := r.Retry(context.Background(), func() error {
		attempts++
		return busyError{}
	})

	var be busyError
	if !errors.As(err, &be) {
		t.Fatalf("expected busy error, got %v", err)
	}
	if attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", attempts)
	}
}

func TestRetrierStopsOnPermanentError(t *testing.T) {
	r := fastRetrier(3)
	attempts := 0
	permanentErr := errors.New("constraint failed")

	err := r.Retry(context.Background(), func() error {
		attempts++
		return permanentErr
	})

	if !errors.Is(err, permanentErr) {
		t.Fatalf("expected permanent error, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("expected 1 attempt, got %d", attempts)
	}
}

func TestIsRetryableError(t *testing.T) {
	if !isRetryableError(fmt.Errorf("insert: %w", busyError{})) {
		t.Fatalf("expected wrapped busy error to be retryable")
	}
	if isRetryableError(errors.New("other")) {
		t.Fatalf("expected generic error to be non-retryable")
	}
}
