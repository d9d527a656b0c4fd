package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-pkgz/repeater/v2"
)

// errCritical is the repeater terminate error, every criticalError matches it
var errCritical = errors.New("critical error")

// criticalError marks a write failure not worth retrying
type criticalError struct {
	err error
}

func (e *criticalError) Is(target error) bool {
	return target == errCritical
}

func (e *criticalError) Error() string {
	return e.err.Error()
}

func (e *criticalError) Unwrap() error {
	return e.err
}

// withRetry runs a write with backoff while sqlite reports the database busy or locked.
// Any other error stops the retries and is returned unwrapped.
func withRetry(ctx context.Context, fn func() error) error {
	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))
	err := retrier.Do(ctx, func() error {
		if err := fn(); err != nil {
			if isLockError(err) {
				return err
			}
			return &criticalError{err: err}
		}
		return nil
	}, errCritical)
	var ce *criticalError
	if errors.As(err, &ce) {
		return ce.err
	}
	return err
}

// isLockError checks if an error is a SQLite lock/busy error
func isLockError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, marker := range []string{"SQLITE_BUSY", "database is locked", "database table is locked"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
