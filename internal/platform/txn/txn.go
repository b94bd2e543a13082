// Package txn runs units of work inside a store transaction and retries them
// when the store reports a transient conflict.
package txn

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrConflict marks a transient failure caused by concurrent writers or a
	// transaction timeout. Work that fails with it may be retried as-is.
	ErrConflict = errors.New("transient transaction conflict")

	// ErrRetryExhausted is returned once Retry has given up on a conflicting unit of work.
	ErrRetryExhausted = errors.New("transaction retries exhausted")
)

// Runner executes fn once inside a single store transaction.
// The transaction handle travels in the context passed to fn, so repositories
// called from fn join the transaction. A non-nil error from fn rolls back.
type Runner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// RetryExhaustedError reports the last conflict seen before Retry gave up.
type RetryExhaustedError struct {
	Attempts int
	Err      error
}

func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("transaction gave up after %d attempts: %v", e.Attempts, e.Err)
}

func (e *RetryExhaustedError) Unwrap() []error {
	return []error{ErrRetryExhausted, e.Err}
}

// Conflict wraps err so that it is recognised as ErrConflict.
func Conflict(err error) error {
	if err == nil || errors.Is(err, ErrConflict) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrConflict, err)
}

// IsConflict reports whether err is a transient conflict.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}
