package txn

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultMaxAttempts = 5
	defaultBackoff     = 20 * time.Millisecond
)

// Policy bounds how Retry re-executes conflicting work.
type Policy struct {
	// MaxAttempts is the total number of executions, including the first. Zero means 5.
	MaxAttempts int
	// Backoff is the base delay between attempts. It grows linearly and is jittered.
	Backoff time.Duration
	// Timeout caps a single attempt. An attempt that runs out of time counts as a conflict.
	Timeout time.Duration
}

func (p Policy) withDefaults() Policy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = defaultMaxAttempts
	}
	if p.Backoff <= 0 {
		p.Backoff = defaultBackoff
	}
	return p
}

// Retry runs fn through r until it commits, fails with a non-conflict error,
// or MaxAttempts conflicts have been seen. In the last case the returned error
// wraps both ErrRetryExhausted and the final conflict.
func Retry(ctx context.Context, r Runner, p Policy, fn func(ctx context.Context) error) error {
	p = p.withDefaults()
	span := trace.SpanFromContext(ctx)

	var last error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		err := runAttempt(ctx, r, p.Timeout, fn)
		if err == nil {
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			// the caller went away; nothing left to retry for
			return ctxErr
		}
		if errors.Is(err, context.DeadlineExceeded) {
			err = Conflict(err)
		}
		if !IsConflict(err) {
			return err
		}

		last = err
		span.AddEvent("txn.conflict", trace.WithAttributes(
			attribute.Int("txn.attempt", attempt),
			attribute.String("txn.error", err.Error()),
		))
		slog.Warn("transaction conflict", "attempt", attempt, "max_attempts", p.MaxAttempts, "error", err)

		if attempt < p.MaxAttempts {
			if err := sleep(ctx, backoff(p.Backoff, attempt)); err != nil {
				return err
			}
		}
	}
	return &RetryExhaustedError{Attempts: p.MaxAttempts, Err: last}
}

func runAttempt(ctx context.Context, r Runner, timeout time.Duration, fn func(ctx context.Context) error) error {
	if timeout <= 0 {
		return r.RunInTx(ctx, fn)
	}
	actx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return r.RunInTx(actx, fn)
}

func backoff(base time.Duration, attempt int) time.Duration {
	d := base * time.Duration(attempt)
	return d/2 + rand.N(d/2+1)
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
