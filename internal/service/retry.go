package service

import (
	"context"
	"time"
)

// RetryPolicy bounds how often an unreliable call is attempted.
type RetryPolicy struct {
	MaxAttempts int
	// Backoff is the wait before the second attempt; each later wait is
	// multiplied by Multiplier. No wait follows the final attempt.
	Backoff    time.Duration
	Multiplier float64
	// AttemptTimeout caps a single attempt. Zero means no cap.
	AttemptTimeout time.Duration
}

// DefaultRetryPolicy is ten attempts five seconds apart.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    10,
		Backoff:        5 * time.Second,
		Multiplier:     1,
		AttemptTimeout: 30 * time.Second,
	}
}

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// retry runs fn until it succeeds or the policy is exhausted, returning the
// last attempt's error. Attempts are numbered from 1. Cancellation of ctx
// stops the loop with ctx.Err().
func retry(ctx context.Context, p RetryPolicy, sleep SleepFunc, fn func(ctx context.Context, attempt int) error) error {
	if sleep == nil {
		sleep = sleepContext
	}
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	multiplier := p.Multiplier
	if multiplier <= 0 {
		multiplier = 1
	}

	wait := p.Backoff
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		attemptCtx, cancel := ctx, context.CancelFunc(func() {})
		if p.AttemptTimeout > 0 {
			attemptCtx, cancel = context.WithTimeout(ctx, p.AttemptTimeout)
		}
		lastErr = fn(attemptCtx, attempt)
		cancel()
		if lastErr == nil {
			return nil
		}

		if attempt < attempts {
			if err := sleep(ctx, wait); err != nil {
				return err
			}
			wait = time.Duration(float64(wait) * multiplier)
		}
	}
	return lastErr
}
