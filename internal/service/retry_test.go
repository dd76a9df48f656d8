package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRetry_BackoffSchedule(t *testing.T) {
	sleeper := &countingSleep{}
	policy := RetryPolicy{MaxAttempts: 4, Backoff: time.Second, Multiplier: 2}

	calls := 0
	err := retry(context.Background(), policy, sleeper.sleep, func(ctx context.Context, attempt int) error {
		calls++
		assert.Equal(t, calls, attempt)
		return errors.New("boom")
	})

	assert.EqualError(t, err, "boom")
	assert.Equal(t, 4, calls)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}, sleeper.waits)
}

func TestRetry_StopsOnSuccess(t *testing.T) {
	sleeper := &countingSleep{}
	calls := 0
	err := retry(context.Background(), DefaultRetryPolicy(), sleeper.sleep, func(ctx context.Context, attempt int) error {
		calls++
		if attempt < 3 {
			return errors.New("not yet")
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 2, sleeper.count())
}

func TestRetry_AttemptTimeout(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 2, AttemptTimeout: 10 * time.Millisecond}
	sleeper := &countingSleep{}

	err := retry(context.Background(), policy, sleeper.sleep, func(ctx context.Context, attempt int) error {
		<-ctx.Done()
		return ctx.Err()
	})

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, sleeper.count())
}

func TestRetry_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := retry(ctx, DefaultRetryPolicy(), sleepContext, func(ctx context.Context, attempt int) error {
		calls++
		cancel()
		return errors.New("fail")
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}
