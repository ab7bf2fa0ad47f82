package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func fast(opts ...Option) *Retrier {
	return New(append([]Option{WithInitialDelay(time.Millisecond), WithJitter(0)}, opts...)...)
}

func TestDo_SucceedsAfterRetries(t *testing.T) {
	calls := 0
	var retried []int

	err := fast(WithOnRetry(func(attempt int, _ error, _ time.Duration) {
		retried = append(retried, attempt)
	})).Do(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return Retryable(errBoom)
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []int{1, 2}, retried)
}

func TestDo_GivesUpAndUnwraps(t *testing.T) {
	calls := 0
	err := fast(WithMaxAttempts(2)).Do(context.Background(), func(context.Context) error {
		calls++
		return Retryable(errBoom)
	})

	assert.Equal(t, 2, calls)
	assert.Same(t, errBoom, err)
	assert.False(t, IsRetryable(err))
}

func TestDo_PlainErrorIsNotRetried(t *testing.T) {
	calls := 0
	err := fast().Do(context.Background(), func(context.Context) error {
		calls++
		return errBoom
	})
	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, errBoom)
}

func TestDo_PermanentBeatsRetryIf(t *testing.T) {
	calls := 0
	err := fast(WithRetryIf(func(error) bool { return true })).Do(context.Background(), func(context.Context) error {
		calls++
		return Permanent(errBoom)
	})
	assert.Equal(t, 1, calls)
	assert.Same(t, errBoom, err)
}

func TestDo_StopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := New(WithInitialDelay(time.Hour)).Do(ctx, func(context.Context) error {
		calls++
		cancel()
		return Retryable(errBoom)
	})
	assert.Equal(t, 1, calls)
	assert.Same(t, errBoom, err)
}

func TestDoWithData(t *testing.T) {
	calls := 0
	v, err := DoWithData(context.Background(), fast(), func(context.Context) (int, error) {
		calls++
		if calls == 1 {
			return 0, Retryable(errBoom)
		}
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestDelay_BackoffIsCapped(t *testing.T) {
	r := New(WithInitialDelay(100*time.Millisecond), WithMaxDelay(300*time.Millisecond), WithJitter(0))
	assert.Equal(t, 100*time.Millisecond, r.delay(1))
	assert.Equal(t, 200*time.Millisecond, r.delay(2))
	assert.Equal(t, 300*time.Millisecond, r.delay(3))
}

func TestDelay_Multiplier(t *testing.T) {
	r := New(WithInitialDelay(100*time.Millisecond), WithMultiplier(3), WithJitter(0))
	assert.Equal(t, 300*time.Millisecond, r.delay(2))
	assert.Equal(t, 900*time.Millisecond, r.delay(3))

	shrinking := New(WithInitialDelay(100*time.Millisecond), WithMultiplier(0.5), WithJitter(0))
	assert.Equal(t, 200*time.Millisecond, shrinking.delay(2))
}

func TestHTTPRetrier(t *testing.T) {
	r := HTTPRetrier(WithJitter(0))
	assert.Equal(t, 3, r.config.MaxAttempts)
	assert.Equal(t, 200*time.Millisecond, r.delay(1))
	assert.Equal(t, 500*time.Millisecond, r.delay(2))
	assert.Equal(t, 1250*time.Millisecond, r.delay(3))
}
