package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDo_SucceedsFirstAttempt(t *testing.T) {
	t.Parallel()
	calls := 0
	err := Do(context.Background(), func() error {
		calls++
		return nil
	}, WithMaxAttempts(3), WithDelay(time.Millisecond))

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_SucceedsAfterRetries(t *testing.T) {
	t.Parallel()
	calls := 0
	err := Do(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	}, WithMaxAttempts(5), WithDelay(time.Millisecond))

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_ExhaustsAttempts(t *testing.T) {
	t.Parallel()
	calls := 0
	err := Do(context.Background(), func() error {
		calls++
		return errors.New("still broken")
	}, WithMaxAttempts(4), WithDelay(time.Millisecond))

	require.Error(t, err)
	assert.Equal(t, 4, calls)
	assert.Contains(t, err.Error(), "failed after 4 attempts")
	assert.Contains(t, err.Error(), "still broken")
}

func TestDo_FatalStopsImmediately(t *testing.T) {
	t.Parallel()
	calls := 0
	err := Do(context.Background(), func() error {
		calls++
		return Fatal(errors.New("wrong key set"))
	}, WithMaxAttempts(10), WithDelay(time.Millisecond))

	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.Contains(t, err.Error(), "not retrying")
}

func TestDo_ContextCancellation(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0

	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := Do(ctx, func() error {
		calls++
		return errors.New("transient")
	}, WithMaxAttempts(100), WithDelay(time.Hour))

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestDo_BackoffGrowsAndCaps(t *testing.T) {
	t.Parallel()
	cfg := &Config{
		MaxAttempts: 5,
		Delay:       10 * time.Millisecond,
		MaxDelay:    20 * time.Millisecond,
		Multiplier:  2.0,
	}

	start := time.Now()
	calls := 0
	err := Do(context.Background(), func() error {
		calls++
		return errors.New("transient")
	},
		WithMaxAttempts(cfg.MaxAttempts),
		WithDelay(cfg.Delay),
		WithMaxDelay(cfg.MaxDelay),
		WithBackoff(cfg.Multiplier),
	)

	require.Error(t, err)
	assert.Equal(t, 5, calls)
	// 10 + 20 + 20 + 20 = 70ms minimum of waiting between 5 attempts
	assert.GreaterOrEqual(t, time.Since(start), 70*time.Millisecond)
}

func TestIsFatal(t *testing.T) {
	t.Parallel()
	assert.False(t, IsFatal(errors.New("plain")))
	assert.True(t, IsFatal(Fatal(errors.New("fatal"))))

	// Survives wrapping
	wrapped := errors.Join(errors.New("outer"), Fatal(errors.New("inner")))
	assert.True(t, IsFatal(wrapped))
}

func TestFatal_NilPassthrough(t *testing.T) {
	t.Parallel()
	assert.NoError(t, Fatal(nil))
}

func TestFatal_Unwrap(t *testing.T) {
	t.Parallel()
	inner := errors.New("inner")
	assert.ErrorIs(t, Fatal(inner), inner)
}
