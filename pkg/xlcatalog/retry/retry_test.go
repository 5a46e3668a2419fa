package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastPolicy(attempts int) Policy {
	return Policy{MaxAttempts: attempts, Backoff: Linear(time.Millisecond)}
}

func TestPolicy_Do(t *testing.T) {
	t.Run("Should stop after the first success", func(t *testing.T) {
		calls := 0
		err := fastPolicy(3).Do(t.Context(), func(_ context.Context, attempt int) error {
			calls++
			if attempt < 2 {
				return errors.New("internal error")
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 2, calls)
	})

	t.Run("Should try exactly MaxAttempts times before giving up", func(t *testing.T) {
		var failures []int
		p := fastPolicy(3)
		p.OnFailure = func(attempt int, _ error) { failures = append(failures, attempt) }

		boom := errors.New("boom")
		err := p.Do(t.Context(), func(context.Context, int) error { return boom })

		var exhausted *ExhaustedError
		require.True(t, errors.As(err, &exhausted))
		assert.Equal(t, 3, exhausted.Attempts)
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, []int{1, 2, 3}, failures)
	})

	t.Run("Should not retry non-retryable errors", func(t *testing.T) {
		fatal := errors.New("forbidden")
		p := fastPolicy(3)
		p.Retryable = func(err error) bool { return !errors.Is(err, fatal) }

		calls := 0
		err := p.Do(t.Context(), func(context.Context, int) error {
			calls++
			return fatal
		})
		assert.Equal(t, fatal, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("Should stop waiting when the context is cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(t.Context())
		p := Policy{MaxAttempts: 3, Backoff: Linear(time.Hour)}

		calls := 0
		err := p.Do(ctx, func(context.Context, int) error {
			calls++
			cancel()
			return errors.New("transient")
		})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})

	t.Run("Should treat a zero policy as a single attempt", func(t *testing.T) {
		calls := 0
		err := Policy{}.Do(t.Context(), func(context.Context, int) error {
			calls++
			return errors.New("nope")
		})
		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})
}

func TestLinear(t *testing.T) {
	b := Linear(1500 * time.Millisecond)
	assert.Equal(t, 1500*time.Millisecond, b(1))
	assert.Equal(t, 3*time.Second, b(2))
	assert.Equal(t, 4500*time.Millisecond, b(3))
}

func TestDefault(t *testing.T) {
	p := Default()
	assert.Equal(t, 3, p.MaxAttempts)
	assert.Equal(t, 3*time.Second, p.Backoff(2))
}
