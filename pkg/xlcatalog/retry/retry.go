// Package retry provides the bounded retry policy used for remote calls.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	goretry "github.com/sethvargo/go-retry"
)

// BackoffFunc returns the delay after the given failed attempt (1-based).
type BackoffFunc func(attempt int) time.Duration

// Linear waits step × attempt after each failure.
func Linear(step time.Duration) BackoffFunc {
	return func(attempt int) time.Duration {
		return time.Duration(attempt) * step
	}
}

// Policy describes how an operation is retried.
type Policy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int
	Backoff     BackoffFunc
	// Retryable reports whether an error is worth another attempt. Nil
	// retries every error except context cancellation.
	Retryable func(error) bool
	// OnFailure is called after every failed attempt.
	OnFailure func(attempt int, err error)
}

// Default is three attempts with a 1.5s linear step.
func Default() Policy {
	return Policy{
		MaxAttempts: 3,
		Backoff:     Linear(1500 * time.Millisecond),
	}
}

// ExhaustedError is returned when every attempt failed.
type ExhaustedError struct {
	Attempts int
	Err      error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("gave up after %d attempt(s): %v", e.Attempts, e.Err)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Err
}

// Do runs fn until it succeeds, returns a non-retryable error, or the policy
// runs out of attempts. fn receives the 1-based attempt number.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context, attempt int) error) error {
	maxAttempts := p.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	backoff := p.Backoff
	if backoff == nil {
		backoff = Linear(0)
	}
	retryable := p.Retryable
	if retryable == nil {
		retryable = isRetryable
	}

	attempt := 0
	exhausted := false
	next := goretry.BackoffFunc(func() (time.Duration, bool) {
		return backoff(attempt), false
	})
	b := goretry.WithMaxRetries(uint64(maxAttempts-1), next)

	err := goretry.Do(ctx, b, func(ctx context.Context) error {
		attempt++
		err := fn(ctx, attempt)
		if err == nil {
			return nil
		}
		if p.OnFailure != nil {
			p.OnFailure(attempt, err)
		}
		if !retryable(err) {
			return err
		}
		exhausted = attempt >= maxAttempts
		return goretry.RetryableError(err)
	})
	if err != nil && exhausted {
		return &ExhaustedError{Attempts: attempt, Err: err}
	}
	return err
}

func isRetryable(err error) bool {
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}
