package httputil

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrTimeout is returned (wrapped in a [RetryableError]) when a single
// attempt exceeds the policy's per-call timeout.
var ErrTimeout = errors.New("request timed out")

// RetryableError wraps an error to indicate it should trigger a retry.
// Wrap transient failures (network timeouts, 5xx responses) with this type
// so that [Policy.Do] knows to attempt the operation again.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Policy bundles the retry, backoff and per-call timeout settings applied to
// every outbound provider and registry request.
type Policy struct {
	Attempts int           // Total attempts including the first (minimum 1)
	Delay    time.Duration // Initial backoff, doubled after each failure
	Timeout  time.Duration // Per-attempt timeout; 0 disables it
}

// DefaultPolicy is used when no explicit policy is configured.
var DefaultPolicy = Policy{
	Attempts: 3,
	Delay:    500 * time.Millisecond,
	Timeout:  10 * time.Second,
}

// Do executes fn until it succeeds, returns a non-retryable error, or the
// attempts are exhausted. Each attempt receives its own context bounded by
// p.Timeout; an attempt that hits that deadline is treated as transient.
// If ctx is cancelled, Do returns ctx.Err() without further attempts.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	attempts := max(p.Attempts, 1)
	delay := p.Delay
	var lastErr error

	for i := 0; i < attempts; i++ {
		err := p.attempt(ctx, fn)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if lastErr = err; !isRetryable(err) {
			return err
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}

func (p Policy) attempt(ctx context.Context, fn func(ctx context.Context) error) error {
	if p.Timeout <= 0 {
		return fn(ctx)
	}
	actx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	err := fn(actx)
	if err != nil && ctx.Err() == nil && errors.Is(actx.Err(), context.DeadlineExceeded) {
		return &RetryableError{Err: fmt.Errorf("%w: %v", ErrTimeout, err)}
	}
	return err
}

// Retry executes fn up to attempts times with exponential backoff.
// It only retries errors wrapped with [RetryableError]; other errors are
// returned immediately. The delay doubles after each failed attempt.
// Returns the last error if all attempts fail, or ctx.Err() if cancelled.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	p := Policy{Attempts: attempts, Delay: delay}
	return p.Do(ctx, func(context.Context) error { return fn() })
}

// IsRetryable reports whether err is marked as transient.
func IsRetryable(err error) bool { return isRetryable(err) }

func isRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}
