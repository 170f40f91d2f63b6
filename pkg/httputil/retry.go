package httputil

import (
	"context"
	"errors"
	"time"
)

// RetryableError wraps an error to indicate it should trigger a retry.
// Wrap transient failures (network timeouts, 429 and 5xx responses) with this
// type so that [Retry] knows to attempt the operation again.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable wraps err as a [RetryableError]. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// IsRetryable reports whether err carries a [RetryableError] in its chain.
func IsRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}

// Policy bounds a retry loop.
//
// Attempts is the total number of calls (values below 1 mean one call).
// Delay is waited between attempts; it is fixed, there is no backoff and no
// jitter. Recoverable classifies errors for [Retry]; nil treats every error
// as recoverable. Use [IsRetryable] to retry only soft failures.
// OnRetry, when set, is called before each wait with the 1-based number of
// the attempt that failed.
type Policy struct {
	Attempts    int
	Delay       time.Duration
	Recoverable func(error) bool
	OnRetry     func(attempt int, err error)
}

func (p Policy) attempts() int { return max(p.Attempts, 1) }

func (p Policy) recoverable(err error) bool {
	if p.Recoverable == nil {
		return true
	}
	return p.Recoverable(err)
}

func (p Policy) retrying(attempt int, err error) {
	if p.OnRetry != nil {
		p.OnRetry(attempt, err)
	}
}

// Retry executes fn up to p.Attempts times, strictly sequentially.
// A failed call is retried only when p classifies its error as recoverable;
// otherwise the error is returned immediately. Returns the last error if
// all attempts fail, or ctx.Err() if ctx is cancelled while waiting.
func Retry(ctx context.Context, p Policy, fn func() error) error {
	attempts := p.attempts()
	var lastErr error

	for i := range attempts {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !p.recoverable(err) {
			return err
		}

		if i < attempts-1 {
			p.retrying(i+1, lastErr)
			if err := wait(ctx, p.Delay); err != nil {
				return err
			}
		}
	}
	return lastErr
}

// RetryWithDefaults is a convenience wrapper around [Retry] used for
// reference-data fetches: 3 attempts with a fixed 1 second delay, retrying
// only errors marked with [Retryable].
func RetryWithDefaults(ctx context.Context, fn func() error) error {
	return Retry(ctx, Policy{Attempts: 3, Delay: time.Second, Recoverable: IsRetryable}, fn)
}

type stepKind uint8

const (
	stepDone stepKind = iota
	stepRepairable
	stepFatal
)

// Step is the outcome of one attempt run by [Execute]: a final value, a
// repaired payload to try next, or a fatal error.
type Step[P, T any] struct {
	kind  stepKind
	value T
	next  P
	err   error
}

// Done ends the loop successfully with v.
func Done[P, T any](v T) Step[P, T] {
	return Step[P, T]{kind: stepDone, value: v}
}

// Repairable asks for another attempt with next. cause is the error that
// prompted the repair; it is returned if no attempts remain.
func Repairable[P, T any](next P, cause error) Step[P, T] {
	return Step[P, T]{kind: stepRepairable, next: next, err: cause}
}

// Fatal ends the loop with err.
func Fatal[P, T any](err error) Step[P, T] {
	return Step[P, T]{kind: stepFatal, err: err}
}

// Execute runs action with payload until it reports [Done] or [Fatal], or
// until p.Attempts is exhausted. Each [Repairable] step replaces the payload
// used by the next attempt, so repairs flow through return values instead of
// shared state. p.Recoverable is not consulted: the action classifies its
// own failures.
func Execute[P, T any](ctx context.Context, p Policy, payload P, action func(context.Context, P) Step[P, T]) (T, error) {
	attempts := p.attempts()
	var zero T
	var lastErr error

	for i := range attempts {
		step := action(ctx, payload)
		switch step.kind {
		case stepDone:
			return step.value, nil
		case stepFatal:
			return zero, step.err
		}

		lastErr = step.err
		payload = step.next
		if i < attempts-1 {
			p.retrying(i+1, lastErr)
			if err := wait(ctx, p.Delay); err != nil {
				return zero, err
			}
		}
	}
	return zero, lastErr
}

func wait(ctx context.Context, d time.Duration) error {
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
