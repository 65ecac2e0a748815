package cache

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNetwork marks a remote backend that could not be reached.
	ErrNetwork = errors.New("network error")

	// ErrCacheMiss is returned by [Lookup] when a key holds no value.
	ErrCacheMiss = errors.New("cache miss")
)

// Lookup is Get with a miss reported as [ErrCacheMiss].
func Lookup(ctx context.Context, c Cache, key string) ([]byte, error) {
	data, ok, err := c.Get(ctx, key)
	switch {
	case err != nil:
		return nil, err
	case !ok:
		return nil, ErrCacheMiss
	}
	return data, nil
}

// RetryableError marks a failure worth another attempt.
type RetryableError struct{ Err error }

// Retryable wraps err so that [Backoff.Do] retries it. Nil stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err's chain holds a [RetryableError].
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// Backoff retries an operation with exponentially growing delays.
type Backoff struct {
	Attempts int           // total tries; values below 1 mean one try
	Delay    time.Duration // wait before the second try, doubled after each
	MaxDelay time.Duration // upper bound on one wait; zero means none
}

// DefaultBackoff is used by [RedisCache]. A settle cache is an optimization,
// so a dead server costs well under a second before the run proceeds.
var DefaultBackoff = Backoff{Attempts: 3, Delay: 100 * time.Millisecond, MaxDelay: 400 * time.Millisecond}

// Do calls fn until it succeeds, fails with an error that is not
// [Retryable], or runs out of attempts. It returns ctx.Err() if the context
// ends while waiting.
func (b Backoff) Do(ctx context.Context, fn func() error) error {
	delay := b.Delay
	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(); err == nil || !IsRetryable(err) || attempt >= b.Attempts {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
		if b.MaxDelay > 0 && delay > b.MaxDelay {
			delay = b.MaxDelay
		}
	}
}
