package backoff

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

var ErrExhausted = goerr.New("retry attempts exhausted")

const (
	DefaultMaxAttempts  = 5
	DefaultInitialDelay = 1000 * time.Millisecond
)

type config struct {
	maxAttempts  int
	initialDelay time.Duration
	sleep        func(ctx context.Context, d time.Duration) error
}

type Option func(*config)

// WithMaxAttempts sets the attempt limit. Values below 1 are ignored.
func WithMaxAttempts(n int) Option {
	return func(c *config) {
		if n >= 1 {
			c.maxAttempts = n
		}
	}
}

// WithInitialDelay sets the delay before the first retry. The delay
// doubles after each failed attempt.
func WithInitialDelay(d time.Duration) Option {
	return func(c *config) {
		if d >= 0 {
			c.initialDelay = d
		}
	}
}

// WithSleepFunc replaces the wait between attempts. Used by tests to
// observe the schedule without wall-clock delays.
func WithSleepFunc(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(c *config) {
		c.sleep = fn
	}
}

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

// Do runs fn until it succeeds, waiting between attempts with a doubling
// delay. The wrapped operation must be safely repeatable. When all
// attempts fail, the returned error wraps ErrExhausted together with the
// last failure. Transient failures of earlier attempts never surface.
func Do[T any](ctx context.Context, fn func(ctx context.Context) (T, error), opts ...Option) (T, error) {
	cfg := &config{
		maxAttempts:  DefaultMaxAttempts,
		initialDelay: DefaultInitialDelay,
		sleep:        sleepContext,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	var zero T
	var lastErr error
	delay := cfg.initialDelay

	for attempt := 1; attempt <= cfg.maxAttempts; attempt++ {
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if attempt == cfg.maxAttempts {
			break
		}

		if err := cfg.sleep(ctx, delay); err != nil {
			return zero, goerr.Wrap(err, "retry wait aborted", goerr.V("attempt", attempt), goerr.V("cause", lastErr))
		}
		delay *= 2
	}

	return zero, goerr.Wrap(ErrExhausted, "operation failed",
		goerr.V("attempts", cfg.maxAttempts),
		goerr.V("last_error", lastErr),
	)
}
