// Package retry implements exponential backoff with jitter for API calls.
package retry

import (
	"context"
	"log/slog"
	"math"
	"math/rand/v2"
	"time"

	"github.com/linctl/linctl/pkg/clierr"
)

// Config controls retry behavior for transient API failures.
type Config struct {
	MaxRetries   int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Base         float64
}

// DefaultConfig returns the standard retry policy: 3 retries starting at
// 1s, doubling up to a 30s cap.
func DefaultConfig() Config {
	return Config{
		MaxRetries:   3,
		InitialDelay: time.Second,
		MaxDelay:     30 * time.Second,
		Base:         2.0,
	}
}

// NoRetry returns a policy that never retries.
func NoRetry() Config {
	cfg := DefaultConfig()
	cfg.MaxRetries = 0
	return cfg
}

// DelayForAttempt computes the wait before retrying attempt (0-indexed).
// A server-provided Retry-After (seconds) takes precedence; otherwise
// exponential backoff with ±25% jitter to avoid thundering herds.
func (c Config) DelayForAttempt(attempt int, retryAfterSeconds int) time.Duration {
	if retryAfterSeconds > 0 {
		return time.Duration(retryAfterSeconds) * time.Second
	}

	delay := float64(c.InitialDelay) * math.Pow(c.Base, float64(attempt))
	delay = math.Min(delay, float64(c.MaxDelay))

	jitterRange := delay / 4
	if jitterRange > 0 {
		delay += (rand.Float64()*2 - 1) * jitterRange
	}
	if delay < 0 {
		delay = 0
	}

	return time.Duration(delay)
}

// Do runs fn, retrying retryable failures per the config. The context
// cancels waits between attempts.
func Do[T any](ctx context.Context, cfg Config, log *slog.Logger, fn func() (T, error)) (T, error) {
	var zero T

	for attempt := 0; ; attempt++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}

		// The final attempt's error goes back to the caller as-is.
		if attempt >= cfg.MaxRetries || !clierr.Retryable(err) {
			return zero, err
		}

		delay := cfg.DelayForAttempt(attempt, clierr.RetryAfter(err))
		if log != nil {
			log.Warn("request failed, retrying",
				"attempt", attempt+1,
				"delay", delay.String(),
				"error", err.Error(),
			)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}
}
