// Package resilience retries connection attempts to lead sources with
// exponential backoff and jitter.
package resilience

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
)

// Backoff controls retry behavior.
type Backoff struct {
	// Attempts is the total number of tries, including the first. 1 disables retries.
	Attempts int
	// Initial is the delay before the first retry.
	Initial time.Duration
	// Max caps the delay between attempts.
	Max time.Duration
	// Jitter randomizes each delay by up to this fraction in either direction.
	Jitter float64

	// Retryable overrides IsTransient when set.
	Retryable func(err error) bool
}

// DefaultBackoff returns the settings used for database connects.
func DefaultBackoff() Backoff {
	return Backoff{
		Attempts: 3,
		Initial:  250 * time.Millisecond,
		Max:      5 * time.Second,
		Jitter:   0.2,
	}
}

// FromConfig builds a Backoff from attempt and millisecond settings, keeping
// defaults for non-positive values.
func FromConfig(attempts, initialMs int) Backoff {
	b := DefaultBackoff()
	if attempts > 0 {
		b.Attempts = attempts
	}
	if initialMs > 0 {
		b.Initial = time.Duration(initialMs) * time.Millisecond
	}
	return b
}

// Retry calls fn until it succeeds, returns a non-retryable error, ctx is
// done, or the attempts are used up. op names the operation in logs.
func Retry[T any](ctx context.Context, b Backoff, op string, fn func(ctx context.Context) (T, error)) (T, error) {
	if b.Attempts < 1 {
		b.Attempts = 1
	}
	retryable := b.Retryable
	if retryable == nil {
		retryable = IsTransient
	}

	var zero T
	var lastErr error
	for attempt := 0; attempt < b.Attempts; attempt++ {
		val, err := fn(ctx)
		if err == nil {
			return val, nil
		}
		lastErr = err

		if ctx.Err() != nil || !retryable(err) || attempt == b.Attempts-1 {
			break
		}

		delay := b.delay(attempt)
		zap.L().Warn("resilience: retrying",
			zap.String("operation", op),
			zap.Int("attempt", attempt+1),
			zap.Duration("delay", delay),
			zap.Error(err),
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, lastErr
		case <-timer.C:
		}
	}
	return zero, lastErr
}

func (b Backoff) delay(attempt int) time.Duration {
	d := float64(b.Initial) * math.Pow(2, float64(attempt))
	if b.Max > 0 && d > float64(b.Max) {
		d = float64(b.Max)
	}
	if b.Jitter > 0 {
		d += (rand.Float64()*2 - 1) * d * b.Jitter
	}
	if d < 0 {
		d = 0
	}
	return time.Duration(d)
}
