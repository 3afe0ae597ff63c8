package ckzlib

import (
	"context"
	"math"
	"time"
)

// Default retry configuration for the chat push sink.
const (
	DefAttempts   = 3
	DefBaseDelay  = 2 * time.Second
	DefMultiplier = 2.0
	DefMaxDelay   = 30 * time.Second
)

// RetryPolicy is a small bounded retry policy: a fixed number of attempts
// with exponentially growing delays. It is independent of any progress
// reporting; callers that want per-attempt messages pass an OnRetry hook.
type RetryPolicy struct {
	Attempts   int           // total attempts, including the first
	BaseDelay  time.Duration // delay before the second attempt
	Multiplier float64       // backoff multiplier per attempt
	MaxDelay   time.Duration // cap on any single delay
}

// DefaultRetryPolicy returns the policy used for outbound pushes.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Attempts:   DefAttempts,
		BaseDelay:  DefBaseDelay,
		Multiplier: DefMultiplier,
		MaxDelay:   DefMaxDelay,
	}
}

// Backoff returns the delay to wait after the given 1-based failed attempt.
func (p RetryPolicy) Backoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	delay := float64(p.BaseDelay) * math.Pow(p.Multiplier, float64(attempt-1))
	if p.MaxDelay > 0 && delay > float64(p.MaxDelay) {
		delay = float64(p.MaxDelay)
	}
	return time.Duration(delay)
}

// Do runs fn up to p.Attempts times, waiting Backoff between failures.
// onRetry, when non-nil, is called before each wait with the 1-based attempt
// number that just failed and its error. The last error is returned when all
// attempts fail. Context cancellation interrupts the wait and wins.
func (p RetryPolicy) Do(ctx context.Context, fn func(context.Context) error, onRetry func(attempt int, err error)) error {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if attempt == attempts {
			break
		}
		if onRetry != nil {
			onRetry(attempt, err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.Backoff(attempt)):
		}
	}
	return err
}
