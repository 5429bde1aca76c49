package backend

import (
	"context"
	"crypto/rand"
	"math"
	"math/big"
	"time"
)

// Default backoff bounds for tier retries.
const (
	defaultRetryInitial = 500 * time.Millisecond
	defaultRetryMax     = 3 * time.Second
)

// CalculateBackoff returns the delay before retry attempt (0-based),
// capped at maxDelay, with ±25% jitter.
//
// Formula: delay = initialDelay * 2^attempt ± 25% jitter
func CalculateBackoff(attempt int, initialDelay, maxDelay time.Duration) time.Duration {
	delay := time.Duration(float64(initialDelay) * math.Pow(2, float64(attempt)))
	if delay > maxDelay || delay <= 0 {
		delay = maxDelay
	}

	halfDelay := int64(delay) / 2
	if halfDelay == 0 {
		halfDelay = 1
	}
	jitterBig, err := rand.Int(rand.Reader, big.NewInt(halfDelay))
	if err != nil {
		// Zero jitter on crypto failure (extremely rare).
		jitterBig = big.NewInt(0)
	}
	jitter := time.Duration(jitterBig.Int64())
	return delay - delay/4 + jitter
}

// Sleep waits for d, respecting context cancellation.
func Sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// WithRetry runs fn up to maxAttempts times, backing off between
// attempts. Only transient errors are retried; permanent and
// fallback-worthy errors return immediately.
func WithRetry(ctx context.Context, maxAttempts int, initialDelay, maxDelay time.Duration, fn func() error) error {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if ClassifyError(err) != ActionRetry {
			return err
		}
		if attempt == maxAttempts-1 {
			break
		}

		if err := Sleep(ctx, CalculateBackoff(attempt, initialDelay, maxDelay)); err != nil {
			return err
		}
	}
	return lastErr
}
