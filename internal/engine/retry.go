package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"
)

// RetryPolicy defines the backoff applied between attempts after a backend error.
type RetryPolicy struct {
	InitialDelay time.Duration // Delay before the second attempt
	MaxDelay     time.Duration // Maximum delay cap
	Multiplier   float64       // Exponential backoff multiplier (e.g., 2.0)
	Jitter       bool          // Whether to add random jitter to delays
}

// calculateDelay computes the delay after the given failed attempt (1-based).
func calculateDelay(policy RetryPolicy, attempt int, err error) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	// Exponential backoff: initialDelay * (multiplier ^ (attempt-1))
	delay := float64(policy.InitialDelay) * math.Pow(policy.Multiplier, float64(attempt-1))

	if policy.MaxDelay > 0 && delay > float64(policy.MaxDelay) {
		delay = float64(policy.MaxDelay)
	}

	if policy.Jitter {
		delay += rand.Float64() * 0.2 * delay // 0-20% jitter
	}

	// A server-provided Retry-After wins when it asks for more patience, still capped.
	if retryAfter := ExtractRetryAfter(err); retryAfter > time.Duration(delay) {
		if policy.MaxDelay > 0 && retryAfter > policy.MaxDelay {
			return policy.MaxDelay
		}
		return retryAfter
	}

	return time.Duration(delay)
}

// ExtractRetryAfter extracts the Retry-After value from an error.
// Returns 0 if not found or invalid.
func ExtractRetryAfter(err error) time.Duration {
	if err == nil {
		return 0
	}

	var be *BackendError
	if errors.As(err, &be) && be.RetryAfter != "" {
		var seconds int
		if _, err := fmt.Sscanf(be.RetryAfter, "%d", &seconds); err == nil {
			return time.Duration(seconds) * time.Second
		}
		if t, err := time.Parse(time.RFC1123, be.RetryAfter); err == nil {
			if d := time.Until(t); d > 0 {
				return d
			}
		}
	}

	errStr := strings.ToLower(err.Error())
	if idx := strings.Index(errStr, "retry after"); idx != -1 {
		var seconds int
		if _, err := fmt.Sscanf(errStr[idx:], "retry after %d", &seconds); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}

	return 0
}

// sleepContext waits for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return fmt.Errorf("context cancelled during retry: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}
