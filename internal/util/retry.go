// ABOUTME: Backoff helper for bounded retries against upstream providers
// ABOUTME: Shared by the translation client and the vocabulary extractor
package util

import (
	"math/rand/v2"
	"time"
)

// CalculateBackoff returns exponential backoff with jitter for the given
// attempt number (1-based). Attempt 0 or lower returns 0 so callers can
// sleep unconditionally at the top of their loop.
func CalculateBackoff(baseDelay time.Duration, attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	if attempt > 30 {
		attempt = 30 // keep the shift in range
	}
	backoff := baseDelay * time.Duration(1<<uint(attempt))
	// The pipeline is user-facing: never back off longer than 20s.
	if backoff > 20*time.Second {
		backoff = 20 * time.Second
	}
	// Jitter of -25% to +25% so parallel callers don't align.
	jitter := time.Duration(rand.Int64N(int64(backoff)/2)) - backoff/4
	return backoff + jitter
}
