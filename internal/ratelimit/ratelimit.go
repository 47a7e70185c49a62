// ABOUTME: Fixed-window request limiting consumed at the HTTP boundary
// ABOUTME: Two backends: in-process map for single-node, redis for shared state
package ratelimit

import (
	"context"
	"time"
)

// Decision is the outcome of one limit check.
type Decision struct {
	Allowed    bool
	RetryAfter time.Duration // meaningful only when !Allowed
}

// Limiter answers whether a key may make another request in the current
// window. Keys are caller-defined (client IP, household id).
type Limiter interface {
	Check(ctx context.Context, key string) (Decision, error)
}
