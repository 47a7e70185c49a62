// ABOUTME: In-process fixed-window limiter for single-node deployments
// ABOUTME: Windows are tracked per key and swept lazily on access
package ratelimit

import (
	"context"
	"sync"
	"time"
)

type window struct {
	start time.Time
	count int
}

// MemoryLimiter is a fixed-window counter held in process memory. It is
// the default backend; deployments that run multiple nodes point the
// limiter at redis instead.
type MemoryLimiter struct {
	mu      sync.Mutex
	windows map[string]*window

	limit  int
	period time.Duration
	now    func() time.Time // injectable for tests
}

// NewMemoryLimiter allows limit requests per key per period.
func NewMemoryLimiter(limit int, period time.Duration) *MemoryLimiter {
	if period <= 0 {
		period = time.Minute
	}
	return &MemoryLimiter{
		windows: make(map[string]*window),
		limit:   limit,
		period:  period,
		now:     time.Now,
	}
}

// Check counts the request against the key's current window.
func (m *MemoryLimiter) Check(_ context.Context, key string) (Decision, error) {
	if m.limit <= 0 {
		return Decision{Allowed: true}, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	w, ok := m.windows[key]
	if !ok || now.Sub(w.start) >= m.period {
		m.windows[key] = &window{start: now, count: 1}
		return Decision{Allowed: true}, nil
	}

	w.count++
	if w.count > m.limit {
		return Decision{Allowed: false, RetryAfter: m.period - now.Sub(w.start)}, nil
	}
	return Decision{Allowed: true}, nil
}
