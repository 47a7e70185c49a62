// ABOUTME: Redis-backed fixed-window limiter for multi-node deployments
// ABOUTME: INCR + EXPIRE per key; the window lives as the key's TTL
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter shares one fixed window across nodes via a counter key
// whose TTL is the window.
type RedisLimiter struct {
	rdb    *redis.Client
	limit  int
	period time.Duration
	prefix string
}

// NewRedisLimiter creates a limiter against an existing redis client.
func NewRedisLimiter(rdb *redis.Client, limit int, period time.Duration) *RedisLimiter {
	if period <= 0 {
		period = time.Minute
	}
	return &RedisLimiter{rdb: rdb, limit: limit, period: period, prefix: "hometalk:rl:"}
}

// NewRedisLimiterURL dials redis from a URL (redis://host:port/db).
func NewRedisLimiterURL(url string, limit int, period time.Duration) (*RedisLimiter, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	return NewRedisLimiter(redis.NewClient(opts), limit, period), nil
}

// Check increments the key's window counter, stamping the TTL on first hit.
func (r *RedisLimiter) Check(ctx context.Context, key string) (Decision, error) {
	if r.limit <= 0 {
		return Decision{Allowed: true}, nil
	}

	k := r.prefix + key
	count, err := r.rdb.Incr(ctx, k).Result()
	if err != nil {
		return Decision{}, fmt.Errorf("incrementing limit counter: %w", err)
	}
	if count == 1 {
		if err := r.rdb.Expire(ctx, k, r.period).Err(); err != nil {
			return Decision{}, fmt.Errorf("setting limit window: %w", err)
		}
	}

	if count > int64(r.limit) {
		ttl, err := r.rdb.TTL(ctx, k).Result()
		if err != nil || ttl < 0 {
			ttl = r.period
		}
		return Decision{Allowed: false, RetryAfter: ttl}, nil
	}
	return Decision{Allowed: true}, nil
}
