// Package ratelimit caps request rates per client for the endpoints that fan
// out to the OCR and biometric engines.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter implements a fixed-window counter in Redis. The window key embeds
// the bucket index so counters expire on their own.
type Limiter struct {
	rdb    *redis.Client
	limit  int
	window time.Duration
}

func NewLimiter(rdb *redis.Client, limit int, window time.Duration) *Limiter {
	return &Limiter{rdb: rdb, limit: limit, window: window}
}

// Allow reports whether the caller identified by key is within quota for the
// current window.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	bucket := time.Now().Unix() / int64(l.window.Seconds())
	windowKey := fmt.Sprintf("ratelimit:%s:%d", key, bucket)

	count, err := l.rdb.Incr(ctx, windowKey).Result()
	if err != nil {
		return false, fmt.Errorf("increment rate counter: %w", err)
	}
	if count == 1 {
		// Retain counters for two windows.
		if err := l.rdb.Expire(ctx, windowKey, 2*l.window).Err(); err != nil {
			return false, fmt.Errorf("set rate counter ttl: %w", err)
		}
	}
	return count <= int64(l.limit), nil
}
