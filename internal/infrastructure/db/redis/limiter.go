package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultWindow = time.Hour
	defaultLimit  = 3
)

// RateLimiter is a fixed-window counter backed by Redis. It throttles
// repeatable email actions (resend verification, password reset requests).
// Key format: ratelimit:<action>:<email>
type RateLimiter struct {
	client *redis.Client
	window time.Duration
	limit  int64
}

// NewRateLimiter creates a limiter allowing limit calls per window. Zero
// values fall back to 3 per hour.
func NewRateLimiter(client *redis.Client, limit int64, window time.Duration) *RateLimiter {
	if limit <= 0 {
		limit = defaultLimit
	}
	if window <= 0 {
		window = defaultWindow
	}
	return &RateLimiter{client: client, window: window, limit: limit}
}

// Allow increments the counter for key and reports whether the caller is
// still inside the window's budget. The first hit arms the window expiry.
func (l *RateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := "ratelimit:" + key

	n, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, fmt.Errorf("rate limit incr: %w", err)
	}
	if n == 1 {
		if err := l.client.Expire(ctx, redisKey, l.window).Err(); err != nil {
			return false, fmt.Errorf("rate limit expire: %w", err)
		}
	}
	return n <= l.limit, nil
}
