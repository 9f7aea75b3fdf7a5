package api

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginLimiter counts failed login attempts per client address in Redis and
// blocks further attempts once the limit is reached, independent of which
// username was tried. INCR keeps concurrent failures atomic; a small
// overcount under races is acceptable.
type LoginLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
}

// NewLoginLimiter creates a limiter allowing limit failures per window.
func NewLoginLimiter(client *redis.Client, limit int64, window time.Duration) *LoginLimiter {
	return &LoginLimiter{client: client, limit: limit, window: window}
}

func (l *LoginLimiter) key(addr string) string {
	return "login_attempts:" + addr
}

// Blocked reports whether the address has exhausted its attempts.
func (l *LoginLimiter) Blocked(ctx context.Context, addr string) (bool, error) {
	count, err := l.client.Get(ctx, l.key(addr)).Int64()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return count >= l.limit, nil
}

// RecordFailure counts one failed attempt. The window starts with the first
// failure and slides no further; it expires as a whole.
func (l *LoginLimiter) RecordFailure(ctx context.Context, addr string) error {
	key := l.key(addr)
	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return err
	}
	if count == 1 {
		return l.client.Expire(ctx, key, l.window).Err()
	}
	return nil
}

// Reset clears the counter after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, addr string) error {
	return l.client.Del(ctx, l.key(addr)).Err()
}
