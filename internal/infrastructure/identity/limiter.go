package identity

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// AttemptLimiter counts failed sign-ins per email within a window.
type AttemptLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	RecordFailure(ctx context.Context, key string) error
	Reset(ctx context.Context, key string) error
}

type redisLimiter struct {
	client      *redis.Client
	maxAttempts int
	window      time.Duration
}

func NewRedisLimiter(client *redis.Client, maxAttempts int, window time.Duration) AttemptLimiter {
	return &redisLimiter{client: client, maxAttempts: maxAttempts, window: window}
}

func attemptKey(key string) string {
	return "login_attempts:" + key
}

func (l *redisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	count, err := l.client.Get(ctx, attemptKey(key)).Int()
	if err == redis.Nil {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return count < l.maxAttempts, nil
}

func (l *redisLimiter) RecordFailure(ctx context.Context, key string) error {
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, attemptKey(key))
		pipe.ExpireNX(ctx, attemptKey(key), l.window)
		return nil
	})
	return err
}

func (l *redisLimiter) Reset(ctx context.Context, key string) error {
	return l.client.Del(ctx, attemptKey(key)).Err()
}

type memoryLimiter struct {
	mu          sync.Mutex
	maxAttempts int
	window      time.Duration
	attempts    map[string]attempt
}

type attempt struct {
	count     int
	expiresAt time.Time
}

func NewMemoryLimiter(maxAttempts int, window time.Duration) AttemptLimiter {
	return &memoryLimiter{
		maxAttempts: maxAttempts,
		window:      window,
		attempts:    make(map[string]attempt),
	}
}

func (l *memoryLimiter) Allow(ctx context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	a, ok := l.attempts[key]
	if !ok || time.Now().After(a.expiresAt) {
		return true, nil
	}
	return a.count < l.maxAttempts, nil
}

func (l *memoryLimiter) RecordFailure(ctx context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	a, ok := l.attempts[key]
	if !ok || time.Now().After(a.expiresAt) {
		a = attempt{expiresAt: time.Now().Add(l.window)}
	}
	a.count++
	l.attempts[key] = a
	return nil
}

func (l *memoryLimiter) Reset(ctx context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.attempts, key)
	return nil
}
