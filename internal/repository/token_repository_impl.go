package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	domainRepo "cureconnect/internal/domain/repository"

	"github.com/redis/go-redis/v9"
)

type redisTokenRepository struct {
	client *redis.Client
}

// NewRedisTokenRepository stores tokens as <kind>:<userID>:<tokenID> keys.
func NewRedisTokenRepository(client *redis.Client) domainRepo.TokenRepository {
	return &redisTokenRepository{client: client}
}

func tokenKey(kind, userID, tokenID string) string {
	return fmt.Sprintf("%s:%s:%s", kind, userID, tokenID)
}

func (r *redisTokenRepository) Save(ctx context.Context, kind, userID, tokenID string, ttl time.Duration) error {
	return r.client.Set(ctx, tokenKey(kind, userID, tokenID), "valid", ttl).Err()
}

func (r *redisTokenRepository) Exists(ctx context.Context, kind, userID, tokenID string) (bool, error) {
	n, err := r.client.Exists(ctx, tokenKey(kind, userID, tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *redisTokenRepository) Delete(ctx context.Context, kind, tokenID string) error {
	return r.deletePattern(ctx, tokenKey(kind, "*", tokenID))
}

func (r *redisTokenRepository) DeleteAllForUser(ctx context.Context, userID string) error {
	if err := r.deletePattern(ctx, tokenKey(domainRepo.AccessTokenKind, userID, "*")); err != nil {
		return err
	}
	return r.deletePattern(ctx, tokenKey(domainRepo.RefreshTokenKind, userID, "*"))
}

func (r *redisTokenRepository) deletePattern(ctx context.Context, pattern string) error {
	iter := r.client.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return r.client.Del(ctx, keys...).Err()
}

type memoryTokenRepository struct {
	mu     sync.Mutex
	tokens map[string]time.Time
}

// NewMemoryTokenRepository keeps tokens in process memory.
func NewMemoryTokenRepository() domainRepo.TokenRepository {
	return &memoryTokenRepository{tokens: make(map[string]time.Time)}
}

func (r *memoryTokenRepository) Save(ctx context.Context, kind, userID, tokenID string, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[tokenKey(kind, userID, tokenID)] = time.Now().Add(ttl)
	return nil
}

func (r *memoryTokenRepository) Exists(ctx context.Context, kind, userID, tokenID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	expiry, ok := r.tokens[tokenKey(kind, userID, tokenID)]
	return ok && time.Now().Before(expiry), nil
}

func (r *memoryTokenRepository) Delete(ctx context.Context, kind, tokenID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key := range r.tokens {
		if strings.HasPrefix(key, kind+":") && strings.HasSuffix(key, ":"+tokenID) {
			delete(r.tokens, key)
		}
	}
	return nil
}

func (r *memoryTokenRepository) DeleteAllForUser(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key := range r.tokens {
		if strings.HasPrefix(key, domainRepo.AccessTokenKind+":"+userID+":") || strings.HasPrefix(key, domainRepo.RefreshTokenKind+":"+userID+":") {
			delete(r.tokens, key)
		}
	}
	return nil
}
