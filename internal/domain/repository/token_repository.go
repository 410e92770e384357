package repository

import (
	"context"
	"time"
)

// Token kinds
const (
	AccessTokenKind  = "access_token"
	RefreshTokenKind = "refresh_token"
)

// TokenRepository tracks issued session tokens so they can be revoked.
type TokenRepository interface {
	Save(ctx context.Context, kind, userID, tokenID string, ttl time.Duration) error
	Exists(ctx context.Context, kind, userID, tokenID string) (bool, error)
	Delete(ctx context.Context, kind, tokenID string) error
	DeleteAllForUser(ctx context.Context, userID string) error
}
