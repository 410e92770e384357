package repository

import (
	"context"

	"cureconnect/internal/domain/entity"
)

// UserRepository stores role lookups in the users collection.
type UserRepository interface {
	Create(ctx context.Context, userID string, lookup *entity.RoleLookup) error
	FindByID(ctx context.Context, userID string) (*entity.RoleLookup, error)
	FindAllIDs(ctx context.Context) (map[string]struct{}, error)
	Merge(ctx context.Context, userID string, fields Document) error
}
