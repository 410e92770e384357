package repository

import (
	"context"

	"cureconnect/internal/domain/entity"
)

type ProfileRepository interface {
	Create(ctx context.Context, userID string, profile entity.Profile) error
	FindByUserID(ctx context.Context, role entity.Role, userID string) (entity.Profile, error)
	FindAll(ctx context.Context, role entity.Role) ([]entity.Profile, error)
	FindActiveDoctors(ctx context.Context) ([]*entity.DoctorProfile, error)
	Update(ctx context.Context, role entity.Role, userID string, fields Document) error
	Merge(ctx context.Context, role entity.Role, userID string, fields Document) error
	Watch(ctx context.Context, role entity.Role, userID string) (Subscription, error)
}
