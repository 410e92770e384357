package repository

import (
	"context"

	"cureconnect/internal/domain/entity"
)

type AuditLogRepository interface {
	Create(ctx context.Context, log *entity.AuditLog) error
	FindByUserID(ctx context.Context, userID string) ([]entity.AuditLog, error)
}
