package service

import (
	"context"
	"time"

	"cureconnect/internal/domain/entity"
	"cureconnect/internal/domain/repository"

	"github.com/sirupsen/logrus"
)

type AuditService interface {
	LogCreate(ctx context.Context, userID string, role entity.Role, action string, entityName string, entityID string, newValue interface{}) error
	LogUpdate(ctx context.Context, userID string, role entity.Role, action string, entityName string, entityID string, changes interface{}) error
	LogDelete(ctx context.Context, userID string, role entity.Role, action string, entityName string, entityID string, oldValue interface{}) error
}

type auditService struct {
	log       *logrus.Logger
	auditRepo repository.AuditLogRepository
}

func NewAuditService(log *logrus.Logger, auditRepo repository.AuditLogRepository) AuditService {
	return &auditService{
		log:       log,
		auditRepo: auditRepo,
	}
}

// LogCreate logs a create action
func (s *auditService) LogCreate(ctx context.Context, userID string, role entity.Role, action string, entityName string, entityID string, newValue interface{}) error {
	return s.write(ctx, userID, role, action, map[string]any{
		"entity":    entityName,
		"entity_id": entityID,
		"new_value": newValue,
	})
}

// LogUpdate logs the changed fields of an update
func (s *auditService) LogUpdate(ctx context.Context, userID string, role entity.Role, action string, entityName string, entityID string, changes interface{}) error {
	return s.write(ctx, userID, role, action, map[string]any{
		"entity":    entityName,
		"entity_id": entityID,
		"changes":   changes,
	})
}

// LogDelete logs a delete action with old value
func (s *auditService) LogDelete(ctx context.Context, userID string, role entity.Role, action string, entityName string, entityID string, oldValue interface{}) error {
	return s.write(ctx, userID, role, action, map[string]any{
		"entity":    entityName,
		"entity_id": entityID,
		"old_value": oldValue,
	})
}

func (s *auditService) write(ctx context.Context, userID string, role entity.Role, action string, metadata map[string]any) error {
	auditLog := &entity.AuditLog{
		UserID:    userID,
		Role:      role,
		Action:    action,
		Metadata:  metadata,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.auditRepo.Create(ctx, auditLog); err != nil {
		s.log.Warnf("Failed to create audit log: %+v", err)
		return err
	}

	return nil
}
