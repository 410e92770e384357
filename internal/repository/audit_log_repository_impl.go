package repository

import (
	"context"
	"encoding/json"

	"cureconnect/internal/domain/entity"
	domainRepo "cureconnect/internal/domain/repository"

	"github.com/google/uuid"
)

type auditLogRepository struct {
	store domainRepo.DocumentStore
}

func NewAuditLogRepository(store domainRepo.DocumentStore) domainRepo.AuditLogRepository {
	return &auditLogRepository{store: store}
}

func (r *auditLogRepository) Create(ctx context.Context, log *entity.AuditLog) error {
	if log.ID == "" {
		log.ID = uuid.New().String()
	}
	doc, err := log.ToDocument()
	if err != nil {
		return err
	}
	return r.store.Set(ctx, entity.CollectionAuditLogs, log.ID, doc)
}

func (r *auditLogRepository) FindByUserID(ctx context.Context, userID string) ([]entity.AuditLog, error) {
	records, err := r.store.Query(ctx, entity.CollectionAuditLogs, domainRepo.Filter{Field: "userId", Value: userID})
	if err != nil {
		return nil, err
	}

	logs := make([]entity.AuditLog, 0, len(records))
	for _, record := range records {
		var log entity.AuditLog
		if err := decodeInto(record.Data, &log); err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}
	return logs, nil
}

func decodeInto(doc domainRepo.Document, v any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}
