package repository

import (
	"context"

	"cureconnect/internal/domain/entity"
	domainRepo "cureconnect/internal/domain/repository"
)

type userRepository struct {
	store domainRepo.DocumentStore
}

func NewUserRepository(store domainRepo.DocumentStore) domainRepo.UserRepository {
	return &userRepository{store: store}
}

func (r *userRepository) Create(ctx context.Context, userID string, lookup *entity.RoleLookup) error {
	doc, err := lookup.ToDocument()
	if err != nil {
		return err
	}
	return r.store.Set(ctx, entity.CollectionUsers, userID, doc)
}

func (r *userRepository) FindByID(ctx context.Context, userID string) (*entity.RoleLookup, error) {
	doc, err := r.store.Get(ctx, entity.CollectionUsers, userID)
	if err != nil {
		return nil, err
	}
	return entity.DecodeRoleLookup(doc)
}

func (r *userRepository) FindAllIDs(ctx context.Context) (map[string]struct{}, error) {
	records, err := r.store.Query(ctx, entity.CollectionUsers)
	if err != nil {
		return nil, err
	}

	ids := make(map[string]struct{}, len(records))
	for _, record := range records {
		ids[record.ID] = struct{}{}
	}
	return ids, nil
}

func (r *userRepository) Merge(ctx context.Context, userID string, fields domainRepo.Document) error {
	return r.store.Merge(ctx, entity.CollectionUsers, userID, fields)
}
