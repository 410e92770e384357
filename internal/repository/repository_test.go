package repository

import (
	"context"
	"testing"
	"time"

	"cureconnect/internal/domain/entity"
	domainRepo "cureconnect/internal/domain/repository"
	"cureconnect/internal/infrastructure/docstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryTokenRepository(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryTokenRepository()

	require.NoError(t, r.Save(ctx, domainRepo.AccessTokenKind, "u1", "a1", time.Minute))
	require.NoError(t, r.Save(ctx, domainRepo.RefreshTokenKind, "u1", "r1", time.Minute))
	require.NoError(t, r.Save(ctx, domainRepo.AccessTokenKind, "u2", "a2", time.Minute))
	require.NoError(t, r.Save(ctx, domainRepo.AccessTokenKind, "u2", "expired", -time.Second))

	exists := func(kind, userID, tokenID string) bool {
		ok, err := r.Exists(ctx, kind, userID, tokenID)
		require.NoError(t, err)
		return ok
	}

	assert.True(t, exists(domainRepo.AccessTokenKind, "u1", "a1"))
	assert.False(t, exists(domainRepo.RefreshTokenKind, "u1", "a1"))
	assert.False(t, exists(domainRepo.AccessTokenKind, "u2", "expired"))

	require.NoError(t, r.Delete(ctx, domainRepo.RefreshTokenKind, "r1"))
	assert.False(t, exists(domainRepo.RefreshTokenKind, "u1", "r1"))
	assert.True(t, exists(domainRepo.AccessTokenKind, "u1", "a1"))

	require.NoError(t, r.DeleteAllForUser(ctx, "u1"))
	assert.False(t, exists(domainRepo.AccessTokenKind, "u1", "a1"))
	assert.True(t, exists(domainRepo.AccessTokenKind, "u2", "a2"))
}

func TestAuditLogRepository(t *testing.T) {
	ctx := context.Background()
	r := NewAuditLogRepository(docstore.NewMemoryStore())

	entry := &entity.AuditLog{
		UserID:    "u1",
		Role:      entity.RoleDoctor,
		Action:    entity.AuditActionProfileUpdate,
		Metadata:  map[string]any{"changes": map[string]any{"phone": "+12015550123"}},
		CreatedAt: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, r.Create(ctx, entry))
	require.NotEmpty(t, entry.ID)
	require.NoError(t, r.Create(ctx, &entity.AuditLog{UserID: "u2", Action: entity.AuditActionUserLogin}))

	logs, err := r.FindByUserID(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, entry.ID, logs[0].ID)
	assert.Equal(t, entity.RoleDoctor, logs[0].Role)
	assert.Equal(t, entry.CreatedAt, logs[0].CreatedAt)
	assert.Equal(t, map[string]any{"phone": "+12015550123"}, logs[0].Metadata["changes"])
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	r := NewUserRepository(docstore.NewMemoryStore())
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, r.Create(ctx, "u1", entity.NewRoleLookup("a@b.com", entity.RoleDoctor, now)))
	require.NoError(t, r.Create(ctx, "u2", entity.NewRoleLookup("c@d.com", entity.RolePatient, now)))
	require.NoError(t, r.Merge(ctx, "u1", domainRepo.Document{"isActive": false}))

	lookup, err := r.FindByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleDoctor, lookup.Role)
	assert.False(t, lookup.IsActive)

	ids, err := r.FindAllIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]struct{}{"u1": {}, "u2": {}}, ids)
}

func TestProfileRepositoryFillsUserIDFromRecord(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemoryStore()
	r := NewProfileRepository(store)

	require.NoError(t, store.Set(ctx, entity.CollectionDoctors, "legacy", domainRepo.Document{
		"fullName": "Dr. Legacy",
		"isActive": true,
	}))
	require.NoError(t, store.Set(ctx, entity.CollectionPatients, "p-legacy", domainRepo.Document{
		"fullName": "Old Patient",
	}))

	doctors, err := r.FindActiveDoctors(ctx)
	require.NoError(t, err)
	require.Len(t, doctors, 1)
	assert.Equal(t, "legacy", doctors[0].UserID)

	patients, err := r.FindAll(ctx, entity.RolePatient)
	require.NoError(t, err)
	require.Len(t, patients, 1)
	assert.Equal(t, "p-legacy", patients[0].OwnerID())
}
