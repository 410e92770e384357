package usecase

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"cureconnect/config"
	"cureconnect/internal/domain/entity"
	"cureconnect/internal/domain/repository"
	"cureconnect/internal/infrastructure/docstore"
	"cureconnect/internal/infrastructure/identity"
	repo "cureconnect/internal/repository"
	"cureconnect/internal/service"
	"cureconnect/pkg/jwt"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

// MockDocumentStore delegates to a real store unless a XxxFunc is set.
type MockDocumentStore struct {
	repository.DocumentStore

	SetFunc    func(ctx context.Context, collection, id string, doc repository.Document) error
	UpdateFunc func(ctx context.Context, collection, id string, fields repository.Document) error
	MergeFunc  func(ctx context.Context, collection, id string, fields repository.Document) error

	mu          sync.Mutex
	updateCalls int
	mergeCalls  int
}

func (m *MockDocumentStore) Set(ctx context.Context, collection, id string, doc repository.Document) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, collection, id, doc)
	}
	return m.DocumentStore.Set(ctx, collection, id, doc)
}

func (m *MockDocumentStore) Update(ctx context.Context, collection, id string, fields repository.Document) error {
	m.mu.Lock()
	m.updateCalls++
	m.mu.Unlock()
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, collection, id, fields)
	}
	return m.DocumentStore.Update(ctx, collection, id, fields)
}

func (m *MockDocumentStore) Merge(ctx context.Context, collection, id string, fields repository.Document) error {
	m.mu.Lock()
	m.mergeCalls++
	m.mu.Unlock()
	if m.MergeFunc != nil {
		return m.MergeFunc(ctx, collection, id, fields)
	}
	return m.DocumentStore.Merge(ctx, collection, id, fields)
}

type fixture struct {
	store       *MockDocumentStore
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
	auditRepo   repository.AuditLogRepository
	tokenRepo   repository.TokenRepository
	jwtService  *jwt.JWTService

	auth    AuthUsecase
	profile ProfileUsecase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	store := &MockDocumentStore{DocumentStore: docstore.NewMemoryStore()}
	f := &fixture{
		store:       store,
		userRepo:    repo.NewUserRepository(store),
		profileRepo: repo.NewProfileRepository(store),
		auditRepo:   repo.NewAuditLogRepository(store),
		tokenRepo:   repo.NewMemoryTokenRepository(),
		jwtService: jwt.NewJWTService(config.JWTConfig{
			Secret:        "test-secret",
			AccessExpiry:  time.Minute,
			RefreshExpiry: time.Hour,
		}),
	}

	audit := service.NewAuditService(log, f.auditRepo)
	provider := identity.NewMemoryProvider(identity.NewMemoryLimiter(3, time.Minute))
	f.auth = NewAuthUsecase(log, provider, f.userRepo, f.profileRepo, f.tokenRepo, audit, f.jwtService)
	f.profile = NewProfileUsecase(log, f.profileRepo, audit)
	return f
}

// seedDoctor stores a doctor profile and returns a context signed in as it.
func (f *fixture) seedDoctor(t *testing.T, userID string, mutate func(p *entity.DoctorProfile)) context.Context {
	t.Helper()
	p := entity.NewDoctorProfile(userID, "DOC"+userID, userID+"@example.com", "Dr. "+userID, "+12015550123", time.Now().UTC())
	if mutate != nil {
		mutate(p)
	}
	require.NoError(t, f.profileRepo.Create(context.Background(), userID, p))
	return sessionContext(userID, entity.RoleDoctor)
}

func (f *fixture) seedPatient(t *testing.T, userID string) context.Context {
	t.Helper()
	p := entity.NewPatientProfile(userID, "PAT"+userID, userID+"@example.com", "Patient "+userID, "+12015550124", time.Now().UTC())
	require.NoError(t, f.profileRepo.Create(context.Background(), userID, p))
	return sessionContext(userID, entity.RolePatient)
}

func (f *fixture) doctor(t *testing.T, userID string) *entity.DoctorProfile {
	t.Helper()
	p, err := f.profileRepo.FindByUserID(context.Background(), entity.RoleDoctor, userID)
	require.NoError(t, err)
	return p.(*entity.DoctorProfile)
}

func sessionContext(userID string, role entity.Role) context.Context {
	return entity.ContextWithSession(context.Background(), &entity.Session{
		UserID: userID,
		Email:  userID + "@example.com",
		Role:   role,
	})
}

func strPtr(s string) *string { return &s }
