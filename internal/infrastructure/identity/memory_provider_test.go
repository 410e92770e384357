package identity

import (
	"context"
	"testing"
	"time"

	"cureconnect/internal/domain/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryProviderCreateAccount(t *testing.T) {
	ctx := context.Background()
	p := NewMemoryProvider(NewMemoryLimiter(5, time.Minute))

	acc, err := p.CreateAccount(ctx, " Doc@Example.com ", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, acc.ID)
	assert.Equal(t, "doc@example.com", acc.Email)

	_, err = p.CreateAccount(ctx, "doc@example.com", "secret1")
	assert.ErrorIs(t, err, repository.ErrIdentityEmailInUse)

	_, err = p.CreateAccount(ctx, "other@example.com", "12345")
	assert.ErrorIs(t, err, repository.ErrIdentityWeakPassword)

	_, err = p.CreateAccount(ctx, "not-an-email", "secret1")
	assert.ErrorIs(t, err, repository.ErrIdentityInvalidEmail)
}

func TestMemoryProviderSignIn(t *testing.T) {
	ctx := context.Background()
	p := NewMemoryProvider(NewMemoryLimiter(5, time.Minute))

	created, err := p.CreateAccount(ctx, "doc@example.com", "secret1")
	require.NoError(t, err)

	acc, err := p.SignIn(ctx, "doc@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, acc.ID)

	_, err = p.SignIn(ctx, "doc@example.com", "wrong")
	assert.ErrorIs(t, err, repository.ErrIdentityWrongPassword)

	_, err = p.SignIn(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, repository.ErrIdentityUserNotFound)
}

func TestMemoryProviderRateLimit(t *testing.T) {
	ctx := context.Background()
	p := NewMemoryProvider(NewMemoryLimiter(2, time.Minute))

	_, err := p.CreateAccount(ctx, "doc@example.com", "secret1")
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err = p.SignIn(ctx, "doc@example.com", "wrong")
		assert.ErrorIs(t, err, repository.ErrIdentityWrongPassword)
	}

	_, err = p.SignIn(ctx, "doc@example.com", "secret1")
	assert.ErrorIs(t, err, repository.ErrIdentityTooManyRequests)
}

func TestMemoryProviderDisableAccount(t *testing.T) {
	ctx := context.Background()
	p := NewMemoryProvider(NewMemoryLimiter(5, time.Minute))

	acc, err := p.CreateAccount(ctx, "doc@example.com", "secret1")
	require.NoError(t, err)
	require.NoError(t, p.DisableAccount(ctx, acc.ID))

	_, err = p.SignIn(ctx, "doc@example.com", "secret1")
	assert.ErrorIs(t, err, repository.ErrIdentityUserDisabled)

	assert.ErrorIs(t, p.DisableAccount(ctx, "missing"), repository.ErrIdentityUserNotFound)
}
