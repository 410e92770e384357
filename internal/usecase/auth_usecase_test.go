package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"cureconnect/internal/delivery/dto"
	"cureconnect/internal/domain/entity"
	"cureconnect/internal/domain/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signUpRequest(email, role string) *dto.SignUpRequest {
	return &dto.SignUpRequest{
		Email:    email,
		Password: "secret123",
		FullName: "Test User",
		Phone:    "+12015550123",
		Role:     role,
	}
}

func TestSignUpWritesProfileAndLookup(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.auth.SignUp(ctx, signUpRequest("Doc@Example.com", "doctor"))
	require.NoError(t, err)
	assert.Equal(t, "doctor", resp.Role)
	assert.Equal(t, "doc@example.com", resp.Email)

	doctor := f.doctor(t, resp.UserID)
	assert.True(t, strings.HasPrefix(doctor.DoctorID, "DOC"))
	assert.Equal(t, resp.UserID, doctor.UserID)
	assert.Equal(t, []string{}, doctor.LanguagesSpoken)
	assert.Nil(t, doctor.Specialization)

	lookup, err := f.userRepo.FindByID(ctx, resp.UserID)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleDoctor, lookup.Role)
	assert.True(t, lookup.IsActive)
}

func TestSignUpIdentityErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.auth.SignUp(ctx, signUpRequest("dup@example.com", "patient"))
	require.NoError(t, err)

	_, err = f.auth.SignUp(ctx, signUpRequest("dup@example.com", "patient"))
	assert.ErrorIs(t, err, ErrAccountExists)
	assert.Equal(t, "This email address is already registered. Please use a different email or try signing in.", err.Error())

	weak := signUpRequest("weak@example.com", "patient")
	weak.Password = "123"
	_, err = f.auth.SignUp(ctx, weak)
	assert.ErrorIs(t, err, ErrWeakCredential)

	_, err = f.auth.SignUp(ctx, signUpRequest("not-an-email", "patient"))
	assert.ErrorIs(t, err, ErrInvalidEmail)

	_, err = f.auth.SignUp(ctx, signUpRequest("admin@example.com", "admin"))
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestSignUpToleratesLookupFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.SetFunc = func(ctx context.Context, collection, id string, doc repository.Document) error {
		if collection == entity.CollectionUsers {
			return errors.New("users collection unavailable")
		}
		return f.store.DocumentStore.Set(ctx, collection, id, doc)
	}

	resp, err := f.auth.SignUp(ctx, signUpRequest("half@example.com", "patient"))
	require.NoError(t, err)

	_, err = f.userRepo.FindByID(ctx, resp.UserID)
	assert.ErrorIs(t, err, repository.ErrDocumentNotFound)

	_, err = f.auth.SignIn(ctx, &dto.SignInRequest{Email: "half@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestSignInAndSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	signUp, err := f.auth.SignUp(ctx, signUpRequest("pat@example.com", "patient"))
	require.NoError(t, err)

	resp, err := f.auth.SignIn(ctx, &dto.SignInRequest{Email: "pat@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, signUp.UserID, resp.UserID)
	assert.Equal(t, "patient", resp.Role)
	require.NotNil(t, resp.Tokens)

	// Last login is written in the background.
	f.auth.Wait()
	lookup, err := f.userRepo.FindByID(ctx, resp.UserID)
	require.NoError(t, err)
	assert.NotNil(t, lookup.LastLoginAt)

	claims, err := f.jwtService.ValidateToken(resp.Tokens.AccessToken)
	require.NoError(t, err)
	sessionCtx := entity.ContextWithSession(ctx, &entity.Session{
		UserID:  claims.UserID,
		Email:   claims.Email,
		Role:    entity.Role(claims.Role),
		TokenID: claims.TokenID,
	})

	assert.True(t, f.auth.IsAuthenticated(sessionCtx))
	assert.False(t, f.auth.IsAuthenticated(ctx))
	role, ok := f.auth.CurrentUserRole(sessionCtx)
	assert.True(t, ok)
	assert.Equal(t, entity.RolePatient, role)

	profile, err := f.auth.GetProfile(sessionCtx)
	require.NoError(t, err)
	assert.Equal(t, entity.RolePatient, profile.ProfileRole())

	require.NoError(t, f.auth.SignOut(sessionCtx, resp.Tokens.RefreshToken))
	exists, err := f.tokenRepo.Exists(ctx, repository.AccessTokenKind, claims.UserID, claims.TokenID)
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = f.auth.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: resp.Tokens.RefreshToken})
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

func TestSignInErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.auth.SignUp(ctx, signUpRequest("doc@example.com", "doctor"))
	require.NoError(t, err)

	_, err = f.auth.SignIn(ctx, &dto.SignInRequest{Email: "nobody@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrAccountNotFound)
	assert.Equal(t, "No account found with this email address.", err.Error())

	// The fixture limiter allows three failures per window.
	for i := 0; i < 3; i++ {
		_, err = f.auth.SignIn(ctx, &dto.SignInRequest{Email: "doc@example.com", Password: "wrong-pass"})
		assert.ErrorIs(t, err, ErrWrongCredential)
	}
	_, err = f.auth.SignIn(ctx, &dto.SignInRequest{Email: "doc@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrRateLimited)
}

func TestRefreshTokenRotates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.auth.SignUp(ctx, signUpRequest("doc@example.com", "doctor"))
	require.NoError(t, err)
	resp, err := f.auth.SignIn(ctx, &dto.SignInRequest{Email: "doc@example.com", Password: "secret123"})
	require.NoError(t, err)
	f.auth.Wait()

	tokens, err := f.auth.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: resp.Tokens.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, resp.Tokens.RefreshToken, tokens.RefreshToken)

	_, err = f.auth.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: resp.Tokens.RefreshToken})
	assert.ErrorIs(t, err, ErrTokenRevoked)

	_, err = f.auth.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: tokens.AccessToken})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestDeactivateAccount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	signUp, err := f.auth.SignUp(ctx, signUpRequest("doc@example.com", "doctor"))
	require.NoError(t, err)

	sessionCtx := sessionContext(signUp.UserID, entity.RoleDoctor)
	require.NoError(t, f.auth.DeactivateAccount(sessionCtx))

	assert.False(t, f.doctor(t, signUp.UserID).IsActive)

	_, err = f.auth.SignIn(ctx, &dto.SignInRequest{Email: "doc@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrAccountInactive)
}

func TestSignUpProfileFailureLeavesAccount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.SetFunc = func(ctx context.Context, collection, id string, doc repository.Document) error {
		if collection == entity.CollectionPatients {
			return errors.New("patients collection unavailable")
		}
		return f.store.DocumentStore.Set(ctx, collection, id, doc)
	}

	_, err := f.auth.SignUp(ctx, signUpRequest("stranded@example.com", "patient"))
	assert.ErrorIs(t, err, ErrNetworkFailure)

	// No rollback: the account stays behind without a profile or lookup.
	f.store.SetFunc = nil
	_, err = f.auth.SignUp(ctx, signUpRequest("stranded@example.com", "patient"))
	assert.ErrorIs(t, err, ErrAccountExists)

	_, err = f.auth.SignIn(ctx, &dto.SignInRequest{Email: "stranded@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestLastLoginFailureDoesNotStopOtherWrites(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	signUp, err := f.auth.SignUp(ctx, signUpRequest("busy@example.com", "doctor"))
	require.NoError(t, err)

	f.store.MergeFunc = func(ctx context.Context, collection, id string, fields repository.Document) error {
		if collection == entity.CollectionUsers {
			return errors.New("users collection unavailable")
		}
		return f.store.DocumentStore.Merge(ctx, collection, id, fields)
	}

	for range 3 {
		_, err := f.auth.SignIn(ctx, &dto.SignInRequest{Email: "busy@example.com", Password: "secret123"})
		require.NoError(t, err)
	}
	f.auth.Wait()

	assert.NotNil(t, f.doctor(t, signUp.UserID).LastLoginAt)
	lookup, err := f.userRepo.FindByID(ctx, signUp.UserID)
	require.NoError(t, err)
	assert.Nil(t, lookup.LastLoginAt)
}
