package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cureconnect/config"
	"cureconnect/internal/domain/entity"
	"cureconnect/internal/domain/repository"
	repo "cureconnect/internal/repository"
	"cureconnect/pkg/jwt"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authFixture struct {
	jwtService *jwt.JWTService
	tokenRepo  repository.TokenRepository
	middleware *AuthMiddleware
}

func newAuthFixture() *authFixture {
	log := logrus.New()
	log.SetOutput(io.Discard)

	jwtService := jwt.NewJWTService(config.JWTConfig{
		Secret:        "test-secret",
		AccessExpiry:  time.Minute,
		RefreshExpiry: time.Hour,
	})
	tokenRepo := repo.NewMemoryTokenRepository()
	return &authFixture{
		jwtService: jwtService,
		tokenRepo:  tokenRepo,
		middleware: NewAuthMiddleware(log, jwtService, tokenRepo),
	}
}

func (f *authFixture) issue(t *testing.T, role string, save bool) string {
	t.Helper()
	token, tokenID, err := f.jwtService.GenerateAccessToken("uid-1", "a@b.com", role)
	require.NoError(t, err)
	if save {
		require.NoError(t, f.tokenRepo.Save(context.Background(), repository.AccessTokenKind, "uid-1", tokenID, time.Minute))
	}
	return token
}

// sessionEcho writes the session role, or 204 when the chain reached it without one.
func sessionEcho() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := entity.SessionFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		_, _ = w.Write([]byte(session.Role))
	})
}

func TestAuthenticate(t *testing.T) {
	f := newAuthFixture()
	valid := f.issue(t, "doctor", true)
	revoked := f.issue(t, "doctor", false)
	badRole := f.issue(t, "admin", true)
	refresh, _, err := f.jwtService.GenerateRefreshToken("uid-1", "a@b.com", "doctor")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		query  string
		status int
	}{
		{"missing header", "", "", http.StatusUnauthorized},
		{"malformed header", "Token " + valid, "", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", "", http.StatusUnauthorized},
		{"refresh token", "Bearer " + refresh, "", http.StatusUnauthorized},
		{"unknown role", "Bearer " + badRole, "", http.StatusUnauthorized},
		{"revoked", "Bearer " + revoked, "", http.StatusUnauthorized},
		{"valid header", "Bearer " + valid, "", http.StatusOK},
		{"valid query", "", valid, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := "/api/v1/profile"
			if tt.query != "" {
				target += "?access_token=" + tt.query
			}
			req := httptest.NewRequest(http.MethodGet, target, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			f.middleware.Authenticate(sessionEcho()).ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, "doctor", rec.Body.String())
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	withRole := func(role entity.Role) *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/profile/availability/toggle", nil)
		return req.WithContext(entity.ContextWithSession(req.Context(), &entity.Session{UserID: "uid-1", Role: role}))
	}

	rec := httptest.NewRecorder()
	RequireDoctor(sessionEcho()).ServeHTTP(rec, withRole(entity.RoleDoctor))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	RequireDoctor(sessionEcho()).ServeHTTP(rec, withRole(entity.RolePatient))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	RequirePatient(sessionEcho()).ServeHTTP(rec, withRole(entity.RolePatient))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	RequireRole(entity.RoleDoctor, entity.RolePatient)(sessionEcho()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
