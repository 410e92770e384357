package usecase

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"cureconnect/internal/delivery/dto"
	"cureconnect/internal/domain/entity"
	"cureconnect/internal/domain/repository"
	"cureconnect/internal/service"
	"cureconnect/pkg/jwt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// lastLoginTimeout bounds the detached last-login write.
const lastLoginTimeout = 10 * time.Second

type AuthUsecase interface {
	SignUp(ctx context.Context, req *dto.SignUpRequest) (*dto.SignUpResponse, error)
	SignIn(ctx context.Context, req *dto.SignInRequest) (*dto.SignInResponse, error)
	SignOut(ctx context.Context, refreshToken string) error
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	CurrentUserRole(ctx context.Context) (entity.Role, bool)
	IsAuthenticated(ctx context.Context) bool
	GetProfile(ctx context.Context) (entity.Profile, error)
	DeactivateAccount(ctx context.Context) error
	// Wait blocks until detached background writes have finished.
	Wait()
}

type authUsecase struct {
	log         *logrus.Logger
	identity    repository.IdentityProvider
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
	tokenRepo   repository.TokenRepository
	audit       service.AuditService
	jwtService  *jwt.JWTService

	// background tracks detached last-login writes. They never return an error.
	background errgroup.Group
}

func NewAuthUsecase(
	log *logrus.Logger,
	identity repository.IdentityProvider,
	userRepo repository.UserRepository,
	profileRepo repository.ProfileRepository,
	tokenRepo repository.TokenRepository,
	audit service.AuditService,
	jwtService *jwt.JWTService,
) AuthUsecase {
	return &authUsecase{
		log:         log,
		identity:    identity,
		userRepo:    userRepo,
		profileRepo: profileRepo,
		tokenRepo:   tokenRepo,
		audit:       audit,
		jwtService:  jwtService,
	}
}

func (u *authUsecase) SignUp(ctx context.Context, req *dto.SignUpRequest) (*dto.SignUpResponse, error) {
	role, err := entity.ParseRole(req.Role)
	if err != nil {
		return nil, ErrInvalidRole
	}

	account, err := u.identity.CreateAccount(ctx, req.Email, req.Password)
	if err != nil {
		return nil, u.mapIdentityError(err)
	}

	now := time.Now().UTC()
	profile := newDefaultProfile(role, account, req, now)

	if err := u.profileRepo.Create(ctx, account.ID, profile); err != nil {
		u.log.Warnf("Failed to create %s profile: %+v", role, err)
		return nil, ErrNetworkFailure
	}

	// The profile already exists at this point. A failed lookup write is left
	// for the sign-up reconciler to repair.
	if err := u.userRepo.Create(ctx, account.ID, entity.NewRoleLookup(account.Email, role, now)); err != nil {
		u.log.Warnf("Failed to create role lookup for %s: %+v", account.ID, err)
	}

	_ = u.audit.LogCreate(ctx, account.ID, role, entity.AuditActionUserRegister, role.Collection(), account.ID, nil)

	return &dto.SignUpResponse{
		UserID:  account.ID,
		Email:   account.Email,
		Role:    string(role),
		Profile: profile,
	}, nil
}

func newDefaultProfile(role entity.Role, account *entity.Account, req *dto.SignUpRequest, now time.Time) entity.Profile {
	id := entity.GenerateUniqueID(role, now, rand.IntN)
	if role == entity.RoleDoctor {
		return entity.NewDoctorProfile(account.ID, id, account.Email, req.FullName, req.Phone, now)
	}
	return entity.NewPatientProfile(account.ID, id, account.Email, req.FullName, req.Phone, now)
}

func (u *authUsecase) SignIn(ctx context.Context, req *dto.SignInRequest) (*dto.SignInResponse, error) {
	account, err := u.identity.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		return nil, u.mapIdentityError(err)
	}

	lookup, err := u.userRepo.FindByID(ctx, account.ID)
	if errors.Is(err, repository.ErrDocumentNotFound) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		u.log.Warnf("Failed to find role lookup: %+v", err)
		return nil, ErrNetworkFailure
	}
	if !lookup.IsActive {
		return nil, ErrAccountInactive
	}

	profile, err := u.profileRepo.FindByUserID(ctx, lookup.Role, account.ID)
	if errors.Is(err, repository.ErrDocumentNotFound) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		u.log.Warnf("Failed to find %s profile: %+v", lookup.Role, err)
		return nil, ErrNetworkFailure
	}

	tokens, err := u.issueTokens(ctx, account.ID, account.Email, lookup.Role)
	if err != nil {
		return nil, err
	}

	u.stampLastLogin(ctx, account.ID, lookup.Role)

	return &dto.SignInResponse{
		UserID:  account.ID,
		Email:   account.Email,
		Role:    string(lookup.Role),
		Profile: profile,
		Tokens:  tokens,
	}, nil
}

// stampLastLogin records the login time on both records without holding up
// the caller. Failures are only logged.
func (u *authUsecase) stampLastLogin(ctx context.Context, userID string, role entity.Role) {
	detached := context.WithoutCancel(ctx)
	u.background.Go(func() error {
		ctx, cancel := context.WithTimeout(detached, lastLoginTimeout)
		defer cancel()

		now := time.Now().UTC()
		fields := repository.Document{"lastLoginAt": now}
		if err := u.userRepo.Merge(ctx, userID, fields); err != nil {
			u.log.Warnf("Failed to update last login on role lookup: %+v", err)
		}
		if err := u.profileRepo.Merge(ctx, role, userID, fields); err != nil {
			u.log.Warnf("Failed to update last login on %s profile: %+v", role, err)
		}
		_ = u.audit.LogUpdate(ctx, userID, role, entity.AuditActionUserLogin, entity.CollectionUsers, userID, fields)
		return nil
	})
}

func (u *authUsecase) issueTokens(ctx context.Context, userID, email string, role entity.Role) (*dto.TokenResponse, error) {
	accessToken, accessTokenID, err := u.jwtService.GenerateAccessToken(userID, email, string(role))
	if err != nil {
		u.log.Warnf("Failed to generate access token: %+v", err)
		return nil, err
	}

	refreshToken, refreshTokenID, err := u.jwtService.GenerateRefreshToken(userID, email, string(role))
	if err != nil {
		u.log.Warnf("Failed to generate refresh token: %+v", err)
		return nil, err
	}

	if err := u.tokenRepo.Save(ctx, repository.AccessTokenKind, userID, accessTokenID, u.jwtService.GetAccessExpiry()); err != nil {
		u.log.Warnf("Failed to store access token: %+v", err)
		return nil, err
	}

	if err := u.tokenRepo.Save(ctx, repository.RefreshTokenKind, userID, refreshTokenID, u.jwtService.GetRefreshExpiry()); err != nil {
		u.log.Warnf("Failed to store refresh token: %+v", err)
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(u.jwtService.GetAccessExpiry().Seconds()),
	}, nil
}

func (u *authUsecase) SignOut(ctx context.Context, refreshToken string) error {
	session, ok := entity.SessionFromContext(ctx)
	if !ok {
		return ErrNotAuthenticated
	}

	if err := u.tokenRepo.Delete(ctx, repository.AccessTokenKind, session.TokenID); err != nil {
		u.log.Warnf("Failed to delete access token: %+v", err)
		return err
	}

	if refreshToken != "" {
		claims, err := u.jwtService.ValidateToken(refreshToken)
		if err == nil && claims.TokenType == jwt.RefreshToken && claims.UserID == session.UserID {
			if err := u.tokenRepo.Delete(ctx, repository.RefreshTokenKind, claims.TokenID); err != nil {
				u.log.Warnf("Failed to delete refresh token: %+v", err)
				return err
			}
		}
	}

	_ = u.audit.LogDelete(ctx, session.UserID, session.Role, entity.AuditActionUserLogout, "session", session.TokenID, nil)
	return nil
}

func (u *authUsecase) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	// Validate refresh token
	claims, err := u.jwtService.ValidateToken(req.RefreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}

	if claims.TokenType != jwt.RefreshToken {
		return nil, ErrInvalidToken
	}

	exists, err := u.tokenRepo.Exists(ctx, repository.RefreshTokenKind, claims.UserID, claims.TokenID)
	if err != nil {
		u.log.Warnf("Failed to check refresh token: %+v", err)
		return nil, err
	}
	if !exists {
		return nil, ErrTokenRevoked
	}

	// Delete old refresh token
	if err := u.tokenRepo.Delete(ctx, repository.RefreshTokenKind, claims.TokenID); err != nil {
		u.log.Warnf("Failed to delete old refresh token: %+v", err)
		return nil, err
	}

	return u.issueTokens(ctx, claims.UserID, claims.Email, entity.Role(claims.Role))
}

func (u *authUsecase) CurrentUserRole(ctx context.Context) (entity.Role, bool) {
	session, ok := entity.SessionFromContext(ctx)
	if !ok {
		return "", false
	}
	return session.Role, true
}

func (u *authUsecase) IsAuthenticated(ctx context.Context) bool {
	_, ok := entity.SessionFromContext(ctx)
	return ok
}

func (u *authUsecase) GetProfile(ctx context.Context) (entity.Profile, error) {
	session, ok := entity.SessionFromContext(ctx)
	if !ok {
		return nil, ErrNotAuthenticated
	}

	profile, err := u.profileRepo.FindByUserID(ctx, session.Role, session.UserID)
	if errors.Is(err, repository.ErrDocumentNotFound) {
		return nil, profileNotFound(session.Role)
	}
	if err != nil {
		u.log.Warnf("Failed to find %s profile: %+v", session.Role, err)
		return nil, err
	}
	return profile, nil
}

// DeactivateAccount soft-deletes the caller: both records are marked
// inactive, the identity account is disabled and every token is revoked.
func (u *authUsecase) DeactivateAccount(ctx context.Context) error {
	session, ok := entity.SessionFromContext(ctx)
	if !ok {
		return ErrNotAuthenticated
	}

	fields := repository.Document{"isActive": false, "lastUpdated": time.Now().UTC()}
	if err := u.profileRepo.Merge(ctx, session.Role, session.UserID, fields); err != nil {
		u.log.Warnf("Failed to deactivate %s profile: %+v", session.Role, err)
		return updateFailed("account", err)
	}
	if err := u.userRepo.Merge(ctx, session.UserID, repository.Document{"isActive": false}); err != nil {
		u.log.Warnf("Failed to deactivate role lookup: %+v", err)
		return updateFailed("account", err)
	}

	if err := u.identity.DisableAccount(ctx, session.UserID); err != nil {
		u.log.Warnf("Failed to disable identity account: %+v", err)
	}

	if err := u.tokenRepo.DeleteAllForUser(ctx, session.UserID); err != nil {
		u.log.Warnf("Failed to revoke tokens: %+v", err)
		return err
	}

	_ = u.audit.LogDelete(ctx, session.UserID, session.Role, entity.AuditActionAccountDeactivate, session.Role.Collection(), session.UserID, nil)
	return nil
}

func (u *authUsecase) Wait() {
	_ = u.background.Wait()
}

func (u *authUsecase) mapIdentityError(err error) error {
	switch {
	case errors.Is(err, repository.ErrIdentityEmailInUse):
		return ErrAccountExists
	case errors.Is(err, repository.ErrIdentityWeakPassword):
		return ErrWeakCredential
	case errors.Is(err, repository.ErrIdentityInvalidEmail):
		return ErrInvalidEmail
	case errors.Is(err, repository.ErrIdentityUserNotFound):
		return ErrAccountNotFound
	case errors.Is(err, repository.ErrIdentityWrongPassword):
		return ErrWrongCredential
	case errors.Is(err, repository.ErrIdentityTooManyRequests):
		return ErrRateLimited
	case errors.Is(err, repository.ErrIdentityNetwork):
		return ErrNetworkFailure
	case errors.Is(err, repository.ErrIdentityUserDisabled):
		return ErrAccountInactive
	default:
		u.log.Warnf("Unmapped identity error: %+v", err)
		return ErrAuthFailed
	}
}

func profileNotFound(role entity.Role) error {
	if role == entity.RoleDoctor {
		return ErrDoctorNotFound
	}
	return ErrPatientNotFound
}
