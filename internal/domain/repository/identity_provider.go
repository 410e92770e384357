package repository

import (
	"context"
	"errors"

	"cureconnect/internal/domain/entity"
)

// Identity provider failure codes. Providers wrap or return these so the
// gateway can map them onto user-facing copy.
var (
	ErrIdentityEmailInUse      = errors.New("identity: email already in use")
	ErrIdentityWeakPassword    = errors.New("identity: weak password")
	ErrIdentityInvalidEmail    = errors.New("identity: invalid email")
	ErrIdentityUserNotFound    = errors.New("identity: user not found")
	ErrIdentityWrongPassword   = errors.New("identity: wrong password")
	ErrIdentityTooManyRequests = errors.New("identity: too many requests")
	ErrIdentityNetwork         = errors.New("identity: network request failed")
	ErrIdentityUserDisabled    = errors.New("identity: user disabled")
)

type IdentityProvider interface {
	CreateAccount(ctx context.Context, email, password string) (*entity.Account, error)
	SignIn(ctx context.Context, email, password string) (*entity.Account, error)
	DisableAccount(ctx context.Context, accountID string) error
}
