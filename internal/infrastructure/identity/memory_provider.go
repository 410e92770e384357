package identity

import (
	"context"
	"sync"

	"cureconnect/internal/domain/entity"
	"cureconnect/internal/domain/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type memoryAccount struct {
	account  entity.Account
	hash     []byte
	disabled bool
}

// MemoryProvider applies the same credential rules as PasswordProvider
// without a database.
type MemoryProvider struct {
	mu       sync.Mutex
	accounts map[string]*memoryAccount
	limiter  AttemptLimiter
	validate *validator.Validate
}

func NewMemoryProvider(limiter AttemptLimiter) *MemoryProvider {
	return &MemoryProvider{
		accounts: make(map[string]*memoryAccount),
		limiter:  limiter,
		validate: validator.New(),
	}
}

func (p *MemoryProvider) CreateAccount(ctx context.Context, email, password string) (*entity.Account, error) {
	email = normalizeEmail(email)
	if err := checkCredentials(p.validate, email, password); err != nil {
		return nil, err
	}

	// MinCost keeps tests fast.
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.accounts[email]; ok {
		return nil, repository.ErrIdentityEmailInUse
	}

	acc := &memoryAccount{account: entity.Account{ID: uuid.New().String(), Email: email}, hash: hash}
	p.accounts[email] = acc
	account := acc.account
	return &account, nil
}

func (p *MemoryProvider) SignIn(ctx context.Context, email, password string) (*entity.Account, error) {
	email = normalizeEmail(email)
	if err := p.validate.Var(email, "required,email"); err != nil {
		return nil, repository.ErrIdentityInvalidEmail
	}

	allowed, err := p.limiter.Allow(ctx, email)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, repository.ErrIdentityTooManyRequests
	}

	p.mu.Lock()
	acc, ok := p.accounts[email]
	p.mu.Unlock()
	if !ok {
		_ = p.limiter.RecordFailure(ctx, email)
		return nil, repository.ErrIdentityUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword(acc.hash, []byte(password)); err != nil {
		_ = p.limiter.RecordFailure(ctx, email)
		return nil, repository.ErrIdentityWrongPassword
	}
	if acc.disabled {
		return nil, repository.ErrIdentityUserDisabled
	}

	_ = p.limiter.Reset(ctx, email)
	account := acc.account
	return &account, nil
}

func (p *MemoryProvider) DisableAccount(ctx context.Context, accountID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, acc := range p.accounts {
		if acc.account.ID == accountID {
			acc.disabled = true
			return nil
		}
	}
	return repository.ErrIdentityUserNotFound
}
