package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cureconnect/internal/domain/entity"
	"cureconnect/internal/domain/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// MinPasswordLength is the shortest password accepted at sign-up.
const MinPasswordLength = 6

type accountRow struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string    `gorm:"type:text;not null"`
	Disabled     bool      `gorm:"not null;default:false"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (accountRow) TableName() string {
	return "accounts"
}

// PasswordProvider is an email/password identity provider backed by the
// accounts table.
type PasswordProvider struct {
	db       *gorm.DB
	limiter  AttemptLimiter
	validate *validator.Validate
	log      *logrus.Logger
}

func NewPasswordProvider(db *gorm.DB, limiter AttemptLimiter, log *logrus.Logger) (*PasswordProvider, error) {
	if err := db.AutoMigrate(&accountRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate accounts table: %w", err)
	}
	return &PasswordProvider{
		db:       db,
		limiter:  limiter,
		validate: validator.New(),
		log:      log,
	}, nil
}

func (p *PasswordProvider) CreateAccount(ctx context.Context, email, password string) (*entity.Account, error) {
	email = normalizeEmail(email)
	if err := checkCredentials(p.validate, email, password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		p.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	row := &accountRow{ID: uuid.New(), Email: email, PasswordHash: string(hash)}
	if err := p.db.WithContext(ctx).Create(row).Error; err != nil {
		if isDuplicateKeyError(err) {
			return nil, repository.ErrIdentityEmailInUse
		}
		p.log.Warnf("Failed to create account: %+v", err)
		return nil, fmt.Errorf("%w: %v", repository.ErrIdentityNetwork, err)
	}

	return &entity.Account{ID: row.ID.String(), Email: row.Email}, nil
}

func (p *PasswordProvider) SignIn(ctx context.Context, email, password string) (*entity.Account, error) {
	email = normalizeEmail(email)
	if err := p.validate.Var(email, "required,email"); err != nil {
		return nil, repository.ErrIdentityInvalidEmail
	}

	allowed, err := p.limiter.Allow(ctx, email)
	if err != nil {
		p.log.Warnf("Failed to check login attempts: %+v", err)
		return nil, fmt.Errorf("%w: %v", repository.ErrIdentityNetwork, err)
	}
	if !allowed {
		return nil, repository.ErrIdentityTooManyRequests
	}

	var row accountRow
	err = p.db.WithContext(ctx).Where("email = ?", email).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		p.recordFailure(ctx, email)
		return nil, repository.ErrIdentityUserNotFound
	}
	if err != nil {
		p.log.Warnf("Failed to find account: %+v", err)
		return nil, fmt.Errorf("%w: %v", repository.ErrIdentityNetwork, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(row.PasswordHash), []byte(password)); err != nil {
		p.recordFailure(ctx, email)
		return nil, repository.ErrIdentityWrongPassword
	}
	if row.Disabled {
		return nil, repository.ErrIdentityUserDisabled
	}

	if err := p.limiter.Reset(ctx, email); err != nil {
		p.log.Warnf("Failed to reset login attempts: %+v", err)
	}

	return &entity.Account{ID: row.ID.String(), Email: row.Email}, nil
}

func (p *PasswordProvider) DisableAccount(ctx context.Context, accountID string) error {
	id, err := uuid.Parse(accountID)
	if err != nil {
		return repository.ErrIdentityUserNotFound
	}

	result := p.db.WithContext(ctx).Model(&accountRow{}).Where("id = ?", id).Update("disabled", true)
	if result.Error != nil {
		return fmt.Errorf("%w: %v", repository.ErrIdentityNetwork, result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrIdentityUserNotFound
	}
	return nil
}

func (p *PasswordProvider) recordFailure(ctx context.Context, email string) {
	if err := p.limiter.RecordFailure(ctx, email); err != nil {
		p.log.Warnf("Failed to record login attempt: %+v", err)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func checkCredentials(validate *validator.Validate, email, password string) error {
	if err := validate.Var(email, "required,email"); err != nil {
		return repository.ErrIdentityInvalidEmail
	}
	if len(password) < MinPasswordLength {
		return repository.ErrIdentityWeakPassword
	}
	return nil
}

// isDuplicateKeyError checks if the error is a PostgreSQL unique constraint violation
func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23505 = unique_violation
		return pgErr.Code == "23505"
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
