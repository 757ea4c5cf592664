package http

import (
	"context"

	"github.com/takarapp/accounts-api/internal/domain"
	jwtinfra "github.com/takarapp/accounts-api/internal/infrastructure/jwt"
	"github.com/takarapp/accounts-api/internal/infrastructure/smtp"
	"github.com/takarapp/accounts-api/internal/infrastructure/sns"
)

// UserRepository is the minimal interface the router requires from a user store.
type UserRepository interface {
	Put(ctx context.Context, u *domain.User) error
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
}

// ResetCodeRepository is the minimal interface the router requires from a reset-code store.
type ResetCodeRepository interface {
	Put(ctx context.Context, c *domain.PasswordResetCode) error
	Get(ctx context.Context, userID string) (*domain.PasswordResetCode, error)
	Delete(ctx context.Context, userID string) error
}

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo      UserRepository
	ResetCodeRepo ResetCodeRepository
	Mailer        smtp.Mailer
	SMSSender     sns.SMSSender
	JWTProvider   *jwtinfra.Provider
}
