package token

import (
	"context"
	"fmt"

	"github.com/takarapp/accounts-api/internal/domain"
	jwtinfra "github.com/takarapp/accounts-api/internal/infrastructure/jwt"
	"golang.org/x/crypto/bcrypt"
)

type ObtainRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

// Service issues and refreshes JWT pairs. Refresh tokens are themselves JWTs,
// so no server-side session state exists; revoking means waiting out the expiry.
type Service interface {
	Obtain(ctx context.Context, req ObtainRequest) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
}

type userStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Get(ctx context.Context, userID string) (*domain.User, error)
}

type tokenProvider interface {
	SignAccess(userID, email string) (string, error)
	SignRefresh(userID, email string) (string, error)
	Verify(tokenStr, wantType string) (*jwtinfra.Claims, error)
}

type service struct {
	repo     userStore
	provider tokenProvider
}

func NewService(repo userStore, provider tokenProvider) Service {
	return &service{repo: repo, provider: provider}
}

// Obtain validates email+password and returns an access/refresh pair. The
// error is identical for an unknown email and a wrong password so callers
// can't probe which emails are registered.
func (s *service) Obtain(ctx context.Context, req ObtainRequest) (*TokenPair, error) {
	u, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("invalid email or password: %w", domain.ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("invalid email or password: %w", domain.ErrUnauthorized)
	}
	access, err := s.provider.SignAccess(u.UserID, u.Email)
	if err != nil {
		return nil, err
	}
	refresh, err := s.provider.SignRefresh(u.UserID, u.Email)
	if err != nil {
		return nil, err
	}
	return &TokenPair{Access: access, Refresh: refresh}, nil
}

// Refresh exchanges a valid refresh token for a new access token. The user is
// re-fetched so tokens for deleted accounts stop working.
func (s *service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.provider.Verify(refreshToken, jwtinfra.TypeRefresh)
	if err != nil {
		return nil, fmt.Errorf("invalid or expired refresh token: %w", domain.ErrUnauthorized)
	}
	u, err := s.repo.Get(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid or expired refresh token: %w", domain.ErrUnauthorized)
	}
	access, err := s.provider.SignAccess(u.UserID, u.Email)
	if err != nil {
		return nil, err
	}
	return &TokenPair{Access: access}, nil
}
