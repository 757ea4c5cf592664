package passwordreset

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/takarapp/accounts-api/internal/domain"
	"github.com/takarapp/accounts-api/internal/infrastructure/smtp"
	"github.com/takarapp/accounts-api/internal/infrastructure/sns"
	"golang.org/x/crypto/bcrypt"
)

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
	Via   string `json:"via" validate:"omitempty,oneof=email sms"` // defaults to email
}

type VerifyCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Code        string `json:"code" validate:"required,len=6,numeric"`
	NewPassword string `json:"new_password" validate:"required"`
}

// Service owns the reset-code lifecycle: issuance, verification, consumption.
type Service interface {
	RequestCode(ctx context.Context, req ForgotPasswordRequest) error
	VerifyCode(ctx context.Context, email, code string) error
	ResetPassword(ctx context.Context, email, code, newPassword string) error
}

type userStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
}

type codeStore interface {
	Put(ctx context.Context, c *domain.PasswordResetCode) error
	Get(ctx context.Context, userID string) (*domain.PasswordResetCode, error)
	Delete(ctx context.Context, userID string) error
}

type service struct {
	userRepo  userStore
	codeRepo  codeStore
	mailer    smtp.Mailer
	smsSender sns.SMSSender
}

type ServiceDeps struct {
	UserRepo  userStore
	CodeRepo  codeStore
	Mailer    smtp.Mailer
	SMSSender sns.SMSSender
}

func NewService(deps ServiceDeps) Service {
	return &service{
		userRepo:  deps.UserRepo,
		codeRepo:  deps.CodeRepo,
		mailer:    deps.Mailer,
		smsSender: deps.SMSSender,
	}
}

// RequestCode issues a fresh 6-digit code and delivers it to the account's
// email (or phone, when via=sms). Delivery happens before the code is
// persisted: a failed send must not leave a live code behind. Persisting
// replaces any previously issued code for the user.
func (s *service) RequestCode(ctx context.Context, req ForgotPasswordRequest) error {
	u, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return fmt.Errorf("user with this email does not exist: %w", domain.ErrNotFound)
	}

	code, err := newCode()
	if err != nil {
		return err
	}

	switch req.Via {
	case "sms":
		if u.Phone == nil {
			return fmt.Errorf("no phone number on account: %w", domain.ErrBadRequest)
		}
		if s.smsSender == nil {
			return fmt.Errorf("SMS delivery not available: %w", domain.ErrBadRequest)
		}
		if err := s.smsSender.SendSMS(ctx, *u.Phone, "Your password reset code is: "+code); err != nil {
			slog.Error("reset code SMS send failed", "user_id", u.UserID, "err", err)
			return fmt.Errorf("failed to send SMS: %w", domain.ErrDelivery)
		}
	default:
		if err := s.mailer.SendEmail(u.Email, "Password Reset Code", "Your password reset code is: "+code); err != nil {
			slog.Error("reset code email send failed", "user_id", u.UserID, "err", err)
			return fmt.Errorf("failed to send email: %w", domain.ErrDelivery)
		}
	}

	now := time.Now().UTC()
	return s.codeRepo.Put(ctx, &domain.PasswordResetCode{
		UserID:    u.UserID,
		Code:      code,
		CreatedAt: now,
		ExpiresAt: now.Add(domain.ResetCodeTTL).Unix(),
	})
}

// VerifyCode checks a code without consuming it, so repeated verification of a
// valid code keeps succeeding until expiry.
func (s *service) VerifyCode(ctx context.Context, email, code string) error {
	_, err := s.matchCode(ctx, email, code)
	return err
}

// ResetPassword consumes a valid code: re-hashes the password, persists the
// user, and deletes the code so it cannot be replayed.
func (s *service) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	u, err := s.matchCode(ctx, email, code)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.userRepo.Update(ctx, u.UserID, map[string]interface{}{"password_hash": string(hash)}); err != nil {
		return err
	}
	if err := s.codeRepo.Delete(ctx, u.UserID); err != nil {
		// One-time use depends on this delete; surface the failure rather
		// than leave a consumable code behind.
		return fmt.Errorf("invalidate used reset code: %w", err)
	}
	return nil
}

// matchCode resolves the user and checks the stored (user, code) pair.
// A missing user is distinguishable (404) from a wrong or expired code (400).
func (s *service) matchCode(ctx context.Context, email, code string) (*domain.User, error) {
	u, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("user with this email does not exist: %w", domain.ErrNotFound)
	}
	c, err := s.codeRepo.Get(ctx, u.UserID)
	if err != nil || c.Code != code || c.IsExpired() {
		return nil, fmt.Errorf("invalid or expired code: %w", domain.ErrBadRequest)
	}
	return u, nil
}

func newCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
