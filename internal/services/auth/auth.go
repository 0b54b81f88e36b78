// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package auth registers and authenticates email/password accounts.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/rbeach94/spark-dashboard-nest-87/internal/models"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/repository"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/services/email"
)

var (
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrEmailNotVerified   = errors.New("email not verified")
	ErrInvalidToken       = errors.New("invalid or expired verification token")
)

// dummyHash keeps failed lookups as slow as failed password checks.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("tappio-timing-guard"), bcrypt.DefaultCost)

// Mailer delivers verification links.
type Mailer interface {
	SendVerification(ctx context.Context, to, token string) error
}

type Service struct {
	repo       *repository.Repository
	mailer     Mailer
	validate   *validator.Validate
	passwords  *PasswordValidator
	adminEmail string
}

// NewService creates the auth service. A nil mailer disables email
// verification entirely.
func NewService(repo *repository.Repository, mailer Mailer, adminEmail string) *Service {
	return &Service{
		repo:       repo,
		mailer:     mailer,
		validate:   validator.New(),
		passwords:  NewPasswordValidator(MinPasswordLength),
		adminEmail: strings.ToLower(strings.TrimSpace(adminEmail)),
	}
}

// RequiresVerification reports whether new accounts must confirm their email.
func (s *Service) RequiresVerification() bool {
	return s.mailer != nil
}

type RegisterParams struct {
	Email           string
	Password        string
	PasswordConfirm string
}

// Register creates an account. The first account and the configured admin
// address receive the admin role.
func (s *Service) Register(ctx context.Context, p RegisterParams) (*models.User, error) {
	addr := strings.ToLower(strings.TrimSpace(p.Email))
	if err := s.validate.Var(addr, "required,email,max=254"); err != nil {
		return nil, ErrInvalidEmail
	}
	if p.Password != p.PasswordConfirm {
		return nil, ErrPasswordMismatch
	}
	if err := s.passwords.Validate(p.Password, addr); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetUserByEmail(ctx, addr); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	existing, err := s.repo.CountUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	user, err := s.repo.CreateUser(ctx, addr, string(hash))
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	if existing == 0 || (s.adminEmail != "" && addr == s.adminEmail) {
		if err := s.repo.SetUserRole(ctx, user.ID, models.RoleAdmin); err != nil {
			return nil, fmt.Errorf("grant admin: %w", err)
		}
		slog.Info("admin role granted", "user_id", user.ID, "email", addr)
	}

	if s.mailer != nil {
		s.sendVerification(ctx, user)
	}

	slog.Info("user registered", "user_id", user.ID, "email", addr)
	return user, nil
}

// sendVerification stores a fresh token and mails it. Failures are logged;
// the account still exists and a later registration attempt reports it.
func (s *Service) sendVerification(ctx context.Context, user *models.User) {
	if err := s.repo.DeleteExpiredEmailVerificationTokens(ctx); err != nil {
		slog.Warn("expired token cleanup failed", "error", err)
	}

	token, hash, expiresAt, err := email.GenerateToken()
	if err == nil {
		err = s.repo.CreateEmailVerificationToken(ctx, user.ID, hash, expiresAt)
	}
	if err == nil {
		err = s.mailer.SendVerification(ctx, user.Email, token)
	}
	if err != nil {
		slog.Error("verification mail failed", "user_id", user.ID, "error", err)
	}
}

// Login checks the credentials and returns the user.
func (s *Service) Login(ctx context.Context, addr, password string) (*models.User, error) {
	user, err := s.repo.GetUserByEmail(ctx, addr)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			slog.Warn("login failed", "email", addr, "reason", "unknown_user")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		slog.Warn("login failed", "email", addr, "reason", "bad_password")
		return nil, ErrInvalidCredentials
	}
	if s.RequiresVerification() && !user.EmailVerified {
		return nil, ErrEmailNotVerified
	}

	slog.Info("login succeeded", "user_id", user.ID)
	return user, nil
}

// VerifyEmail consumes a verification token.
func (s *Service) VerifyEmail(ctx context.Context, token string) error {
	if token == "" {
		return ErrInvalidToken
	}
	rec, err := s.repo.GetEmailVerificationToken(ctx, email.HashToken(token))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidToken
		}
		return fmt.Errorf("lookup token: %w", err)
	}
	if rec.Expired(time.Now()) {
		return ErrInvalidToken
	}

	if err := s.repo.MarkEmailVerified(ctx, rec.UserID); err != nil {
		return fmt.Errorf("mark verified: %w", err)
	}
	if err := s.repo.DeleteUserEmailVerificationTokens(ctx, rec.UserID); err != nil {
		slog.Warn("token cleanup failed", "user_id", rec.UserID, "error", err)
	}
	return nil
}

// GrantAdmin gives the account with addr the admin role.
func (s *Service) GrantAdmin(ctx context.Context, addr string) error {
	user, err := s.repo.GetUserByEmail(ctx, addr)
	if err != nil {
		return fmt.Errorf("lookup user %s: %w", addr, err)
	}
	return s.repo.SetUserRole(ctx, user.ID, models.RoleAdmin)
}
