// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package email sends account verification mail over SMTP.
package email

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/rbeach94/spark-dashboard-nest-87/internal/config"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/i18n"
)

const (
	tokenBytes = 32
	// TokenExpiry is how long a verification link stays valid.
	TokenExpiry = 24 * time.Hour
)

var (
	ErrNoHost = errors.New("SMTP host is required")
	ErrNoFrom = errors.New("SMTP from address is required")
)

type Service struct {
	cfg     config.SMTPConfig
	baseURL string
}

func NewService(cfg config.SMTPConfig, baseURL string) (*Service, error) {
	if cfg.Host == "" {
		return nil, ErrNoHost
	}
	if cfg.From == "" {
		return nil, ErrNoFrom
	}
	return &Service{cfg: cfg, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

// GenerateToken returns a random token, its storage hash and its expiry.
func GenerateToken() (token, hash string, expiresAt time.Time, err error) {
	buf := make([]byte, tokenBytes)
	if _, err = rand.Read(buf); err != nil {
		return "", "", time.Time{}, fmt.Errorf("read random: %w", err)
	}
	token = hex.EncodeToString(buf)
	return token, HashToken(token), time.Now().Add(TokenExpiry), nil
}

// HashToken is the SHA-256 hex digest stored instead of the token.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// VerifyURL is the link placed in the verification mail.
func (s *Service) VerifyURL(token string) string {
	return s.baseURL + "/auth/verify-email?token=" + url.QueryEscape(token)
}

// BuildVerification composes the verification message for to.
func (s *Service) BuildVerification(ctx context.Context, to, token string) (*mail.Msg, error) {
	msg := mail.NewMsg()

	var err error
	if s.cfg.FromName != "" {
		err = msg.FromFormat(s.cfg.FromName, s.cfg.From)
	} else {
		err = msg.From(s.cfg.From)
	}
	if err != nil {
		return nil, fmt.Errorf("from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("to address: %w", err)
	}

	msg.Subject(i18n.T(ctx, "email_verification_subject"))
	msg.SetBodyString(mail.TypeTextPlain, i18n.TData(ctx, "email_verification_body", map[string]any{
		"VerifyURL": s.VerifyURL(token),
	}))
	return msg, nil
}

// SendVerification mails the verification link to to.
func (s *Service) SendVerification(ctx context.Context, to, token string) error {
	msg, err := s.BuildVerification(ctx, to, token)
	if err != nil {
		return err
	}

	client, err := mail.NewClient(s.cfg.Host, s.clientOptions()...)
	if err != nil {
		return fmt.Errorf("mail client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

func (s *Service) clientOptions() []mail.Option {
	opts := []mail.Option{mail.WithPort(s.cfg.Port)}

	switch {
	case !s.cfg.TLS:
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	case s.cfg.Port == 465:
		opts = append(opts, mail.WithSSL())
	default:
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	}

	if s.cfg.Username != "" && s.cfg.Password != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.cfg.Username),
			mail.WithPassword(s.cfg.Password),
		)
	}
	return opts
}
