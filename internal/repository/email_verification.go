// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"time"

	"github.com/rbeach94/spark-dashboard-nest-87/internal/models"
)

// CreateEmailVerificationToken stores a hashed verification token.
func (r *Repository) CreateEmailVerificationToken(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO email_verification_tokens (user_id, token_hash, expires_at, created_at) VALUES (?, ?, ?, ?)`,
		userID, tokenHash, expiresAt.UTC(), time.Now().UTC())
	return err
}

// GetEmailVerificationToken retrieves a token by hash.
func (r *Repository) GetEmailVerificationToken(ctx context.Context, tokenHash string) (*models.EmailVerificationToken, error) {
	var token models.EmailVerificationToken
	err := r.db.GetContext(ctx, &token, `SELECT * FROM email_verification_tokens WHERE token_hash = ?`, tokenHash)
	if err != nil {
		return nil, notFound(err)
	}
	return &token, nil
}

// DeleteUserEmailVerificationTokens removes all tokens of a user.
func (r *Repository) DeleteUserEmailVerificationTokens(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM email_verification_tokens WHERE user_id = ?`, userID)
	return err
}

// DeleteExpiredEmailVerificationTokens removes tokens past their expiry.
func (r *Repository) DeleteExpiredEmailVerificationTokens(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM email_verification_tokens WHERE expires_at < ?`, time.Now().UTC())
	return err
}
