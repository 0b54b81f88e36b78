// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vinovest/sqlx"

	"github.com/rbeach94/spark-dashboard-nest-87/internal/models"
)

// CreateUser inserts the auth identity, its directory profile and a user role row.
func (r *Repository) CreateUser(ctx context.Context, email, passwordHash string) (*models.User, error) {
	user := &models.User{
		ID:           uuid.NewString(),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}

	err := r.Tx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO users (id, email, password_hash, email_verified, created_at) VALUES (?, ?, ?, 0, ?)`,
			user.ID, user.Email, user.PasswordHash, user.CreatedAt); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO profiles (id, email, created_at) VALUES (?, ?, ?)`,
			user.ID, user.Email, user.CreatedAt); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO user_roles (user_id, role) VALUES (?, ?)`, user.ID, models.RoleUser)
		return err
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetUserByID retrieves a user by ID.
func (r *Repository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.GetContext(ctx, &user, `SELECT * FROM users WHERE id = ?`, id); err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email, case-insensitively.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT * FROM users WHERE email = ?`,
		strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// CountUsers returns the number of registered users.
func (r *Repository) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.GetContext(ctx, &n, `SELECT count(*) FROM users`)
	return n, err
}

// MarkEmailVerified flags the user's address as confirmed.
func (r *Repository) MarkEmailVerified(ctx context.Context, userID string) error {
	return expectOne(r.db.ExecContext(ctx, `UPDATE users SET email_verified = 1 WHERE id = ?`, userID))
}

// ListUsersWithRoles returns every directory profile with its role, newest first.
func (r *Repository) ListUsersWithRoles(ctx context.Context) ([]models.UserWithRole, error) {
	var users []models.UserWithRole
	err := r.db.SelectContext(ctx, &users, `
		SELECT p.id, p.email, ur.role, p.created_at
		FROM profiles p
		LEFT JOIN user_roles ur ON ur.user_id = p.id
		ORDER BY p.created_at DESC`)
	return users, err
}
