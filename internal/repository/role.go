// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/rbeach94/spark-dashboard-nest-87/internal/models"
)

// GetUserRole returns the user's role. A missing row means user.
func (r *Repository) GetUserRole(ctx context.Context, userID string) (models.Role, error) {
	var role string
	err := r.db.GetContext(ctx, &role, `SELECT role FROM user_roles WHERE user_id = ?`, userID)
	if err != nil {
		if errors.Is(notFound(err), ErrNotFound) {
			return models.RoleUser, nil
		}
		return "", err
	}
	return models.Role(role), nil
}

// SetUserRole creates or replaces the user's role row.
func (r *Repository) SetUserRole(ctx context.Context, userID string, role models.Role) error {
	if !role.Valid() {
		return fmt.Errorf("invalid role %q", role)
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_roles (user_id, role) VALUES (?, ?)
		ON CONFLICT(user_id) DO UPDATE SET role = excluded.role`, userID, role)
	return err
}
