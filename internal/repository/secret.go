// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"time"
)

// GetSecret returns the stored value for name.
func (r *Repository) GetSecret(ctx context.Context, name string) (string, error) {
	var value string
	if err := r.db.GetContext(ctx, &value, `SELECT value FROM secrets WHERE name = ?`, name); err != nil {
		return "", notFound(err)
	}
	return value, nil
}

// SetSecret creates or replaces a secret.
func (r *Repository) SetSecret(ctx context.Context, name, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO secrets (name, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		name, value, time.Now().UTC())
	return err
}
