// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vinovest/sqlx"

	"github.com/rbeach94/spark-dashboard-nest-87/internal/models"
)

// InsertCodeTx inserts code inside tx. It reports false without error when
// the code or slug collides with an existing row.
func (r *Repository) InsertCodeTx(ctx context.Context, tx *sqlx.Tx, code *models.Code) (bool, error) {
	if code.ID == "" {
		code.ID = uuid.NewString()
	}
	if code.CreatedAt.IsZero() {
		code.CreatedAt = time.Now().UTC()
	}
	res, err := tx.NamedExecContext(ctx, `
		INSERT INTO nfc_codes (id, code, type, is_active, url, redirect_url, title, description, is_hidden, created_by, created_at)
		VALUES (:id, :code, :type, :is_active, :url, :redirect_url, :title, :description, :is_hidden, :created_by, :created_at)
		ON CONFLICT DO NOTHING`, code)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// GetCodeByCode looks a code up by its printed value.
func (r *Repository) GetCodeByCode(ctx context.Context, code string) (*models.Code, error) {
	var c models.Code
	if err := r.db.GetContext(ctx, &c, `SELECT * FROM nfc_codes WHERE code = ?`, code); err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (r *Repository) GetCodeByID(ctx context.Context, id string) (*models.Code, error) {
	var c models.Code
	if err := r.db.GetContext(ctx, &c, `SELECT * FROM nfc_codes WHERE id = ?`, id); err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

// GetCodeBySlug looks a profile code up by its public URL slug.
func (r *Repository) GetCodeBySlug(ctx context.Context, slug string) (*models.Code, error) {
	var c models.Code
	if err := r.db.GetContext(ctx, &c, `SELECT * FROM nfc_codes WHERE url = ?`, slug); err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

// ListCodesByType returns all codes of one type, newest first.
func (r *Repository) ListCodesByType(ctx context.Context, t models.CodeType) ([]models.Code, error) {
	codes := []models.Code{}
	err := r.db.SelectContext(ctx, &codes,
		`SELECT * FROM nfc_codes WHERE type = ? ORDER BY created_at DESC, code`, t)
	return codes, err
}

// ListReviewCodesByUser returns the review plaques a user holds.
func (r *Repository) ListReviewCodesByUser(ctx context.Context, userID string) ([]models.Code, error) {
	codes := []models.Code{}
	err := r.db.SelectContext(ctx, &codes, `
		SELECT * FROM nfc_codes
		WHERE type = ? AND assigned_to = ?
		ORDER BY assigned_at DESC`, models.CodeTypeReview, userID)
	return codes, err
}

// ListRecentActivations returns the most recently assigned profile codes.
func (r *Repository) ListRecentActivations(ctx context.Context, limit int) ([]models.Code, error) {
	codes := []models.Code{}
	err := r.db.SelectContext(ctx, &codes, `
		SELECT * FROM nfc_codes
		WHERE type = ? AND assigned_to IS NOT NULL
		ORDER BY assigned_at DESC
		LIMIT ?`, models.CodeTypeProfile, limit)
	return codes, err
}

// SetCodeHidden toggles admin visibility of a code.
func (r *Repository) SetCodeHidden(ctx context.Context, id string, hidden bool) error {
	return expectOne(r.db.ExecContext(ctx, `UPDATE nfc_codes SET is_hidden = ? WHERE id = ?`, hidden, id))
}

// ClaimCode assigns an unassigned code to userID. Profile codes are activated
// and receive their empty nfc_profiles row in the same transaction.
// Returns ErrConflict when the code was assigned in the meantime.
func (r *Repository) ClaimCode(ctx context.Context, code *models.Code, userID string, at time.Time) error {
	return r.Tx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE nfc_codes
			SET assigned_to = ?, assigned_at = ?,
			    is_active = CASE WHEN type = 'profile' THEN 1 ELSE is_active END
			WHERE id = ? AND assigned_to IS NULL`, userID, at.UTC(), code.ID)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrConflict
		}

		if code.Type != models.CodeTypeProfile {
			return nil
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO nfc_profiles (id, user_id, code_id, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?)`, uuid.NewString(), userID, code.ID, at.UTC(), at.UTC())
		return err
	})
}

// UpdateReviewPlaque stores the plaque text and redirect target. A non-empty
// redirect URL activates the plaque.
func (r *Repository) UpdateReviewPlaque(ctx context.Context, id, title, description string, redirectURL *string) error {
	return expectOne(r.db.ExecContext(ctx, `
		UPDATE nfc_codes
		SET title = ?, description = ?, redirect_url = ?, type = 'review',
		    is_active = CASE WHEN coalesce(?, '') <> '' THEN 1 ELSE is_active END
		WHERE id = ?`, title, description, redirectURL, redirectURL, id))
}
