// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"time"

	"github.com/rbeach94/spark-dashboard-nest-87/internal/models"
)

func (r *Repository) GetProfileByCodeID(ctx context.Context, codeID string) (*models.Profile, error) {
	var p models.Profile
	if err := r.db.GetContext(ctx, &p, `SELECT * FROM nfc_profiles WHERE code_id = ?`, codeID); err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// ListProfileCardsByUser returns the user's profiles joined with their codes.
func (r *Repository) ListProfileCardsByUser(ctx context.Context, userID string) ([]models.ProfileCard, error) {
	cards := []models.ProfileCard{}
	err := r.db.SelectContext(ctx, &cards, `
		SELECT p.*, c.code, c.url, c.is_active
		FROM nfc_profiles p
		JOIN nfc_codes c ON c.id = p.code_id
		WHERE p.user_id = ?
		ORDER BY p.created_at DESC`, userID)
	return cards, err
}

// UpdateProfile writes all editable fields of p.
func (r *Repository) UpdateProfile(ctx context.Context, p *models.Profile) error {
	p.UpdatedAt = time.Now().UTC()
	return expectOne(r.db.NamedExecContext(ctx, `
		UPDATE nfc_profiles SET
			full_name = :full_name, job_title = :job_title, company = :company,
			email = :email, phone = :phone, website = :website, bio = :bio,
			facebook_url = :facebook_url, instagram_url = :instagram_url,
			twitter_url = :twitter_url, youtube_url = :youtube_url,
			linkedin_url = :linkedin_url, button_color = :button_color,
			button_text_color = :button_text_color, updated_at = :updated_at
		WHERE id = :id`, p))
}

// ListButtons returns a profile's buttons in display order.
func (r *Repository) ListButtons(ctx context.Context, profileID string) ([]models.Button, error) {
	buttons := []models.Button{}
	err := r.db.SelectContext(ctx, &buttons,
		`SELECT * FROM profile_buttons WHERE profile_id = ? ORDER BY position, id`, profileID)
	return buttons, err
}

func (r *Repository) GetButton(ctx context.Context, profileID string, id int64) (*models.Button, error) {
	var b models.Button
	err := r.db.GetContext(ctx, &b,
		`SELECT * FROM profile_buttons WHERE id = ? AND profile_id = ?`, id, profileID)
	if err != nil {
		return nil, notFound(err)
	}
	return &b, nil
}

// CreateButton appends a button after the existing ones.
func (r *Repository) CreateButton(ctx context.Context, b *models.Button) error {
	err := r.db.GetContext(ctx, &b.Position,
		`SELECT coalesce(max(position), -1) + 1 FROM profile_buttons WHERE profile_id = ?`, b.ProfileID)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO profile_buttons (profile_id, label, action_type, action_value, position)
		VALUES (?, ?, ?, ?, ?)`, b.ProfileID, b.Label, b.ActionType, b.ActionValue, b.Position)
	if err != nil {
		return err
	}
	b.ID, err = res.LastInsertId()
	return err
}

func (r *Repository) DeleteButton(ctx context.Context, profileID string, id int64) error {
	return expectOne(r.db.ExecContext(ctx,
		`DELETE FROM profile_buttons WHERE id = ? AND profile_id = ?`, id, profileID))
}
