// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"time"
)

// RecordVisit appends a visit for a profile or review plaque.
func (r *Repository) RecordVisit(ctx context.Context, profileID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO profile_visits (profile_id, created_at) VALUES (?, ?)`, profileID, time.Now().UTC())
	return err
}

// RecordButtonClick appends a click on a profile button.
func (r *Repository) RecordButtonClick(ctx context.Context, buttonID int64, profileID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO profile_button_clicks (button_id, profile_id, created_at) VALUES (?, ?, ?)`,
		buttonID, profileID, time.Now().UTC())
	return err
}

func (r *Repository) CountVisits(ctx context.Context, profileID string) (int64, error) {
	var n int64
	err := r.db.GetContext(ctx, &n, `SELECT count(*) FROM profile_visits WHERE profile_id = ?`, profileID)
	return n, err
}

func (r *Repository) CountButtonClicks(ctx context.Context, buttonID int64) (int64, error) {
	var n int64
	err := r.db.GetContext(ctx, &n, `SELECT count(*) FROM profile_button_clicks WHERE button_id = ?`, buttonID)
	return n, err
}
