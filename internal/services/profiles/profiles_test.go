// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package profiles_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rbeach94/spark-dashboard-nest-87/internal/models"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/repository"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/services/profiles"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/testutil"
)

func setup(t *testing.T) (*profiles.Service, *repository.Repository, *models.User) {
	t.Helper()
	_, repo := testutil.NewTestDB(t)
	user := testutil.NewTestUser(t, repo, "jane@example.com")
	code := testutil.NewTestCode(t, repo, "PROF2345", models.CodeTypeProfile, testutil.WithSlug("abc"))
	require.NoError(t, repo.ClaimCode(context.Background(), code, user.ID, time.Now()))
	return profiles.NewService(repo), repo, user
}

func TestLoad(t *testing.T) {
	svc, _, user := setup(t)

	page, err := svc.Load(context.Background(), "abc")

	require.NoError(t, err)
	assert.Equal(t, "PROF2345", page.Code.Code)
	assert.Equal(t, user.ID, page.Profile.UserID)
	assert.Empty(t, page.Buttons)

	_, err = svc.Load(context.Background(), "missing")
	assert.ErrorIs(t, err, profiles.ErrNotFound)
}

func TestForOwner(t *testing.T) {
	svc, repo, user := setup(t)
	other := testutil.NewTestUser(t, repo, "john@example.com")

	_, err := svc.ForOwner(context.Background(), user.ID, "abc")
	require.NoError(t, err)

	_, err = svc.ForOwner(context.Background(), other.ID, "abc")
	assert.ErrorIs(t, err, profiles.ErrForbidden)
}

func TestUpdate(t *testing.T) {
	svc, _, user := setup(t)
	ctx := context.Background()

	updated, err := svc.Update(ctx, user.ID, "abc", profiles.Input{
		FullName:    "  Jane Doe ",
		Email:       "jane@work.example",
		Website:     "https://jane.example",
		ButtonColor: "#123abc",
	})

	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", updated.FullName)

	page, err := svc.Load(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "jane@work.example", page.Profile.Email)
	bg, fg := page.Profile.Colors()
	assert.Equal(t, "#123abc", bg)
	assert.Equal(t, models.DefaultButtonTextColor, fg)
}

func TestUpdate_Validation(t *testing.T) {
	svc, _, user := setup(t)

	tests := []struct {
		name  string
		in    profiles.Input
		field string
	}{
		{"bad email", profiles.Input{Email: "not-an-email"}, "Email"},
		{"bad website", profiles.Input{Website: "jane dot com"}, "Website"},
		{"bad colour", profiles.Input{ButtonColor: "blue-ish"}, "ButtonColor"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Update(context.Background(), user.ID, "abc", tt.in)

			var verrs validator.ValidationErrors
			require.True(t, errors.As(err, &verrs))
			assert.Equal(t, tt.field, verrs[0].Field())
		})
	}
}

func TestButtons(t *testing.T) {
	svc, repo, user := setup(t)
	ctx := context.Background()

	first, err := svc.AddButton(ctx, user.ID, "abc", profiles.ButtonInput{
		Label: "Website", ActionType: models.ActionLink, ActionValue: "https://jane.example",
	})
	require.NoError(t, err)
	second, err := svc.AddButton(ctx, user.ID, "abc", profiles.ButtonInput{
		Label: "Mail me", ActionType: models.ActionEmail, ActionValue: "jane@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, first.Position)
	assert.Equal(t, 1, second.Position)

	_, err = svc.AddButton(ctx, user.ID, "abc", profiles.ButtonInput{
		Label: "Broken", ActionType: models.ActionEmail, ActionValue: "nope",
	})
	assert.Error(t, err)
	_, err = svc.AddButton(ctx, user.ID, "abc", profiles.ButtonInput{
		Label: "Fax", ActionType: "fax", ActionValue: "123",
	})
	assert.Error(t, err)

	svc.RecordClick(ctx, "abc", first.ID)
	svc.RecordClick(ctx, "abc", 9999)
	clicks, err := repo.CountButtonClicks(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), clicks)

	require.NoError(t, svc.DeleteButton(ctx, user.ID, "abc", first.ID))
	assert.ErrorIs(t, svc.DeleteButton(ctx, user.ID, "abc", first.ID), profiles.ErrNotFound)

	page, err := svc.Load(ctx, "abc")
	require.NoError(t, err)
	require.Len(t, page.Buttons, 1)
	assert.Equal(t, "mailto:jane@example.com", page.Buttons[0].Href())
}

func TestListForUser(t *testing.T) {
	svc, _, user := setup(t)

	cards, err := svc.ListForUser(context.Background(), user.ID)

	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "PROF2345", cards[0].Code)
	assert.True(t, cards[0].IsActive)
}
