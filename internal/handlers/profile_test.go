// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rbeach94/spark-dashboard-nest-87/internal/models"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/testutil"
)

func newProfileEnv(t *testing.T) (*testEnv, *models.User) {
	t.Helper()
	env := newTestEnv(t)
	owner := testutil.NewTestUser(t, env.repo, "owner@example.com")
	testutil.NewTestCode(t, env.repo, "PROF0001", models.CodeTypeProfile, testutil.WithSlug("abc"))
	_, err := env.codes.Claim(context.Background(), owner.ID, "PROF0001")
	require.NoError(t, err)
	env.as(owner, models.RoleUser)
	return env, owner
}

func TestProfileEdit(t *testing.T) {
	env, _ := newProfileEnv(t)

	rec := env.get("/profile/abc/edit")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `name="full_name"`)

	assert.Equal(t, http.StatusNotFound, env.get("/profile/nope/edit").Code)

	env.as(testutil.NewTestUser(t, env.repo, "other@example.com"), models.RoleUser)
	assert.Equal(t, http.StatusForbidden, env.get("/profile/abc/edit").Code)
}

func TestProfileUpdate(t *testing.T) {
	env, _ := newProfileEnv(t)

	rec := env.post("/profile/abc/edit", url.Values{
		"full_name":    {"Jane Doe"},
		"email":        {"jane@example.com"},
		"website":      {"https://jane.example"},
		"button_color": {"#112233"},
	})

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/profile/abc/edit", rec.Header().Get("Location"))
	assert.Equal(t, "Profile updated successfully!", env.flash(t, rec).Message)

	env.as(nil, "")
	rec = env.get("/profile/abc/view")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Jane Doe")
	assert.Contains(t, rec.Body.String(), "mailto:jane@example.com")
}

func TestProfileUpdate_Invalid(t *testing.T) {
	env, _ := newProfileEnv(t)

	rec := env.post("/profile/abc/edit", url.Values{
		"full_name": {"Jane Doe"},
		"email":     {"not-an-email"},
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Please enter a valid email address")
	assert.Contains(t, rec.Body.String(), `value="Jane Doe"`)
}

func TestProfileView_Inactive(t *testing.T) {
	env := newTestEnv(t)
	testutil.NewTestCode(t, env.repo, "PROF0001", models.CodeTypeProfile, testutil.WithSlug("abc"))

	assert.Equal(t, http.StatusNotFound, env.get("/profile/abc/view").Code)
	assert.Equal(t, http.StatusNotFound, env.get("/profile/missing/view").Code)
}

func TestButtons(t *testing.T) {
	env, _ := newProfileEnv(t)

	rec := env.post("/profile/abc/buttons", url.Values{
		"label":        {"Call me"},
		"action_type":  {"call"},
		"action_value": {"+4930123456"},
	})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "Button added", env.flash(t, rec).Message)

	rec = env.post("/profile/abc/buttons", url.Values{
		"label":        {"Broken"},
		"action_type":  {"fax"},
		"action_value": {"123"},
	})
	assert.Equal(t, "Failed to update buttons", env.flash(t, rec).Message)

	page, err := env.repo.GetCodeBySlug(context.Background(), "abc")
	require.NoError(t, err)
	profile, err := env.repo.GetProfileByCodeID(context.Background(), page.ID)
	require.NoError(t, err)
	buttons, err := env.repo.ListButtons(context.Background(), profile.ID)
	require.NoError(t, err)
	require.Len(t, buttons, 1)

	env.as(nil, "")
	rec = env.post("/profile/abc/buttons/"+strconv.FormatInt(buttons[0].ID, 10)+"/click", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	clicks, err := env.repo.CountButtonClicks(context.Background(), buttons[0].ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), clicks)

	rec = env.post("/profile/abc/buttons/999/click", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
