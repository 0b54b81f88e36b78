// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rbeach94/spark-dashboard-nest-87/internal/models"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/services/session"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/testutil"
)

func TestCodeRedirect(t *testing.T) {
	env := newTestEnv(t)
	testutil.NewTestCode(t, env.repo, "PROF0001", models.CodeTypeProfile)
	testutil.NewTestCode(t, env.repo, "PROF0002", models.CodeTypeProfile, testutil.Active(), testutil.WithSlug("abc"))
	testutil.NewTestCode(t, env.repo, "REV00001", models.CodeTypeReview, testutil.Active(), testutil.WithRedirect("https://g.page/r/review"))
	testutil.NewTestCode(t, env.repo, "REV00002", models.CodeTypeReview, testutil.Active())

	tests := []struct {
		name string
		path string
		want string
	}{
		{"inactive profile", "/c/PROF0001", "/activate/PROF0001"},
		{"active profile", "/c/PROF0002", "/profile/abc/view"},
		{"review with redirect", "/c/REV00001", "https://g.page/r/review"},
		{"review without redirect", "/c/REV00002", "/activate/REV00002"},
		{"lowercase input", "/c/prof0002", "/profile/abc/view"},
		{"nonexistent", "/c/NOPE1234", "/activate/NOPE1234"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.get(tt.path)

			assert.Equal(t, http.StatusFound, rec.Code)
			assert.Equal(t, tt.want, rec.Header().Get("Location"))
		})
	}
}

func TestCodeRedirect_LogsReviewVisit(t *testing.T) {
	env := newTestEnv(t)
	code := testutil.NewTestCode(t, env.repo, "REV00001", models.CodeTypeReview, testutil.Active(), testutil.WithRedirect("https://g.page/r/review"))

	env.get("/c/REV00001")

	n, err := env.repo.CountVisits(context.Background(), code.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestDashboard(t *testing.T) {
	env := newTestEnv(t)
	user := testutil.NewTestUser(t, env.repo, "jane@example.com")
	env.as(user, models.RoleUser)

	rec := env.get("/dashboard")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Welcome, jane")
}

func TestClaim(t *testing.T) {
	env := newTestEnv(t)
	user := testutil.NewTestUser(t, env.repo, "jane@example.com")
	testutil.NewTestCode(t, env.repo, "PROF0001", models.CodeTypeProfile)
	env.as(user, models.RoleUser)

	rec := env.post("/dashboard/claim", url.Values{"code": {" prof0001 "}})

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))
	f := env.flash(t, rec)
	assert.Equal(t, session.FlashSuccess, f.Kind)
	assert.Equal(t, "Card added successfully!", f.Message)

	code, err := env.repo.GetCodeByCode(context.Background(), "PROF0001")
	require.NoError(t, err)
	assert.True(t, code.OwnedBy(user.ID))
	assert.True(t, code.IsActive)
}

func TestClaim_Errors(t *testing.T) {
	env := newTestEnv(t)
	owner := testutil.NewTestUser(t, env.repo, "owner@example.com")
	other := testutil.NewTestUser(t, env.repo, "other@example.com")
	testutil.NewTestCode(t, env.repo, "PROF0001", models.CodeTypeProfile)

	env.as(owner, models.RoleUser)
	env.post("/dashboard/claim", url.Values{"code": {"PROF0001"}})

	env.as(other, models.RoleUser)
	rec := env.post("/dashboard/claim", url.Values{"code": {"PROF0001"}})
	assert.Equal(t, "Code already assigned", env.flash(t, rec).Message)

	rec = env.post("/dashboard/claim", url.Values{"code": {"NOPE1234"}})
	f := env.flash(t, rec)
	assert.Equal(t, session.FlashError, f.Kind)
	assert.Equal(t, "Invalid code", f.Message)
}

func TestActivate(t *testing.T) {
	env := newTestEnv(t)
	owner := testutil.NewTestUser(t, env.repo, "owner@example.com")
	other := testutil.NewTestUser(t, env.repo, "other@example.com")
	testutil.NewTestCode(t, env.repo, "PROF0001", models.CodeTypeProfile, testutil.WithSlug("abc"))
	testutil.NewTestCode(t, env.repo, "REV00001", models.CodeTypeReview)

	env.as(owner, models.RoleUser)
	rec := env.get("/activate/PROF0001")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `action="/activate/PROF0001"`)

	rec = env.get("/activate/NOPE1234")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "This code does not exist")

	rec = env.post("/activate/PROF0001", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/profile/abc/edit", rec.Header().Get("Location"))

	rec = env.get("/activate/PROF0001")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/profile/abc/edit", rec.Header().Get("Location"))

	rec = env.post("/activate/rev00001", nil)
	assert.Equal(t, "/review/REV00001", rec.Header().Get("Location"))

	env.as(other, models.RoleUser)
	rec = env.get("/activate/PROF0001")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "This code belongs to another account")
}

func TestActivateClaim_Failure(t *testing.T) {
	env := newTestEnv(t)
	env.as(testutil.NewTestUser(t, env.repo, "jane@example.com"), models.RoleUser)

	rec := env.post("/activate/NOPE1234", nil)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/activate/NOPE1234", rec.Header().Get("Location"))
	assert.Equal(t, "Invalid code", env.flash(t, rec).Message)
}

func TestClaim_NotifiesOtherSessions(t *testing.T) {
	env := newTestEnv(t)
	env.as(testutil.NewTestUser(t, env.repo, "jane@example.com"), models.RoleUser)
	testutil.NewTestCode(t, env.repo, "PROF0001", models.CodeTypeProfile)
	current := env.tab(t, testSessionID)
	phone := env.tab(t, "phone-session")

	env.post("/dashboard/claim", url.Values{"code": {"prof0001"}})

	msg, ok := pending(phone)
	require.True(t, ok, "expected a notification on the other session")
	assert.Equal(t, "event: notification\ndata: <div class=\"toast success\" role=\"status\">Card added successfully!</div>\n\n", msg)

	_, ok = pending(current)
	assert.False(t, ok, "the acting session shows the flash instead")
}

func TestClaim_FailureSendsNothing(t *testing.T) {
	env := newTestEnv(t)
	env.as(testutil.NewTestUser(t, env.repo, "jane@example.com"), models.RoleUser)
	phone := env.tab(t, "phone-session")

	env.post("/dashboard/claim", url.Values{"code": {"NOPE0000"}})

	_, ok := pending(phone)
	assert.False(t, ok)
}
