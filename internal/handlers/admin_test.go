// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/rbeach94/spark-dashboard-nest-87/internal/i18n"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/models"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/services/codes"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/services/session"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/testutil"
)

func newAdminEnv(t *testing.T) (*testEnv, *models.User) {
	t.Helper()
	env := newTestEnv(t)
	admin := testutil.NewTestAdmin(t, env.repo, "admin@example.com")
	env.as(admin, models.RoleAdmin)
	return env, admin
}

func TestAdminPage(t *testing.T) {
	env, _ := newAdminEnv(t)
	testutil.NewTestCode(t, env.repo, "PROF0001", models.CodeTypeProfile)
	testutil.NewTestCode(t, env.repo, "PROF0002", models.CodeTypeProfile, testutil.Hidden())
	testutil.NewTestCode(t, env.repo, "REV00001", models.CodeTypeReview)

	rec := env.get("/admin")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `href="/c/PROF0001"`)
	assert.NotContains(t, body, `href="/c/PROF0002"`)
	assert.Contains(t, body, `href="/c/REV00001"`)
	assert.Contains(t, body, "admin@example.com")
}

func TestCodeListPartial(t *testing.T) {
	env, _ := newAdminEnv(t)
	testutil.NewTestCode(t, env.repo, "REV00001", models.CodeTypeReview)

	rec := env.get("/admin/codes/list?type=review")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `id="codes-review"`)
	assert.Contains(t, rec.Body.String(), "REV00001")
	assert.NotContains(t, rec.Body.String(), "<html")

	rec = env.get("/admin/codes/list?type=sticker")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCodeListPartial_HiddenView(t *testing.T) {
	env, _ := newAdminEnv(t)
	testutil.NewTestCode(t, env.repo, "REV00001", models.CodeTypeReview)
	hidden := testutil.NewTestCode(t, env.repo, "REV00002", models.CodeTypeReview, testutil.Hidden())

	rec := env.get("/admin/codes/list?type=review&hidden=1")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `href="/c/REV00002"`)
	assert.NotContains(t, body, `href="/c/REV00001"`)
	assert.Contains(t, body, ">Unhide</button>")
	assert.Contains(t, body, `hx-get="/admin/codes/list?type=review&amp;hidden=1"`)

	env.post("/admin/codes/"+hidden.ID+"/hidden", url.Values{"hidden": {"false"}})

	body = env.get("/admin/codes/list?type=review").Body.String()
	assert.Contains(t, body, `href="/c/REV00002"`)
	assert.Contains(t, body, "Show hidden")

	body = env.get("/admin/codes/list?type=review&hidden=1").Body.String()
	assert.Contains(t, body, "No hidden codes.")
}

func TestCodeListPartial_Translated(t *testing.T) {
	env, _ := newAdminEnv(t)
	testutil.NewTestCode(t, env.repo, "REV00001", models.CodeTypeReview)

	req := httptest.NewRequest(http.MethodGet, "/admin/codes/list?type=review", nil)
	req = req.WithContext(i18n.WithLocale(req.Context(), language.German))
	rec := env.serve(req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<h2>Bewertungscodes</h2>")
	assert.Contains(t, rec.Body.String(), ">Ausblenden</button>")
}

func TestGenerate(t *testing.T) {
	env, admin := newAdminEnv(t)

	rec := env.post("/admin/codes/generate", url.Values{"count": {"5"}, "type": {"review"}})

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin", rec.Header().Get("Location"))
	assert.Equal(t, "Review codes generated successfully", env.flash(t, rec).Message)

	list, err := env.repo.ListCodesByType(context.Background(), models.CodeTypeReview)
	require.NoError(t, err)
	require.Len(t, list, 5)
	for _, c := range list {
		require.NotNil(t, c.CreatedBy)
		assert.Equal(t, admin.ID, *c.CreatedBy)
	}
}

func TestGenerate_OutOfBounds(t *testing.T) {
	env, _ := newAdminEnv(t)

	for _, count := range []string{"0", "501", "many"} {
		rec := env.post("/admin/codes/generate", url.Values{"count": {count}, "type": {"profile"}})

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		f := env.flash(t, rec)
		assert.Equal(t, session.FlashError, f.Kind)
		assert.Equal(t, "Failed to generate NFC codes", f.Message)
	}

	list, err := env.repo.ListCodesByType(context.Background(), models.CodeTypeProfile)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestExport_CSV(t *testing.T) {
	env, _ := newAdminEnv(t)
	day := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	testutil.NewTestCode(t, env.repo, "A1", models.CodeTypeProfile, testutil.WithSlug("u1"), testutil.CreatedAt(day))

	rec := env.get("/admin/codes/export?type=profile")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, codes.ContentTypeCSV, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `attachment; filename="nfc-codes-`)
	assert.Equal(t, "Code,URL,Created At\nA1,u1,1/1/2024\n", rec.Body.String())
}

func TestExport_XLSX(t *testing.T) {
	env, _ := newAdminEnv(t)
	testutil.NewTestCode(t, env.repo, "REV00001", models.CodeTypeReview)

	rec := env.get("/admin/codes/export?type=review&format=xlsx")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, codes.ContentTypeXLSX, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `.xlsx"`)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "PK"), "xlsx is a zip archive")
}

func TestExport_BadRequest(t *testing.T) {
	env, _ := newAdminEnv(t)

	assert.Equal(t, http.StatusBadRequest, env.get("/admin/codes/export?type=sticker").Code)
	assert.Equal(t, http.StatusInternalServerError, env.get("/admin/codes/export?type=profile&format=pdf").Code)
}

func TestQR(t *testing.T) {
	env, _ := newAdminEnv(t)
	code := testutil.NewTestCode(t, env.repo, "PROF0001", models.CodeTypeProfile)

	rec := env.get("/admin/codes/" + code.ID + "/qr")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="qr-code-PROF0001.svg"`, rec.Header().Get("Content-Disposition"))
	assert.Contains(t, rec.Body.String(), "<svg")

	assert.Equal(t, http.StatusNotFound, env.get("/admin/codes/missing/qr").Code)
}

func TestSetHidden(t *testing.T) {
	env, _ := newAdminEnv(t)
	code := testutil.NewTestCode(t, env.repo, "PROF0001", models.CodeTypeProfile)

	rec := env.post("/admin/codes/"+code.ID+"/hidden", url.Values{"hidden": {"true"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "Code hidden successfully", env.flash(t, rec).Message)

	got, err := env.repo.GetCodeByID(context.Background(), code.ID)
	require.NoError(t, err)
	assert.True(t, got.IsHidden)

	rec = env.post("/admin/codes/"+code.ID+"/hidden", url.Values{"hidden": {"false"}})
	assert.Equal(t, "Code unhidden successfully", env.flash(t, rec).Message)

	rec = env.post("/admin/codes/missing/hidden", url.Values{"hidden": {"true"}})
	assert.Equal(t, "Failed to update code visibility", env.flash(t, rec).Message)
}

func TestSetHidden_NotifiesAdmins(t *testing.T) {
	env, admin := newAdminEnv(t)
	code := testutil.NewTestCode(t, env.repo, "REV00001", models.CodeTypeReview)
	ch := env.hub.Register("admin-tab", admin.ID, true)
	defer env.hub.Unregister("admin-tab", admin.ID, ch)

	env.post("/admin/codes/"+code.ID+"/hidden", url.Values{"hidden": {"true"}})

	select {
	case msg := <-ch:
		assert.Equal(t, "event: codes-changed\ndata: review\n\n", msg)
	default:
		t.Fatal("expected a codes-changed event")
	}
}
