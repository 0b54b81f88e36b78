// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package testutil provides test helpers and fixtures.
package testutil

import (
	"context"
	"fmt"
	"io"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"github.com/vinovest/sqlx"

	"github.com/rbeach94/spark-dashboard-nest-87/internal/database"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/models"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/repository"
)

var codeSeq atomic.Int64

// NewTestDB creates a migrated in-memory SQLite database.
func NewTestDB(t *testing.T) (*sqlx.DB, *repository.Repository) {
	t.Helper()
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db, repository.New(db)
}

// NewTestUser creates a user with a placeholder password hash.
func NewTestUser(t *testing.T, repo *repository.Repository, email string) *models.User {
	t.Helper()
	user, err := repo.CreateUser(context.Background(), email, "$2a$10$placeholder")
	require.NoError(t, err)
	return user
}

// NewTestAdmin creates a user holding the admin role.
func NewTestAdmin(t *testing.T, repo *repository.Repository, email string) *models.User {
	t.Helper()
	user := NewTestUser(t, repo, email)
	require.NoError(t, repo.SetUserRole(context.Background(), user.ID, models.RoleAdmin))
	return user
}

// CodeOption customises a fixture code.
type CodeOption func(*models.Code)

func WithSlug(slug string) CodeOption {
	return func(c *models.Code) { c.URL = &slug }
}

func WithRedirect(url string) CodeOption {
	return func(c *models.Code) { c.RedirectURL = &url }
}

func Active() CodeOption {
	return func(c *models.Code) { c.IsActive = true }
}

func Hidden() CodeOption {
	return func(c *models.Code) { c.IsHidden = true }
}

func CreatedAt(at time.Time) CodeOption {
	return func(c *models.Code) { c.CreatedAt = at.UTC() }
}

// NewTestCode inserts a code. An empty value gets a unique generated one.
func NewTestCode(t *testing.T, repo *repository.Repository, value string, typ models.CodeType, opts ...CodeOption) *models.Code {
	t.Helper()
	if value == "" {
		value = fmt.Sprintf("T%07d", codeSeq.Add(1))
	}
	code := &models.Code{Code: value, Type: typ}
	for _, opt := range opts {
		opt(code)
	}

	ctx := context.Background()
	err := repo.Tx(ctx, func(tx *sqlx.Tx) error {
		ok, err := repo.InsertCodeTx(ctx, tx, code)
		if err == nil && !ok {
			err = fmt.Errorf("code %s already exists", value)
		}
		return err
	})
	require.NoError(t, err)
	return code
}

// NewEchoContext creates an Echo context for handler tests.
func NewEchoContext(e *echo.Echo, method, path string, body io.Reader) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}
