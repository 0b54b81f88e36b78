// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package appcontext_test

import (
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/rbeach94/spark-dashboard-nest-87/internal/appcontext"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/models"
)

func TestContext_Anonymous(t *testing.T) {
	ctx := &appcontext.Context{}

	assert.Nil(t, ctx.GetUser())
	assert.False(t, ctx.IsAuthenticated())
	assert.False(t, ctx.IsAdmin())
	assert.Empty(t, ctx.UserID())
}

func TestContext_User(t *testing.T) {
	user := &models.User{ID: "u-1", Email: "jane@example.com"}
	ctx := &appcontext.Context{User: user, Role: models.RoleUser}

	assert.Equal(t, user, ctx.GetUser())
	assert.True(t, ctx.IsAuthenticated())
	assert.False(t, ctx.IsAdmin())
	assert.Equal(t, "u-1", ctx.UserID())
}

func TestContext_Admin(t *testing.T) {
	ctx := &appcontext.Context{User: &models.User{ID: "u-1"}, Role: models.RoleAdmin}

	assert.True(t, ctx.IsAdmin())

	// A role without a user never grants admin.
	assert.False(t, (&appcontext.Context{Role: models.RoleAdmin}).IsAdmin())
}

func TestFrom(t *testing.T) {
	e := echo.New()
	plain := e.NewContext(httptest.NewRequest("GET", "/", nil), httptest.NewRecorder())

	assert.Nil(t, appcontext.From(plain))

	cc := &appcontext.Context{Context: plain}
	assert.Same(t, cc, appcontext.From(cc))
}
