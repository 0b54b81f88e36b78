// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package appcontext provides the custom Echo context.
package appcontext

import (
	"github.com/labstack/echo/v4"

	"github.com/rbeach94/spark-dashboard-nest-87/internal/htmx"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/models"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/services/session"
)

// Assets holds paths to static assets.
type Assets struct {
	CSSPath string
	JSPath  string
}

// Context is a custom Echo context with typed fields for htmx, assets and
// the signed-in user.
type Context struct {
	echo.Context
	Htmx    *htmx.Request
	Assets  *Assets
	User    *models.User  // nil if not authenticated
	Session *session.Data // nil if not authenticated
	Role    models.Role
}

// From returns the custom context wrapped around c, or nil.
func From(c echo.Context) *Context {
	if cc, ok := c.(*Context); ok {
		return cc
	}
	return nil
}

// GetUser returns the authenticated user, or nil if not authenticated.
func (c *Context) GetUser() *models.User {
	return c.User
}

// IsAuthenticated returns true if the user is authenticated.
func (c *Context) IsAuthenticated() bool {
	return c.User != nil
}

// IsAdmin reports whether the user holds the admin role.
func (c *Context) IsAdmin() bool {
	return c.User != nil && c.Role == models.RoleAdmin
}

// UserID is the signed-in user's ID or "".
func (c *Context) UserID() string {
	if c.User == nil {
		return ""
	}
	return c.User.ID
}
