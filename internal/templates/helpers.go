// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package templates

import (
	"context"

	"github.com/rbeach94/spark-dashboard-nest-87/internal/appcontext"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/ctxkeys"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/i18n"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/models"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/services/session"
)

// CSRFToken returns the CSRF token from the context.
func CSRFToken(ctx context.Context) string {
	if token, ok := ctx.Value(ctxkeys.CSRFToken{}).(string); ok {
		return token
	}
	return ""
}

// T translates a message by ID.
func T(ctx context.Context, messageID string) string {
	return i18n.T(ctx, messageID)
}

// TData translates a message with template data.
func TData(ctx context.Context, messageID string, data map[string]any) string {
	return i18n.TData(ctx, messageID, data)
}

// Assets returns the static asset paths, with unversioned defaults.
func Assets(ctx context.Context) *appcontext.Assets {
	if a, ok := ctx.Value(ctxkeys.Assets{}).(*appcontext.Assets); ok {
		return a
	}
	return &appcontext.Assets{CSSPath: "/static/app.css", JSPath: "/static/app.js"}
}

// GetUser returns the authenticated user from context, or nil if not logged in.
func GetUser(ctx context.Context) *models.User {
	if user, ok := ctx.Value(ctxkeys.User{}).(*models.User); ok {
		return user
	}
	return nil
}

// IsAuthenticated returns true if a user is logged in.
func IsAuthenticated(ctx context.Context) bool {
	return GetUser(ctx) != nil
}

func IsAdmin(ctx context.Context) bool {
	admin, _ := ctx.Value(ctxkeys.Admin{}).(bool)
	return admin && IsAuthenticated(ctx)
}

// GetFlash returns the flash popped for this request.
func GetFlash(ctx context.Context) *session.Flash {
	if f, ok := ctx.Value(ctxkeys.Flash{}).(*session.Flash); ok {
		return f
	}
	return nil
}
