// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rbeach94/spark-dashboard-nest-87/internal/appcontext"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/assets"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/ctxkeys"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/htmx"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/models"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/services/session"
)

// UserStore loads the signed-in user and their role.
type UserStore interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserRole(ctx context.Context, userID string) (models.Role, error)
}

func findAssets() *appcontext.Assets {
	a := &appcontext.Assets{
		CSSPath: assets.CSSPath(),
		JSPath:  assets.JSPath(),
	}
	slog.Debug("assets loaded", "css", a.CSSPath, "js", a.JSPath)
	return a
}

// customContext wraps the Echo context with appcontext.Context and puts the
// asset paths into the request context for templates.
func customContext(a *appcontext.Assets) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := context.WithValue(c.Request().Context(), ctxkeys.Assets{}, a)
			c.SetRequest(c.Request().WithContext(ctx))

			cc := &appcontext.Context{
				Context: c,
				Htmx:    htmx.ParseRequest(c.Request()),
				Assets:  a,
				Role:    models.RoleUser,
			}
			return next(cc)
		}
	}
}

// loadSession resolves the session cookie to a user. A session whose user
// is gone is cleared. Full page loads also consume the pending flash.
func loadSession(sessions *session.Manager, users UserStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cc := appcontext.From(c)
			if cc == nil {
				return next(c)
			}
			r := c.Request()
			ctx := r.Context()

			data, err := sessions.Parse(r)
			if err != nil {
				slog.Warn("failed to read session cookie", "error", err)
			}
			if data != nil {
				user, err := users.GetUserByID(ctx, data.UserID)
				if err != nil {
					slog.Debug("session user not found", "user_id", data.UserID, "error", err)
					c.SetCookie(sessions.Clear())
				} else {
					role, err := users.GetUserRole(ctx, user.ID)
					if err != nil {
						slog.Error("failed to load role", "user_id", user.ID, "error", err)
						role = models.RoleUser
					}
					cc.User, cc.Session, cc.Role = user, data, role
					ctx = context.WithValue(ctx, ctxkeys.User{}, user)
					ctx = context.WithValue(ctx, ctxkeys.Admin{}, role == models.RoleAdmin)
				}
			}

			if r.Method == http.MethodGet && !cc.Htmx.IsPartial() {
				if f := sessions.PopFlash(c.Response(), r); f != nil {
					ctx = context.WithValue(ctx, ctxkeys.Flash{}, f)
				}
			}

			c.SetRequest(r.WithContext(ctx))
			return next(cc)
		}
	}
}
