// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package handlers contains the echo handlers of the web dashboard.
package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rbeach94/spark-dashboard-nest-87/internal/repository"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/services/auth"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/services/codes"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/services/places"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/services/profiles"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/services/redirect"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/services/secrets"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/services/session"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/sse"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/templates"
)

// Deps are the services the handlers call.
type Deps struct {
	Repo     *repository.Repository
	Sessions *session.Manager
	Auth     *auth.Service
	Codes    *codes.Service
	Profiles *profiles.Service
	Places   *places.Client
	Secrets  *secrets.Service
	Resolver *redirect.Resolver
	Hub      *sse.Hub
}

// Handlers contains all HTTP handlers.
type Handlers struct {
	repo     *repository.Repository
	sessions *session.Manager
	auth     *auth.Service
	codes    *codes.Service
	profiles *profiles.Service
	places   *places.Client
	secrets  *secrets.Service
	resolver *redirect.Resolver
	hub      *sse.Hub
}

// New creates a new Handlers instance.
func New(d Deps) *Handlers {
	return &Handlers{
		repo:     d.Repo,
		sessions: d.Sessions,
		auth:     d.Auth,
		codes:    d.Codes,
		profiles: d.Profiles,
		places:   d.Places,
		secrets:  d.Secrets,
		resolver: d.Resolver,
		hub:      d.Hub,
	}
}

// Health reports whether the database answers.
func (h *Handlers) Health(c echo.Context) error {
	if h.repo != nil {
		if err := h.repo.Ping(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		}
	}
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// Home renders the landing page.
func (h *Handlers) Home(c echo.Context) error {
	return Render(c, http.StatusOK, templates.Page("home", nil))
}
