// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package redirect decides where a scanned code sends the visitor.
package redirect

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"

	"github.com/rbeach94/spark-dashboard-nest-87/internal/metrics"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/models"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/repository"
)

// Kind classifies a redirect target.
type Kind string

const (
	KindHome     Kind = "home"
	KindActivate Kind = "activate"
	KindProfile  Kind = "profile"
	KindExternal Kind = "external"
)

// Target is where the visitor is sent.
type Target struct {
	Kind     Kind
	Location string
}

// ActivatePath is the onboarding page of a code.
func ActivatePath(raw string) string {
	return "/activate/" + url.PathEscape(raw)
}

// ProfilePath is the public view of a profile slug.
func ProfilePath(slug string) string {
	return "/profile/" + url.PathEscape(slug) + "/view"
}

// Decide maps a looked-up code to its target. code is nil when the raw
// value matched nothing.
func Decide(code *models.Code, raw string) Target {
	if raw == "" {
		return Target{Kind: KindHome, Location: "/"}
	}
	activate := Target{Kind: KindActivate, Location: ActivatePath(raw)}
	if code == nil || !code.IsActive {
		return activate
	}

	switch code.Type {
	case models.CodeTypeReview:
		if target := code.Redirect(); target != "" {
			return Target{Kind: KindExternal, Location: target}
		}
	case models.CodeTypeProfile:
		if slug := code.Slug(); slug != "" {
			return Target{Kind: KindProfile, Location: ProfilePath(slug)}
		}
	}
	return activate
}

// Store is what the resolver needs from persistence.
type Store interface {
	GetCodeByCode(ctx context.Context, code string) (*models.Code, error)
	RecordVisit(ctx context.Context, profileID string) error
}

type Resolver struct {
	store Store
}

func NewResolver(store Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve looks raw up and returns its target. It never fails: lookup
// errors send the visitor home, and a failed visit log is only recorded.
func (r *Resolver) Resolve(ctx context.Context, raw string) Target {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return r.done(raw, Decide(nil, raw))
	}

	code, err := r.store.GetCodeByCode(ctx, strings.ToUpper(raw))
	switch {
	case errors.Is(err, repository.ErrNotFound):
		code = nil
	case err != nil:
		slog.Error("code lookup failed", "code", raw, "error", err)
		return r.done(raw, Target{Kind: KindHome, Location: "/"})
	}

	target := Decide(code, raw)
	if target.Kind == KindExternal {
		if err := r.store.RecordVisit(ctx, code.ID); err != nil {
			metrics.VisitLogFailuresTotal.Inc()
			slog.Warn("visit log failed", "code", code.Code, "error", err)
		}
	}
	return r.done(raw, target)
}

func (r *Resolver) done(raw string, t Target) Target {
	metrics.RedirectsTotal.WithLabelValues(string(t.Kind)).Inc()
	slog.Debug("redirect resolved", "code", raw, "kind", t.Kind, "location", t.Location)
	return t
}
