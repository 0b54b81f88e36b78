// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rbeach94/spark-dashboard-nest-87/internal/appcontext"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/i18n"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/models"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/services/codes"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/services/session"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/templates"
)

// Dashboard lists the user's profile cards and review plaques.
func (h *Handlers) Dashboard(c echo.Context) error {
	cc := appcontext.From(c)
	ctx := c.Request().Context()

	cards, err := h.profiles.ListForUser(ctx, cc.UserID())
	if err != nil {
		return InternalServerError(c, err)
	}
	plaques, err := h.repo.ListReviewCodesByUser(ctx, cc.UserID())
	if err != nil {
		return InternalServerError(c, err)
	}

	return Render(c, http.StatusOK, templates.Page("dashboard", templates.Dashboard{
		Greeting: i18n.TData(ctx, "dashboard_greeting", map[string]any{"Name": cc.User.DisplayName()}),
		Profiles: cards,
		Plaques:  plaques,
	}))
}

type claimForm struct {
	Code string `form:"code"`
}

// Claim assigns a typed code to the current user.
func (h *Handlers) Claim(c echo.Context) error {
	var form claimForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	if _, ok := h.claim(c, form.Code); ok {
		h.announce(c, session.FlashSuccess, "flash_card_added")
	}
	return seeOther(c, "/dashboard")
}

// claim runs the claim and queues an error flash on failure.
func (h *Handlers) claim(c echo.Context, value string) (*models.Code, bool) {
	code, err := h.codes.Claim(c.Request().Context(), currentUserID(c), value)
	switch {
	case err == nil:
		return code, true
	case errors.Is(err, codes.ErrInvalidCode):
		h.flash(c, session.FlashError, "flash_invalid_code")
	case errors.Is(err, codes.ErrCodeAssigned):
		h.flash(c, session.FlashError, "flash_code_assigned")
	default:
		slog.Error("claim failed", "code", value, "error", err)
		h.flash(c, session.FlashError, "flash_claim_failed")
	}
	return nil, false
}
