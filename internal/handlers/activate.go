// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/rbeach94/spark-dashboard-nest-87/internal/models"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/services/codes"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/services/session"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/templates"
)

// editorPath is where the owner configures a claimed code.
func editorPath(code *models.Code) string {
	if code.Type == models.CodeTypeProfile && code.Slug() != "" {
		return "/profile/" + url.PathEscape(code.Slug()) + "/edit"
	}
	if code.Type == models.CodeTypeReview {
		return "/review/" + url.PathEscape(code.Code)
	}
	return "/dashboard"
}

// Activate is the onboarding page a scanned, unconfigured code lands on.
func (h *Handlers) Activate(c echo.Context) error {
	code, err := h.codes.Lookup(c.Request().Context(), c.Param("code"))
	if err != nil {
		if errors.Is(err, codes.ErrNotFound) {
			return RenderError(c, http.StatusNotFound, t(c, "activate_unknown"))
		}
		return InternalServerError(c, err)
	}

	switch {
	case !code.Assigned():
		return Render(c, http.StatusOK, templates.Page("activate", templates.Activate{Code: code.Code}))
	case code.OwnedBy(currentUserID(c)):
		return c.Redirect(http.StatusSeeOther, editorPath(code))
	default:
		return RenderError(c, http.StatusForbidden, t(c, "activate_taken"))
	}
}

// ActivateClaim claims the code from the activation page.
func (h *Handlers) ActivateClaim(c echo.Context) error {
	raw := c.Param("code")
	code, ok := h.claim(c, raw)
	if !ok {
		return seeOther(c, "/activate/"+url.PathEscape(raw))
	}
	h.announce(c, session.FlashSuccess, "flash_card_added")
	return seeOther(c, editorPath(code))
}
