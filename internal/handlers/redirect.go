// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// CodeRedirect resolves a scanned code.
func (h *Handlers) CodeRedirect(c echo.Context) error {
	target := h.resolver.Resolve(c.Request().Context(), c.Param("code"))
	return c.Redirect(http.StatusFound, target.Location)
}
