// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rbeach94/spark-dashboard-nest-87/internal/services/secrets"
)

type secretRequest struct {
	Name string `json:"name"`
}

type secretResponse struct {
	Value string `json:"value"`
}

// GetSecret returns a named secret to signed-in callers as {"value": ...}.
func (h *Handlers) GetSecret(c echo.Context) error {
	var req secretRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Secret name is required"})
	}

	value, err := h.secrets.Get(c.Request().Context(), req.Name)
	if err != nil {
		if errors.Is(err, secrets.ErrNameRequired) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Secret name is required"})
		}
		slog.Error("secret lookup failed", "name", req.Name, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch secret"})
	}
	return c.JSON(http.StatusOK, secretResponse{Value: value})
}
