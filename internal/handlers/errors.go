// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rbeach94/spark-dashboard-nest-87/internal/templates"
)

// RenderError renders the error page with the given status code and message.
func RenderError(c echo.Context, code int, message string) error {
	return Render(c, code, templates.Page("error", templates.Error{Status: code, Message: message}))
}

// NotFound renders the 404 error page.
func NotFound(c echo.Context) error {
	return RenderError(c, http.StatusNotFound, t(c, "error_not_found"))
}

// Forbidden renders the 403 error page.
func Forbidden(c echo.Context) error {
	return RenderError(c, http.StatusForbidden, t(c, "error_forbidden"))
}

// InternalServerError logs err and renders a 500 page.
func InternalServerError(c echo.Context, err error) error {
	slog.Error("request failed", "uri", c.Request().RequestURI, "error", err)
	return RenderError(c, http.StatusInternalServerError, t(c, "error_internal"))
}

// ErrorHandler is the echo HTTPErrorHandler. JSON clients get JSON, browsers
// get the error page.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := ""
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			message = m
		}
	}

	if code >= http.StatusInternalServerError {
		slog.Error("unhandled error", "uri", c.Request().RequestURI, "error", err)
	}

	var renderErr error
	switch {
	case c.Request().Header.Get(echo.HeaderAccept) == echo.MIMEApplicationJSON:
		if message == "" {
			message = http.StatusText(code)
		}
		renderErr = c.JSON(code, map[string]string{"error": message})
	case code == http.StatusNotFound:
		renderErr = NotFound(c)
	case code == http.StatusForbidden:
		renderErr = Forbidden(c)
	case code >= http.StatusInternalServerError:
		renderErr = RenderError(c, code, t(c, "error_internal"))
	default:
		if message == "" {
			message = http.StatusText(code)
		}
		renderErr = RenderError(c, code, message)
	}
	if renderErr != nil {
		slog.Error("failed to render error page", "error", renderErr)
	}
}
