// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/rbeach94/spark-dashboard-nest-87/internal/appcontext"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/htmx"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/i18n"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/services/session"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/sse"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/templates"
)

// Render renders a templ component with the given status code.
func Render(c echo.Context, statusCode int, component templ.Component) error {
	buf := templ.GetBuffer()
	defer templ.ReleaseBuffer(buf)

	if err := component.Render(c.Request().Context(), buf); err != nil {
		return err
	}

	return c.HTML(statusCode, buf.String())
}

// currentUserID returns the signed-in user's ID, or "".
func currentUserID(c echo.Context) string {
	if cc := appcontext.From(c); cc != nil {
		return cc.UserID()
	}
	return ""
}

func t(c echo.Context, id string) string {
	return i18n.T(c.Request().Context(), id)
}

// flash queues a translated toast for the next page.
func (h *Handlers) flash(c echo.Context, kind session.FlashKind, id string) {
	h.sessions.SetFlash(c.Response(), session.Flash{Kind: kind, Message: t(c, id)})
}

// announce queues a flash for this tab and pushes the same toast to the
// user's other sessions, whose open pages are now stale.
func (h *Handlers) announce(c echo.Context, kind session.FlashKind, id string) {
	h.flash(c, kind, id)

	cc := appcontext.From(c)
	if h.hub == nil || cc == nil || cc.Session == nil {
		return
	}
	buf := templ.GetBuffer()
	defer templ.ReleaseBuffer(buf)

	err := templates.Partial("toast", templates.Toast{Kind: string(kind), Message: t(c, id)}).
		Render(c.Request().Context(), buf)
	if err != nil {
		slog.Warn("toast render failed", "error", err)
		return
	}
	h.hub.SendToUser(cc.UserID(), cc.Session.SessionID, sse.FormatEvent(sse.EventNotification, buf.String()))
}

// toast renders a toast fragment for htmx requests. It is swapped into the
// toast container regardless of the request's own target.
func toast(c echo.Context, status int, kind session.FlashKind, message string) error {
	htmx.Retarget(c.Response(), "#toasts", "beforeend")
	return Render(c, status, templates.Partial("toast", templates.Toast{Kind: string(kind), Message: message}))
}

// seeOther redirects after a POST.
func seeOther(c echo.Context, url string) error {
	return c.Redirect(http.StatusSeeOther, url)
}

// SafeNext returns next when it is a local path, otherwise fallback.
func SafeNext(next, fallback string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return fallback
	}
	return next
}

// formErrors turns validator errors into translated per-field messages.
func formErrors(c echo.Context, err error) templates.FormErrors {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make(templates.FormErrors, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = fieldMessage(c, fe)
	}
	return out
}

func fieldMessage(c echo.Context, fe validator.FieldError) string {
	switch fe.Tag() {
	case "email", "url", "hexcolor", "required":
		return t(c, "field_"+fe.Tag())
	case "max":
		return i18n.TData(c.Request().Context(), "field_max", map[string]any{"Max": fe.Param()})
	default:
		return t(c, "field_invalid")
	}
}
