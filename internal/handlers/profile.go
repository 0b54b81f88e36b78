// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/rbeach94/spark-dashboard-nest-87/internal/services/profiles"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/services/session"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/templates"
)

func editPath(slug string) string {
	return "/profile/" + url.PathEscape(slug) + "/edit"
}

// profileError renders the page for lookup and ownership failures.
func profileError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, profiles.ErrNotFound):
		return NotFound(c)
	case errors.Is(err, profiles.ErrForbidden):
		return Forbidden(c)
	default:
		return InternalServerError(c, err)
	}
}

// ProfileEdit renders the owner's edit form.
func (h *Handlers) ProfileEdit(c echo.Context) error {
	page, err := h.profiles.ForOwner(c.Request().Context(), currentUserID(c), c.Param("url"))
	if err != nil {
		return profileError(c, err)
	}
	return Render(c, http.StatusOK, templates.Page("profile_edit", templates.ProfileEdit{
		Code:    page.Code,
		Profile: page.Profile,
		Buttons: page.Buttons,
		Form:    profiles.InputFrom(page.Profile),
	}))
}

// ProfileUpdate saves the edit form.
func (h *Handlers) ProfileUpdate(c echo.Context) error {
	slug := c.Param("url")
	var in profiles.Input
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}

	ctx := c.Request().Context()
	_, err := h.profiles.Update(ctx, currentUserID(c), slug, in)
	if err == nil {
		h.flash(c, session.FlashSuccess, "flash_profile_updated")
		return seeOther(c, editPath(slug))
	}

	fieldErrs := formErrors(c, err)
	if fieldErrs == nil {
		if errors.Is(err, profiles.ErrNotFound) || errors.Is(err, profiles.ErrForbidden) {
			return profileError(c, err)
		}
		slog.Error("profile update failed", "slug", slug, "error", err)
		h.flash(c, session.FlashError, "flash_profile_failed")
		return seeOther(c, editPath(slug))
	}

	page, err := h.profiles.ForOwner(ctx, currentUserID(c), slug)
	if err != nil {
		return profileError(c, err)
	}
	return Render(c, http.StatusUnprocessableEntity, templates.Page("profile_edit", templates.ProfileEdit{
		Code:    page.Code,
		Profile: page.Profile,
		Buttons: page.Buttons,
		Form:    in,
		Errors:  fieldErrs,
	}))
}

// ProfileView is the public card page.
func (h *Handlers) ProfileView(c echo.Context) error {
	slug := c.Param("url")
	page, err := h.profiles.Load(c.Request().Context(), slug)
	if err != nil {
		return profileError(c, err)
	}
	if !page.Code.IsActive {
		return NotFound(c)
	}
	bg, fg := page.Profile.Colors()
	return Render(c, http.StatusOK, templates.Page("profile_view", templates.ProfileView{
		Slug:       slug,
		Profile:    page.Profile,
		Buttons:    page.Buttons,
		Background: bg,
		Foreground: fg,
	}))
}

// ButtonCreate adds a button to the profile.
func (h *Handlers) ButtonCreate(c echo.Context) error {
	slug := c.Param("url")
	var in profiles.ButtonInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}

	_, err := h.profiles.AddButton(c.Request().Context(), currentUserID(c), slug, in)
	switch {
	case err == nil:
		h.flash(c, session.FlashSuccess, "flash_button_added")
	case errors.Is(err, profiles.ErrNotFound), errors.Is(err, profiles.ErrForbidden):
		return profileError(c, err)
	default:
		slog.Warn("button not added", "slug", slug, "error", err)
		h.flash(c, session.FlashError, "flash_button_failed")
	}
	return seeOther(c, editPath(slug))
}

// ButtonDelete removes a button from the profile.
func (h *Handlers) ButtonDelete(c echo.Context) error {
	slug := c.Param("url")
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return NotFound(c)
	}

	err = h.profiles.DeleteButton(c.Request().Context(), currentUserID(c), slug, id)
	switch {
	case err == nil:
		h.flash(c, session.FlashSuccess, "flash_button_deleted")
	case errors.Is(err, profiles.ErrForbidden):
		return Forbidden(c)
	default:
		slog.Warn("button not deleted", "slug", slug, "button_id", id, "error", err)
		h.flash(c, session.FlashError, "flash_button_failed")
	}
	return seeOther(c, editPath(slug))
}

// ButtonClick records a click from the public page. Always 204.
func (h *Handlers) ButtonClick(c echo.Context) error {
	if id, err := strconv.ParseInt(c.Param("id"), 10, 64); err == nil {
		h.profiles.RecordClick(c.Request().Context(), c.Param("url"), id)
	}
	return c.NoContent(http.StatusNoContent)
}
