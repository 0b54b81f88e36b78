// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/rbeach94/spark-dashboard-nest-87/internal/models"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/services/codes"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/services/session"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/templates"
)

// RecentActivationsLimit is the size of the recent activations card.
const RecentActivationsLimit = 5

// codeList builds one admin card. The hidden view lists every unassigned
// hidden code so it can be unhidden again.
func (h *Handlers) codeList(c echo.Context, typ models.CodeType, showHidden bool) (templates.CodeList, error) {
	all, err := h.codes.List(c.Request().Context(), typ)
	if err != nil {
		return templates.CodeList{}, err
	}
	list := templates.CodeList{Type: typ, Title: t(c, "admin_codes_"+string(typ)), ShowHidden: showHidden}
	if showHidden {
		list.Codes = codes.HiddenUnassigned(all)
	} else {
		list.Codes = codes.Available(all, codes.AvailableLimit)
	}
	return list, nil
}

// Admin renders the admin dashboard.
func (h *Handlers) Admin(c echo.Context) error {
	ctx := c.Request().Context()

	profileCodes, err := h.codeList(c, models.CodeTypeProfile, false)
	if err != nil {
		return InternalServerError(c, err)
	}
	reviewCodes, err := h.codeList(c, models.CodeTypeReview, false)
	if err != nil {
		return InternalServerError(c, err)
	}
	users, err := h.repo.ListUsersWithRoles(ctx)
	if err != nil {
		return InternalServerError(c, err)
	}
	recent, err := h.codes.RecentActivations(ctx, RecentActivationsLimit)
	if err != nil {
		return InternalServerError(c, err)
	}

	return Render(c, http.StatusOK, templates.Page("admin", templates.Admin{
		ProfileCodes: profileCodes,
		ReviewCodes:  reviewCodes,
		Users:        users,
		Recent:       recent,
	}))
}

// CodeListPartial re-renders one codes card for htmx refreshes. hidden=1
// switches the card to the hidden codes.
func (h *Handlers) CodeListPartial(c echo.Context) error {
	typ := models.CodeType(c.QueryParam("type"))
	if !typ.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown code type")
	}
	list, err := h.codeList(c, typ, c.QueryParam("hidden") == "1")
	if err != nil {
		return InternalServerError(c, err)
	}
	return Render(c, http.StatusOK, templates.Partial("code_list", list))
}

type generateForm struct {
	Count string `form:"count"`
	Type  string `form:"type"`
}

// Generate provisions new codes. Bounds are checked by the generator.
func (h *Handlers) Generate(c echo.Context) error {
	var form generateForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	typ := models.CodeType(form.Type)
	count, _ := strconv.Atoi(form.Count)

	_, err := h.codes.Generate(c.Request().Context(), codes.GenerateParams{
		AdminID:  currentUserID(c),
		CodeType: typ,
		Count:    count,
	})

	suffix := "profile"
	if typ == models.CodeTypeReview {
		suffix = "review"
	}
	if err != nil {
		slog.Error("code generation failed", "count", form.Count, "type", form.Type, "error", err)
		h.flash(c, session.FlashError, "flash_codes_failed_"+suffix)
	} else {
		h.flash(c, session.FlashSuccess, "flash_codes_generated_"+suffix)
	}
	return seeOther(c, "/admin")
}

// Export downloads the unassigned codes of one type.
func (h *Handlers) Export(c echo.Context) error {
	typ := models.CodeType(c.QueryParam("type"))
	if !typ.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown code type")
	}
	out, err := h.codes.Export(c.Request().Context(), typ, c.QueryParam("format"))
	if err != nil {
		return InternalServerError(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+out.Filename+`"`)
	return c.Blob(http.StatusOK, out.ContentType, out.Body.Bytes())
}

// QR downloads the SVG QR code of a code.
func (h *Handlers) QR(c echo.Context) error {
	svg, filename, err := h.codes.QR(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, codes.ErrNotFound) {
			return NotFound(c)
		}
		return InternalServerError(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Blob(http.StatusOK, "image/svg+xml", svg)
}

type hiddenForm struct {
	Hidden bool `form:"hidden"`
}

// SetHidden toggles whether a code shows in the available list.
func (h *Handlers) SetHidden(c echo.Context) error {
	var form hiddenForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}

	_, err := h.codes.SetHidden(c.Request().Context(), c.Param("id"), form.Hidden)
	switch {
	case err != nil:
		slog.Error("visibility update failed", "code_id", c.Param("id"), "error", err)
		h.flash(c, session.FlashError, "flash_code_visibility_failed")
	case form.Hidden:
		h.flash(c, session.FlashSuccess, "flash_code_hidden")
	default:
		h.flash(c, session.FlashSuccess, "flash_code_unhidden")
	}
	return seeOther(c, "/admin")
}
