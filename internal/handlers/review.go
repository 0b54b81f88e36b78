// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/rbeach94/spark-dashboard-nest-87/internal/models"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/services/codes"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/services/places"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/services/session"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/templates"
)

const defaultReviewDescription = "Please leave us a review on Google!"

type reviewForm struct {
	Title       string `form:"title" validate:"max=200"`
	Description string `form:"description" validate:"max=1000"`
	RedirectURL string `form:"redirect_url" validate:"omitempty,url,max=2048"`
}

// ownedReviewCode loads the review code in the path if the user holds it.
func (h *Handlers) ownedReviewCode(c echo.Context) (*models.Code, error) {
	code, err := h.codes.Lookup(c.Request().Context(), c.Param("code"))
	if err != nil {
		return nil, err
	}
	if code.Type != models.CodeTypeReview || !code.OwnedBy(currentUserID(c)) {
		return nil, codes.ErrNotFound
	}
	return code, nil
}

func (h *Handlers) reviewError(c echo.Context, err error) error {
	if errors.Is(err, codes.ErrNotFound) {
		return NotFound(c)
	}
	return InternalServerError(c, err)
}

// ReviewPage is the editor of a review plaque.
func (h *Handlers) ReviewPage(c echo.Context) error {
	code, err := h.ownedReviewCode(c)
	if err != nil {
		return h.reviewError(c, err)
	}
	return Render(c, http.StatusOK, templates.Page("review", templates.Review{
		Code: code,
		Fields: templates.PlaceSelection{
			Title:       code.Title,
			Description: code.Description,
			RedirectURL: code.Redirect(),
		},
	}))
}

// ReviewSave stores the plaque text and review link.
func (h *Handlers) ReviewSave(c echo.Context) error {
	code, err := h.ownedReviewCode(c)
	if err != nil {
		return h.reviewError(c, err)
	}

	var form reviewForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	fields := templates.PlaceSelection{Title: form.Title, Description: form.Description, RedirectURL: form.RedirectURL}
	if err := c.Validate(&form); err != nil {
		return Render(c, http.StatusUnprocessableEntity, templates.Page("review", templates.Review{
			Code:   code,
			Fields: fields,
			Errors: formErrors(c, err),
		}))
	}

	err = h.codes.UpdateReviewPlaque(c.Request().Context(), currentUserID(c), code.ID, form.Title, form.Description, form.RedirectURL)
	if err != nil {
		slog.Error("review plaque update failed", "code", code.Code, "error", err)
		h.flash(c, session.FlashError, "flash_review_failed")
		return seeOther(c, "/review/"+url.PathEscape(code.Code))
	}
	h.announce(c, session.FlashSuccess, "flash_review_updated")
	return seeOther(c, "/dashboard")
}

// PlaceSearch renders the place suggestions for the review editor.
func (h *Handlers) PlaceSearch(c echo.Context) error {
	query := c.QueryParam("q")
	results := templates.PlaceResults{Query: query}

	found, err := h.places.Search(c.Request().Context(), query)
	switch {
	case errors.Is(err, places.ErrQueryTooShort):
		results.Query = ""
	case errors.Is(err, places.ErrMissingAPIKey):
		results.Error = t(c, "flash_places_unconfigured")
	case err != nil:
		slog.Error("place search failed", "error", err)
		results.Error = t(c, "flash_places_failed")
	default:
		results.Places = found
	}
	return Render(c, http.StatusOK, templates.Partial("place_results", results))
}

// PlaceSelect prefills the review fields from the chosen place.
func (h *Handlers) PlaceSelect(c echo.Context) error {
	id := c.QueryParam("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "place id is required")
	}

	place, err := h.places.Details(c.Request().Context(), id)
	if err != nil {
		slog.Error("place details failed", "place_id", id, "error", err)
		return toast(c, http.StatusOK, session.FlashError, t(c, "flash_places_failed"))
	}
	return Render(c, http.StatusOK, templates.Partial("review_fields", templates.PlaceSelection{
		Title:       "Review " + place.Name,
		Description: defaultReviewDescription,
		RedirectURL: place.ReviewURL(),
	}))
}
