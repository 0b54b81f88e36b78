// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/rbeach94/spark-dashboard-nest-87/internal/services/auth"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/services/session"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/templates"
)

type loginForm struct {
	Email    string `form:"email"`
	Password string `form:"password"`
	Next     string `form:"next"`
}

type registerForm struct {
	Email           string `form:"email"`
	Password        string `form:"password"`
	PasswordConfirm string `form:"password_confirm"`
	Next            string `form:"next"`
}

// LoginPage renders the login form.
func (h *Handlers) LoginPage(c echo.Context) error {
	if currentUserID(c) != "" {
		return c.Redirect(http.StatusSeeOther, SafeNext(c.QueryParam("next"), "/dashboard"))
	}
	return Render(c, http.StatusOK, templates.Page("login", templates.AuthForm{Next: c.QueryParam("next")}))
}

// Login checks the credentials and starts a session.
func (h *Handlers) Login(c echo.Context) error {
	var form loginForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	form.Email = strings.ToLower(strings.TrimSpace(form.Email))

	user, err := h.auth.Login(c.Request().Context(), form.Email, form.Password)
	if err != nil {
		var msg string
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			msg = t(c, "error_invalid_credentials")
		case errors.Is(err, auth.ErrEmailNotVerified):
			msg = t(c, "error_email_unverified")
		default:
			return InternalServerError(c, err)
		}
		return Render(c, http.StatusUnauthorized, templates.Page("login", templates.AuthForm{
			Email: form.Email, Next: form.Next, Error: msg,
		}))
	}

	cookie, err := h.sessions.Create(user.ID, user.Email)
	if err != nil {
		return InternalServerError(c, err)
	}
	c.SetCookie(cookie)
	return seeOther(c, SafeNext(form.Next, "/dashboard"))
}

// RegisterPage renders the sign-up form.
func (h *Handlers) RegisterPage(c echo.Context) error {
	return Render(c, http.StatusOK, templates.Page("register", templates.AuthForm{
		Next:         c.QueryParam("next"),
		Verification: h.auth.RequiresVerification(),
	}))
}

// Register creates an account. Without mail verification the new user is
// signed in straight away.
func (h *Handlers) Register(c echo.Context) error {
	var form registerForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}

	user, err := h.auth.Register(c.Request().Context(), auth.RegisterParams{
		Email:           form.Email,
		Password:        form.Password,
		PasswordConfirm: form.PasswordConfirm,
	})
	if err != nil {
		msg := registerError(c, err)
		if msg == "" {
			return InternalServerError(c, err)
		}
		return Render(c, http.StatusUnprocessableEntity, templates.Page("register", templates.AuthForm{
			Email: form.Email, Next: form.Next, Error: msg, Verification: h.auth.RequiresVerification(),
		}))
	}

	if h.auth.RequiresVerification() {
		h.flash(c, session.FlashSuccess, "flash_verify_sent")
		return seeOther(c, "/login")
	}

	cookie, err := h.sessions.Create(user.ID, user.Email)
	if err != nil {
		return InternalServerError(c, err)
	}
	c.SetCookie(cookie)
	return seeOther(c, SafeNext(form.Next, "/dashboard"))
}

func registerError(c echo.Context, err error) string {
	var perr *auth.PasswordValidationError
	switch {
	case errors.As(err, &perr):
		return strings.Join(perr.Messages(), " ")
	case errors.Is(err, auth.ErrUserExists):
		return t(c, "error_email_taken")
	case errors.Is(err, auth.ErrInvalidEmail):
		return t(c, "error_invalid_email")
	case errors.Is(err, auth.ErrPasswordMismatch):
		return t(c, "error_password_mismatch")
	}
	return ""
}

// Logout clears the session.
func (h *Handlers) Logout(c echo.Context) error {
	c.SetCookie(h.sessions.Clear())
	h.flash(c, session.FlashSuccess, "flash_logged_out")
	return seeOther(c, "/login")
}

// VerifyEmail consumes the token from a verification link.
func (h *Handlers) VerifyEmail(c echo.Context) error {
	err := h.auth.VerifyEmail(c.Request().Context(), c.QueryParam("token"))
	switch {
	case err == nil:
		h.flash(c, session.FlashSuccess, "flash_email_verified")
	case errors.Is(err, auth.ErrInvalidToken):
		h.flash(c, session.FlashError, "error_verify_invalid")
	default:
		slog.Error("email verification failed", "error", err)
		h.flash(c, session.FlashError, "error_internal")
	}
	return seeOther(c, "/login")
}
