// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rbeach94/spark-dashboard-nest-87/internal/assets"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/handlers"
)

func setupRoutes(e *echo.Echo, h *handlers.Handlers) {
	e.GET("/static/*", echo.WrapHandler(http.StripPrefix("/static/", assets.FileServer())))
	e.GET("/health", h.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// public
	e.GET("/", h.Home)
	e.GET("/c/:code", h.CodeRedirect)
	e.GET("/profile/:url/view", h.ProfileView)
	e.POST("/profile/:url/buttons/:id/click", h.ButtonClick)

	e.GET("/login", h.LoginPage)
	e.POST("/login", h.Login)
	e.GET("/register", h.RegisterPage)
	e.POST("/register", h.Register)
	e.POST("/logout", h.Logout)
	e.GET("/auth/verify-email", h.VerifyEmail)

	// signed in; route level so unknown paths still 404
	e.GET("/events", h.Events, RequireAuth)
	e.GET("/dashboard", h.Dashboard, RequireAuth)
	e.POST("/dashboard/claim", h.Claim, RequireAuth)
	e.GET("/activate/:code", h.Activate, RequireAuth)
	e.POST("/activate/:code", h.ActivateClaim, RequireAuth)
	e.GET("/profile/:url/edit", h.ProfileEdit, RequireAuth)
	e.POST("/profile/:url/edit", h.ProfileUpdate, RequireAuth)
	e.POST("/profile/:url/buttons", h.ButtonCreate, RequireAuth)
	e.POST("/profile/:url/buttons/:id/delete", h.ButtonDelete, RequireAuth)
	e.GET("/review/:code", h.ReviewPage, RequireAuth)
	e.POST("/review/:code", h.ReviewSave, RequireAuth)
	e.GET("/places/search", h.PlaceSearch, RequireAuth)
	e.GET("/places/select", h.PlaceSelect, RequireAuth)

	e.POST("/functions/get-secret", h.GetSecret, RequireAuthJSON)

	admin := e.Group("/admin", RequireAuth, RequireAdmin)
	admin.GET("", h.Admin)
	admin.GET("/codes/list", h.CodeListPartial)
	admin.POST("/codes/generate", h.Generate)
	admin.GET("/codes/export", h.Export)
	admin.GET("/codes/:id/qr", h.QR)
	admin.POST("/codes/:id/hidden", h.SetHidden)
}
