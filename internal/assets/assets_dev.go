// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

//go:build dev

// Package assets serves static files straight from disk in development so
// edits show up without a rebuild.
package assets

import (
	"net/http"
)

func CSSPath() string {
	return "/static/app.css"
}

func JSPath() string {
	return "/static/app.js"
}

func FileServer() http.Handler {
	return http.FileServer(http.Dir("internal/assets/static"))
}
