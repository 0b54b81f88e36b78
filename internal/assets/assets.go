// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

//go:build !dev

// Package assets provides embedded static assets with content-versioned URLs.
package assets

import (
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"io/fs"
	"log/slog"
	"net/http"
)

//go:embed static
var staticFS embed.FS

var (
	cssPath = "/static/app.css"
	jsPath  = "/static/app.js"
)

func init() {
	cssPath = versioned(cssPath, "static/app.css")
	jsPath = versioned(jsPath, "static/app.js")
	slog.Debug("loaded asset paths", "css", cssPath, "js", jsPath)
}

// versioned appends the first 8 hex chars of the file's SHA-256 so the
// URL changes whenever the content does.
func versioned(urlPath, file string) string {
	data, err := staticFS.ReadFile(file)
	if err != nil {
		slog.Error("failed to read embedded asset", "file", file, "error", err)
		return urlPath
	}
	sum := sha256.Sum256(data)
	return urlPath + "?v=" + hex.EncodeToString(sum[:])[:8]
}

// CSSPath returns the path to the main CSS file.
func CSSPath() string {
	return cssPath
}

// JSPath returns the path to the app script.
func JSPath() string {
	return jsPath
}

// FileServer returns an http.Handler that serves embedded static files.
func FileServer() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic("failed to create sub filesystem: " + err.Error())
	}
	return http.FileServer(http.FS(sub))
}
