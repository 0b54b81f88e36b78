// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package ctxkeys defines typed context keys used across packages.
package ctxkeys

// CSRFToken is the context key for the CSRF token.
type CSRFToken struct{}

// User is the context key for the authenticated user.
type User struct{}

// Admin is the context key for the admin flag of the current user.
type Admin struct{}

// Flash is the context key for the flash popped for this request.
type Flash struct{}

// Assets is the context key for the versioned static asset paths.
type Assets struct{}
