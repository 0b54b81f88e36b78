// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models

import "time"

// CodeType selects what a scanned code resolves to.
type CodeType string

const (
	CodeTypeProfile CodeType = "profile"
	CodeTypeReview  CodeType = "review"
)

// Valid reports whether t is a known code type.
func (t CodeType) Valid() bool {
	return t == CodeTypeProfile || t == CodeTypeReview
}

// Code is a physical NFC tag identifier.
type Code struct { //nolint:govet // fieldalignment: readability over optimization
	ID          string     `db:"id" json:"id"`
	Code        string     `db:"code" json:"code"`
	Type        CodeType   `db:"type" json:"type"`
	IsActive    bool       `db:"is_active" json:"is_active"`
	AssignedTo  *string    `db:"assigned_to" json:"assigned_to"`
	AssignedAt  *time.Time `db:"assigned_at" json:"assigned_at"`
	URL         *string    `db:"url" json:"url"`
	RedirectURL *string    `db:"redirect_url" json:"redirect_url"`
	Title       string     `db:"title" json:"title"`
	Description string     `db:"description" json:"description"`
	IsHidden    bool       `db:"is_hidden" json:"is_hidden"`
	CreatedBy   *string    `db:"created_by" json:"created_by"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}

func (c *Code) Assigned() bool {
	return c.AssignedTo != nil && *c.AssignedTo != ""
}

// OwnedBy reports whether userID holds the code.
func (c *Code) OwnedBy(userID string) bool {
	return c.Assigned() && *c.AssignedTo == userID
}

// Slug returns the public profile slug or "".
func (c *Code) Slug() string {
	if c.URL == nil {
		return ""
	}
	return *c.URL
}

// Redirect returns the external redirect target or "".
func (c *Code) Redirect() string {
	if c.RedirectURL == nil {
		return ""
	}
	return *c.RedirectURL
}
