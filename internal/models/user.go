// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models

import (
	"strings"
	"time"
)

// Role is an authorisation level stored in user_roles.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

type User struct { //nolint:govet // fieldalignment: readability over optimization
	ID            string    `db:"id" json:"id"`
	Email         string    `db:"email" json:"email"`
	PasswordHash  string    `db:"password_hash" json:"-"`
	EmailVerified bool      `db:"email_verified" json:"email_verified"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// DisplayName is the local part of the email address.
func (u *User) DisplayName() string {
	if i := strings.IndexByte(u.Email, '@'); i > 0 {
		return u.Email[:i]
	}
	return u.Email
}

// UserWithRole is a directory row for the admin user list.
type UserWithRole struct {
	ID        string    `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	Role      *string   `db:"role" json:"role"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// EffectiveRole falls back to user when no role row exists.
func (u UserWithRole) EffectiveRole() Role {
	if u.Role == nil || *u.Role == "" {
		return RoleUser
	}
	return Role(*u.Role)
}
