// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models_test

import (
	"testing"
	"time"

	"github.com/rbeach94/spark-dashboard-nest-87/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestUser_DisplayName(t *testing.T) {
	assert.Equal(t, "jane", (&models.User{Email: "jane@example.com"}).DisplayName())
	assert.Equal(t, "nobody", (&models.User{Email: "nobody"}).DisplayName())
}

func TestUserWithRole_EffectiveRole(t *testing.T) {
	admin := "admin"
	empty := ""

	assert.Equal(t, models.RoleUser, models.UserWithRole{}.EffectiveRole())
	assert.Equal(t, models.RoleUser, models.UserWithRole{Role: &empty}.EffectiveRole())
	assert.Equal(t, models.RoleAdmin, models.UserWithRole{Role: &admin}.EffectiveRole())
}

func TestRole_Valid(t *testing.T) {
	assert.True(t, models.RoleAdmin.Valid())
	assert.True(t, models.RoleUser.Valid())
	assert.False(t, models.Role("owner").Valid())
}

func TestEmailVerificationToken_Expired(t *testing.T) {
	now := time.Now()
	tok := &models.EmailVerificationToken{ExpiresAt: now.Add(time.Hour)}

	assert.False(t, tok.Expired(now))
	assert.True(t, tok.Expired(now.Add(2*time.Hour)))
}
