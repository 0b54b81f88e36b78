// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rbeach94/spark-dashboard-nest-87/internal/models"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/services/auth"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/services/email"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/testutil"
)

const strongPassword = "violet-harbor-42"

type fakeMailer struct {
	to    string
	token string
	err   error
}

func (f *fakeMailer) SendVerification(_ context.Context, to, token string) error {
	f.to, f.token = to, token
	return f.err
}

func register(t *testing.T, svc *auth.Service, addr string) *models.User {
	t.Helper()
	user, err := svc.Register(context.Background(), auth.RegisterParams{
		Email: addr, Password: strongPassword, PasswordConfirm: strongPassword,
	})
	require.NoError(t, err)
	return user
}

func TestRegister_FirstUserIsAdmin(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	svc := auth.NewService(repo, nil, "")
	ctx := context.Background()

	first := register(t, svc, "first@example.com")
	second := register(t, svc, "second@example.com")

	role, err := repo.GetUserRole(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, role)

	role, err = repo.GetUserRole(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, role)
}

func TestRegister_ConfiguredAdminEmail(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	svc := auth.NewService(repo, nil, "Boss@Example.com")
	register(t, svc, "first@example.com")

	boss := register(t, svc, "boss@example.com")

	role, err := repo.GetUserRole(context.Background(), boss.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, role)
}

func TestRegister_Errors(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	svc := auth.NewService(repo, nil, "")
	ctx := context.Background()
	register(t, svc, "taken@example.com")

	tests := []struct {
		name   string
		params auth.RegisterParams
		want   error
	}{
		{"bad email", auth.RegisterParams{Email: "nope", Password: strongPassword, PasswordConfirm: strongPassword}, auth.ErrInvalidEmail},
		{"mismatch", auth.RegisterParams{Email: "a@example.com", Password: strongPassword, PasswordConfirm: "other"}, auth.ErrPasswordMismatch},
		{"exists", auth.RegisterParams{Email: "TAKEN@example.com", Password: strongPassword, PasswordConfirm: strongPassword}, auth.ErrUserExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.params)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := svc.Register(ctx, auth.RegisterParams{Email: "b@example.com", Password: "short", PasswordConfirm: "short"})
	var pve *auth.PasswordValidationError
	assert.True(t, errors.As(err, &pve))
}

func TestLogin(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	svc := auth.NewService(repo, nil, "")
	ctx := context.Background()
	created := register(t, svc, "jane@example.com")

	user, err := svc.Login(ctx, "Jane@Example.com", strongPassword)
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	_, err = svc.Login(ctx, "jane@example.com", "wrong-password")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = svc.Login(ctx, "ghost@example.com", strongPassword)
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestVerificationFlow(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	mailer := &fakeMailer{}
	svc := auth.NewService(repo, mailer, "")
	ctx := context.Background()
	require.True(t, svc.RequiresVerification())

	register(t, svc, "jane@example.com")
	assert.Equal(t, "jane@example.com", mailer.to)
	require.NotEmpty(t, mailer.token)

	_, err := svc.Login(ctx, "jane@example.com", strongPassword)
	assert.ErrorIs(t, err, auth.ErrEmailNotVerified)

	require.NoError(t, svc.VerifyEmail(ctx, mailer.token))
	_, err = svc.Login(ctx, "jane@example.com", strongPassword)
	assert.NoError(t, err)

	assert.ErrorIs(t, svc.VerifyEmail(ctx, mailer.token), auth.ErrInvalidToken)
}

func TestVerifyEmail_Expired(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	svc := auth.NewService(repo, &fakeMailer{}, "")
	ctx := context.Background()
	user := testutil.NewTestUser(t, repo, "jane@example.com")
	require.NoError(t, repo.CreateEmailVerificationToken(ctx, user.ID, email.HashToken("old"), time.Now().Add(-time.Minute)))

	assert.ErrorIs(t, svc.VerifyEmail(ctx, "old"), auth.ErrInvalidToken)
	assert.ErrorIs(t, svc.VerifyEmail(ctx, ""), auth.ErrInvalidToken)
}

func TestRegister_MailFailureKeepsAccount(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	svc := auth.NewService(repo, &fakeMailer{err: errors.New("smtp down")}, "")

	user := register(t, svc, "jane@example.com")

	_, err := repo.GetUserByID(context.Background(), user.ID)
	assert.NoError(t, err)
}

func TestGrantAdmin(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	svc := auth.NewService(repo, nil, "")
	ctx := context.Background()
	user := testutil.NewTestUser(t, repo, "jane@example.com")

	require.NoError(t, svc.GrantAdmin(ctx, "jane@example.com"))
	role, err := repo.GetUserRole(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, role)

	assert.Error(t, svc.GrantAdmin(ctx, "ghost@example.com"))
}
