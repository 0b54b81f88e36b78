// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package secrets_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rbeach94/spark-dashboard-nest-87/internal/services/secrets"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/testutil"
)

type brokenStore struct{}

func (brokenStore) GetSecret(context.Context, string) (string, error) {
	return "", errors.New("db locked")
}

func (brokenStore) SetSecret(context.Context, string, string) error {
	return errors.New("db locked")
}

func TestGetAndSet(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	svc := secrets.NewService(repo)
	ctx := context.Background()

	require.NoError(t, svc.Set(ctx, "GOOGLE_PLACES_API_KEY", "k1"))

	value, err := svc.Get(ctx, " GOOGLE_PLACES_API_KEY ")
	require.NoError(t, err)
	assert.Equal(t, "k1", value)
}

func TestGet_Errors(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	svc := secrets.NewService(repo)
	ctx := context.Background()

	_, err := svc.Get(ctx, "")
	assert.ErrorIs(t, err, secrets.ErrNameRequired)

	_, err = svc.Get(ctx, "MISSING")
	assert.ErrorIs(t, err, secrets.ErrNotFound)

	_, err = secrets.NewService(brokenStore{}).Get(ctx, "ANY")
	require.Error(t, err)
	assert.NotErrorIs(t, err, secrets.ErrNotFound)

	assert.ErrorIs(t, svc.Set(ctx, "  ", "v"), secrets.ErrNameRequired)
}
