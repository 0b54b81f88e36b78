// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vinovest/sqlx"

	"github.com/rbeach94/spark-dashboard-nest-87/internal/testutil"
)

func TestNew(t *testing.T) {
	_, repo := testutil.NewTestDB(t)

	assert.NotNil(t, repo)
	assert.NotNil(t, repo.DB())
	assert.NoError(t, repo.Ping(context.Background()))
}

func TestTx_RollsBackOnError(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := repo.Tx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO secrets (name, value) VALUES ('k', 'v')`)
		require.NoError(t, err)
		return boom
	})

	assert.ErrorIs(t, err, boom)
	_, err = repo.GetSecret(ctx, "k")
	assert.Error(t, err)
}
