package repository_test

import (
	"context"
	"testing"

	"github.com/alexanderramin/steward/internal/repository"
	"github.com/alexanderramin/steward/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFreeze_DefaultsToUnfrozen(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLiteFreezeRepo(database)
	ctx := context.Background()

	frozen, err := repo.Frozen(ctx)
	require.NoError(t, err)
	assert.False(t, frozen)

	state, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.False(t, state.Frozen)
	assert.Empty(t, state.Reason)
}

func TestFreeze_SetAndClearRoundTrip(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLiteFreezeRepo(database)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, true, "quarter-end close", "admin-1"))

	frozen, err := repo.Frozen(ctx)
	require.NoError(t, err)
	assert.True(t, frozen)

	state, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.True(t, state.Frozen)
	assert.Equal(t, "quarter-end close", state.Reason)
	assert.Equal(t, "admin-1", state.SetBy)
	assert.NotNil(t, state.SetAt)

	require.NoError(t, repo.Set(ctx, false, "", "admin-1"))

	frozen, err = repo.Frozen(ctx)
	require.NoError(t, err)
	assert.False(t, frozen)
}
