package repository

import (
	"context"
	"testing"

	"github.com/hinoue/evmkit/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheVersionRepo_GetDefaultsToOne(t *testing.T) {
	repo := NewSQLiteCacheVersionRepo(testutil.NewTestDB(t))

	version, err := repo.Get(context.Background(), "project/p1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)
}

func TestCacheVersionRepo_BumpIncrements(t *testing.T) {
	repo := NewSQLiteCacheVersionRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	version, err := repo.Bump(ctx, "project/p1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), version)

	version, err = repo.Bump(ctx, "project/p1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), version)

	version, err = repo.Get(ctx, "project/p1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), version)
}

func TestCacheVersionRepo_ScopesAreIndependent(t *testing.T) {
	repo := NewSQLiteCacheVersionRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	_, err := repo.Bump(ctx, "project/p1")
	require.NoError(t, err)

	version, err := repo.Get(ctx, "project/p2")
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	version, err = repo.Get(ctx, "all")
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)
}
