package repository

import (
	"context"
	"testing"

	"github.com/hinoue/evmkit/internal/domain"
	"github.com/hinoue/evmkit/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupProjectRepo(t *testing.T) *SQLiteProjectRepo {
	t.Helper()
	return NewSQLiteProjectRepo(testutil.NewTestDB(t))
}

func TestProjectRepo_CreateAndGetByID(t *testing.T) {
	repo := setupProjectRepo(t)
	ctx := context.Background()

	parent := testutil.NewProject("Platform")
	require.NoError(t, repo.Create(ctx, parent))

	child := testutil.NewProject("Platform API", testutil.WithParent(parent.ID))
	require.NoError(t, repo.Create(ctx, child))

	got, err := repo.GetByID(ctx, child.ID)
	require.NoError(t, err)
	assert.Equal(t, "Platform API", got.Name)
	assert.Equal(t, domain.ProjectActive, got.Status)
	require.NotNil(t, got.ParentID)
	assert.Equal(t, parent.ID, *got.ParentID)
}

func TestProjectRepo_GetByID_NotFound(t *testing.T) {
	repo := setupProjectRepo(t)
	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProjectRepo_ListFiltersArchived(t *testing.T) {
	repo := setupProjectRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewProject("Beta")))
	require.NoError(t, repo.Create(ctx, testutil.NewProject("Alpha")))
	require.NoError(t, repo.Create(ctx, testutil.NewProject("Old",
		testutil.WithProjectStatus(domain.ProjectArchived))))

	active, err := repo.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, active, 2)
	// Ordered by name.
	assert.Equal(t, "Alpha", active[0].Name)
	assert.Equal(t, "Beta", active[1].Name)

	all, err := repo.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestProjectRepo_ListTree(t *testing.T) {
	repo := setupProjectRepo(t)
	ctx := context.Background()

	root := testutil.NewProject("Root")
	require.NoError(t, repo.Create(ctx, root))
	child := testutil.NewProject("Child", testutil.WithParent(root.ID))
	require.NoError(t, repo.Create(ctx, child))
	grandchild := testutil.NewProject("Grandchild", testutil.WithParent(child.ID))
	require.NoError(t, repo.Create(ctx, grandchild))
	require.NoError(t, repo.Create(ctx, testutil.NewProject("Sibling")))

	ids, err := repo.ListTree(ctx, root.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{root.ID, child.ID, grandchild.ID}, ids)

	ids, err = repo.ListTree(ctx, child.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{child.ID, grandchild.ID}, ids)
}

func TestProjectRepo_UpdateAndDelete(t *testing.T) {
	repo := setupProjectRepo(t)
	ctx := context.Background()

	proj := testutil.NewProject("Before")
	require.NoError(t, repo.Create(ctx, proj))

	proj.Name = "After"
	proj.Status = domain.ProjectArchived
	require.NoError(t, repo.Update(ctx, proj))

	got, err := repo.GetByID(ctx, proj.ID)
	require.NoError(t, err)
	assert.Equal(t, "After", got.Name)
	assert.Equal(t, domain.ProjectArchived, got.Status)

	require.NoError(t, repo.Delete(ctx, proj.ID))
	_, err = repo.GetByID(ctx, proj.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
