package repository

import (
	"context"
	"testing"
	"time"

	"github.com/hinoue/evmkit/internal/domain"
	"github.com/hinoue/evmkit/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupWorkItemRepo(t *testing.T) (*SQLiteWorkItemRepo, *SQLiteProjectRepo) {
	t.Helper()
	db := testutil.NewTestDB(t)
	return NewSQLiteWorkItemRepo(db), NewSQLiteProjectRepo(db)
}

func TestWorkItemRepo_CreateAndGetByID(t *testing.T) {
	repo, projRepo := setupWorkItemRepo(t)
	ctx := context.Background()

	proj := testutil.NewProject("Alpha")
	require.NoError(t, projRepo.Create(ctx, proj))

	start := testutil.Date(2026, time.January, 5)
	due := testutil.Date(2026, time.January, 30)
	item := testutil.NewWorkItem(proj.ID, "Design the schema",
		testutil.WithSchedule(start, due),
		testutil.WithEstimate(40),
		testutil.WithDoneRatio(25),
		testutil.WithAssignee("aoki"),
	)
	require.NoError(t, repo.Create(ctx, item))

	got, err := repo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, item.ID, got.ID)
	assert.Equal(t, proj.ID, got.ProjectID)
	assert.Equal(t, "Design the schema", got.Subject)
	assert.Equal(t, "aoki", got.Assignee)
	assert.Equal(t, 25, got.DoneRatio)
	require.NotNil(t, got.StartDate)
	assert.Equal(t, start, *got.StartDate)
	require.NotNil(t, got.DueDate)
	assert.Equal(t, due, *got.DueDate)
	require.NotNil(t, got.EstimatedHours)
	assert.Equal(t, 40.0, *got.EstimatedHours)
	assert.Nil(t, got.ClosedAt)
	assert.False(t, got.Closed())
}

func TestWorkItemRepo_GetByID_NotFound(t *testing.T) {
	repo, _ := setupWorkItemRepo(t)
	_, err := repo.GetByID(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWorkItemRepo_ListByProject_IncludesDescendants(t *testing.T) {
	repo, projRepo := setupWorkItemRepo(t)
	ctx := context.Background()

	parent := testutil.NewProject("Portal")
	require.NoError(t, projRepo.Create(ctx, parent))
	child := testutil.NewProject("Portal API", testutil.WithParent(parent.ID))
	require.NoError(t, projRepo.Create(ctx, child))
	other := testutil.NewProject("Unrelated")
	require.NoError(t, projRepo.Create(ctx, other))

	require.NoError(t, repo.Create(ctx, testutil.NewWorkItem(parent.ID, "Parent task")))
	require.NoError(t, repo.Create(ctx, testutil.NewWorkItem(child.ID, "Child task")))
	require.NoError(t, repo.Create(ctx, testutil.NewWorkItem(other.ID, "Other task")))

	items, err := repo.ListByProject(ctx, parent.ID, "")
	require.NoError(t, err)
	require.Len(t, items, 2)
	subjects := []string{items[0].Subject, items[1].Subject}
	assert.Contains(t, subjects, "Parent task")
	assert.Contains(t, subjects, "Child task")

	// Scoping at the child sees only the child's items.
	items, err = repo.ListByProject(ctx, child.ID, "")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Child task", items[0].Subject)
}

func TestWorkItemRepo_ListByProject_AssigneeFilter(t *testing.T) {
	repo, projRepo := setupWorkItemRepo(t)
	ctx := context.Background()

	proj := testutil.NewProject("Filtering")
	require.NoError(t, projRepo.Create(ctx, proj))

	require.NoError(t, repo.Create(ctx, testutil.NewWorkItem(proj.ID, "Mine", testutil.WithAssignee("aoki"))))
	require.NoError(t, repo.Create(ctx, testutil.NewWorkItem(proj.ID, "Theirs", testutil.WithAssignee("baker"))))
	require.NoError(t, repo.Create(ctx, testutil.NewWorkItem(proj.ID, "Unassigned")))

	items, err := repo.ListByProject(ctx, proj.ID, "aoki")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Mine", items[0].Subject)

	// Assignee filter without a project spans all projects.
	items, err = repo.ListByProject(ctx, "", "baker")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Theirs", items[0].Subject)
}

func TestWorkItemRepo_ListIncomplete(t *testing.T) {
	repo, projRepo := setupWorkItemRepo(t)
	ctx := context.Background()

	proj := testutil.NewProject("Overdue")
	require.NoError(t, projRepo.Create(ctx, proj))

	asOf := testutil.Date(2026, time.February, 1)
	overdue := testutil.NewWorkItem(proj.ID, "Overdue open",
		testutil.WithDue(testutil.Date(2026, time.January, 20)))
	future := testutil.NewWorkItem(proj.ID, "Future open",
		testutil.WithDue(testutil.Date(2026, time.March, 1)))
	closed := testutil.NewWorkItem(proj.ID, "Overdue but closed",
		testutil.WithDue(testutil.Date(2026, time.January, 10)),
		testutil.WithClosed(testutil.Date(2026, time.January, 12)))
	noDue := testutil.NewWorkItem(proj.ID, "No due date")

	require.NoError(t, repo.Create(ctx, overdue))
	require.NoError(t, repo.Create(ctx, future))
	require.NoError(t, repo.Create(ctx, closed))
	require.NoError(t, repo.Create(ctx, noDue))

	items, err := repo.ListIncomplete(ctx, proj.ID, asOf)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Overdue open", items[0].Subject)
}

func TestWorkItemRepo_ListAssignees(t *testing.T) {
	repo, projRepo := setupWorkItemRepo(t)
	ctx := context.Background()

	proj := testutil.NewProject("Team")
	require.NoError(t, projRepo.Create(ctx, proj))

	require.NoError(t, repo.Create(ctx, testutil.NewWorkItem(proj.ID, "A", testutil.WithAssignee("baker"))))
	require.NoError(t, repo.Create(ctx, testutil.NewWorkItem(proj.ID, "B", testutil.WithAssignee("aoki"))))
	require.NoError(t, repo.Create(ctx, testutil.NewWorkItem(proj.ID, "C", testutil.WithAssignee("aoki"))))
	require.NoError(t, repo.Create(ctx, testutil.NewWorkItem(proj.ID, "D")))

	assignees, err := repo.ListAssignees(ctx, proj.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"aoki", "baker"}, assignees)
}

func TestWorkItemRepo_Update(t *testing.T) {
	repo, projRepo := setupWorkItemRepo(t)
	ctx := context.Background()

	proj := testutil.NewProject("Mutable")
	require.NoError(t, projRepo.Create(ctx, proj))

	item := testutil.NewWorkItem(proj.ID, "Before", testutil.WithEstimate(10))
	require.NoError(t, repo.Create(ctx, item))

	closedAt := testutil.Date(2026, time.January, 15)
	item.Subject = "After"
	item.Status = domain.WorkItemClosed
	item.DoneRatio = 100
	item.ClosedAt = &closedAt
	item.EstimatedHours = nil
	item.UpdatedAt = time.Now().UTC()
	require.NoError(t, repo.Update(ctx, item))

	got, err := repo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "After", got.Subject)
	assert.True(t, got.Closed())
	assert.Equal(t, 100, got.DoneRatio)
	require.NotNil(t, got.ClosedAt)
	assert.Equal(t, closedAt, *got.ClosedAt)
	assert.Nil(t, got.EstimatedHours)
}

func TestWorkItemRepo_LatestUpdatedAt(t *testing.T) {
	repo, projRepo := setupWorkItemRepo(t)
	ctx := context.Background()

	proj := testutil.NewProject("Freshness")
	require.NoError(t, projRepo.Create(ctx, proj))

	// No items yet: the zero time signals an empty scope.
	latest, err := repo.LatestUpdatedAt(ctx, proj.ID, "")
	require.NoError(t, err)
	assert.True(t, latest.IsZero())

	older := testutil.NewWorkItem(proj.ID, "Older", testutil.WithAssignee("aoki"))
	older.UpdatedAt = time.Date(2026, time.February, 1, 9, 0, 0, 0, time.UTC)
	newer := testutil.NewWorkItem(proj.ID, "Newer", testutil.WithAssignee("baker"))
	newer.UpdatedAt = time.Date(2026, time.February, 2, 9, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, older))
	require.NoError(t, repo.Create(ctx, newer))

	latest, err = repo.LatestUpdatedAt(ctx, proj.ID, "")
	require.NoError(t, err)
	assert.True(t, latest.Equal(newer.UpdatedAt))

	// Assignee scoping only sees that member's items.
	latest, err = repo.LatestUpdatedAt(ctx, proj.ID, "aoki")
	require.NoError(t, err)
	assert.True(t, latest.Equal(older.UpdatedAt))
}

func TestWorkItemRepo_Delete(t *testing.T) {
	repo, projRepo := setupWorkItemRepo(t)
	ctx := context.Background()

	proj := testutil.NewProject("Deletion")
	require.NoError(t, projRepo.Create(ctx, proj))

	item := testutil.NewWorkItem(proj.ID, "Doomed")
	require.NoError(t, repo.Create(ctx, item))
	require.NoError(t, repo.Delete(ctx, item.ID))

	_, err := repo.GetByID(ctx, item.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
