package service

import (
	"context"
	"testing"
	"time"

	"github.com/hinoue/evmkit/internal/domain"
	"github.com/hinoue/evmkit/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedCoverageProject creates a project with a holiday-free calendar so
// the working-day counts below stay exact.
func seedCoverageProject(t *testing.T, h *harness) *domain.Project {
	t.Helper()
	ctx := context.Background()

	proj := testutil.NewProject("Coverage")
	require.NoError(t, h.projectRepo.Create(ctx, proj))

	cfg := testutil.NewSettings(proj.ID)
	cfg.Region = "none"
	require.NoError(t, h.settingsRepo.Upsert(ctx, cfg))
	return proj
}

func TestCoverageService_MonthReport(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	proj := seedCoverageProject(t, h)

	// February 2026 has 20 working days without holidays.
	// aoki: an 80h item fully inside the month is 10 budget days.
	inside := testutil.NewWorkItem(proj.ID, "Inside the month",
		testutil.WithSchedule(testutil.Date(2026, time.February, 2), testutil.Date(2026, time.February, 20)),
		testutil.WithEstimate(80),
		testutil.WithAssignee("aoki"))
	require.NoError(t, h.itemRepo.Create(ctx, inside))

	// baker: 40h across Jan 22 to Feb 10 (20 calendar days), of which
	// 10 fall in February, so half the estimate lands in the month.
	spanning := testutil.NewWorkItem(proj.ID, "Spanning the boundary",
		testutil.WithSchedule(testutil.Date(2026, time.January, 22), testutil.Date(2026, time.February, 10)),
		testutil.WithEstimate(40),
		testutil.WithAssignee("baker"))
	require.NoError(t, h.itemRepo.Create(ctx, spanning))

	// Logged time: 40h for aoki in the month, 16h for baker, plus an
	// out-of-month entry that must not count.
	require.NoError(t, h.costRepo.Create(ctx,
		testutil.NewCostEntry(proj.ID, "aoki", testutil.Date(2026, time.February, 4), 24)))
	require.NoError(t, h.costRepo.Create(ctx,
		testutil.NewCostEntry(proj.ID, "aoki", testutil.Date(2026, time.February, 16), 16)))
	require.NoError(t, h.costRepo.Create(ctx,
		testutil.NewCostEntry(proj.ID, "baker", testutil.Date(2026, time.February, 9), 16)))
	require.NoError(t, h.costRepo.Create(ctx,
		testutil.NewCostEntry(proj.ID, "baker", testutil.Date(2026, time.March, 2), 40)))

	rows, err := h.coverage.MonthReport(ctx, proj.ID, time.February, 2026)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	aoki := rows[0]
	assert.Equal(t, "aoki", aoki.UserID)
	assert.Equal(t, 20, aoki.WorkingDays)
	assert.InDelta(t, 10.0, aoki.BudgetDays, 1e-9)
	assert.InDelta(t, 50.0, aoki.BudgetPct, 1e-9)
	assert.InDelta(t, 5.0, aoki.ActualDays, 1e-9)
	assert.InDelta(t, 25.0, aoki.ActualPct, 1e-9)

	baker := rows[1]
	assert.Equal(t, "baker", baker.UserID)
	assert.InDelta(t, 2.5, baker.BudgetDays, 1e-9) // 20h of 40h, over 8h days
	assert.InDelta(t, 2.0, baker.ActualDays, 1e-9)
}

func TestCoverageService_MonthReport_RequiresSettings(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	proj := testutil.NewProject("Bare")
	require.NoError(t, h.projectRepo.Create(ctx, proj))

	_, err := h.coverage.MonthReport(ctx, proj.ID, time.February, 2026)
	assert.ErrorIs(t, err, ErrSetupRequired)
}

func TestCoverageService_MonthReport_NoAssignees(t *testing.T) {
	h := newHarness(t)

	proj := seedCoverageProject(t, h)

	rows, err := h.coverage.MonthReport(context.Background(), proj.ID, time.February, 2026)
	require.NoError(t, err)
	assert.Empty(t, rows)
}
