package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hinoue/evmkit/internal/domain"
	"github.com/hinoue/evmkit/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedDemoData inserts the standard two-member fixture: a closed 100h
// item for aoki, a half-done 60h item for baker, and 80 logged hours.
// At a Jan 11 basis the curves end at PV 160, EV 130, AC 80.
func seedDemoData(t *testing.T, h *harness, projectID string) {
	t.Helper()
	ctx := context.Background()

	start := testutil.Date(2026, time.January, 1)
	due := testutil.Date(2026, time.January, 11)

	w1 := testutil.NewWorkItem(projectID, "Build importer",
		testutil.WithSchedule(start, due),
		testutil.WithEstimate(100),
		testutil.WithAssignee("aoki"),
		testutil.WithClosed(testutil.Date(2026, time.January, 8)),
	)
	w2 := testutil.NewWorkItem(projectID, "Write docs",
		testutil.WithSchedule(start, due),
		testutil.WithEstimate(60),
		testutil.WithAssignee("baker"),
		testutil.WithDoneRatio(50),
	)
	require.NoError(t, h.itemRepo.Create(ctx, w1))
	require.NoError(t, h.itemRepo.Create(ctx, w2))

	require.NoError(t, h.costRepo.Create(ctx,
		testutil.NewCostEntry(projectID, "aoki", testutil.Date(2026, time.January, 5), 30)))
	require.NoError(t, h.costRepo.Create(ctx,
		testutil.NewCostEntry(projectID, "baker", testutil.Date(2026, time.January, 9), 50)))
}

func TestEvmService_Report_SetupRequired(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	proj := testutil.NewProject("No Settings")
	require.NoError(t, h.projectRepo.Create(ctx, proj))

	_, err := h.evm.Report(ctx, ReportRequest{ProjectID: proj.ID})
	assert.ErrorIs(t, err, ErrSetupRequired)
}

func TestEvmService_Report_ComputesCurvesAndMetrics(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	proj := h.seedProject(t, "Rollout")
	seedDemoData(t, h, proj.ID)

	report, err := h.evm.Report(ctx, ReportRequest{
		ProjectID:  proj.ID,
		BasisDate:  testutil.Date(2026, time.January, 11),
		NoBaseline: true,
	})
	require.NoError(t, err)

	assert.Equal(t, proj.ID, report.ProjectID)
	assert.Empty(t, report.BaselineID)
	assert.Nil(t, report.Variance)

	require.NotNil(t, report.Result)
	assert.InDelta(t, 160.0, report.Result.BAC, 1e-9)
	assert.InDelta(t, 160.0, report.Result.Metrics.PV, 1e-9)
	assert.InDelta(t, 130.0, report.Result.Metrics.EV, 1e-9)
	assert.InDelta(t, 80.0, report.Result.Metrics.AC, 1e-9)
	assert.InDelta(t, 130.0/160.0, report.Result.Metrics.SPI, 1e-9)
	assert.InDelta(t, 130.0/80.0, report.Result.Metrics.CPI, 1e-9)
}

func TestEvmService_Report_SecondCallServedFromCache(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	proj := h.seedProject(t, "Cached")
	seedDemoData(t, h, proj.ID)

	req := ReportRequest{
		ProjectID:  proj.ID,
		BasisDate:  testutil.Date(2026, time.January, 11),
		NoBaseline: true,
	}

	first, err := h.evm.Report(ctx, req)
	require.NoError(t, err)
	second, err := h.evm.Report(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, 1, h.store.computes)
	assert.Equal(t, first, second)
}

func TestEvmService_Report_MemberScope(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	proj := h.seedProject(t, "Per Member")
	seedDemoData(t, h, proj.ID)

	report, err := h.evm.Report(ctx, ReportRequest{
		ProjectID:  proj.ID,
		UserID:     "aoki",
		BasisDate:  testutil.Date(2026, time.January, 11),
		NoBaseline: true,
	})
	require.NoError(t, err)

	assert.Equal(t, "aoki", report.UserID)
	assert.InDelta(t, 100.0, report.Result.BAC, 1e-9)
	assert.InDelta(t, 100.0, report.Result.Metrics.EV, 1e-9)
	assert.InDelta(t, 30.0, report.Result.Metrics.AC, 1e-9)
}

func TestEvmService_Report_UsesLatestBaseline(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	proj := h.seedProject(t, "Baselined")
	seedDemoData(t, h, proj.ID)

	start := testutil.Date(2026, time.January, 1)
	frozenDue := testutil.Date(2026, time.January, 6)
	estimate := 100.0

	old := &domain.BaselineSnapshot{
		ID:        uuid.New().String(),
		ProjectID: proj.ID,
		Subject:   "superseded plan",
		Items: []domain.BaselineItem{
			{WorkItemID: "w1", Subject: "Build importer", StartDate: &start, DueDate: &frozenDue, EstimatedHours: &estimate},
		},
		CreatedAt: time.Date(2026, time.January, 2, 9, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2026, time.January, 2, 9, 0, 0, 0, time.UTC),
	}
	newest := &domain.BaselineSnapshot{
		ID:        uuid.New().String(),
		ProjectID: proj.ID,
		Subject:   "current plan",
		Items: []domain.BaselineItem{
			{WorkItemID: "w1", Subject: "Build importer", StartDate: &start, DueDate: &frozenDue, EstimatedHours: &estimate},
		},
		CreatedAt: time.Date(2026, time.January, 10, 9, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2026, time.January, 10, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, h.baselineRepo.Create(ctx, old))
	require.NoError(t, h.baselineRepo.Create(ctx, newest))

	report, err := h.evm.Report(ctx, ReportRequest{
		ProjectID: proj.ID,
		BasisDate: testutil.Date(2026, time.January, 11),
	})
	require.NoError(t, err)

	assert.Equal(t, newest.ID, report.BaselineID)

	// Planned value comes from the frozen schedule, fully accrued by
	// its Jan 6 due date. The budget stays live.
	assert.InDelta(t, 100.0, report.Result.Metrics.PV, 1e-9)
	assert.InDelta(t, 160.0, report.Result.BAC, 1e-9)

	require.NotNil(t, report.Variance)
	assert.Equal(t, newest.ID, report.Variance.BaselineID)
	assert.InDelta(t, 100.0, report.Variance.BaselinePV, 1e-9)
	// Live PV 160 vs frozen 100: the plan grew after the snapshot.
	assert.InDelta(t, 60.0, report.Variance.PlannedDelta, 1e-9)
}

func TestEvmService_Members(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	proj := h.seedProject(t, "Team")
	seedDemoData(t, h, proj.ID)

	rows, err := h.evm.Members(ctx, proj.ID, testutil.Date(2026, time.January, 11))
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, "aoki", rows[0].UserID)
	assert.InDelta(t, 100.0, rows[0].BAC, 1e-9)
	assert.Equal(t, "baker", rows[1].UserID)
	assert.InDelta(t, 60.0, rows[1].BAC, 1e-9)
	assert.InDelta(t, 30.0, rows[1].Metrics.EV, 1e-9)
}

func TestEvmService_Portfolio_SkipsUnconfiguredProjects(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	beta := h.seedProject(t, "Beta")
	seedDemoData(t, h, beta.ID)
	alpha := h.seedProject(t, "Alpha")

	// A project without settings never reaches the board.
	bare := testutil.NewProject("Bare")
	require.NoError(t, h.projectRepo.Create(ctx, bare))

	rows, err := h.evm.Portfolio(ctx, testutil.Date(2026, time.January, 11))
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, "Alpha", rows[0].ProjectName)
	assert.Equal(t, alpha.ID, rows[0].ProjectID)
	assert.Zero(t, rows[0].BAC)
	assert.Equal(t, "Beta", rows[1].ProjectName)
	assert.InDelta(t, 160.0, rows[1].BAC, 1e-9)
}

func TestEvmService_ListIncomplete(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	proj := h.seedProject(t, "Overdue")
	overdue := testutil.NewWorkItem(proj.ID, "Slipped",
		testutil.WithDue(testutil.Date(2026, time.January, 5)))
	require.NoError(t, h.itemRepo.Create(ctx, overdue))

	items, err := h.evm.ListIncomplete(ctx, proj.ID, testutil.Date(2026, time.January, 11))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Slipped", items[0].Subject)
}
