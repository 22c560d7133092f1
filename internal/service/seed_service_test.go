package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeeder_SeedsAReportableProject(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	seeder := NewSeeder(h.projects, h.settings, h.items, h.rates, h.baselines)
	res, err := seeder.Seed(ctx)
	require.NoError(t, err)

	assert.Equal(t, "demo", res.ProjectID)
	assert.NotEmpty(t, res.BaselineID)
	assert.Equal(t, []string{"aoki", "baker"}, res.Members)

	report, err := h.evm.Report(ctx, ReportRequest{ProjectID: res.ProjectID})
	require.NoError(t, err)

	// 16 + 40 + 32 + 24 estimated hours across the four seeded items.
	assert.InDelta(t, 112.0, report.Result.BAC, 1e-9)
	assert.Equal(t, res.BaselineID, report.BaselineID)
	assert.NotNil(t, report.Variance)
	assert.Positive(t, report.Result.Metrics.AC)

	members, err := h.evm.Members(ctx, res.ProjectID, time.Time{})
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "aoki", members[0].UserID)
	assert.Equal(t, "baker", members[1].UserID)
}
