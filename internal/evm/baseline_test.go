package evm

import (
	"testing"
	"time"

	"github.com/hinoue/evmkit/internal/domain"
	"github.com/stretchr/testify/assert"
)

func snapshotWith(estimate float64, start, due time.Time) *domain.BaselineSnapshot {
	return &domain.BaselineSnapshot{
		ID:      "b1",
		Subject: "initial plan",
		Items: []domain.BaselineItem{
			{WorkItemID: "w1", StartDate: &start, DueDate: &due, EstimatedHours: &estimate},
		},
	}
}

func TestCompareBaselineBehindPlan(t *testing.T) {
	basis := d(2026, time.January, 11)
	snap := snapshotWith(100, d(2026, time.January, 1), d(2026, time.January, 11))

	// Live plan slipped: same estimate now due Jan 21, so live PV at
	// the old finish date is half the frozen plan.
	res := Compute(Input{
		BasisDate: basis,
		Items: []*domain.WorkItem{
			scheduledItem(d(2026, time.January, 1), d(2026, time.January, 21), 100),
		},
		Costs: PricedEntries(nil),
		Rates: NewRateResolver(nil, 1.0),
	})

	v := CompareBaseline(res, snap)

	assert.Equal(t, "b1", v.BaselineID)
	assert.InDelta(t, 100.0, v.BaselinePV, 1e-9)
	assert.InDelta(t, -50.0, v.PlannedDelta, 1e-9)
	assert.Equal(t, VarianceBehind, v.PlannedDirection)
	assert.Equal(t, VarianceBehind, v.EarnedDirection) // no progress at all
}

func TestCompareBaselineAheadOnProgress(t *testing.T) {
	basis := d(2026, time.January, 6)
	snap := snapshotWith(100, d(2026, time.January, 1), d(2026, time.January, 11))

	item := scheduledItem(d(2026, time.January, 1), d(2026, time.January, 11), 100)
	item.DoneRatio = 80
	res := Compute(Input{
		BasisDate: basis,
		Items:     []*domain.WorkItem{item},
		Costs:     PricedEntries(nil),
		Rates:     NewRateResolver(nil, 1.0),
	})

	v := CompareBaseline(res, snap)

	assert.InDelta(t, 50.0, v.BaselinePV, 1e-9)
	assert.Equal(t, VarianceOnPlan, v.PlannedDirection)
	assert.InDelta(t, 30.0, v.EarnedDelta, 1e-9) // 80 earned vs 50 planned
	assert.Equal(t, VarianceAhead, v.EarnedDirection)
}
