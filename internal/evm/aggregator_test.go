package evm

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/hinoue/evmkit/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func demoInput(basis time.Time) Input {
	est1, est2 := 100.0, 60.0
	start := d(2026, time.January, 1)
	due := d(2026, time.January, 11)
	closed := d(2026, time.January, 8)

	items := []*domain.WorkItem{
		{
			ID: "w1", ProjectID: "p1", StartDate: &start, DueDate: &due,
			EstimatedHours: &est1, DoneRatio: 100,
			Status: domain.WorkItemClosed, ClosedAt: &closed,
		},
		{
			ID: "w2", ProjectID: "p1", StartDate: &start, DueDate: &due,
			EstimatedHours: &est2, DoneRatio: 50,
		},
		{ID: "w3", ProjectID: "p1"}, // no estimate, excluded everywhere
	}
	entries := []*domain.CostEntry{
		{ID: "c1", UserID: "alice", ProjectID: "p1", SpentOn: d(2026, time.January, 3), Hours: 30},
		{ID: "c2", UserID: "alice", ProjectID: "p1", SpentOn: d(2026, time.January, 7), Hours: 50},
	}

	return Input{
		BasisDate: basis,
		Items:     items,
		Costs:     PricedEntries(entries),
		Rates:     NewRateResolver(nil, domain.DefaultRateMultiplier),
	}
}

func TestComputeFullReport(t *testing.T) {
	basis := d(2026, time.January, 11)
	res := Compute(demoInput(basis))

	assert.Equal(t, 160.0, res.BAC)
	assert.InDelta(t, 160.0, res.Metrics.PV, 1e-9)
	assert.InDelta(t, 130.0, res.Metrics.EV, 1e-9) // 100 closed + 30 partial
	assert.InDelta(t, 80.0, res.Metrics.AC, 1e-9)
	assert.InDelta(t, 130.0/160.0, res.Metrics.SPI, 1e-9)
	assert.InDelta(t, 130.0/80.0, res.Metrics.CPI, 1e-9)
}

func TestComputeIsDeterministic(t *testing.T) {
	basis := d(2026, time.January, 9)

	a := Compute(demoInput(basis))
	b := Compute(demoInput(basis))

	assert.Equal(t, a, b)
}

func TestComputeBaselineReplacesPlannedValue(t *testing.T) {
	basis := d(2026, time.January, 11)
	frozenStart := d(2026, time.January, 1)
	frozenDue := d(2026, time.January, 6)
	frozenEst := 50.0

	in := demoInput(basis)
	in.Baseline = &domain.BaselineSnapshot{
		ID: "b1", ProjectID: "p1",
		Items: []domain.BaselineItem{
			{WorkItemID: "w1", StartDate: &frozenStart, DueDate: &frozenDue, EstimatedHours: &frozenEst},
		},
	}
	res := Compute(in)

	// PV comes from the snapshot; BAC stays live.
	assert.InDelta(t, 50.0, res.Metrics.PV, 1e-9)
	assert.Equal(t, 160.0, res.BAC)
	assert.InDelta(t, 130.0, res.Metrics.EV, 1e-9)
}

func TestBudgetAtCompletionSkipsMissingEstimates(t *testing.T) {
	est := 42.0
	items := []*domain.WorkItem{
		{ID: "w1", EstimatedHours: &est},
		{ID: "w2"},
	}
	assert.Equal(t, 42.0, BudgetAtCompletion(items))
	assert.Equal(t, 0.0, BudgetAtCompletion(nil))
}

func TestResultJSONRoundTrip(t *testing.T) {
	res := Compute(demoInput(d(2026, time.January, 11)))

	payload, err := json.Marshal(res)
	require.NoError(t, err)

	var decoded Result
	require.NoError(t, json.Unmarshal(payload, &decoded))

	assert.Equal(t, res.BAC, decoded.BAC)
	assert.Equal(t, res.Metrics, decoded.Metrics)
	assert.InDelta(t,
		res.PlannedValue.ValueAt(res.BasisDate),
		decoded.PlannedValue.ValueAt(decoded.BasisDate), 1e-9)
	assert.True(t, res.BasisDate.Equal(decoded.BasisDate))
}
