package evm

import (
	"time"

	"github.com/hinoue/evmkit/internal/domain"
)

// Input carries everything one EVM computation needs. Scope selection
// (project tree, all projects, single member) happens before this
// point: callers pass in-scope records only and never reimplement any
// of the math per view.
type Input struct {
	BasisDate time.Time
	Items     []*domain.WorkItem
	Costs     CostInput
	Rates     *RateResolver

	// Baseline, when set, replaces the live planned-value source with
	// the frozen snapshot. One source or the other, never a blend.
	Baseline *domain.BaselineSnapshot
}

// Result is the complete outcome of one EVM computation: budget at
// completion, the three cumulative curves, and the scalar indices at
// the basis date. Treated as immutable once computed.
type Result struct {
	BasisDate time.Time `json:"basis_date"`
	BAC       float64   `json:"bac"`

	PlannedValue CumulativeSeries `json:"planned_value"`
	EarnedValue  CumulativeSeries `json:"earned_value"`
	ActualCost   CumulativeSeries `json:"actual_cost"`

	Metrics Metrics `json:"metrics"`
}

// Compute runs the full EVM computation. It is a pure function of its
// input: identical inputs always yield identical results, which is
// what makes results safe to memoize and race-compute.
func Compute(in Input) *Result {
	basis := DateOf(in.BasisDate)

	var pv CumulativeSeries
	if in.Baseline != nil {
		pv = BuildBaselinePlannedValue(in.Baseline, basis)
	} else {
		pv = BuildPlannedValue(in.Items, basis)
	}
	ev := BuildEarnedValue(in.Items, basis)
	ac := BuildActualCost(in.Costs, in.Rates, basis)

	bac := BudgetAtCompletion(in.Items)

	return &Result{
		BasisDate:    basis,
		BAC:          bac,
		PlannedValue: pv,
		EarnedValue:  ev,
		ActualCost:   ac,
		Metrics:      ComputeMetrics(pv.ValueAt(basis), ev.ValueAt(basis), ac.ValueAt(basis), bac),
	}
}

// BudgetAtCompletion sums estimated hours across in-scope items.
// Items without an estimate are excluded, matching their exclusion
// from PV and EV accrual.
func BudgetAtCompletion(items []*domain.WorkItem) float64 {
	var bac float64
	for _, w := range items {
		if w.EstimatedHours != nil {
			bac += *w.EstimatedHours
		}
	}
	return bac
}
