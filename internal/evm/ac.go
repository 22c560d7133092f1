package evm

import (
	"time"

	"github.com/hinoue/evmkit/internal/domain"
)

type costInputKind int

const (
	costInputPriced costInputKind = iota
	costInputTotals
)

// CostInput is the raw input of the actual-cost curve: either cost
// entries to be priced through the rate resolver, or per-date numeric
// totals that were priced elsewhere. The two shapes are explicit
// variants, never inferred from the payload at runtime.
type CostInput struct {
	kind    costInputKind
	entries []*domain.CostEntry
	totals  DailySeries
}

// PricedEntries wraps cost entries whose daily cost is
// hours x resolved rate, summed per calendar date.
func PricedEntries(entries []*domain.CostEntry) CostInput {
	return CostInput{kind: costInputPriced, entries: entries}
}

// PrecomputedTotals wraps per-date cost totals that need no pricing.
func PrecomputedTotals(totals DailySeries) CostInput {
	return CostInput{kind: costInputTotals, totals: totals}
}

// ActualCostDaily produces the raw daily cost series for the input.
func ActualCostDaily(in CostInput, rates *RateResolver) DailySeries {
	daily := make(DailySeries)
	switch in.kind {
	case costInputTotals:
		for d, v := range in.totals {
			daily.Add(d, v)
		}
	case costInputPriced:
		for _, e := range in.entries {
			daily.Add(e.SpentOn, e.Hours*rates.Multiplier(e.UserID, e.ProjectID, e.SpentOn))
		}
	}
	return daily
}

// BuildActualCost builds the cumulative actual-cost curve truncated at
// the basis date.
func BuildActualCost(in CostInput, rates *RateResolver, basisDate time.Time) CumulativeSeries {
	return Cumulative(ActualCostDaily(in, rates), basisDate)
}
