package evm

import (
	"time"

	"github.com/hinoue/evmkit/internal/domain"
)

// EarnedValueDaily produces the raw daily earned-value series.
//
// Per item, earned hours are estimate x completion ratio. Items
// without an estimate are excluded entirely. A closed item's earnings
// land on its close date when that is on or before the basis date;
// everything else (open items, items closed later) is attributed to
// the basis date itself, since a partial completion ratio carries no
// date of its own.
func EarnedValueDaily(items []*domain.WorkItem, basisDate time.Time) DailySeries {
	basis := DateOf(basisDate)
	daily := make(DailySeries)
	for _, w := range items {
		earned, ok := w.EarnedHours()
		if !ok {
			continue
		}
		date := basis
		if w.ClosedAt != nil && !DateOf(*w.ClosedAt).After(basis) {
			date = DateOf(*w.ClosedAt)
		}
		daily.Add(date, earned)
	}
	return daily
}

// BuildEarnedValue builds the cumulative earned-value curve truncated
// at the basis date.
func BuildEarnedValue(items []*domain.WorkItem, basisDate time.Time) CumulativeSeries {
	return Cumulative(EarnedValueDaily(items, basisDate), basisDate)
}
