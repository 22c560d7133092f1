package evm

import (
	"time"

	"github.com/hinoue/evmkit/internal/domain"
)

// schedule is the accrual-relevant slice of a work item, shared
// between live items and frozen baseline items.
type schedule struct {
	start    *time.Time
	due      *time.Time
	estimate *float64
}

// plannedDaily spreads each schedule's estimate over the calendar.
//
// Accrual rules:
//   - no estimate: excluded entirely (not treated as zero), so an
//     under-estimated backlog never understates totals
//   - no due date: contributes nothing
//   - no start date, or due on/before start: the whole estimate lands
//     on the due date
//   - otherwise: linear accrual, estimate/totalDays on each day from
//     the day after the start through the due date, so the running
//     total at any date d in (start, due] is estimate*(d-start)/(due-start)
func plannedDaily(schedules []schedule) DailySeries {
	daily := make(DailySeries)
	for _, s := range schedules {
		if s.estimate == nil || s.due == nil {
			continue
		}
		due := DateOf(*s.due)

		if s.start == nil {
			daily.Add(due, *s.estimate)
			continue
		}
		start := DateOf(*s.start)
		totalDays := int(due.Sub(start).Hours() / 24)
		if totalDays <= 0 {
			daily.Add(due, *s.estimate)
			continue
		}

		perDay := *s.estimate / float64(totalDays)
		for d := start.AddDate(0, 0, 1); !d.After(due); d = d.AddDate(0, 0, 1) {
			daily.Add(d, perDay)
		}
	}
	return daily
}

// PlannedValueDaily produces the raw daily planned-value series from
// live work-item schedules.
func PlannedValueDaily(items []*domain.WorkItem) DailySeries {
	schedules := make([]schedule, 0, len(items))
	for _, w := range items {
		schedules = append(schedules, schedule{start: w.StartDate, due: w.DueDate, estimate: w.EstimatedHours})
	}
	return plannedDaily(schedules)
}

// BuildPlannedValue builds the cumulative planned-value curve from
// live schedules, truncated at the basis date.
func BuildPlannedValue(items []*domain.WorkItem, basisDate time.Time) CumulativeSeries {
	return Cumulative(PlannedValueDaily(items), basisDate)
}

// BuildBaselinePlannedValue builds the planned-value curve from a
// frozen snapshot instead of live schedules. Callers choose one source
// or the other, never a blend.
func BuildBaselinePlannedValue(snap *domain.BaselineSnapshot, basisDate time.Time) CumulativeSeries {
	schedules := make([]schedule, 0, len(snap.Items))
	for _, item := range snap.Items {
		schedules = append(schedules, schedule{start: item.StartDate, due: item.DueDate, estimate: item.EstimatedHours})
	}
	return Cumulative(plannedDaily(schedules), basisDate)
}
