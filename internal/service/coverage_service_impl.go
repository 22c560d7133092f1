package service

import (
	"context"
	"sort"
	"time"

	"github.com/hinoue/evmkit/internal/calendar"
	"github.com/hinoue/evmkit/internal/domain"
	"github.com/hinoue/evmkit/internal/evm"
	"github.com/hinoue/evmkit/internal/repository"
)

type coverageService struct {
	items    repository.WorkItemRepo
	costs    repository.CostEntryRepo
	settings SettingsService
	observer UseCaseObserver
}

func NewCoverageService(
	items repository.WorkItemRepo,
	costs repository.CostEntryRepo,
	settings SettingsService,
	observers ...UseCaseObserver,
) CoverageService {
	return &coverageService{
		items:    items,
		costs:    costs,
		settings: settings,
		observer: useCaseObserverOrNoop(observers),
	}
}

// MonthReport measures how fully each member's month is covered by
// scheduled and logged work. Budget days prorate each item's estimate
// by the share of its schedule falling inside the month; actual days
// convert logged hours through the project's working hours per day.
func (s *coverageService) MonthReport(ctx context.Context, projectID string, month time.Month, year int) (rows []*CoverageRow, err error) {
	startedAt := time.Now()
	defer func() {
		observe(ctx, s.observer, "coverage.month", startedAt, err, map[string]any{
			"project_id": projectID,
			"month":      month.String(),
		})
	}()

	cfg, err := s.settings.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}

	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)
	workingDays := calendar.CountWorkingDays(monthStart, monthEnd, cfg.Region)

	assignees, err := s.items.ListAssignees(ctx, projectID)
	if err != nil {
		return nil, err
	}

	for _, userID := range assignees {
		items, err := s.items.ListByProject(ctx, projectID, userID)
		if err != nil {
			return nil, err
		}
		entries, err := s.costs.ListByDateRange(ctx, userID, monthStart, monthEnd)
		if err != nil {
			return nil, err
		}

		var budgetHours float64
		for _, w := range items {
			budgetHours += monthShareOfEstimate(w, monthStart, monthEnd)
		}
		var actualHours float64
		for _, e := range entries {
			actualHours += e.Hours
		}

		row := &CoverageRow{
			UserID:      userID,
			WorkingDays: workingDays,
			BudgetDays:  budgetHours / cfg.BasisHours,
			ActualDays:  actualHours / cfg.BasisHours,
		}
		if workingDays > 0 {
			row.BudgetPct = row.BudgetDays / float64(workingDays) * 100
			row.ActualPct = row.ActualDays / float64(workingDays) * 100
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].UserID < rows[j].UserID })
	return rows, nil
}

// monthShareOfEstimate returns the slice of an item's estimated hours
// falling inside [monthStart, monthEnd], prorated by calendar-day
// overlap. Items without both dates or an estimate contribute nothing.
func monthShareOfEstimate(w *domain.WorkItem, monthStart, monthEnd time.Time) float64 {
	if w.EstimatedHours == nil || w.StartDate == nil || w.DueDate == nil {
		return 0
	}
	start := evm.DateOf(*w.StartDate)
	due := evm.DateOf(*w.DueDate)
	if due.Before(start) {
		return 0
	}

	overlapStart := laterOf(start, monthStart)
	overlapEnd := earlierOf(due, monthEnd)
	if overlapEnd.Before(overlapStart) {
		return 0
	}

	totalDays := due.Sub(start).Hours()/24 + 1
	overlapDays := overlapEnd.Sub(overlapStart).Hours()/24 + 1
	return *w.EstimatedHours * overlapDays / totalDays
}

func laterOf(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func earlierOf(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
