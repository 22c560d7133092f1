package formatter

import (
	"fmt"
	"time"

	"github.com/hinoue/evmkit/internal/service"
)

// FormatCoverage renders the monthly working-day coverage table.
func FormatCoverage(month time.Month, year int, rows []*service.CoverageRow) string {
	table := make([][]string, 0, len(rows))
	for _, r := range rows {
		table = append(table, []string{
			r.UserID,
			fmt.Sprintf("%d", r.WorkingDays),
			fmt.Sprintf("%.1f", r.BudgetDays),
			fmt.Sprintf("%.1f", r.ActualDays),
			coveragePct(r.BudgetPct),
			coveragePct(r.ActualPct),
		})
	}
	header := Header(fmt.Sprintf("Coverage %04d-%02d", year, month))
	return header + "\n\n" + RenderTableAligned(
		[]string{"MEMBER", "WORK DAYS", "BUDGET DAYS", "ACTUAL DAYS", "BUDGET %", "ACTUAL %"},
		table,
		[]bool{false, true, true, true, true, true},
	)
}

// coveragePct colors under-covered months yellow and idle ones red.
func coveragePct(pct float64) string {
	s := fmt.Sprintf("%.0f%%", pct)
	switch {
	case pct >= 80:
		return StyleGreen.Render(s)
	case pct >= 50:
		return StyleYellow.Render(s)
	default:
		return StyleRed.Render(s)
	}
}
