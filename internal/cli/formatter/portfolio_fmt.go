package formatter

import (
	"fmt"

	"github.com/hinoue/evmkit/internal/service"
)

// FormatPortfolio renders the all-projects EVM summary.
func FormatPortfolio(rows []*service.PortfolioRow) string {
	table := make([][]string, 0, len(rows))
	for _, r := range rows {
		m := r.Metrics
		table = append(table, []string{
			r.ProjectName,
			fmt.Sprintf("%.1f", r.BAC),
			fmt.Sprintf("%.1f", m.PV),
			fmt.Sprintf("%.1f", m.EV),
			fmt.Sprintf("%.1f", m.AC),
			Variance(m.SV),
			Variance(m.CV),
			Index(m.SPI),
			Index(m.CPI),
		})
	}
	return RenderTableAligned(
		[]string{"PROJECT", "BAC", "PV", "EV", "AC", "SV", "CV", "SPI", "CPI"},
		table,
		[]bool{false, true, true, true, true, true, true, true, true},
	)
}
