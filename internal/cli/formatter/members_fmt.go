package formatter

import (
	"fmt"

	"github.com/hinoue/evmkit/internal/service"
)

// FormatMembers renders the per-member EVM table.
func FormatMembers(rows []*service.MemberRow) string {
	table := make([][]string, 0, len(rows))
	for _, r := range rows {
		m := r.Metrics
		table = append(table, []string{
			r.UserID,
			fmt.Sprintf("%.1f", r.BAC),
			fmt.Sprintf("%.1f", m.PV),
			fmt.Sprintf("%.1f", m.EV),
			fmt.Sprintf("%.1f", m.AC),
			Index(m.SPI),
			Index(m.CPI),
			fmt.Sprintf("%.0f%%", m.CompletePct),
		})
	}
	return RenderTableAligned(
		[]string{"MEMBER", "BAC", "PV", "EV", "AC", "SPI", "CPI", "DONE"},
		table,
		[]bool{false, true, true, true, true, true, true, true},
	)
}
