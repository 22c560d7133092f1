package formatter

import (
	"fmt"
	"strings"

	"github.com/hinoue/evmkit/internal/service"
)

// FormatReport renders a single-scope EVM report: the headline values,
// the index block, and the baseline variance when one was selected.
func FormatReport(r *service.Report) string {
	var b strings.Builder

	title := fmt.Sprintf("EVM Report — %s", r.ProjectID)
	if r.UserID != "" {
		title = fmt.Sprintf("EVM Report — %s / %s", r.ProjectID, r.UserID)
	}
	b.WriteString(Header(title))
	b.WriteString("\n\n")

	m := r.Result.Metrics
	b.WriteString(fmt.Sprintf("%s  %s\n", Dim("Basis date"), r.Result.BasisDate.Format("2006-01-02")))
	if r.BaselineID != "" {
		b.WriteString(fmt.Sprintf("%s  %s\n", Dim("Baseline"), r.BaselineID))
	}
	b.WriteString("\n")

	b.WriteString(RenderTableAligned(
		[]string{"", "HOURS"},
		[][]string{
			{"Budget at completion (BAC)", fmt.Sprintf("%.1f", r.Result.BAC)},
			{"Planned value (PV)", fmt.Sprintf("%.1f", m.PV)},
			{"Earned value (EV)", fmt.Sprintf("%.1f", m.EV)},
			{"Actual cost (AC)", fmt.Sprintf("%.1f", m.AC)},
		},
		[]bool{false, true},
	))
	b.WriteString("\n")

	b.WriteString(RenderTableAligned(
		[]string{"INDEX", "VALUE"},
		[][]string{
			{"Schedule variance (SV)", Variance(m.SV)},
			{"Cost variance (CV)", Variance(m.CV)},
			{"Schedule performance (SPI)", Index(m.SPI)},
			{"Cost performance (CPI)", Index(m.CPI)},
			{"Critical ratio (CR)", Index(m.CR)},
			{"Complete", fmt.Sprintf("%.1f%%", m.CompletePct)},
			{"Estimate at completion (EAC)", fmt.Sprintf("%.1f", m.EAC)},
			{"Estimate to complete (ETC)", fmt.Sprintf("%.1f", m.ETC)},
			{"Variance at completion (VAC)", Variance(m.VAC)},
			{"To-complete index (TCPI)", Index(m.TCPI)},
		},
		[]bool{false, true},
	))

	if r.Variance != nil {
		b.WriteString("\n")
		b.WriteString(Header("Baseline variance"))
		b.WriteString("\n\n")
		b.WriteString(fmt.Sprintf("%s %q\n", Dim("Against snapshot"), r.Variance.BaselineSubject))
		b.WriteString(fmt.Sprintf("  plan drift   %s (%s)\n",
			Variance(r.Variance.PlannedDelta), r.Variance.PlannedDirection))
		b.WriteString(fmt.Sprintf("  progress     %s (%s)\n",
			Variance(r.Variance.EarnedDelta), r.Variance.EarnedDirection))
	}

	return b.String()
}
