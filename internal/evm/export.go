package evm

import (
	"fmt"
	"strings"
	"time"
)

// SeriesRow is one date's slice across all three curves, suitable for
// tabular and CSV rendering.
type SeriesRow struct {
	Date time.Time
	PV   float64
	EV   float64
	AC   float64
}

// Rows flattens the three curves into date-ordered rows over the union
// of their ranges. Dates before a curve's first entry read as 0.
func (r *Result) Rows() []SeriesRow {
	min := r.BasisDate
	for _, s := range []CumulativeSeries{r.PlannedValue, r.EarnedValue, r.ActualCost} {
		if d := s.MinDate(); !d.IsZero() && d.Before(min) {
			min = d
		}
	}

	var rows []SeriesRow
	for d := min; !d.After(r.BasisDate); d = d.AddDate(0, 0, 1) {
		rows = append(rows, SeriesRow{
			Date: d,
			PV:   carriedValue(r.PlannedValue, d),
			EV:   carriedValue(r.EarnedValue, d),
			AC:   carriedValue(r.ActualCost, d),
		})
	}
	return rows
}

// carriedValue reads a curve at d, carrying the final value forward
// for dates between the curve's own max and the basis date.
func carriedValue(s CumulativeSeries, d time.Time) float64 {
	if v, ok := s[d]; ok {
		return v
	}
	if max := s.MaxDate(); !max.IsZero() && d.After(max) {
		return s[max]
	}
	return 0
}

// CSV renders the rows as a comma-separated export with a header line.
func (r *Result) CSV() string {
	var b strings.Builder
	b.WriteString("DATE,PV,EV,AC\n")
	for _, row := range r.Rows() {
		fmt.Fprintf(&b, "%s,%.2f,%.2f,%.2f\n",
			row.Date.Format("2006-01-02"), row.PV, row.EV, row.AC)
	}
	return b.String()
}
