package evm

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowsCoverUnionRange(t *testing.T) {
	res := Compute(demoInput(d(2026, time.January, 11)))

	rows := res.Rows()

	// Accrual starts the day after the Jan 1 start date.
	require.Len(t, rows, 10) // Jan 2 .. Jan 11
	assert.Equal(t, d(2026, time.January, 2), rows[0].Date)
	assert.Equal(t, d(2026, time.January, 11), rows[9].Date)

	last := rows[9]
	assert.InDelta(t, 160.0, last.PV, 1e-9)
	assert.InDelta(t, 130.0, last.EV, 1e-9)
	assert.InDelta(t, 80.0, last.AC, 1e-9)
}

func TestCSVFormat(t *testing.T) {
	res := Compute(demoInput(d(2026, time.January, 11)))

	lines := strings.Split(strings.TrimRight(res.CSV(), "\n"), "\n")

	require.Len(t, lines, 11)
	assert.Equal(t, "DATE,PV,EV,AC", lines[0])
	assert.Equal(t, "2026-01-11,160.00,130.00,80.00", lines[10])

	for _, line := range lines[1:] {
		assert.Len(t, strings.Split(line, ","), 4)
	}
}

func TestRowsEmptyComputationYieldsBasisRow(t *testing.T) {
	res := Compute(Input{
		BasisDate: d(2026, time.March, 1),
		Costs:     PricedEntries(nil),
		Rates:     NewRateResolver(nil, 1.0),
	})

	rows := res.Rows()

	require.Len(t, rows, 1)
	assert.Equal(t, d(2026, time.March, 1), rows[0].Date)
	assert.Equal(t, 0.0, rows[0].PV)
}
