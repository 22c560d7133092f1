package evm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeMetricsNominal(t *testing.T) {
	m := ComputeMetrics(100, 80, 160, 200)

	assert.Equal(t, -20.0, m.SV)
	assert.Equal(t, -80.0, m.CV)
	assert.InDelta(t, 0.8, m.SPI, 1e-9)
	assert.InDelta(t, 0.5, m.CPI, 1e-9)
	assert.InDelta(t, 0.4, m.CR, 1e-9)
	assert.InDelta(t, 40.0, m.CompletePct, 1e-9)
	assert.InDelta(t, 400.0, m.EAC, 1e-9)
	assert.InDelta(t, 240.0, m.ETC, 1e-9)
	assert.InDelta(t, -200.0, m.VAC, 1e-9)
	assert.InDelta(t, 3.0, m.TCPI, 1e-9) // (200-80)/(200-160)
}

func TestComputeMetricsZeroPolicy(t *testing.T) {
	tests := []struct {
		name               string
		pv, ev, ac, bac    float64
		spi, cpi, eac, tcpi float64
	}{
		{"all zero", 0, 0, 0, 0, 0, 0, 0, 0},
		{"no planned value yet", 0, 50, 25, 100, 0, 2, 50, 2.0 / 3.0},
		{"no cost yet", 50, 50, 0, 100, 1, 0, 0, 0.5},
		{"no progress yet", 50, 0, 25, 100, 0, 0, 0, 100.0 / 75.0},
		{"bac equals ev", 50, 100, 50, 100, 2, 2, 50, 0},
		{"bac equals ac", 50, 50, 100, 100, 1, 0.5, 200, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := ComputeMetrics(tc.pv, tc.ev, tc.ac, tc.bac)
			assert.InDelta(t, tc.spi, m.SPI, 1e-9, "SPI")
			assert.InDelta(t, tc.cpi, m.CPI, 1e-9, "CPI")
			assert.InDelta(t, tc.eac, m.EAC, 1e-9, "EAC")
			assert.InDelta(t, tc.tcpi, m.TCPI, 1e-9, "TCPI")
		})
	}
}

func TestComputeMetricsETCNeverNegative(t *testing.T) {
	// EV above BAC drives EAC below AC; ETC clamps at zero rather than
	// reporting negative remaining work.
	m := ComputeMetrics(100, 120, 60, 100)

	assert.InDelta(t, 2.0, m.CPI, 1e-9)
	assert.InDelta(t, 50.0, m.EAC, 1e-9)
	assert.Equal(t, 0.0, m.ETC)
}

func TestComputeMetricsCompletePctZeroBAC(t *testing.T) {
	m := ComputeMetrics(10, 10, 10, 0)
	assert.Equal(t, 0.0, m.CompletePct)
}
