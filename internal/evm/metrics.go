package evm

// Metrics holds the scalar EVM indices evaluated at the basis date.
//
// Every derived index follows one uniform zero policy: division by
// zero (or by an undefined operand) yields 0, never an error or NaN.
// A zero index therefore reads as "not measurable", not "performing
// at zero efficiency".
type Metrics struct {
	PV float64 `json:"pv"`
	EV float64 `json:"ev"`
	AC float64 `json:"ac"`

	SV          float64 `json:"sv"`           // schedule variance, EV - PV
	CV          float64 `json:"cv"`           // cost variance, EV - AC
	SPI         float64 `json:"spi"`          // EV / PV
	CPI         float64 `json:"cpi"`          // EV / AC
	CR          float64 `json:"cr"`           // SPI x CPI
	CompletePct float64 `json:"complete_pct"` // EV / BAC x 100
	EAC         float64 `json:"eac"`          // BAC / CPI
	ETC         float64 `json:"etc"`          // max(EAC - AC, 0)
	VAC         float64 `json:"vac"`          // BAC - EAC
	TCPI        float64 `json:"tcpi"`         // (BAC - EV) / (BAC - AC)
}

// ComputeMetrics derives all scalar indices from the basis-date values
// of the three curves and the budget at completion.
func ComputeMetrics(pv, ev, ac, bac float64) Metrics {
	m := Metrics{PV: pv, EV: ev, AC: ac}

	m.SV = ev - pv
	m.CV = ev - ac
	m.SPI = safeDiv(ev, pv)
	m.CPI = safeDiv(ev, ac)
	m.CR = m.SPI * m.CPI
	m.CompletePct = safeDiv(ev, bac) * 100
	m.EAC = safeDiv(bac, m.CPI)
	m.ETC = m.EAC - ac
	if m.ETC < 0 {
		m.ETC = 0
	}
	m.VAC = bac - m.EAC
	m.TCPI = safeDiv(bac-ev, bac-ac)

	return m
}

// safeDiv implements the uniform zero policy: a/b, or 0 when either
// operand is 0.
func safeDiv(a, b float64) float64 {
	if a == 0 || b == 0 {
		return 0
	}
	return a / b
}
