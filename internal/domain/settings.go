package domain

import "time"

// DefaultRateMultiplier is the multiplier applied to logged hours when
// no hourly-rate record covers an entry. 1.0 means cost degrades to
// raw hours. This is an explicit policy default, not a real rate.
const DefaultRateMultiplier = 1.0

// DefaultBasisHours is the working hours per day used by the coverage
// report to convert hours into working days.
const DefaultBasisHours = 8.0

// EvmSettings is the per-project EVM configuration. A project without
// a settings row has EVM disabled: the aggregator is never invoked and
// callers surface a setup-required condition instead.
type EvmSettings struct {
	ProjectID             string
	BasisHours            float64
	Region                string
	HourlyRateEnabled     bool
	DefaultRateMultiplier float64
	ViewForecast          bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewEvmSettings returns settings with the documented defaults.
func NewEvmSettings(projectID string) *EvmSettings {
	return &EvmSettings{
		ProjectID:             projectID,
		BasisHours:            DefaultBasisHours,
		Region:                "jp",
		HourlyRateEnabled:     true,
		DefaultRateMultiplier: DefaultRateMultiplier,
		ViewForecast:          true,
	}
}
