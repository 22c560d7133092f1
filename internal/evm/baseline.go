package evm

import "github.com/hinoue/evmkit/internal/domain"

// VarianceDirection classifies a baseline delta.
type VarianceDirection string

const (
	VarianceAhead  VarianceDirection = "ahead"
	VarianceBehind VarianceDirection = "behind"
	VarianceOnPlan VarianceDirection = "on_plan"
)

// BaselineVariance reports how the live computation has drifted from a
// frozen snapshot at the same basis date. Read-only diagnostic; it
// mutates nothing.
type BaselineVariance struct {
	BaselineID      string  `json:"baseline_id"`
	BaselineSubject string  `json:"baseline_subject"`
	BaselinePV      float64 `json:"baseline_pv"`

	// PlannedDelta is live PV minus baseline PV: how much the plan
	// itself moved since the snapshot.
	PlannedDelta     float64           `json:"planned_delta"`
	PlannedDirection VarianceDirection `json:"planned_direction"`

	// EarnedDelta is EV minus baseline PV: schedule drift of actual
	// progress against the frozen plan.
	EarnedDelta     float64           `json:"earned_delta"`
	EarnedDirection VarianceDirection `json:"earned_direction"`
}

// CompareBaseline evaluates a result against a snapshot at the
// result's basis date.
func CompareBaseline(res *Result, snap *domain.BaselineSnapshot) BaselineVariance {
	baselinePV := BuildBaselinePlannedValue(snap, res.BasisDate).ValueAt(res.BasisDate)

	plannedDelta := res.PlannedValue.ValueAt(res.BasisDate) - baselinePV
	earnedDelta := res.EarnedValue.ValueAt(res.BasisDate) - baselinePV

	return BaselineVariance{
		BaselineID:       snap.ID,
		BaselineSubject:  snap.Subject,
		BaselinePV:       baselinePV,
		PlannedDelta:     plannedDelta,
		PlannedDirection: direction(plannedDelta),
		EarnedDelta:      earnedDelta,
		EarnedDirection:  direction(earnedDelta),
	}
}

func direction(delta float64) VarianceDirection {
	switch {
	case delta > 0:
		return VarianceAhead
	case delta < 0:
		return VarianceBehind
	default:
		return VarianceOnPlan
	}
}
