package evm

import (
	"time"

	"github.com/hinoue/evmkit/internal/domain"
)

// RateResolver answers "what does one of this user's hours cost on
// this date". Pure lookup over an in-memory copy of the rate table;
// no side effects.
//
// Resolution order: a project-specific record covering the date wins
// over a global one. Should multiple records cover the same date
// (the no-overlap invariant is enforced at write time, but the
// resolver does not trust it), the latest effective date wins.
type RateResolver struct {
	byUser     map[string][]*domain.HourlyRateRecord
	multiplier float64
}

// NewRateResolver indexes the given records. defaultMultiplier is
// applied to raw hours when no record covers an entry; the documented
// default is domain.DefaultRateMultiplier (1.0), meaning cost reduces
// to raw hours.
func NewRateResolver(records []*domain.HourlyRateRecord, defaultMultiplier float64) *RateResolver {
	byUser := make(map[string][]*domain.HourlyRateRecord)
	for _, r := range records {
		byUser[r.UserID] = append(byUser[r.UserID], r)
	}
	return &RateResolver{byUser: byUser, multiplier: defaultMultiplier}
}

// Resolve returns the applicable rate for (user, project, date) and
// whether one was found.
func (r *RateResolver) Resolve(userID, projectID string, date time.Time) (float64, bool) {
	records := r.byUser[userID]
	if len(records) == 0 {
		return 0, false
	}
	day := DateOf(date)

	// Project-specific records first, then global.
	if rec := bestMatch(records, &projectID, day); rec != nil {
		return rec.Rate, true
	}
	if rec := bestMatch(records, nil, day); rec != nil {
		return rec.Rate, true
	}
	return 0, false
}

// Multiplier returns the applicable rate, or the configured default
// multiplier when no record covers the date.
func (r *RateResolver) Multiplier(userID, projectID string, date time.Time) float64 {
	if rate, ok := r.Resolve(userID, projectID, date); ok {
		return rate
	}
	return r.multiplier
}

// bestMatch finds the record with the latest effective date among
// those active on day. projectID nil matches global records only.
func bestMatch(records []*domain.HourlyRateRecord, projectID *string, day time.Time) *domain.HourlyRateRecord {
	var best *domain.HourlyRateRecord
	for _, rec := range records {
		if projectID == nil {
			if rec.ProjectID != nil {
				continue
			}
		} else {
			if rec.ProjectID == nil || *rec.ProjectID != *projectID {
				continue
			}
		}
		if !rec.ActiveOn(day) {
			continue
		}
		if best == nil || rec.EffectiveDate.After(best.EffectiveDate) {
			best = rec
		}
	}
	return best
}
