package domain

import "time"

// HourlyRateRecord prices one user's hour over a date interval.
// A nil ProjectID means the rate is global; a project-specific record
// always wins over a global one. A nil EndDate means open-ended.
//
// Invariant (enforced at write time by the rate service): for a given
// (user, project) pair, effective intervals must not overlap.
type HourlyRateRecord struct {
	ID            string
	UserID        string
	ProjectID     *string
	Rate          float64
	EffectiveDate time.Time
	EndDate       *time.Time
	Comment       string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ActiveOn reports whether the record covers the given date. Both
// interval bounds are inclusive, so EffectiveDate == EndDate == D
// covers exactly the single day D.
func (r *HourlyRateRecord) ActiveOn(date time.Time) bool {
	if date.Before(r.EffectiveDate) {
		return false
	}
	if r.EndDate != nil && date.After(*r.EndDate) {
		return false
	}
	return true
}

// Overlaps reports whether two records' effective intervals intersect.
func (r *HourlyRateRecord) Overlaps(other *HourlyRateRecord) bool {
	farFuture := time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)
	rEnd, oEnd := farFuture, farFuture
	if r.EndDate != nil {
		rEnd = *r.EndDate
	}
	if other.EndDate != nil {
		oEnd = *other.EndDate
	}
	return !r.EffectiveDate.After(oEnd) && !other.EffectiveDate.After(rEnd)
}
