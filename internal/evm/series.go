package evm

import (
	"sort"
	"time"
)

// DateOf truncates a timestamp to its UTC calendar date. All series
// keys pass through here so that map lookups never miss on a stray
// time-of-day or zone component.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DailySeries maps a calendar date to the value realized on that date.
// Keys may be sparse; values are not cumulative.
type DailySeries map[time.Time]float64

// Add accumulates v onto the given date's value.
func (s DailySeries) Add(date time.Time, v float64) {
	s[DateOf(date)] += v
}

// Point is one (date, value) pair of a series, ready for charting.
type Point struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// CumulativeSeries is a gap-filled running total over the continuous
// date range [min(known dates), basis date]. Every date in that range
// has an entry and no date after the basis date appears.
type CumulativeSeries map[time.Time]float64

// Cumulative turns a sparse daily series into a continuous cumulative
// series truncated at the basis date. This is the single authoritative
// definition of "cumulative as of a date"; all three curve builders
// delegate here.
//
// An empty input produces the single-point series {basisDate: 0}.
func Cumulative(daily DailySeries, basisDate time.Time) CumulativeSeries {
	basis := DateOf(basisDate)

	minDate, maxDate := basis, basis
	for d := range daily {
		if d.Before(minDate) {
			minDate = d
		}
		if d.After(maxDate) {
			maxDate = d
		}
	}

	// Walk every calendar day, carrying the running total across gaps.
	cumulative := make(CumulativeSeries)
	total := 0.0
	for d := minDate; !d.After(maxDate); d = d.AddDate(0, 0, 1) {
		total += daily[d]
		if d.After(basis) {
			// Days after the basis date must never appear in the output.
			continue
		}
		cumulative[d] = total
	}

	return cumulative
}

// ValueAt returns the cumulative value at the given date. Dates before
// the series' first entry yield 0.
func (s CumulativeSeries) ValueAt(date time.Time) float64 {
	return s[DateOf(date)]
}

// MinDate returns the earliest date in the series, or the zero time
// for an empty series.
func (s CumulativeSeries) MinDate() time.Time {
	var min time.Time
	for d := range s {
		if min.IsZero() || d.Before(min) {
			min = d
		}
	}
	return min
}

// MaxDate returns the latest date in the series (the basis date by
// construction), or the zero time for an empty series.
func (s CumulativeSeries) MaxDate() time.Time {
	var max time.Time
	for d := range s {
		if d.After(max) {
			max = d
		}
	}
	return max
}

// Points returns the series as date-ordered (date, value) pairs.
func (s CumulativeSeries) Points() []Point {
	points := make([]Point, 0, len(s))
	for d, v := range s {
		points = append(points, Point{Date: d, Value: v})
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})
	return points
}
