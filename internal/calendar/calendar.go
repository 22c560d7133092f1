// Package calendar answers working-day questions for coverage and
// forecast views. Only fixed-date national holidays are modeled;
// moveable feasts shift the counts by a day or two at most and are not
// worth an external data source here.
package calendar

import "time"

// fixedHoliday is a month/day pair observed every year.
type fixedHoliday struct {
	month time.Month
	day   int
}

var holidaysByRegion = map[string][]fixedHoliday{
	"jp": {
		{time.January, 1},   // New Year's Day
		{time.February, 11}, // National Foundation Day
		{time.February, 23}, // Emperor's Birthday
		{time.April, 29},    // Showa Day
		{time.May, 3},       // Constitution Memorial Day
		{time.May, 4},       // Greenery Day
		{time.May, 5},       // Children's Day
		{time.August, 11},   // Mountain Day
		{time.November, 3},  // Culture Day
		{time.November, 23}, // Labor Thanksgiving Day
	},
	"us": {
		{time.January, 1},   // New Year's Day
		{time.June, 19},     // Juneteenth
		{time.July, 4},      // Independence Day
		{time.November, 11}, // Veterans Day
		{time.December, 25}, // Christmas Day
	},
	"de": {
		{time.January, 1},   // Neujahr
		{time.May, 1},       // Tag der Arbeit
		{time.October, 3},   // Tag der Deutschen Einheit
		{time.December, 25}, // 1. Weihnachtstag
		{time.December, 26}, // 2. Weihnachtstag
	},
	"none": {},
}

// ValidRegion reports whether region has a holiday table.
func ValidRegion(region string) bool {
	_, ok := holidaysByRegion[region]
	return ok
}

// Regions lists the supported region codes.
func Regions() []string {
	return []string{"jp", "us", "de", "none"}
}

// IsHoliday reports whether d is a fixed-date holiday in region.
// Unknown regions have no holidays.
func IsHoliday(d time.Time, region string) bool {
	for _, h := range holidaysByRegion[region] {
		if d.Month() == h.month && d.Day() == h.day {
			return true
		}
	}
	return false
}

// IsWorkingDay reports whether d is a weekday and not a holiday.
func IsWorkingDay(d time.Time, region string) bool {
	wd := d.Weekday()
	if wd == time.Saturday || wd == time.Sunday {
		return false
	}
	return !IsHoliday(d, region)
}

// CountWorkingDays counts working days from start through end,
// inclusive on both ends. Reversed ranges count zero.
func CountWorkingDays(start, end time.Time, region string) int {
	n := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if IsWorkingDay(d, region) {
			n++
		}
	}
	return n
}

// CountHolidays counts weekday holidays from start through end,
// inclusive. Weekend holidays are excluded so callers subtracting
// weekends and holidays separately never double-count a day.
func CountHolidays(start, end time.Time, region string) int {
	n := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		wd := d.Weekday()
		if wd == time.Saturday || wd == time.Sunday {
			continue
		}
		if IsHoliday(d, region) {
			n++
		}
	}
	return n
}
