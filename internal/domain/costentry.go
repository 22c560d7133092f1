package domain

import "time"

// CostEntry is a logged unit of spent time. Hours are raw; pricing by
// hourly rate happens at curve-construction time, never at write time.
type CostEntry struct {
	ID         string
	UserID     string
	ProjectID  string
	WorkItemID *string
	SpentOn    time.Time
	Hours      float64
	Comment    string

	CreatedAt time.Time
	UpdatedAt time.Time
}
