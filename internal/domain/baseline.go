package domain

import "time"

// BaselineSnapshot is an immutable frozen copy of a project's planned
// schedule at capture time, used for drift comparison and as an
// alternative planned-value source. Items are copied, not referenced,
// so later edits to live work items never leak into the snapshot.
type BaselineSnapshot struct {
	ID        string
	ProjectID string
	Subject   string
	Items     []BaselineItem

	CreatedAt time.Time
	UpdatedAt time.Time
}

// BaselineItem is one work item's schedule as frozen in a snapshot.
type BaselineItem struct {
	WorkItemID     string
	Subject        string
	StartDate      *time.Time
	DueDate        *time.Time
	EstimatedHours *float64
}
