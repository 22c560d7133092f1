package domain

import "time"

// WorkItem is a tracked issue: the unit of planned and earned work.
// Schedule fields are optional; an item without a due date carries no
// planned value, and an item without an estimate is excluded from
// PV/EV/BAC entirely.
type WorkItem struct {
	ID        string
	ProjectID string
	Subject   string
	Status    WorkItemStatus
	Assignee  string

	// Schedule and estimate
	StartDate      *time.Time
	DueDate        *time.Time
	EstimatedHours *float64
	DoneRatio      int

	ClosedAt  *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Closed reports whether the item has been closed.
func (w *WorkItem) Closed() bool {
	return w.Status == WorkItemClosed
}

// EarnedHours returns the hours earned so far, and false when the item
// has no estimate and therefore accrues nothing.
func (w *WorkItem) EarnedHours() (float64, bool) {
	if w.EstimatedHours == nil {
		return 0, false
	}
	ratio := w.DoneRatio
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 100 {
		ratio = 100
	}
	return *w.EstimatedHours * float64(ratio) / 100, true
}
