package testutil

import (
	"time"

	"github.com/google/uuid"
	"github.com/hinoue/evmkit/internal/domain"
)

// Date builds a UTC-midnight date, the form every schedule field uses.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Project options
type ProjectOption func(*domain.Project)

func WithParent(parentID string) ProjectOption {
	return func(p *domain.Project) {
		p.ParentID = &parentID
	}
}

func WithProjectStatus(s domain.ProjectStatus) ProjectOption {
	return func(p *domain.Project) {
		p.Status = s
	}
}

// NewProject builds a minimal active project.
func NewProject(name string, opts ...ProjectOption) *domain.Project {
	now := time.Now().UTC()
	p := &domain.Project{
		ID:        uuid.New().String(),
		Name:      name,
		Status:    domain.ProjectActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// WorkItem options
type WorkItemOption func(*domain.WorkItem)

func WithSchedule(start, due time.Time) WorkItemOption {
	return func(w *domain.WorkItem) {
		w.StartDate = &start
		w.DueDate = &due
	}
}

func WithDue(due time.Time) WorkItemOption {
	return func(w *domain.WorkItem) {
		w.DueDate = &due
	}
}

func WithEstimate(hours float64) WorkItemOption {
	return func(w *domain.WorkItem) {
		w.EstimatedHours = &hours
	}
}

func WithDoneRatio(pct int) WorkItemOption {
	return func(w *domain.WorkItem) {
		w.DoneRatio = pct
	}
}

func WithAssignee(userID string) WorkItemOption {
	return func(w *domain.WorkItem) {
		w.Assignee = userID
	}
}

func WithClosed(closedAt time.Time) WorkItemOption {
	return func(w *domain.WorkItem) {
		w.Status = domain.WorkItemClosed
		w.DoneRatio = 100
		w.ClosedAt = &closedAt
	}
}

// NewWorkItem builds an open work item in the given project.
func NewWorkItem(projectID, subject string, opts ...WorkItemOption) *domain.WorkItem {
	now := time.Now().UTC()
	w := &domain.WorkItem{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Subject:   subject,
		Status:    domain.WorkItemOpen,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// NewCostEntry builds a cost entry for hours spent on a date.
func NewCostEntry(projectID, userID string, spentOn time.Time, hours float64) *domain.CostEntry {
	now := time.Now().UTC()
	return &domain.CostEntry{
		ID:        uuid.New().String(),
		UserID:    userID,
		ProjectID: projectID,
		SpentOn:   spentOn,
		Hours:     hours,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// RateOption mutates a rate record fixture.
type RateOption func(*domain.HourlyRateRecord)

func WithRateProject(projectID string) RateOption {
	return func(r *domain.HourlyRateRecord) {
		r.ProjectID = &projectID
	}
}

func WithRateEnd(end time.Time) RateOption {
	return func(r *domain.HourlyRateRecord) {
		r.EndDate = &end
	}
}

// NewRate builds a global open-ended rate record.
func NewRate(userID string, rate float64, effective time.Time, opts ...RateOption) *domain.HourlyRateRecord {
	now := time.Now().UTC()
	r := &domain.HourlyRateRecord{
		ID:            uuid.New().String(),
		UserID:        userID,
		Rate:          rate,
		EffectiveDate: effective,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewSettings builds default settings for a project.
func NewSettings(projectID string) *domain.EvmSettings {
	cfg := domain.NewEvmSettings(projectID)
	now := time.Now().UTC()
	cfg.CreatedAt = now
	cfg.UpdatedAt = now
	return cfg
}
