package repository

import (
	"context"
	"errors"
	"time"

	"github.com/hinoue/evmkit/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context, includeArchived bool) ([]*domain.Project, error)
	// ListTree returns the project's id plus all descendant project ids.
	ListTree(ctx context.Context, id string) ([]string, error)
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id string) error
}

type WorkItemRepo interface {
	Create(ctx context.Context, w *domain.WorkItem) error
	GetByID(ctx context.Context, id string) (*domain.WorkItem, error)
	// ListByProject returns items for the project and its descendants.
	// An empty projectID means all projects; a non-empty assignee
	// restricts to that member's items.
	ListByProject(ctx context.Context, projectID, assignee string) ([]*domain.WorkItem, error)
	// ListIncomplete returns open items whose due date is on or before asOf.
	ListIncomplete(ctx context.Context, projectID string, asOf time.Time) ([]*domain.WorkItem, error)
	ListAssignees(ctx context.Context, projectID string) ([]string, error)
	Update(ctx context.Context, w *domain.WorkItem) error
	Delete(ctx context.Context, id string) error
	// LatestUpdatedAt returns the most recent updated_at among in-scope
	// items, or the zero time when none exist.
	LatestUpdatedAt(ctx context.Context, projectID, assignee string) (time.Time, error)
}

type CostEntryRepo interface {
	Create(ctx context.Context, e *domain.CostEntry) error
	GetByID(ctx context.Context, id string) (*domain.CostEntry, error)
	// ListByProject returns entries for the project and its descendants.
	// An empty projectID means all projects; a non-empty userID
	// restricts to that member's entries.
	ListByProject(ctx context.Context, projectID, userID string) ([]*domain.CostEntry, error)
	ListByDateRange(ctx context.Context, userID string, from, to time.Time) ([]*domain.CostEntry, error)
	Delete(ctx context.Context, id string) error
	LatestUpdatedAt(ctx context.Context, projectID, userID string) (time.Time, error)
}

type HourlyRateRepo interface {
	Create(ctx context.Context, r *domain.HourlyRateRecord) error
	GetByID(ctx context.Context, id string) (*domain.HourlyRateRecord, error)
	ListAll(ctx context.Context) ([]*domain.HourlyRateRecord, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.HourlyRateRecord, error)
	// ListOpenEnded returns records for (user, project) with no end date.
	// projectID nil matches global records only.
	ListOpenEnded(ctx context.Context, userID string, projectID *string) ([]*domain.HourlyRateRecord, error)
	Update(ctx context.Context, r *domain.HourlyRateRecord) error
	Delete(ctx context.Context, id string) error
}

type BaselineRepo interface {
	// Create stores the snapshot header and all frozen items.
	Create(ctx context.Context, b *domain.BaselineSnapshot) error
	GetByID(ctx context.Context, id string) (*domain.BaselineSnapshot, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.BaselineSnapshot, error)
	Delete(ctx context.Context, id string) error
	LatestUpdatedAt(ctx context.Context, projectID string) (time.Time, error)
}

type SettingsRepo interface {
	Get(ctx context.Context, projectID string) (*domain.EvmSettings, error)
	Upsert(ctx context.Context, s *domain.EvmSettings) error
}

// CacheVersionRepo tracks a monotonically increasing version per cache
// scope. Bumping the version retires every key minted under the old one.
type CacheVersionRepo interface {
	Get(ctx context.Context, scope string) (int64, error)
	Bump(ctx context.Context, scope string) (int64, error)
}
