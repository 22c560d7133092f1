package service

import (
	"context"
	"errors"
	"time"

	"github.com/hinoue/evmkit/internal/domain"
	"github.com/hinoue/evmkit/internal/evm"
)

// ErrSetupRequired is returned when a project has no EVM settings yet.
// Reports refuse to run on implicit defaults; the caller is told to
// initialize settings first.
var ErrSetupRequired = errors.New("evm settings not initialized (run `evmkit settings init`)")

// ReportRequest selects the scope of one EVM report.
type ReportRequest struct {
	ProjectID string
	// UserID narrows the report to a single member when non-empty.
	UserID string
	// BasisDate zero means today.
	BasisDate time.Time
	// BaselineID selects a snapshot explicitly. Empty means the
	// project's most recent snapshot, if any.
	BaselineID string
	// NoBaseline forces live planned value even when snapshots exist.
	NoBaseline bool
}

// Report is one computed EVM view plus the context it was computed in.
type Report struct {
	ProjectID  string                `json:"project_id"`
	UserID     string                `json:"user_id,omitempty"`
	BaselineID string                `json:"baseline_id,omitempty"`
	Result     *evm.Result           `json:"result"`
	Variance   *evm.BaselineVariance `json:"variance,omitempty"`
}

// MemberRow is one member's line in the per-member EVM table.
type MemberRow struct {
	UserID  string      `json:"user_id"`
	BAC     float64     `json:"bac"`
	Metrics evm.Metrics `json:"metrics"`
}

// PortfolioRow is one project's line in the all-projects summary.
type PortfolioRow struct {
	ProjectID   string      `json:"project_id"`
	ProjectName string      `json:"project_name"`
	BAC         float64     `json:"bac"`
	Metrics     evm.Metrics `json:"metrics"`
}

// CoverageRow is one member's working-day coverage for a month.
type CoverageRow struct {
	UserID      string  `json:"user_id"`
	WorkingDays int     `json:"working_days"`
	BudgetDays  float64 `json:"budget_days"`
	ActualDays  float64 `json:"actual_days"`
	BudgetPct   float64 `json:"budget_pct"`
	ActualPct   float64 `json:"actual_pct"`
}

type EvmService interface {
	Report(ctx context.Context, req ReportRequest) (*Report, error)
	Portfolio(ctx context.Context, basisDate time.Time) ([]*PortfolioRow, error)
	Members(ctx context.Context, projectID string, basisDate time.Time) ([]*MemberRow, error)
	ListIncomplete(ctx context.Context, projectID string, asOf time.Time) ([]*domain.WorkItem, error)
}

type SettingsService interface {
	Init(ctx context.Context, s *domain.EvmSettings) error
	Get(ctx context.Context, projectID string) (*domain.EvmSettings, error)
	Update(ctx context.Context, s *domain.EvmSettings) error
}

type RateService interface {
	// Add validates against overlapping records and auto-closes the
	// previous open-ended record for the same user and scope.
	Add(ctx context.Context, r *domain.HourlyRateRecord) error
	List(ctx context.Context, userID string) ([]*domain.HourlyRateRecord, error)
	// Close sets an end date on an open-ended record.
	Close(ctx context.Context, id string, endDate time.Time) error
	Remove(ctx context.Context, id string) error
}

type BaselineService interface {
	// Capture freezes the project's current schedules into a snapshot.
	Capture(ctx context.Context, projectID, subject string) (*domain.BaselineSnapshot, error)
	List(ctx context.Context, projectID string) ([]*domain.BaselineSnapshot, error)
	Get(ctx context.Context, id string) (*domain.BaselineSnapshot, error)
}

type ItemService interface {
	Create(ctx context.Context, w *domain.WorkItem) error
	GetByID(ctx context.Context, id string) (*domain.WorkItem, error)
	List(ctx context.Context, projectID string) ([]*domain.WorkItem, error)
	Update(ctx context.Context, w *domain.WorkItem) error
	// CloseItem marks the item closed at 100% done.
	CloseItem(ctx context.Context, id string, closedAt time.Time) error
	LogCost(ctx context.Context, e *domain.CostEntry) error
}

type ProjectService interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context, includeArchived bool) ([]*domain.Project, error)
}

type CoverageService interface {
	// MonthReport computes per-member coverage for the given month.
	MonthReport(ctx context.Context, projectID string, month time.Month, year int) ([]*CoverageRow, error)
}
