package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/hinoue/evmkit/internal/cache"
	"github.com/hinoue/evmkit/internal/domain"
	"github.com/hinoue/evmkit/internal/evm"
	"github.com/hinoue/evmkit/internal/repository"
)

type evmService struct {
	projects  repository.ProjectRepo
	items     repository.WorkItemRepo
	costs     repository.CostEntryRepo
	rates     repository.HourlyRateRepo
	baselines repository.BaselineRepo
	settings  repository.SettingsRepo
	versions  repository.CacheVersionRepo
	store     cache.Store
	observer  UseCaseObserver
}

func NewEvmService(
	projects repository.ProjectRepo,
	items repository.WorkItemRepo,
	costs repository.CostEntryRepo,
	rates repository.HourlyRateRepo,
	baselines repository.BaselineRepo,
	settings repository.SettingsRepo,
	versions repository.CacheVersionRepo,
	store cache.Store,
	observers ...UseCaseObserver,
) EvmService {
	return &evmService{
		projects:  projects,
		items:     items,
		costs:     costs,
		rates:     rates,
		baselines: baselines,
		settings:  settings,
		versions:  versions,
		store:     store,
		observer:  useCaseObserverOrNoop(observers),
	}
}

func (s *evmService) Report(ctx context.Context, req ReportRequest) (report *Report, err error) {
	startedAt := time.Now()
	defer func() {
		observe(ctx, s.observer, "evm.report", startedAt, err, map[string]any{
			"project_id": req.ProjectID,
			"user_id":    req.UserID,
		})
	}()

	cfg, err := s.projectSettings(ctx, req.ProjectID)
	if err != nil {
		return nil, err
	}

	basis := basisOrToday(req.BasisDate)

	snap, err := s.selectBaseline(ctx, req)
	if err != nil {
		return nil, err
	}
	baselineID := ""
	if snap != nil {
		baselineID = snap.ID
	}

	scope := cache.ProjectScope(req.ProjectID)
	if req.UserID != "" {
		scope = cache.MemberScope(req.ProjectID, req.UserID)
	}

	key, err := s.cacheKey(ctx, scope, req.ProjectID, req.UserID, basis, baselineID)
	if err != nil {
		return nil, err
	}

	payload, err := s.store.Fetch(ctx, key, func() ([]byte, error) {
		r, err := s.computeReport(ctx, req.ProjectID, req.UserID, basis, cfg, snap)
		if err != nil {
			return nil, err
		}
		return json.Marshal(r)
	})
	if err != nil {
		return nil, err
	}

	report = &Report{}
	if err := json.Unmarshal(payload, report); err != nil {
		return nil, fmt.Errorf("decode cached report: %w", err)
	}
	return report, nil
}

func (s *evmService) Portfolio(ctx context.Context, basisDate time.Time) (rows []*PortfolioRow, err error) {
	startedAt := time.Now()
	defer func() {
		observe(ctx, s.observer, "evm.portfolio", startedAt, err, nil)
	}()

	basis := basisOrToday(basisDate)

	scope := cache.AllProjectsScope()
	key, err := s.cacheKey(ctx, scope, "", "", basis, "")
	if err != nil {
		return nil, err
	}

	payload, err := s.store.Fetch(ctx, key, func() ([]byte, error) {
		computed, err := s.computePortfolio(ctx, basis)
		if err != nil {
			return nil, err
		}
		return json.Marshal(computed)
	})
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(payload, &rows); err != nil {
		return nil, fmt.Errorf("decode cached portfolio: %w", err)
	}
	return rows, nil
}

func (s *evmService) Members(ctx context.Context, projectID string, basisDate time.Time) (rows []*MemberRow, err error) {
	startedAt := time.Now()
	defer func() {
		observe(ctx, s.observer, "evm.members", startedAt, err, map[string]any{"project_id": projectID})
	}()

	if _, err := s.projectSettings(ctx, projectID); err != nil {
		return nil, err
	}

	assignees, err := s.items.ListAssignees(ctx, projectID)
	if err != nil {
		return nil, err
	}

	basis := basisOrToday(basisDate)
	for _, userID := range assignees {
		report, err := s.Report(ctx, ReportRequest{
			ProjectID:  projectID,
			UserID:     userID,
			BasisDate:  basis,
			NoBaseline: true,
		})
		if err != nil {
			return nil, err
		}
		rows = append(rows, &MemberRow{
			UserID:  userID,
			BAC:     report.Result.BAC,
			Metrics: report.Result.Metrics,
		})
	}
	return rows, nil
}

func (s *evmService) ListIncomplete(ctx context.Context, projectID string, asOf time.Time) ([]*domain.WorkItem, error) {
	return s.items.ListIncomplete(ctx, projectID, basisOrToday(asOf))
}

// projectSettings loads a project's settings, translating a missing row
// into the setup-required condition.
func (s *evmService) projectSettings(ctx context.Context, projectID string) (*domain.EvmSettings, error) {
	cfg, err := s.settings.Get(ctx, projectID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("project %s: %w", projectID, ErrSetupRequired)
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// selectBaseline resolves the snapshot a report should plan against:
// the explicit one when requested, otherwise the project's most recent,
// or none at all under NoBaseline.
func (s *evmService) selectBaseline(ctx context.Context, req ReportRequest) (*domain.BaselineSnapshot, error) {
	if req.NoBaseline {
		return nil, nil
	}
	if req.BaselineID != "" {
		return s.baselines.GetByID(ctx, req.BaselineID)
	}

	heads, err := s.baselines.ListByProject(ctx, req.ProjectID)
	if err != nil {
		return nil, err
	}
	if len(heads) == 0 {
		return nil, nil
	}
	latest := heads[0]
	for _, h := range heads[1:] {
		if h.CreatedAt.After(latest.CreatedAt) {
			latest = h
		}
	}
	return s.baselines.GetByID(ctx, latest.ID)
}

// cacheKey derives the full freshness-stamped key for a scope.
func (s *evmService) cacheKey(ctx context.Context, scope cache.Scope, projectID, userID string, basis time.Time, baselineID string) (string, error) {
	version, err := s.versions.Get(ctx, string(scope))
	if err != nil {
		return "", err
	}

	itemsTS, err := s.items.LatestUpdatedAt(ctx, projectID, userID)
	if err != nil {
		return "", err
	}
	costsTS, err := s.costs.LatestUpdatedAt(ctx, projectID, userID)
	if err != nil {
		return "", err
	}
	baselinesTS, err := s.baselines.LatestUpdatedAt(ctx, projectID)
	if err != nil {
		return "", err
	}

	return cache.Key(scope, version, basis, baselineID, cache.Freshness{
		Items:     itemsTS,
		Costs:     costsTS,
		Baselines: baselinesTS,
	}), nil
}

// computeReport loads scope data and runs the aggregator once.
func (s *evmService) computeReport(ctx context.Context, projectID, userID string, basis time.Time, cfg *domain.EvmSettings, snap *domain.BaselineSnapshot) (*Report, error) {
	items, err := s.items.ListByProject(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}
	entries, err := s.costs.ListByProject(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}

	resolver, err := s.rateResolver(ctx, cfg)
	if err != nil {
		return nil, err
	}

	result := evm.Compute(evm.Input{
		BasisDate: basis,
		Items:     items,
		Costs:     evm.PricedEntries(entries),
		Rates:     resolver,
		Baseline:  snap,
	})

	report := &Report{
		ProjectID: projectID,
		UserID:    userID,
		Result:    result,
	}
	if snap != nil {
		report.BaselineID = snap.ID

		// Variance compares live progress against the frozen plan, so
		// it needs the live curves, not the snapshot-planned result.
		live := evm.Compute(evm.Input{
			BasisDate: basis,
			Items:     items,
			Costs:     evm.PricedEntries(entries),
			Rates:     resolver,
		})
		v := evm.CompareBaseline(live, snap)
		report.Variance = &v
	}
	return report, nil
}

func (s *evmService) computePortfolio(ctx context.Context, basis time.Time) ([]*PortfolioRow, error) {
	projects, err := s.projects.List(ctx, false)
	if err != nil {
		return nil, err
	}

	rows := make([]*PortfolioRow, 0, len(projects))
	for _, p := range projects {
		cfg, err := s.settings.Get(ctx, p.ID)
		if errors.Is(err, repository.ErrNotFound) {
			// Projects without settings are simply not on the board.
			continue
		}
		if err != nil {
			return nil, err
		}

		report, err := s.computeReport(ctx, p.ID, "", basis, cfg, nil)
		if err != nil {
			return nil, err
		}
		rows = append(rows, &PortfolioRow{
			ProjectID:   p.ID,
			ProjectName: p.Name,
			BAC:         report.Result.BAC,
			Metrics:     report.Result.Metrics,
		})
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].ProjectName < rows[j].ProjectName })
	return rows, nil
}

// rateResolver builds the resolver a computation prices costs with.
// With rate pricing disabled, every hour costs the default multiplier.
func (s *evmService) rateResolver(ctx context.Context, cfg *domain.EvmSettings) (*evm.RateResolver, error) {
	if !cfg.HourlyRateEnabled {
		return evm.NewRateResolver(nil, cfg.DefaultRateMultiplier), nil
	}
	records, err := s.rates.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return evm.NewRateResolver(records, cfg.DefaultRateMultiplier), nil
}

func basisOrToday(t time.Time) time.Time {
	if t.IsZero() {
		return evm.DateOf(time.Now().UTC())
	}
	return evm.DateOf(t)
}
