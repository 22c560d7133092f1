package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/hinoue/evmkit/internal/cache"
	"github.com/hinoue/evmkit/internal/domain"
	"github.com/hinoue/evmkit/internal/repository"
	"github.com/hinoue/evmkit/internal/testutil"
	"github.com/stretchr/testify/require"
)

// countingStore wraps a Store and counts how often a Fetch actually
// ran its compute closure, which is how tests observe cache hits.
type countingStore struct {
	cache.Store
	computes int
}

func (s *countingStore) Fetch(ctx context.Context, key string, compute func() ([]byte, error)) ([]byte, error) {
	return s.Store.Fetch(ctx, key, func() ([]byte, error) {
		s.computes++
		return compute()
	})
}

// harness wires the full service stack over one in-memory database.
type harness struct {
	db    *sql.DB
	store *countingStore

	projectRepo  *repository.SQLiteProjectRepo
	itemRepo     *repository.SQLiteWorkItemRepo
	costRepo     *repository.SQLiteCostEntryRepo
	rateRepo     *repository.SQLiteHourlyRateRepo
	baselineRepo *repository.SQLiteBaselineRepo
	settingsRepo *repository.SQLiteSettingsRepo
	versionRepo  *repository.SQLiteCacheVersionRepo

	projects  ProjectService
	settings  SettingsService
	items     ItemService
	rates     RateService
	baselines BaselineService
	evm       EvmService
	coverage  CoverageService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	database := testutil.NewTestDB(t)

	h := &harness{
		db:           database,
		store:        &countingStore{Store: cache.NewMemoryStore()},
		projectRepo:  repository.NewSQLiteProjectRepo(database),
		itemRepo:     repository.NewSQLiteWorkItemRepo(database),
		costRepo:     repository.NewSQLiteCostEntryRepo(database),
		rateRepo:     repository.NewSQLiteHourlyRateRepo(database),
		baselineRepo: repository.NewSQLiteBaselineRepo(database),
		settingsRepo: repository.NewSQLiteSettingsRepo(database),
		versionRepo:  repository.NewSQLiteCacheVersionRepo(database),
	}

	invalidator := cache.NewInvalidator(h.versionRepo, h.store)
	uow := testutil.NewTestUoW(database)

	h.projects = NewProjectService(h.projectRepo)
	h.settings = NewSettingsService(h.settingsRepo, h.projectRepo)
	h.items = NewItemService(h.itemRepo, h.costRepo, invalidator)
	h.rates = NewRateService(h.rateRepo, uow)
	h.baselines = NewBaselineService(h.baselineRepo, h.itemRepo, invalidator)
	h.evm = NewEvmService(h.projectRepo, h.itemRepo, h.costRepo, h.rateRepo,
		h.baselineRepo, h.settingsRepo, h.versionRepo, h.store)
	h.coverage = NewCoverageService(h.itemRepo, h.costRepo, h.settings)
	return h
}

// seedProject creates a project with default EVM settings.
func (h *harness) seedProject(t *testing.T, name string) *domain.Project {
	t.Helper()
	ctx := context.Background()

	proj := testutil.NewProject(name)
	require.NoError(t, h.projectRepo.Create(ctx, proj))
	require.NoError(t, h.settingsRepo.Upsert(ctx, testutil.NewSettings(proj.ID)))
	return proj
}
