package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hinoue/evmkit/internal/cache"
	"github.com/hinoue/evmkit/internal/cli"
	"github.com/hinoue/evmkit/internal/db"
	"github.com/hinoue/evmkit/internal/repository"
	"github.com/hinoue/evmkit/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Determine DB path: env var or default ~/.evmkit/evmkit.db
	dbPath := os.Getenv("EVMKIT_DB")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".evmkit", "evmkit.db")
	}

	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Cache store: persistent next to the DB by default, in-memory
	// when EVMKIT_CACHE=off, custom directory otherwise.
	var store cache.Store
	switch cachePath := os.Getenv("EVMKIT_CACHE"); cachePath {
	case "off":
		store = cache.NewMemoryStore()
	case "":
		if dbPath == ":memory:" {
			store = cache.NewMemoryStore()
			break
		}
		store, err = cache.OpenBadgerStore(filepath.Join(filepath.Dir(dbPath), "cache"))
		if err != nil {
			return err
		}
	default:
		store, err = cache.OpenBadgerStore(cachePath)
		if err != nil {
			return err
		}
	}
	defer store.Close()

	// Use-case telemetry goes to stderr (or a file) when EVMKIT_LOG is set.
	var observer service.UseCaseObserver = service.NoopUseCaseObserver{}
	switch logDest := os.Getenv("EVMKIT_LOG"); logDest {
	case "":
	case "stderr", "1":
		observer = service.NewLogUseCaseObserver(os.Stderr)
	default:
		f, err := os.OpenFile(logDest, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()
		observer = service.NewLogUseCaseObserver(io.Writer(f))
	}

	// Wire repositories
	projectRepo := repository.NewSQLiteProjectRepo(database)
	itemRepo := repository.NewSQLiteWorkItemRepo(database)
	costRepo := repository.NewSQLiteCostEntryRepo(database)
	rateRepo := repository.NewSQLiteHourlyRateRepo(database)
	baselineRepo := repository.NewSQLiteBaselineRepo(database)
	settingsRepo := repository.NewSQLiteSettingsRepo(database)
	versionRepo := repository.NewSQLiteCacheVersionRepo(database)

	uow := db.NewSQLiteUnitOfWork(database)
	invalidator := cache.NewInvalidator(versionRepo, store)

	// Wire services
	projectSvc := service.NewProjectService(projectRepo)
	settingsSvc := service.NewSettingsService(settingsRepo, projectRepo, observer)
	itemSvc := service.NewItemService(itemRepo, costRepo, invalidator, observer)
	rateSvc := service.NewRateService(rateRepo, uow, observer)
	baselineSvc := service.NewBaselineService(baselineRepo, itemRepo, invalidator, observer)

	app := &cli.App{
		Projects:  projectSvc,
		Settings:  settingsSvc,
		Items:     itemSvc,
		Rates:     rateSvc,
		Baselines: baselineSvc,
		Evm: service.NewEvmService(
			projectRepo, itemRepo, costRepo, rateRepo,
			baselineRepo, settingsRepo, versionRepo, store, observer,
		),
		Coverage: service.NewCoverageService(itemRepo, costRepo, settingsSvc, observer),
		Seeder:   service.NewSeeder(projectSvc, settingsSvc, itemSvc, rateSvc, baselineSvc),
	}

	// Detect interactive terminal for forms and the series viewer.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
