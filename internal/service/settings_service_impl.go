package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hinoue/evmkit/internal/calendar"
	"github.com/hinoue/evmkit/internal/domain"
	"github.com/hinoue/evmkit/internal/repository"
)

type settingsService struct {
	settings repository.SettingsRepo
	projects repository.ProjectRepo
	observer UseCaseObserver
}

func NewSettingsService(settings repository.SettingsRepo, projects repository.ProjectRepo, observers ...UseCaseObserver) SettingsService {
	return &settingsService{settings: settings, projects: projects, observer: useCaseObserverOrNoop(observers)}
}

func (s *settingsService) Init(ctx context.Context, cfg *domain.EvmSettings) (err error) {
	startedAt := time.Now()
	defer func() {
		observe(ctx, s.observer, "settings.init", startedAt, err, map[string]any{"project_id": cfg.ProjectID})
	}()

	if _, err := s.projects.GetByID(ctx, cfg.ProjectID); err != nil {
		return fmt.Errorf("project %s: %w", cfg.ProjectID, err)
	}
	if _, err := s.settings.Get(ctx, cfg.ProjectID); err == nil {
		return fmt.Errorf("settings for project %s already exist (use `settings show` or update)", cfg.ProjectID)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	if err := validateSettings(cfg); err != nil {
		return err
	}
	now := time.Now().UTC()
	cfg.CreatedAt = now
	cfg.UpdatedAt = now
	return s.settings.Upsert(ctx, cfg)
}

func (s *settingsService) Get(ctx context.Context, projectID string) (*domain.EvmSettings, error) {
	cfg, err := s.settings.Get(ctx, projectID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("project %s: %w", projectID, ErrSetupRequired)
	}
	return cfg, err
}

func (s *settingsService) Update(ctx context.Context, cfg *domain.EvmSettings) (err error) {
	startedAt := time.Now()
	defer func() {
		observe(ctx, s.observer, "settings.update", startedAt, err, map[string]any{"project_id": cfg.ProjectID})
	}()

	existing, err := s.Get(ctx, cfg.ProjectID)
	if err != nil {
		return err
	}
	if err := validateSettings(cfg); err != nil {
		return err
	}
	cfg.CreatedAt = existing.CreatedAt
	cfg.UpdatedAt = time.Now().UTC()
	return s.settings.Upsert(ctx, cfg)
}

func validateSettings(cfg *domain.EvmSettings) error {
	if cfg.BasisHours <= 0 || cfg.BasisHours > 24 {
		return fmt.Errorf("basis hours must be in (0, 24], got %g", cfg.BasisHours)
	}
	if !calendar.ValidRegion(cfg.Region) {
		return fmt.Errorf("unknown region %q (supported: %v)", cfg.Region, calendar.Regions())
	}
	if cfg.DefaultRateMultiplier < 0 {
		return fmt.Errorf("default rate multiplier must not be negative, got %g", cfg.DefaultRateMultiplier)
	}
	return nil
}
