package service

import (
	"context"
	"fmt"
	"time"

	"github.com/hinoue/evmkit/internal/domain"
	"github.com/hinoue/evmkit/internal/evm"
)

// SeedResult names what the seeder created so the CLI can print the
// ids needed by follow-up commands.
type SeedResult struct {
	ProjectID  string
	BaselineID string
	Members    []string
}

// Seeder populates a small demo project so every command has data to
// work against on a fresh database.
type Seeder struct {
	projects ProjectService
	settings SettingsService
	items    ItemService
	rates    RateService
	baseline BaselineService
}

func NewSeeder(projects ProjectService, settings SettingsService, items ItemService, rates RateService, baseline BaselineService) *Seeder {
	return &Seeder{projects: projects, settings: settings, items: items, rates: rates, baseline: baseline}
}

func (s *Seeder) Seed(ctx context.Context) (*SeedResult, error) {
	today := evm.DateOf(time.Now().UTC())
	start := today.AddDate(0, 0, -20)

	project := &domain.Project{ID: "demo", Name: "Demo Rollout"}
	if err := s.projects.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("seed project: %w", err)
	}

	cfg := domain.NewEvmSettings(project.ID)
	cfg.HourlyRateEnabled = true
	if err := s.settings.Init(ctx, cfg); err != nil {
		return nil, fmt.Errorf("seed settings: %w", err)
	}

	members := []string{"aoki", "baker"}
	for _, userID := range members {
		rate := &domain.HourlyRateRecord{
			UserID:        userID,
			Rate:          1.0,
			EffectiveDate: start.AddDate(0, 0, -10),
			Comment:       "seeded flat rate",
		}
		if err := s.rates.Add(ctx, rate); err != nil {
			return nil, fmt.Errorf("seed rate for %s: %w", userID, err)
		}
	}

	specs := []struct {
		subject  string
		assignee string
		startOff int
		dueOff   int
		estimate float64
		done     int
	}{
		{"Design data model", "aoki", 0, 5, 16, 100},
		{"Implement importer", "aoki", 5, 15, 40, 60},
		{"Build report views", "baker", 3, 18, 32, 40},
		{"Operations runbook", "baker", 15, 30, 24, 0},
	}

	var itemIDs []string
	for _, spec := range specs {
		itemStart := start.AddDate(0, 0, spec.startOff)
		itemDue := start.AddDate(0, 0, spec.dueOff)
		estimate := spec.estimate
		w := &domain.WorkItem{
			ProjectID:      project.ID,
			Subject:        spec.subject,
			Assignee:       spec.assignee,
			StartDate:      &itemStart,
			DueDate:        &itemDue,
			EstimatedHours: &estimate,
			DoneRatio:      spec.done,
		}
		if err := s.items.Create(ctx, w); err != nil {
			return nil, fmt.Errorf("seed item %q: %w", spec.subject, err)
		}
		itemIDs = append(itemIDs, w.ID)

		if spec.done == 100 {
			if err := s.items.CloseItem(ctx, w.ID, itemDue); err != nil {
				return nil, fmt.Errorf("close seeded item %q: %w", spec.subject, err)
			}
		}
	}

	// A few days of logged time against the first two items.
	logs := []struct {
		userID  string
		itemIdx int
		dayOff  int
		hours   float64
	}{
		{"aoki", 0, 1, 6}, {"aoki", 0, 2, 6}, {"aoki", 0, 4, 4},
		{"aoki", 1, 6, 8}, {"aoki", 1, 8, 7},
		{"baker", 2, 5, 6}, {"baker", 2, 7, 8}, {"baker", 2, 9, 5},
	}
	for _, l := range logs {
		itemID := itemIDs[l.itemIdx]
		entry := &domain.CostEntry{
			UserID:     l.userID,
			ProjectID:  project.ID,
			WorkItemID: &itemID,
			SpentOn:    start.AddDate(0, 0, l.dayOff),
			Hours:      l.hours,
		}
		if err := s.items.LogCost(ctx, entry); err != nil {
			return nil, fmt.Errorf("seed cost entry: %w", err)
		}
	}

	snap, err := s.baseline.Capture(ctx, project.ID, "initial plan")
	if err != nil {
		return nil, fmt.Errorf("seed baseline: %w", err)
	}

	return &SeedResult{ProjectID: project.ID, BaselineID: snap.ID, Members: members}, nil
}
