package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hinoue/evmkit/internal/cache"
	"github.com/hinoue/evmkit/internal/domain"
	"github.com/hinoue/evmkit/internal/repository"
)

type baselineService struct {
	baselines   repository.BaselineRepo
	items       repository.WorkItemRepo
	invalidator *cache.Invalidator
	observer    UseCaseObserver
}

func NewBaselineService(
	baselines repository.BaselineRepo,
	items repository.WorkItemRepo,
	invalidator *cache.Invalidator,
	observers ...UseCaseObserver,
) BaselineService {
	return &baselineService{
		baselines:   baselines,
		items:       items,
		invalidator: invalidator,
		observer:    useCaseObserverOrNoop(observers),
	}
}

// Capture freezes the project's current schedules into an immutable
// snapshot. Items without an estimate are not frozen; they contribute
// nothing to planned value either way.
func (s *baselineService) Capture(ctx context.Context, projectID, subject string) (snap *domain.BaselineSnapshot, err error) {
	startedAt := time.Now()
	defer func() {
		observe(ctx, s.observer, "baseline.capture", startedAt, err, map[string]any{"project_id": projectID})
	}()

	items, err := s.items.ListByProject(ctx, projectID, "")
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("project %s has no work items to snapshot", projectID)
	}

	now := time.Now().UTC()
	snap = &domain.BaselineSnapshot{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Subject:   subject,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, w := range items {
		if w.EstimatedHours == nil {
			continue
		}
		snap.Items = append(snap.Items, domain.BaselineItem{
			WorkItemID:     w.ID,
			Subject:        w.Subject,
			StartDate:      w.StartDate,
			DueDate:        w.DueDate,
			EstimatedHours: w.EstimatedHours,
		})
	}
	if len(snap.Items) == 0 {
		return nil, fmt.Errorf("project %s has no estimated items to snapshot", projectID)
	}

	if err := s.baselines.Create(ctx, snap); err != nil {
		return nil, err
	}

	if _, _, err := s.invalidator.Invalidate(ctx, cache.ProjectScope(projectID)); err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *baselineService) List(ctx context.Context, projectID string) ([]*domain.BaselineSnapshot, error) {
	return s.baselines.ListByProject(ctx, projectID)
}

func (s *baselineService) Get(ctx context.Context, id string) (*domain.BaselineSnapshot, error) {
	return s.baselines.GetByID(ctx, id)
}
