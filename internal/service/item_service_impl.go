package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hinoue/evmkit/internal/cache"
	"github.com/hinoue/evmkit/internal/domain"
	"github.com/hinoue/evmkit/internal/evm"
	"github.com/hinoue/evmkit/internal/repository"
)

type itemService struct {
	items       repository.WorkItemRepo
	costs       repository.CostEntryRepo
	invalidator *cache.Invalidator
	observer    UseCaseObserver
}

func NewItemService(
	items repository.WorkItemRepo,
	costs repository.CostEntryRepo,
	invalidator *cache.Invalidator,
	observers ...UseCaseObserver,
) ItemService {
	return &itemService{
		items:       items,
		costs:       costs,
		invalidator: invalidator,
		observer:    useCaseObserverOrNoop(observers),
	}
}

func (s *itemService) Create(ctx context.Context, w *domain.WorkItem) (err error) {
	startedAt := time.Now()
	defer func() {
		observe(ctx, s.observer, "items.create", startedAt, err, map[string]any{"project_id": w.ProjectID})
	}()

	if w.ID == "" {
		w.ID = uuid.New().String()
	}
	if w.Status == "" {
		w.Status = domain.WorkItemOpen
	}
	if w.DoneRatio < 0 || w.DoneRatio > 100 {
		return fmt.Errorf("done ratio must be 0-100, got %d", w.DoneRatio)
	}
	if w.StartDate != nil && w.DueDate != nil && w.DueDate.Before(*w.StartDate) {
		return fmt.Errorf("due date %s precedes start date %s",
			w.DueDate.Format("2006-01-02"), w.StartDate.Format("2006-01-02"))
	}
	now := time.Now().UTC()
	w.CreatedAt = now
	w.UpdatedAt = now

	if err := s.items.Create(ctx, w); err != nil {
		return err
	}
	return s.invalidate(ctx, w.ProjectID)
}

func (s *itemService) GetByID(ctx context.Context, id string) (*domain.WorkItem, error) {
	return s.items.GetByID(ctx, id)
}

func (s *itemService) List(ctx context.Context, projectID string) ([]*domain.WorkItem, error) {
	return s.items.ListByProject(ctx, projectID, "")
}

func (s *itemService) Update(ctx context.Context, w *domain.WorkItem) (err error) {
	startedAt := time.Now()
	defer func() {
		observe(ctx, s.observer, "items.update", startedAt, err, map[string]any{"item_id": w.ID})
	}()

	w.UpdatedAt = time.Now().UTC()
	if err := s.items.Update(ctx, w); err != nil {
		return err
	}
	return s.invalidate(ctx, w.ProjectID)
}

func (s *itemService) CloseItem(ctx context.Context, id string, closedAt time.Time) (err error) {
	startedAt := time.Now()
	defer func() {
		observe(ctx, s.observer, "items.close", startedAt, err, map[string]any{"item_id": id})
	}()

	w, err := s.items.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if w.Closed() {
		return fmt.Errorf("work item %s is already closed", id)
	}

	closed := evm.DateOf(closedAt)
	w.Status = domain.WorkItemClosed
	w.DoneRatio = 100
	w.ClosedAt = &closed
	w.UpdatedAt = time.Now().UTC()

	if err := s.items.Update(ctx, w); err != nil {
		return err
	}
	return s.invalidate(ctx, w.ProjectID)
}

func (s *itemService) LogCost(ctx context.Context, e *domain.CostEntry) (err error) {
	startedAt := time.Now()
	defer func() {
		observe(ctx, s.observer, "costs.log", startedAt, err, map[string]any{"project_id": e.ProjectID})
	}()

	if e.Hours <= 0 {
		return fmt.Errorf("hours must be positive, got %g", e.Hours)
	}
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.WorkItemID != nil {
		w, err := s.items.GetByID(ctx, *e.WorkItemID)
		if err != nil {
			return fmt.Errorf("work item %s: %w", *e.WorkItemID, err)
		}
		e.ProjectID = w.ProjectID
	}
	e.SpentOn = evm.DateOf(e.SpentOn)
	now := time.Now().UTC()
	e.CreatedAt = now
	e.UpdatedAt = now

	if err := s.costs.Create(ctx, e); err != nil {
		return err
	}
	return s.invalidate(ctx, e.ProjectID)
}

// invalidate retires the project scope and the all-projects summary.
// Member keys nest under the project scope string, so the project
// sweep reclaims them too; their freshness stamps keep them correct.
func (s *itemService) invalidate(ctx context.Context, projectID string) error {
	if _, _, err := s.invalidator.Invalidate(ctx, cache.ProjectScope(projectID)); err != nil {
		return err
	}
	_, _, err := s.invalidator.Invalidate(ctx, cache.AllProjectsScope())
	return err
}
