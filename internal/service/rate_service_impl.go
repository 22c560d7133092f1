package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hinoue/evmkit/internal/db"
	"github.com/hinoue/evmkit/internal/domain"
	"github.com/hinoue/evmkit/internal/evm"
	"github.com/hinoue/evmkit/internal/repository"
)

type rateService struct {
	rates    repository.HourlyRateRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewRateService(rates repository.HourlyRateRepo, uow db.UnitOfWork, observers ...UseCaseObserver) RateService {
	return &rateService{rates: rates, uow: uow, observer: useCaseObserverOrNoop(observers)}
}

// Add creates a rate record. The written table always satisfies two
// invariants: no two records for the same user and scope overlap, and
// at most one record per user and scope is open-ended. The second is
// maintained here by closing the previous open-ended record to the day
// before the new record takes effect.
func (s *rateService) Add(ctx context.Context, r *domain.HourlyRateRecord) (err error) {
	startedAt := time.Now()
	defer func() {
		observe(ctx, s.observer, "rates.add", startedAt, err, map[string]any{"user_id": r.UserID})
	}()

	if r.Rate <= 0 {
		return fmt.Errorf("rate must be positive, got %g", r.Rate)
	}
	if r.EndDate != nil && r.EndDate.Before(r.EffectiveDate) {
		return fmt.Errorf("end date %s precedes effective date %s",
			r.EndDate.Format("2006-01-02"), r.EffectiveDate.Format("2006-01-02"))
	}

	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now
	r.EffectiveDate = evm.DateOf(r.EffectiveDate)
	if r.EndDate != nil {
		d := evm.DateOf(*r.EndDate)
		r.EndDate = &d
	}

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txRates := repository.NewSQLiteHourlyRateRepo(tx)

		open, err := txRates.ListOpenEnded(ctx, r.UserID, r.ProjectID)
		if err != nil {
			return err
		}
		for _, existing := range open {
			if !existing.EffectiveDate.Before(r.EffectiveDate) {
				return fmt.Errorf("open-ended rate effective %s already covers %s",
					existing.EffectiveDate.Format("2006-01-02"), r.EffectiveDate.Format("2006-01-02"))
			}
			closeAt := r.EffectiveDate.AddDate(0, 0, -1)
			existing.EndDate = &closeAt
			existing.UpdatedAt = now
			if err := txRates.Update(ctx, existing); err != nil {
				return fmt.Errorf("close previous rate %s: %w", existing.ID, err)
			}
		}

		all, err := txRates.ListByUser(ctx, r.UserID)
		if err != nil {
			return err
		}
		for _, existing := range all {
			if sameScope(existing.ProjectID, r.ProjectID) && existing.Overlaps(r) {
				return fmt.Errorf("rate overlaps existing record effective %s",
					existing.EffectiveDate.Format("2006-01-02"))
			}
		}

		return txRates.Create(ctx, r)
	})
}

func (s *rateService) List(ctx context.Context, userID string) ([]*domain.HourlyRateRecord, error) {
	if userID == "" {
		return s.rates.ListAll(ctx)
	}
	return s.rates.ListByUser(ctx, userID)
}

func (s *rateService) Close(ctx context.Context, id string, endDate time.Time) (err error) {
	startedAt := time.Now()
	defer func() {
		observe(ctx, s.observer, "rates.close", startedAt, err, map[string]any{"rate_id": id})
	}()

	r, err := s.rates.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if r.EndDate != nil {
		return fmt.Errorf("rate %s already closed on %s", id, r.EndDate.Format("2006-01-02"))
	}
	d := evm.DateOf(endDate)
	if d.Before(r.EffectiveDate) {
		return fmt.Errorf("end date %s precedes effective date %s",
			d.Format("2006-01-02"), r.EffectiveDate.Format("2006-01-02"))
	}
	r.EndDate = &d
	r.UpdatedAt = time.Now().UTC()
	return s.rates.Update(ctx, r)
}

func (s *rateService) Remove(ctx context.Context, id string) error {
	return s.rates.Delete(ctx, id)
}

// sameScope reports whether two records price the same scope: both
// global, or both tied to the same project.
func sameScope(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
