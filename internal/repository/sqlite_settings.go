package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hinoue/evmkit/internal/db"
	"github.com/hinoue/evmkit/internal/domain"
)

// SQLiteSettingsRepo implements SettingsRepo using a SQLite database.
type SQLiteSettingsRepo struct {
	db db.DBTX
}

// NewSQLiteSettingsRepo creates a new SQLiteSettingsRepo.
func NewSQLiteSettingsRepo(db db.DBTX) *SQLiteSettingsRepo {
	return &SQLiteSettingsRepo{db: db}
}

func (r *SQLiteSettingsRepo) Get(ctx context.Context, projectID string) (*domain.EvmSettings, error) {
	query := `SELECT project_id, basis_hours, region, hourly_rate_enabled,
		default_rate_multiplier, view_forecast, created_at, updated_at
		FROM evm_settings WHERE project_id = ?`
	row := r.db.QueryRowContext(ctx, query, projectID)

	var s domain.EvmSettings
	var rateEnabledInt, forecastInt int
	var createdAtStr, updatedAtStr string

	err := row.Scan(&s.ProjectID, &s.BasisHours, &s.Region, &rateEnabledInt,
		&s.DefaultRateMultiplier, &forecastInt, &createdAtStr, &updatedAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("evm settings: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning evm settings: %w", err)
	}

	s.HourlyRateEnabled = intToBool(rateEnabledInt)
	s.ViewForecast = intToBool(forecastInt)

	var parseErr error
	s.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	s.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}
	return &s, nil
}

func (r *SQLiteSettingsRepo) Upsert(ctx context.Context, s *domain.EvmSettings) error {
	query := `INSERT INTO evm_settings (project_id, basis_hours, region, hourly_rate_enabled,
		default_rate_multiplier, view_forecast, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(project_id) DO UPDATE SET
			basis_hours = excluded.basis_hours,
			region = excluded.region,
			hourly_rate_enabled = excluded.hourly_rate_enabled,
			default_rate_multiplier = excluded.default_rate_multiplier,
			view_forecast = excluded.view_forecast,
			updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query,
		s.ProjectID,
		s.BasisHours,
		s.Region,
		boolToInt(s.HourlyRateEnabled),
		s.DefaultRateMultiplier,
		boolToInt(s.ViewForecast),
		s.CreatedAt.Format(time.RFC3339),
		s.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upserting evm settings: %w", err)
	}
	return nil
}
