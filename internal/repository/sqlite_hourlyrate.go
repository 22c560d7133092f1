package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hinoue/evmkit/internal/db"
	"github.com/hinoue/evmkit/internal/domain"
)

// hourlyRateColumns is the canonical SELECT column list for hourly_rates.
const hourlyRateColumns = `id, user_id, project_id, rate, effective_date, end_date, comment,
		created_at, updated_at`

// SQLiteHourlyRateRepo implements HourlyRateRepo using a SQLite database.
type SQLiteHourlyRateRepo struct {
	db db.DBTX
}

// NewSQLiteHourlyRateRepo creates a new SQLiteHourlyRateRepo.
func NewSQLiteHourlyRateRepo(db db.DBTX) *SQLiteHourlyRateRepo {
	return &SQLiteHourlyRateRepo{db: db}
}

func (r *SQLiteHourlyRateRepo) Create(ctx context.Context, rec *domain.HourlyRateRecord) error {
	query := `INSERT INTO hourly_rates (id, user_id, project_id, rate, effective_date, end_date, comment,
		created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		rec.ID,
		rec.UserID,
		nullableStrToValue(rec.ProjectID),
		rec.Rate,
		rec.EffectiveDate.Format(dateLayout),
		nullableTimeToString(rec.EndDate, dateLayout),
		rec.Comment,
		rec.CreatedAt.Format(time.RFC3339),
		rec.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting hourly rate: %w", err)
	}
	return nil
}

func (r *SQLiteHourlyRateRepo) GetByID(ctx context.Context, id string) (*domain.HourlyRateRecord, error) {
	query := `SELECT ` + hourlyRateColumns + ` FROM hourly_rates WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	return r.scanRate(row)
}

func (r *SQLiteHourlyRateRepo) ListAll(ctx context.Context) ([]*domain.HourlyRateRecord, error) {
	query := `SELECT ` + hourlyRateColumns + ` FROM hourly_rates
		ORDER BY user_id, effective_date DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing hourly rates: %w", err)
	}
	defer rows.Close()
	return r.scanRates(rows)
}

func (r *SQLiteHourlyRateRepo) ListByUser(ctx context.Context, userID string) ([]*domain.HourlyRateRecord, error) {
	query := `SELECT ` + hourlyRateColumns + ` FROM hourly_rates
		WHERE user_id = ?
		ORDER BY effective_date DESC, project_id`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing hourly rates by user: %w", err)
	}
	defer rows.Close()
	return r.scanRates(rows)
}

func (r *SQLiteHourlyRateRepo) ListOpenEnded(ctx context.Context, userID string, projectID *string) ([]*domain.HourlyRateRecord, error) {
	var query string
	var args []any
	if projectID == nil {
		query = `SELECT ` + hourlyRateColumns + ` FROM hourly_rates
			WHERE user_id = ? AND project_id IS NULL AND end_date IS NULL`
		args = []any{userID}
	} else {
		query = `SELECT ` + hourlyRateColumns + ` FROM hourly_rates
			WHERE user_id = ? AND project_id = ? AND end_date IS NULL`
		args = []any{userID, *projectID}
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing open-ended hourly rates: %w", err)
	}
	defer rows.Close()
	return r.scanRates(rows)
}

func (r *SQLiteHourlyRateRepo) Update(ctx context.Context, rec *domain.HourlyRateRecord) error {
	query := `UPDATE hourly_rates SET user_id = ?, project_id = ?, rate = ?,
		effective_date = ?, end_date = ?, comment = ?, updated_at = ?
		WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		rec.UserID,
		nullableStrToValue(rec.ProjectID),
		rec.Rate,
		rec.EffectiveDate.Format(dateLayout),
		nullableTimeToString(rec.EndDate, dateLayout),
		rec.Comment,
		rec.UpdatedAt.Format(time.RFC3339),
		rec.ID,
	)
	if err != nil {
		return fmt.Errorf("updating hourly rate: %w", err)
	}
	return nil
}

func (r *SQLiteHourlyRateRepo) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM hourly_rates WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("deleting hourly rate: %w", err)
	}
	return nil
}

// scanRate scans a single hourly rate from a *sql.Row.
func (r *SQLiteHourlyRateRepo) scanRate(row *sql.Row) (*domain.HourlyRateRecord, error) {
	var rec domain.HourlyRateRecord
	var projectID, endDateStr sql.NullString
	var effectiveDateStr, createdAtStr, updatedAtStr string

	err := row.Scan(
		&rec.ID, &rec.UserID, &projectID, &rec.Rate, &effectiveDateStr, &endDateStr, &rec.Comment,
		&createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("hourly rate: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning hourly rate: %w", err)
	}
	return populateRate(&rec, projectID, effectiveDateStr, endDateStr, createdAtStr, updatedAtStr)
}

// scanRates scans multiple hourly rates from *sql.Rows.
func (r *SQLiteHourlyRateRepo) scanRates(rows *sql.Rows) ([]*domain.HourlyRateRecord, error) {
	var records []*domain.HourlyRateRecord
	for rows.Next() {
		var rec domain.HourlyRateRecord
		var projectID, endDateStr sql.NullString
		var effectiveDateStr, createdAtStr, updatedAtStr string

		err := rows.Scan(
			&rec.ID, &rec.UserID, &projectID, &rec.Rate, &effectiveDateStr, &endDateStr, &rec.Comment,
			&createdAtStr, &updatedAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning hourly rate row: %w", err)
		}

		record, err := populateRate(&rec, projectID, effectiveDateStr, endDateStr, createdAtStr, updatedAtStr)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating hourly rates: %w", err)
	}
	return records, nil
}

func populateRate(rec *domain.HourlyRateRecord, projectID sql.NullString, effectiveDateStr string, endDateStr sql.NullString, createdAtStr, updatedAtStr string) (*domain.HourlyRateRecord, error) {
	rec.ProjectID = parseNullableStr(projectID)
	rec.EndDate = parseNullableTime(endDateStr, dateLayout)

	var parseErr error
	rec.EffectiveDate, parseErr = time.Parse(dateLayout, effectiveDateStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing effective_date: %w", parseErr)
	}
	rec.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	rec.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}
	return rec, nil
}
