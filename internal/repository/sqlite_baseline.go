package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hinoue/evmkit/internal/db"
	"github.com/hinoue/evmkit/internal/domain"
)

// baselineColumns is the canonical SELECT column list for baselines.
const baselineColumns = `id, project_id, subject, created_at, updated_at`

// baselineItemColumns is the canonical SELECT column list for baseline_items.
const baselineItemColumns = `work_item_id, subject, start_date, due_date, estimated_hours`

// SQLiteBaselineRepo implements BaselineRepo using a SQLite database.
// Snapshots are written once and never updated; the repo exposes no
// Update method on purpose.
type SQLiteBaselineRepo struct {
	db db.DBTX
}

// NewSQLiteBaselineRepo creates a new SQLiteBaselineRepo.
func NewSQLiteBaselineRepo(db db.DBTX) *SQLiteBaselineRepo {
	return &SQLiteBaselineRepo{db: db}
}

func (r *SQLiteBaselineRepo) Create(ctx context.Context, b *domain.BaselineSnapshot) error {
	query := `INSERT INTO baselines (id, project_id, subject, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		b.ID,
		b.ProjectID,
		b.Subject,
		b.CreatedAt.Format(time.RFC3339),
		b.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting baseline: %w", err)
	}

	itemQuery := `INSERT INTO baseline_items (baseline_id, work_item_id, subject, start_date, due_date, estimated_hours)
		VALUES (?, ?, ?, ?, ?, ?)`
	for _, item := range b.Items {
		_, err := r.db.ExecContext(ctx, itemQuery,
			b.ID,
			item.WorkItemID,
			item.Subject,
			nullableTimeToString(item.StartDate, dateLayout),
			nullableTimeToString(item.DueDate, dateLayout),
			nullableFloatToValue(item.EstimatedHours),
		)
		if err != nil {
			return fmt.Errorf("inserting baseline item: %w", err)
		}
	}
	return nil
}

func (r *SQLiteBaselineRepo) GetByID(ctx context.Context, id string) (*domain.BaselineSnapshot, error) {
	query := `SELECT ` + baselineColumns + ` FROM baselines WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	b, err := scanBaseline(row)
	if err != nil {
		return nil, err
	}

	items, err := r.listItems(ctx, id)
	if err != nil {
		return nil, err
	}
	b.Items = items
	return b, nil
}

func (r *SQLiteBaselineRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.BaselineSnapshot, error) {
	query := `SELECT ` + baselineColumns + ` FROM baselines
		WHERE project_id = ?
		ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing baselines: %w", err)
	}
	defer rows.Close()

	var baselines []*domain.BaselineSnapshot
	for rows.Next() {
		var b domain.BaselineSnapshot
		var createdAtStr, updatedAtStr string
		if err := rows.Scan(&b.ID, &b.ProjectID, &b.Subject, &createdAtStr, &updatedAtStr); err != nil {
			return nil, fmt.Errorf("scanning baseline row: %w", err)
		}
		if err := populateBaselineTimes(&b, createdAtStr, updatedAtStr); err != nil {
			return nil, err
		}
		baselines = append(baselines, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating baselines: %w", err)
	}
	return baselines, nil
}

func (r *SQLiteBaselineRepo) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM baselines WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("deleting baseline: %w", err)
	}
	return nil
}

func (r *SQLiteBaselineRepo) LatestUpdatedAt(ctx context.Context, projectID string) (time.Time, error) {
	var query string
	var args []any
	if projectID == "" {
		query = `SELECT MAX(updated_at) FROM baselines`
	} else {
		query = `SELECT MAX(updated_at) FROM baselines WHERE project_id = ?`
		args = []any{projectID}
	}

	var latest sql.NullString
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&latest); err != nil {
		return time.Time{}, fmt.Errorf("querying latest baseline update: %w", err)
	}
	return parseLatest(latest), nil
}

func (r *SQLiteBaselineRepo) listItems(ctx context.Context, baselineID string) ([]domain.BaselineItem, error) {
	query := `SELECT ` + baselineItemColumns + ` FROM baseline_items
		WHERE baseline_id = ?
		ORDER BY work_item_id`
	rows, err := r.db.QueryContext(ctx, query, baselineID)
	if err != nil {
		return nil, fmt.Errorf("listing baseline items: %w", err)
	}
	defer rows.Close()

	var items []domain.BaselineItem
	for rows.Next() {
		var item domain.BaselineItem
		var startDateStr, dueDateStr sql.NullString
		var estimatedHours sql.NullFloat64
		if err := rows.Scan(&item.WorkItemID, &item.Subject, &startDateStr, &dueDateStr, &estimatedHours); err != nil {
			return nil, fmt.Errorf("scanning baseline item: %w", err)
		}
		item.StartDate = parseNullableTime(startDateStr, dateLayout)
		item.DueDate = parseNullableTime(dueDateStr, dateLayout)
		item.EstimatedHours = parseNullableFloat(estimatedHours)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating baseline items: %w", err)
	}
	return items, nil
}

func scanBaseline(row *sql.Row) (*domain.BaselineSnapshot, error) {
	var b domain.BaselineSnapshot
	var createdAtStr, updatedAtStr string

	err := row.Scan(&b.ID, &b.ProjectID, &b.Subject, &createdAtStr, &updatedAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("baseline: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning baseline: %w", err)
	}
	if err := populateBaselineTimes(&b, createdAtStr, updatedAtStr); err != nil {
		return nil, err
	}
	return &b, nil
}

func populateBaselineTimes(b *domain.BaselineSnapshot, createdAtStr, updatedAtStr string) error {
	var parseErr error
	b.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return fmt.Errorf("parsing created_at: %w", parseErr)
	}
	b.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return fmt.Errorf("parsing updated_at: %w", parseErr)
	}
	return nil
}
