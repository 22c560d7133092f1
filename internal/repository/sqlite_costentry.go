package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hinoue/evmkit/internal/db"
	"github.com/hinoue/evmkit/internal/domain"
)

// costEntryColumns is the canonical SELECT column list for cost_entries.
const costEntryColumns = `id, user_id, project_id, work_item_id, spent_on, hours, comment,
		created_at, updated_at`

// SQLiteCostEntryRepo implements CostEntryRepo using a SQLite database.
type SQLiteCostEntryRepo struct {
	db db.DBTX
}

// NewSQLiteCostEntryRepo creates a new SQLiteCostEntryRepo.
func NewSQLiteCostEntryRepo(db db.DBTX) *SQLiteCostEntryRepo {
	return &SQLiteCostEntryRepo{db: db}
}

func (r *SQLiteCostEntryRepo) Create(ctx context.Context, e *domain.CostEntry) error {
	query := `INSERT INTO cost_entries (id, user_id, project_id, work_item_id, spent_on, hours, comment,
		created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		e.ID,
		e.UserID,
		e.ProjectID,
		nullableStrToValue(e.WorkItemID),
		e.SpentOn.Format(dateLayout),
		e.Hours,
		e.Comment,
		e.CreatedAt.Format(time.RFC3339),
		e.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting cost entry: %w", err)
	}
	return nil
}

func (r *SQLiteCostEntryRepo) GetByID(ctx context.Context, id string) (*domain.CostEntry, error) {
	query := `SELECT ` + costEntryColumns + ` FROM cost_entries WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	return r.scanCostEntry(row)
}

func (r *SQLiteCostEntryRepo) ListByProject(ctx context.Context, projectID, userID string) ([]*domain.CostEntry, error) {
	var query string
	var args []any
	switch {
	case projectID == "" && userID == "":
		query = `SELECT ` + costEntryColumns + ` FROM cost_entries ORDER BY spent_on`
	case projectID == "":
		query = `SELECT ` + costEntryColumns + ` FROM cost_entries WHERE user_id = ? ORDER BY spent_on`
		args = []any{userID}
	case userID == "":
		query = projectTreeCTE + `
			SELECT ` + costEntryColumns + ` FROM cost_entries
			WHERE project_id IN (SELECT id FROM project_tree)
			ORDER BY spent_on`
		args = []any{projectID}
	default:
		query = projectTreeCTE + `
			SELECT ` + costEntryColumns + ` FROM cost_entries
			WHERE project_id IN (SELECT id FROM project_tree) AND user_id = ?
			ORDER BY spent_on`
		args = []any{projectID, userID}
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing cost entries: %w", err)
	}
	defer rows.Close()
	return r.scanCostEntries(rows)
}

func (r *SQLiteCostEntryRepo) ListByDateRange(ctx context.Context, userID string, from, to time.Time) ([]*domain.CostEntry, error) {
	query := `SELECT ` + costEntryColumns + ` FROM cost_entries
		WHERE user_id = ? AND spent_on >= ? AND spent_on <= ?
		ORDER BY spent_on`
	rows, err := r.db.QueryContext(ctx, query, userID, from.Format(dateLayout), to.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("listing cost entries by date range: %w", err)
	}
	defer rows.Close()
	return r.scanCostEntries(rows)
}

func (r *SQLiteCostEntryRepo) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM cost_entries WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("deleting cost entry: %w", err)
	}
	return nil
}

func (r *SQLiteCostEntryRepo) LatestUpdatedAt(ctx context.Context, projectID, userID string) (time.Time, error) {
	var query string
	var args []any
	switch {
	case projectID == "" && userID == "":
		query = `SELECT MAX(updated_at) FROM cost_entries`
	case projectID == "":
		query = `SELECT MAX(updated_at) FROM cost_entries WHERE user_id = ?`
		args = []any{userID}
	case userID == "":
		query = projectTreeCTE + `
			SELECT MAX(updated_at) FROM cost_entries
			WHERE project_id IN (SELECT id FROM project_tree)`
		args = []any{projectID}
	default:
		query = projectTreeCTE + `
			SELECT MAX(updated_at) FROM cost_entries
			WHERE project_id IN (SELECT id FROM project_tree) AND user_id = ?`
		args = []any{projectID, userID}
	}

	var latest sql.NullString
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&latest); err != nil {
		return time.Time{}, fmt.Errorf("querying latest cost entry update: %w", err)
	}
	return parseLatest(latest), nil
}

// scanCostEntry scans a single cost entry from a *sql.Row.
func (r *SQLiteCostEntryRepo) scanCostEntry(row *sql.Row) (*domain.CostEntry, error) {
	var e domain.CostEntry
	var workItemID sql.NullString
	var spentOnStr, createdAtStr, updatedAtStr string

	err := row.Scan(
		&e.ID, &e.UserID, &e.ProjectID, &workItemID, &spentOnStr, &e.Hours, &e.Comment,
		&createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("cost entry: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning cost entry: %w", err)
	}
	return populateCostEntry(&e, workItemID, spentOnStr, createdAtStr, updatedAtStr)
}

// scanCostEntries scans multiple cost entries from *sql.Rows.
func (r *SQLiteCostEntryRepo) scanCostEntries(rows *sql.Rows) ([]*domain.CostEntry, error) {
	var entries []*domain.CostEntry
	for rows.Next() {
		var e domain.CostEntry
		var workItemID sql.NullString
		var spentOnStr, createdAtStr, updatedAtStr string

		err := rows.Scan(
			&e.ID, &e.UserID, &e.ProjectID, &workItemID, &spentOnStr, &e.Hours, &e.Comment,
			&createdAtStr, &updatedAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning cost entry row: %w", err)
		}

		entry, err := populateCostEntry(&e, workItemID, spentOnStr, createdAtStr, updatedAtStr)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating cost entries: %w", err)
	}
	return entries, nil
}

func populateCostEntry(e *domain.CostEntry, workItemID sql.NullString, spentOnStr, createdAtStr, updatedAtStr string) (*domain.CostEntry, error) {
	e.WorkItemID = parseNullableStr(workItemID)

	var parseErr error
	e.SpentOn, parseErr = time.Parse(dateLayout, spentOnStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing spent_on: %w", parseErr)
	}
	e.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	e.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}
	return e, nil
}
