package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hinoue/evmkit/internal/db"
	"github.com/hinoue/evmkit/internal/domain"
)

// workItemColumns is the canonical SELECT column list for work_items.
const workItemColumns = `id, project_id, subject, status, assignee,
		start_date, due_date, estimated_hours, done_ratio, closed_at,
		created_at, updated_at`

// SQLiteWorkItemRepo implements WorkItemRepo using a SQLite database.
type SQLiteWorkItemRepo struct {
	db db.DBTX
}

// NewSQLiteWorkItemRepo creates a new SQLiteWorkItemRepo.
func NewSQLiteWorkItemRepo(db db.DBTX) *SQLiteWorkItemRepo {
	return &SQLiteWorkItemRepo{db: db}
}

func (r *SQLiteWorkItemRepo) Create(ctx context.Context, w *domain.WorkItem) error {
	query := `INSERT INTO work_items (id, project_id, subject, status, assignee,
		start_date, due_date, estimated_hours, done_ratio, closed_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		w.ID,
		w.ProjectID,
		w.Subject,
		string(w.Status),
		w.Assignee,
		nullableTimeToString(w.StartDate, dateLayout),
		nullableTimeToString(w.DueDate, dateLayout),
		nullableFloatToValue(w.EstimatedHours),
		w.DoneRatio,
		nullableTimeToString(w.ClosedAt, time.RFC3339),
		w.CreatedAt.Format(time.RFC3339),
		w.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting work item: %w", err)
	}
	return nil
}

func (r *SQLiteWorkItemRepo) GetByID(ctx context.Context, id string) (*domain.WorkItem, error) {
	query := `SELECT ` + workItemColumns + ` FROM work_items WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	return r.scanWorkItem(row)
}

func (r *SQLiteWorkItemRepo) ListByProject(ctx context.Context, projectID, assignee string) ([]*domain.WorkItem, error) {
	var query string
	var args []any
	switch {
	case projectID == "" && assignee == "":
		query = `SELECT ` + workItemColumns + ` FROM work_items ORDER BY created_at`
	case projectID == "":
		query = `SELECT ` + workItemColumns + ` FROM work_items WHERE assignee = ? ORDER BY created_at`
		args = []any{assignee}
	case assignee == "":
		query = projectTreeCTE + `
			SELECT ` + workItemColumns + ` FROM work_items
			WHERE project_id IN (SELECT id FROM project_tree)
			ORDER BY created_at`
		args = []any{projectID}
	default:
		query = projectTreeCTE + `
			SELECT ` + workItemColumns + ` FROM work_items
			WHERE project_id IN (SELECT id FROM project_tree) AND assignee = ?
			ORDER BY created_at`
		args = []any{projectID, assignee}
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing work items: %w", err)
	}
	defer rows.Close()
	return r.scanWorkItems(rows)
}

func (r *SQLiteWorkItemRepo) ListIncomplete(ctx context.Context, projectID string, asOf time.Time) ([]*domain.WorkItem, error) {
	query := projectTreeCTE + `
		SELECT ` + workItemColumns + ` FROM work_items
		WHERE project_id IN (SELECT id FROM project_tree)
		  AND status = 'open'
		  AND due_date IS NOT NULL AND due_date <= ?
		ORDER BY due_date`
	rows, err := r.db.QueryContext(ctx, query, projectID, asOf.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("listing incomplete work items: %w", err)
	}
	defer rows.Close()
	return r.scanWorkItems(rows)
}

func (r *SQLiteWorkItemRepo) ListAssignees(ctx context.Context, projectID string) ([]string, error) {
	var query string
	var args []any
	if projectID == "" {
		query = `SELECT DISTINCT assignee FROM work_items WHERE assignee != '' ORDER BY assignee`
	} else {
		query = projectTreeCTE + `
			SELECT DISTINCT assignee FROM work_items
			WHERE project_id IN (SELECT id FROM project_tree) AND assignee != ''
			ORDER BY assignee`
		args = []any{projectID}
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing assignees: %w", err)
	}
	defer rows.Close()

	var assignees []string
	for rows.Next() {
		var a string
		if err := rows.Scan(&a); err != nil {
			return nil, fmt.Errorf("scanning assignee: %w", err)
		}
		assignees = append(assignees, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating assignees: %w", err)
	}
	return assignees, nil
}

func (r *SQLiteWorkItemRepo) Update(ctx context.Context, w *domain.WorkItem) error {
	query := `UPDATE work_items SET project_id = ?, subject = ?, status = ?, assignee = ?,
		start_date = ?, due_date = ?, estimated_hours = ?, done_ratio = ?, closed_at = ?, updated_at = ?
		WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		w.ProjectID,
		w.Subject,
		string(w.Status),
		w.Assignee,
		nullableTimeToString(w.StartDate, dateLayout),
		nullableTimeToString(w.DueDate, dateLayout),
		nullableFloatToValue(w.EstimatedHours),
		w.DoneRatio,
		nullableTimeToString(w.ClosedAt, time.RFC3339),
		w.UpdatedAt.Format(time.RFC3339),
		w.ID,
	)
	if err != nil {
		return fmt.Errorf("updating work item: %w", err)
	}
	return nil
}

func (r *SQLiteWorkItemRepo) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM work_items WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("deleting work item: %w", err)
	}
	return nil
}

func (r *SQLiteWorkItemRepo) LatestUpdatedAt(ctx context.Context, projectID, assignee string) (time.Time, error) {
	var query string
	var args []any
	switch {
	case projectID == "" && assignee == "":
		query = `SELECT MAX(updated_at) FROM work_items`
	case projectID == "":
		query = `SELECT MAX(updated_at) FROM work_items WHERE assignee = ?`
		args = []any{assignee}
	case assignee == "":
		query = projectTreeCTE + `
			SELECT MAX(updated_at) FROM work_items
			WHERE project_id IN (SELECT id FROM project_tree)`
		args = []any{projectID}
	default:
		query = projectTreeCTE + `
			SELECT MAX(updated_at) FROM work_items
			WHERE project_id IN (SELECT id FROM project_tree) AND assignee = ?`
		args = []any{projectID, assignee}
	}

	var latest sql.NullString
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&latest); err != nil {
		return time.Time{}, fmt.Errorf("querying latest work item update: %w", err)
	}
	return parseLatest(latest), nil
}

// scanWorkItem scans a single work item from a *sql.Row.
func (r *SQLiteWorkItemRepo) scanWorkItem(row *sql.Row) (*domain.WorkItem, error) {
	var w domain.WorkItem
	var statusStr string
	var startDateStr, dueDateStr, closedAtStr sql.NullString
	var estimatedHours sql.NullFloat64
	var createdAtStr, updatedAtStr string

	err := row.Scan(
		&w.ID, &w.ProjectID, &w.Subject, &statusStr, &w.Assignee,
		&startDateStr, &dueDateStr, &estimatedHours, &w.DoneRatio, &closedAtStr,
		&createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("work item: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning work item: %w", err)
	}

	return populateWorkItem(&w, statusStr, startDateStr, dueDateStr, closedAtStr,
		estimatedHours, createdAtStr, updatedAtStr)
}

// scanWorkItems scans multiple work items from *sql.Rows.
func (r *SQLiteWorkItemRepo) scanWorkItems(rows *sql.Rows) ([]*domain.WorkItem, error) {
	var items []*domain.WorkItem
	for rows.Next() {
		var w domain.WorkItem
		var statusStr string
		var startDateStr, dueDateStr, closedAtStr sql.NullString
		var estimatedHours sql.NullFloat64
		var createdAtStr, updatedAtStr string

		err := rows.Scan(
			&w.ID, &w.ProjectID, &w.Subject, &statusStr, &w.Assignee,
			&startDateStr, &dueDateStr, &estimatedHours, &w.DoneRatio, &closedAtStr,
			&createdAtStr, &updatedAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning work item row: %w", err)
		}

		item, err := populateWorkItem(&w, statusStr, startDateStr, dueDateStr, closedAtStr,
			estimatedHours, createdAtStr, updatedAtStr)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating work items: %w", err)
	}
	return items, nil
}

// populateWorkItem fills in parsed fields on a WorkItem after scanning raw values.
func populateWorkItem(
	w *domain.WorkItem,
	statusStr string,
	startDateStr, dueDateStr, closedAtStr sql.NullString,
	estimatedHours sql.NullFloat64,
	createdAtStr, updatedAtStr string,
) (*domain.WorkItem, error) {
	w.Status = domain.WorkItemStatus(statusStr)
	w.StartDate = parseNullableTime(startDateStr, dateLayout)
	w.DueDate = parseNullableTime(dueDateStr, dateLayout)
	w.ClosedAt = parseNullableTime(closedAtStr, time.RFC3339)
	w.EstimatedHours = parseNullableFloat(estimatedHours)

	var parseErr error
	w.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	w.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}
	return w, nil
}
