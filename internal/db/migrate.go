package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		parent_id   TEXT REFERENCES projects(id) ON DELETE CASCADE,
		status      TEXT NOT NULL DEFAULT 'active'
		            CHECK(status IN ('active','archived')),
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_projects_parent ON projects(parent_id)`,

	`CREATE TABLE IF NOT EXISTS work_items (
		id              TEXT PRIMARY KEY,
		project_id      TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		subject         TEXT NOT NULL,
		status          TEXT NOT NULL DEFAULT 'open'
		                CHECK(status IN ('open','closed')),
		assignee        TEXT NOT NULL DEFAULT '',
		start_date      TEXT,
		due_date        TEXT,
		estimated_hours REAL,
		done_ratio      INTEGER NOT NULL DEFAULT 0
		                CHECK(done_ratio BETWEEN 0 AND 100),
		closed_at       TEXT,
		created_at      TEXT NOT NULL,
		updated_at      TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_work_items_project ON work_items(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_work_items_assignee ON work_items(assignee)`,
	`CREATE INDEX IF NOT EXISTS idx_work_items_updated ON work_items(updated_at)`,

	`CREATE TABLE IF NOT EXISTS cost_entries (
		id           TEXT PRIMARY KEY,
		user_id      TEXT NOT NULL,
		project_id   TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		work_item_id TEXT REFERENCES work_items(id) ON DELETE SET NULL,
		spent_on     TEXT NOT NULL,
		hours        REAL NOT NULL CHECK(hours > 0),
		comment      TEXT NOT NULL DEFAULT '',
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_cost_entries_project ON cost_entries(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_cost_entries_user ON cost_entries(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_cost_entries_spent_on ON cost_entries(spent_on)`,

	`CREATE TABLE IF NOT EXISTS hourly_rates (
		id             TEXT PRIMARY KEY,
		user_id        TEXT NOT NULL,
		project_id     TEXT REFERENCES projects(id) ON DELETE CASCADE,
		rate           REAL NOT NULL CHECK(rate > 0),
		effective_date TEXT NOT NULL,
		end_date       TEXT,
		comment        TEXT NOT NULL DEFAULT '',
		created_at     TEXT NOT NULL,
		updated_at     TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_hourly_rates_user ON hourly_rates(user_id)`,

	`CREATE TABLE IF NOT EXISTS baselines (
		id         TEXT PRIMARY KEY,
		project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		subject    TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_baselines_project ON baselines(project_id)`,

	`CREATE TABLE IF NOT EXISTS baseline_items (
		baseline_id     TEXT NOT NULL REFERENCES baselines(id) ON DELETE CASCADE,
		work_item_id    TEXT NOT NULL,
		subject         TEXT NOT NULL,
		start_date      TEXT,
		due_date        TEXT,
		estimated_hours REAL,
		PRIMARY KEY (baseline_id, work_item_id)
	)`,

	`CREATE TABLE IF NOT EXISTS evm_settings (
		project_id              TEXT PRIMARY KEY REFERENCES projects(id) ON DELETE CASCADE,
		basis_hours             REAL NOT NULL DEFAULT 8.0,
		region                  TEXT NOT NULL DEFAULT 'jp',
		hourly_rate_enabled     INTEGER NOT NULL DEFAULT 1,
		default_rate_multiplier REAL NOT NULL DEFAULT 1.0,
		view_forecast           INTEGER NOT NULL DEFAULT 1,
		created_at              TEXT NOT NULL,
		updated_at              TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS cache_versions (
		scope   TEXT PRIMARY KEY,
		version INTEGER NOT NULL DEFAULT 1
	)`,
}
