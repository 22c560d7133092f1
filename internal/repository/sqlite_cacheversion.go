package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hinoue/evmkit/internal/db"
)

// SQLiteCacheVersionRepo implements CacheVersionRepo using a SQLite
// database. Versions start at 1 for scopes that have never been bumped
// so that keys stay stable until the first mutation.
type SQLiteCacheVersionRepo struct {
	db db.DBTX
}

// NewSQLiteCacheVersionRepo creates a new SQLiteCacheVersionRepo.
func NewSQLiteCacheVersionRepo(db db.DBTX) *SQLiteCacheVersionRepo {
	return &SQLiteCacheVersionRepo{db: db}
}

func (r *SQLiteCacheVersionRepo) Get(ctx context.Context, scope string) (int64, error) {
	var version int64
	err := r.db.QueryRowContext(ctx,
		`SELECT version FROM cache_versions WHERE scope = ?`, scope).Scan(&version)
	if err == sql.ErrNoRows {
		return 1, nil
	}
	if err != nil {
		return 0, fmt.Errorf("querying cache version: %w", err)
	}
	return version, nil
}

func (r *SQLiteCacheVersionRepo) Bump(ctx context.Context, scope string) (int64, error) {
	query := `INSERT INTO cache_versions (scope, version) VALUES (?, 2)
		ON CONFLICT(scope) DO UPDATE SET version = version + 1`
	if _, err := r.db.ExecContext(ctx, query, scope); err != nil {
		return 0, fmt.Errorf("bumping cache version: %w", err)
	}
	return r.Get(ctx, scope)
}
