package cache

import (
	"context"
	"fmt"
)

// VersionSource supplies the monotonically increasing version counter
// for a scope. Bumping it retires every key previously derived for
// that scope, covering writes the freshness timestamps cannot detect,
// such as record deletions.
type VersionSource interface {
	Get(ctx context.Context, scope string) (int64, error)
	Bump(ctx context.Context, scope string) (int64, error)
}

// Invalidator retires cached results for a scope. Correctness comes
// from the version bump alone; the store sweep only reclaims space and
// its failure is reported but never blocks the bump.
type Invalidator struct {
	versions VersionSource
	store    Store
}

func NewInvalidator(versions VersionSource, store Store) *Invalidator {
	return &Invalidator{versions: versions, store: store}
}

// Invalidate bumps the scope's version and sweeps matching entries
// from the store. Returns the new version and the number of entries
// reclaimed.
func (inv *Invalidator) Invalidate(ctx context.Context, scope Scope) (int64, int, error) {
	version, err := inv.versions.Bump(ctx, string(scope))
	if err != nil {
		return 0, 0, fmt.Errorf("bump cache version for %s: %w", scope, err)
	}

	removed, err := inv.store.DeleteMatching(ctx, string(scope))
	if err != nil {
		// The bump already happened, so stale entries are unreachable.
		return version, 0, nil
	}
	return version, removed, nil
}
