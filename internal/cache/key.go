package cache

import (
	"fmt"
	"time"
)

// Scope identifies the slice of data a cached result was computed
// over. The string form doubles as the DeleteMatching substring for
// that slice.
type Scope string

func ProjectScope(projectID string) Scope {
	return Scope("project/" + projectID)
}

// MemberScope nests under the project scope string so a sweep on the
// project substring also reclaims the project's member entries.
func MemberScope(projectID, userID string) Scope {
	return Scope("project/" + projectID + "/member/" + userID)
}

func AllProjectsScope() Scope {
	return Scope("all")
}

// Freshness captures the newest updated_at across each record family
// feeding a computation. Any edit to an in-scope record advances at
// least one component, which changes the derived key.
type Freshness struct {
	Items     time.Time
	Costs     time.Time
	Baselines time.Time
}

// Key derives the cache key for one computation. Every input the
// result depends on is embedded: scope, a scope version bumped on
// writes the timestamps cannot see (deletions), basis date, baseline
// selection, and the freshness stamps.
func Key(scope Scope, version int64, basisDate time.Time, baselineID string, f Freshness) string {
	if baselineID == "" {
		baselineID = "none"
	}
	return fmt.Sprintf("evm:%s:v%d:%s:%s:%d:%d:%d",
		scope, version, basisDate.Format("2006-01-02"), baselineID,
		stamp(f.Items), stamp(f.Costs), stamp(f.Baselines))
}

// stamp renders a freshness component. Zero time means the scope has
// no records of that family yet.
func stamp(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}
