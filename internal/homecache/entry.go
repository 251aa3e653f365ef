// Package homecache holds the most recent home-page snapshot so the home
// surface can render instantly on launch. The snapshot lives in memory and
// in a single persisted slot that survives restarts; a time-to-live policy
// decides when it must be refetched. The cache is an optimization, never a
// correctness dependency: every failure degrades to a cache miss.
package homecache

import (
	"slices"
	"time"

	"github.com/ehco-tech/ehco/internal/domain"
)

// Entry is a captured home snapshot plus the time it was taken. An entry
// is either entirely present or entirely absent; absence is signalled by
// the comma-ok returns on Store.Load and Manager.Entry, never by a
// partially filled value.
type Entry struct {
	Payload    domain.HomeData
	CapturedAt time.Time
}

// snapshot returns a copy whose payload slices do not share backing
// arrays with the cached entry, so callers cannot mutate cached state.
func (e Entry) snapshot() Entry {
	e.Payload.FeaturedFigures = slices.Clone(e.Payload.FeaturedFigures)
	e.Payload.TrendingUpdates = slices.Clone(e.Payload.TrendingUpdates)
	return e
}
