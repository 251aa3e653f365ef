package homecache

import (
	"sync"
	"time"

	"github.com/ehco-tech/ehco/internal/domain"
)

// DefaultTTL is the snapshot lifetime used when config supplies none.
const DefaultTTL = time.Hour

// Manager owns the in-memory home snapshot. It reads the store exactly
// once at construction and afterwards touches it only on Set and Clear;
// external changes to the slot are not observed. Safe for concurrent use.
type Manager struct {
	store Store
	ttl   time.Duration
	now   func() time.Time

	mu    sync.RWMutex
	entry *Entry
}

type Option func(*Manager)

// WithClock overrides the time source. Tests use this to pin validity
// checks to exact instants.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// New builds a manager seeded from whatever the store holds. A malformed
// or missing slot just means starting empty.
func New(store Store, ttl time.Duration, opts ...Option) *Manager {
	m := &Manager{store: store, ttl: ttl, now: time.Now}
	if m.ttl <= 0 {
		m.ttl = DefaultTTL
	}
	for _, opt := range opts {
		opt(m)
	}
	if e, ok := store.Load(); ok {
		m.entry = &e
	}
	return m
}

// Entry returns a snapshot of the current entry, or false when the cache
// is empty. The returned value shares no slices with cached state.
func (m *Manager) Entry() (Entry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.entry == nil {
		return Entry{}, false
	}
	return m.entry.snapshot(), true
}

// Valid reports whether the current entry is fresh right now.
func (m *Manager) Valid() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Valid(m.entry, m.now(), m.ttl)
}

// Set replaces the entry with payload captured now, then persists it.
// This is the only mutation path: full replacement, no merging. The
// in-memory entry is updated even when persisting fails; the returned
// error reports the persistence outcome only, so callers may ignore it.
func (m *Manager) Set(payload domain.HomeData) error {
	m.mu.Lock()
	e := Entry{Payload: payload, CapturedAt: m.now().Truncate(time.Millisecond)}
	m.entry = &e
	m.mu.Unlock()
	return m.store.Save(e)
}

// Clear empties the cache and deletes the persisted slot. Clearing an
// already-empty cache is a no-op that still reports the removal outcome.
func (m *Manager) Clear() error {
	m.mu.Lock()
	m.entry = nil
	m.mu.Unlock()
	return m.store.Remove()
}

// TTL returns the configured snapshot lifetime.
func (m *Manager) TTL() time.Duration { return m.ttl }
