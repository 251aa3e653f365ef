package homecache

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestSetThenEntry(t *testing.T) {
	m := New(NewFileStore(filepath.Join(t.TempDir(), "home.json")), time.Hour)
	p := testPayload()

	if err := m.Set(p); err != nil {
		t.Fatalf("set: %v", err)
	}
	e, ok := m.Entry()
	if !ok {
		t.Fatal("entry absent after set")
	}
	if !reflect.DeepEqual(e.Payload, p) {
		t.Errorf("payload changed across set/get:\ngot  %+v\nwant %+v", e.Payload, p)
	}
}

// One-hour ttl: a snapshot taken at ms 0 is valid at ms 3,599,999 and
// stale at ms 3,600,000.
func TestValidityWindow(t *testing.T) {
	now := int64(0)
	m := New(NopStore{}, time.Hour, WithClock(func() time.Time { return time.UnixMilli(now) }))

	if m.Valid() {
		t.Fatal("empty cache reported valid")
	}
	if err := m.Set(testPayload()); err != nil {
		t.Fatalf("set: %v", err)
	}

	now = 3_599_999
	if !m.Valid() {
		t.Error("entry one ms under ttl reported stale")
	}
	now = 3_600_000
	if m.Valid() {
		t.Error("entry exactly ttl old reported valid")
	}
}

func TestClearIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "home.json")
	m := New(NewFileStore(path), time.Hour)
	if err := m.Set(testPayload()); err != nil {
		t.Fatalf("set: %v", err)
	}

	for i := 1; i <= 2; i++ {
		if err := m.Clear(); err != nil {
			t.Fatalf("clear #%d: %v", i, err)
		}
		if _, ok := m.Entry(); ok {
			t.Fatalf("entry present after clear #%d", i)
		}
		if m.Valid() {
			t.Fatalf("cache valid after clear #%d", i)
		}
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("slot file still present after clear")
	}
}

func TestCorruptSlotStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "home.json")
	seed := `{"featuredFigures":[],"trendingUpdates":[],"stats":{"totalFigures":3,"totalFacts":9}}`
	if err := os.WriteFile(path, []byte(seed), 0o644); err != nil {
		t.Fatal(err)
	}

	m := New(NewFileStore(path), time.Hour)
	if _, ok := m.Entry(); ok {
		t.Error("manager initialized from a slot with no timestamp")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("malformed slot was not removed")
	}
}

// Reconstructing a manager on the same slot simulates an app restart.
func TestPersistenceAcrossManagers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "home.json")
	p := testPayload()

	first := New(NewFileStore(path), time.Hour)
	if err := first.Set(p); err != nil {
		t.Fatalf("set: %v", err)
	}
	firstEntry, _ := first.Entry()

	second := New(NewFileStore(path), time.Hour)
	e, ok := second.Entry()
	if !ok {
		t.Fatal("entry absent after reconstruction")
	}
	if !reflect.DeepEqual(e.Payload, p) {
		t.Errorf("payload changed across reconstruction:\ngot  %+v\nwant %+v", e.Payload, p)
	}
	if got, want := e.CapturedAt.UnixMilli(), firstEntry.CapturedAt.UnixMilli(); got != want {
		t.Errorf("capture time drifted across reconstruction: got %d, want %d", got, want)
	}
	if !second.Valid() {
		t.Error("freshly persisted entry reported stale after reconstruction")
	}
}

type failingStore struct {
	err error
}

func (f *failingStore) Load() (Entry, bool) { return Entry{}, false }
func (f *failingStore) Save(Entry) error    { return f.err }
func (f *failingStore) Remove() error       { return f.err }

func TestSetSurvivesPersistFailure(t *testing.T) {
	errDisk := errors.New("disk full")
	m := New(&failingStore{err: errDisk}, time.Hour)
	p := testPayload()

	if err := m.Set(p); !errors.Is(err, errDisk) {
		t.Fatalf("set error = %v, want %v", err, errDisk)
	}
	e, ok := m.Entry()
	if !ok {
		t.Fatal("in-memory entry lost after persist failure")
	}
	if !reflect.DeepEqual(e.Payload, p) {
		t.Error("payload mangled after persist failure")
	}
	if !m.Valid() {
		t.Error("entry stale after persist failure")
	}
}

func TestSlotReadOnceAtConstruction(t *testing.T) {
	path := filepath.Join(t.TempDir(), "home.json")
	m := New(NewFileStore(path), time.Hour)
	if err := m.Set(testPayload()); err != nil {
		t.Fatalf("set: %v", err)
	}

	// Another process rewriting the slot must not show up in this manager.
	other := `{"featuredFigures":[],"trendingUpdates":[],"stats":{"totalFigures":1,"totalFacts":1},"timestamp":1}`
	if err := os.WriteFile(path, []byte(other), 0o644); err != nil {
		t.Fatal(err)
	}

	e, ok := m.Entry()
	if !ok {
		t.Fatal("entry absent")
	}
	if e.Payload.Stats.TotalFigures != testPayload().Stats.TotalFigures {
		t.Error("manager re-read the slot after construction")
	}
}

func TestEntrySnapshotIsolation(t *testing.T) {
	m := New(NopStore{}, time.Hour)
	if err := m.Set(testPayload()); err != nil {
		t.Fatalf("set: %v", err)
	}

	e, _ := m.Entry()
	e.Payload.FeaturedFigures[0].Name = "mutated"
	e.Payload.TrendingUpdates[0].Title = "mutated"

	fresh, _ := m.Entry()
	if fresh.Payload.FeaturedFigures[0].Name == "mutated" {
		t.Error("returned figures share state with the cache")
	}
	if fresh.Payload.TrendingUpdates[0].Title == "mutated" {
		t.Error("returned updates share state with the cache")
	}
}

func TestEmptyManager(t *testing.T) {
	m := New(NopStore{}, time.Hour)
	if _, ok := m.Entry(); ok {
		t.Error("empty manager returned an entry")
	}
	if m.Valid() {
		t.Error("empty manager reported valid")
	}
	if err := m.Clear(); err != nil {
		t.Errorf("clear on empty manager: %v", err)
	}
}

func TestDefaultTTL(t *testing.T) {
	if got := New(NopStore{}, 0).TTL(); got != DefaultTTL {
		t.Errorf("ttl = %s, want %s", got, DefaultTTL)
	}
}
