package homecache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ehco-tech/ehco/internal/domain"
)

// Store is the single-slot persistent store behind the home cache.
type Store interface {
	// Load reads the slot. It reports absent when the slot is missing or
	// holds a malformed value; it never returns an error.
	Load() (Entry, bool)
	// Save writes the entry to the slot, replacing whatever was there.
	Save(Entry) error
	// Remove deletes the slot. Removing an already-empty slot succeeds.
	Remove() error
}

// stored is the on-disk layout: the payload fields flattened alongside an
// integer millisecond timestamp. The pointer distinguishes a missing
// timestamp from a literal zero.
type stored struct {
	domain.HomeData
	Timestamp *int64 `json:"timestamp"`
}

// FileStore persists the slot as a single JSON file.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads and validates the slot file. A value that does not parse or
// carries no timestamp is deleted so the next load starts clean.
func (s *FileStore) Load() (Entry, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return Entry{}, false
	}
	var st stored
	if err := json.Unmarshal(data, &st); err != nil {
		os.Remove(s.path)
		return Entry{}, false
	}
	if st.Timestamp == nil {
		os.Remove(s.path)
		return Entry{}, false
	}
	return Entry{Payload: st.HomeData, CapturedAt: time.UnixMilli(*st.Timestamp)}, true
}

// Save writes the slot atomically: temp file in the same directory, then
// rename, so a crash mid-write never leaves a half-written slot behind.
func (s *FileStore) Save(e Entry) error {
	ms := e.CapturedAt.UnixMilli()
	data, err := json.Marshal(stored{HomeData: e.Payload, Timestamp: &ms})
	if err != nil {
		return fmt.Errorf("encoding home snapshot: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating cache dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing home snapshot: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing home snapshot: %w", err)
	}
	return nil
}

// Remove deletes the slot file. Idempotent.
func (s *FileStore) Remove() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing home snapshot: %w", err)
	}
	return nil
}

// Path returns the slot file location.
func (s *FileStore) Path() string { return s.path }

// NopStore stands in when persistent storage is unavailable (no writable
// cache directory). Every load reports absent and writes go nowhere, so
// the manager behaves like a purely in-memory cache.
type NopStore struct{}

func (NopStore) Load() (Entry, bool) { return Entry{}, false }
func (NopStore) Save(Entry) error    { return nil }
func (NopStore) Remove() error       { return nil }
