package archive

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ehco-tech/ehco/internal/domain"
)

func testDB(t *testing.T) *Archive {
	t.Helper()
	dir := t.TempDir()
	db, err := Open(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleUpdates() []domain.Update {
	now := time.Now()
	return []domain.Update{
		{ID: "aaa", FigureID: "yuna-seo", Source: "Soompi", Title: "Comeback teaser", Link: "https://a.com", Topic: domain.TopicComeback, Excerpt: "Teaser A", PublishedAt: now.Add(-1 * time.Hour)},
		{ID: "bbb", Source: "Allkpop", Title: "Drama casting news", Link: "https://b.com", Topic: domain.TopicDrama, Excerpt: "Casting B", PublishedAt: now.Add(-2 * time.Hour)},
		{ID: "ccc", Source: "Soompi", Title: "Chart recap", Link: "https://c.com", Topic: domain.TopicGeneral, Excerpt: "Recap C about awards", PublishedAt: now.Add(-48 * time.Hour)},
	}
}

func TestUpsertAndGet(t *testing.T) {
	db := testDB(t)
	updates := sampleUpdates()

	if err := db.UpsertUpdates(updates); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := db.GetUpdates(QueryOpts{})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 updates, got %d", len(got))
	}
	// Should be ordered by published DESC
	if got[0].ID != "aaa" {
		t.Errorf("expected newest first, got %s", got[0].ID)
	}
	if got[0].Topic != domain.TopicComeback {
		t.Errorf("expected topic round-trip, got %s", got[0].Topic)
	}
	if got[0].FigureID != "yuna-seo" {
		t.Errorf("expected figure attribution round-trip, got %q", got[0].FigureID)
	}
}

func TestUpsertRefreshesExisting(t *testing.T) {
	db := testDB(t)
	updates := sampleUpdates()

	if err := db.UpsertUpdates(updates); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	// Update title
	updates[0].Title = "Comeback teaser (updated)"
	if err := db.UpsertUpdates(updates[:1]); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	got, err := db.GetUpdates(QueryOpts{})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 updates after upsert, got %d", len(got))
	}
	if got[0].Title != "Comeback teaser (updated)" {
		t.Errorf("expected updated title, got %q", got[0].Title)
	}
}

func TestUpsertPreservesScore(t *testing.T) {
	db := testDB(t)
	updates := sampleUpdates()

	if err := db.UpsertUpdates(updates); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	updates[0].Score = 8.7
	if err := db.SetScores(updates[:1]); err != nil {
		t.Fatalf("set scores: %v", err)
	}

	// Re-ingesting the same item must not wipe its score.
	if err := db.UpsertUpdates(sampleUpdates()[:1]); err != nil {
		t.Fatalf("re-upsert: %v", err)
	}

	got, err := db.GetUpdates(QueryOpts{})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got[0].Score != 8.7 {
		t.Errorf("expected score preserved across upsert, got %.1f", got[0].Score)
	}
}

func TestQuerySince(t *testing.T) {
	db := testDB(t)
	if err := db.UpsertUpdates(sampleUpdates()); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := db.GetUpdates(QueryOpts{Since: time.Now().Add(-3 * time.Hour)})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 updates within 3h, got %d", len(got))
	}
}

func TestQuerySources(t *testing.T) {
	db := testDB(t)
	if err := db.UpsertUpdates(sampleUpdates()); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := db.GetUpdates(QueryOpts{Sources: []string{"Soompi"}})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 Soompi updates, got %d", len(got))
	}
	for _, u := range got {
		if u.Source != "Soompi" {
			t.Errorf("expected source Soompi, got %s", u.Source)
		}
	}
}

func TestQueryTopics(t *testing.T) {
	db := testDB(t)
	if err := db.UpsertUpdates(sampleUpdates()); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := db.GetUpdates(QueryOpts{Topics: []domain.Topic{domain.TopicComeback, domain.TopicDrama}})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 topical updates, got %d", len(got))
	}
}

func TestQueryFigure(t *testing.T) {
	db := testDB(t)
	if err := db.UpsertUpdates(sampleUpdates()); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := db.GetUpdates(QueryOpts{FigureID: "yuna-seo"})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 update for figure, got %d", len(got))
	}
	if got[0].ID != "aaa" {
		t.Errorf("expected update aaa, got %s", got[0].ID)
	}
}

func TestQuerySearch(t *testing.T) {
	db := testDB(t)
	if err := db.UpsertUpdates(sampleUpdates()); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := db.GetUpdates(QueryOpts{Search: "awards"})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("expected 1 update matching 'awards', got %d", len(got))
	}
	if len(got) > 0 && got[0].ID != "ccc" {
		t.Errorf("expected update ccc, got %s", got[0].ID)
	}
}

func TestQueryCombinedFilters(t *testing.T) {
	db := testDB(t)
	if err := db.UpsertUpdates(sampleUpdates()); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	// Soompi + within 3h = only the comeback teaser
	got, err := db.GetUpdates(QueryOpts{
		Sources: []string{"Soompi"},
		Since:   time.Now().Add(-3 * time.Hour),
	})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("expected 1 update, got %d", len(got))
	}
}

func TestQueryLimit(t *testing.T) {
	db := testDB(t)
	if err := db.UpsertUpdates(sampleUpdates()); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := db.GetUpdates(QueryOpts{Limit: 1})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("expected 1 update with limit, got %d", len(got))
	}
}

func TestScoreOrdering(t *testing.T) {
	db := testDB(t)
	updates := sampleUpdates()
	if err := db.UpsertUpdates(updates); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	updates[0].Score = 5.0
	updates[1].Score = 9.0
	updates[2].Score = 7.0
	if err := db.SetScores(updates); err != nil {
		t.Fatalf("set scores: %v", err)
	}

	got, err := db.GetUpdates(QueryOpts{OrderBy: "score"})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 updates, got %d", len(got))
	}
	if got[0].ID != "bbb" {
		t.Errorf("expected highest score first (bbb), got %s", got[0].ID)
	}
}

func TestTrending(t *testing.T) {
	db := testDB(t)
	updates := sampleUpdates()
	if err := db.UpsertUpdates(updates); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	updates[0].Score = 5.0
	updates[1].Score = 9.0
	updates[2].Score = 7.0
	if err := db.SetScores(updates); err != nil {
		t.Fatalf("set scores: %v", err)
	}

	got, err := db.Trending(time.Now().Add(-72*time.Hour), 2, "")
	if err != nil {
		t.Fatalf("trending: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 trending updates, got %d", len(got))
	}
	if got[0].ID != "bbb" {
		t.Errorf("expected bbb first, got %s", got[0].ID)
	}
}

func TestTrendingTopicFilter(t *testing.T) {
	db := testDB(t)
	if err := db.UpsertUpdates(sampleUpdates()); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := db.Trending(time.Now().Add(-72*time.Hour), 10, domain.TopicDrama)
	if err != nil {
		t.Fatalf("trending: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 drama update, got %d", len(got))
	}
	if got[0].ID != "bbb" {
		t.Errorf("expected bbb, got %s", got[0].ID)
	}
}

func TestNeedsIngest(t *testing.T) {
	db := testDB(t)

	// No last_ingest set — should need ingest
	if !db.NeedsIngest(1 * time.Hour) {
		t.Error("expected NeedsIngest=true when no last_ingest set")
	}

	// Set last ingest
	if err := db.SetLastIngest(); err != nil {
		t.Fatalf("SetLastIngest: %v", err)
	}

	// Just ingested — should not need ingest
	if db.NeedsIngest(1 * time.Hour) {
		t.Error("expected NeedsIngest=false right after SetLastIngest")
	}

	// With zero interval — should always need ingest
	if !db.NeedsIngest(0) {
		t.Error("expected NeedsIngest=true with zero interval")
	}
}

func TestLastIngestMissing(t *testing.T) {
	db := testDB(t)
	if _, err := db.LastIngest(); err == nil {
		t.Error("expected error when no last_ingest set")
	}
}

func TestEmptyDB(t *testing.T) {
	db := testDB(t)

	got, err := db.GetUpdates(QueryOpts{})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected 0 updates in empty db, got %d", len(got))
	}
}

func TestPruneDeletesOldUpdates(t *testing.T) {
	db := testDB(t)
	if err := db.UpsertUpdates(sampleUpdates()); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	// The chart recap is 48h old. Prune anything older than 24h.
	deleted, err := db.Prune(24 * time.Hour)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if deleted != 1 {
		t.Errorf("expected 1 pruned, got %d", deleted)
	}

	got, err := db.GetUpdates(QueryOpts{})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 remaining updates, got %d", len(got))
	}
}

func TestPruneNothingToDelete(t *testing.T) {
	db := testDB(t)
	if err := db.UpsertUpdates(sampleUpdates()); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	deleted, err := db.Prune(365 * 24 * time.Hour)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if deleted != 0 {
		t.Errorf("expected 0 pruned, got %d", deleted)
	}
}

func TestStats(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	if err := db.UpsertUpdates(sampleUpdates()); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	count, size, err := db.Stats(dbPath)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if count != 3 {
		t.Errorf("expected count 3, got %d", count)
	}
	if size == 0 {
		t.Error("expected non-zero db size")
	}
}

func TestCountByTopic(t *testing.T) {
	db := testDB(t)
	if err := db.UpsertUpdates(sampleUpdates()); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	counts, err := db.CountByTopic()
	if err != nil {
		t.Fatalf("CountByTopic: %v", err)
	}
	if counts[domain.TopicComeback] != 1 {
		t.Errorf("expected 1 comeback, got %d", counts[domain.TopicComeback])
	}
	if counts[domain.TopicDrama] != 1 {
		t.Errorf("expected 1 drama, got %d", counts[domain.TopicDrama])
	}
	if counts[domain.TopicGeneral] != 1 {
		t.Errorf("expected 1 general, got %d", counts[domain.TopicGeneral])
	}
}

func TestOpenCreatesDir(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "sub", "deep", "test.db")

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("opening db in nested dir: %v", err)
	}
	db.Close()

	if _, err := os.Stat(filepath.Dir(dbPath)); os.IsNotExist(err) {
		t.Error("expected directory to be created")
	}
}
