package archive

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ehco-tech/ehco/internal/domain"
)

type Archive struct {
	readDB  *sql.DB
	writeDB *sql.DB
}

func Open(dbPath string) (*Archive, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating archive dir: %w", err)
	}

	writeDB, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening write db: %w", err)
	}
	writeDB.SetMaxOpenConns(1)

	readDB, err := sql.Open("sqlite", dbPath+"?mode=ro&_pragma=busy_timeout(5000)")
	if err != nil {
		writeDB.Close()
		return nil, fmt.Errorf("opening read db: %w", err)
	}

	a := &Archive{readDB: readDB, writeDB: writeDB}
	if err := a.init(); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *Archive) init() error {
	_, err := a.writeDB.Exec(`
		CREATE TABLE IF NOT EXISTS updates (
			id         TEXT PRIMARY KEY,
			figure_id  TEXT NOT NULL DEFAULT '',
			source     TEXT NOT NULL,
			title      TEXT NOT NULL,
			link       TEXT NOT NULL,
			topic      TEXT NOT NULL DEFAULT 'general',
			excerpt    TEXT NOT NULL DEFAULT '',
			published  DATETIME NOT NULL,
			fetched_at DATETIME NOT NULL,
			score      REAL NOT NULL DEFAULT 0
		);
		CREATE INDEX IF NOT EXISTS idx_updates_published ON updates(published DESC);
		CREATE INDEX IF NOT EXISTS idx_updates_source ON updates(source);
		CREATE INDEX IF NOT EXISTS idx_updates_topic ON updates(topic);
		CREATE INDEX IF NOT EXISTS idx_updates_figure ON updates(figure_id);

		CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	return nil
}

func (a *Archive) Close() error {
	var errs []error
	if a.readDB != nil {
		errs = append(errs, a.readDB.Close())
	}
	if a.writeDB != nil {
		errs = append(errs, a.writeDB.Close())
	}
	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	return nil
}

// UpsertUpdates inserts or refreshes ingested updates. Scores are left
// alone on conflict: scoring is a separate pass over the archive.
func (a *Archive) UpsertUpdates(updates []domain.Update) error {
	tx, err := a.writeDB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO updates (id, figure_id, source, title, link, topic, excerpt, published, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			figure_id = excluded.figure_id,
			title = excluded.title,
			topic = excluded.topic,
			excerpt = excluded.excerpt,
			fetched_at = excluded.fetched_at
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now()
	for _, u := range updates {
		_, err := stmt.Exec(u.ID, u.FigureID, u.Source, u.Title, u.Link, string(u.Topic), u.Excerpt, u.PublishedAt, now)
		if err != nil {
			return fmt.Errorf("upserting update %s: %w", u.ID, err)
		}
	}

	return tx.Commit()
}

const updateColumns = "id, figure_id, source, title, link, topic, excerpt, published, score"

func (a *Archive) GetUpdates(opts QueryOpts) ([]domain.Update, error) {
	var (
		where []string
		args  []interface{}
	)

	if !opts.Since.IsZero() {
		where = append(where, "published >= ?")
		args = append(args, opts.Since)
	}

	if len(opts.Sources) > 0 {
		placeholders := make([]string, len(opts.Sources))
		for i, s := range opts.Sources {
			placeholders[i] = "?"
			args = append(args, s)
		}
		where = append(where, "source IN ("+strings.Join(placeholders, ",")+")") //nolint:gosec
	}

	if len(opts.Topics) > 0 {
		placeholders := make([]string, len(opts.Topics))
		for i, tp := range opts.Topics {
			placeholders[i] = "?"
			args = append(args, string(tp))
		}
		where = append(where, "topic IN ("+strings.Join(placeholders, ",")+")") //nolint:gosec
	}

	if opts.FigureID != "" {
		where = append(where, "figure_id = ?")
		args = append(args, opts.FigureID)
	}

	if opts.Search != "" {
		where = append(where, "(title LIKE ? OR excerpt LIKE ?)")
		term := "%" + opts.Search + "%"
		args = append(args, term, term)
	}

	query := "SELECT " + updateColumns + " FROM updates"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	if opts.OrderBy == "score" {
		query += " ORDER BY score DESC, published DESC"
	} else {
		query += " ORDER BY published DESC"
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 500
	}
	query += fmt.Sprintf(" LIMIT %d", limit)

	rows, err := a.readDB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying updates: %w", err)
	}
	defer rows.Close()

	return scanUpdates(rows)
}

func (a *Archive) GetUpdatesSince(since time.Time) ([]domain.Update, error) {
	return a.GetUpdates(QueryOpts{Since: since})
}

// Trending returns the top-scored updates published since the cutoff,
// optionally narrowed to one topic.
func (a *Archive) Trending(since time.Time, limit int, topic domain.Topic) ([]domain.Update, error) {
	opts := QueryOpts{Since: since, Limit: limit, OrderBy: "score"}
	if topic != "" {
		opts.Topics = []domain.Topic{topic}
	}
	return a.GetUpdates(opts)
}

func scanUpdates(rows *sql.Rows) ([]domain.Update, error) {
	var updates []domain.Update
	for rows.Next() {
		var (
			u     domain.Update
			topic string
		)
		if err := rows.Scan(&u.ID, &u.FigureID, &u.Source, &u.Title, &u.Link, &topic, &u.Excerpt, &u.PublishedAt, &u.Score); err != nil {
			return nil, fmt.Errorf("scanning update: %w", err)
		}
		u.Topic = domain.Topic(topic)
		updates = append(updates, u)
	}
	return updates, rows.Err()
}

// SetScores writes freshly computed trending scores back to the archive.
func (a *Archive) SetScores(updates []domain.Update) error {
	tx, err := a.writeDB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("UPDATE updates SET score = ? WHERE id = ?")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, u := range updates {
		if _, err := stmt.Exec(u.Score, u.ID); err != nil {
			return fmt.Errorf("scoring update %s: %w", u.ID, err)
		}
	}

	return tx.Commit()
}

// Prune deletes updates published before now-olderThan and reports how
// many rows went away.
func (a *Archive) Prune(olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	res, err := a.writeDB.Exec("DELETE FROM updates WHERE published < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("pruning updates: %w", err)
	}
	return res.RowsAffected()
}

// NeedsIngest reports whether the last ingest is older than the
// interval. A missing or unparsable marker counts as stale.
func (a *Archive) NeedsIngest(interval time.Duration) bool {
	value, err := a.getMeta("last_ingest")
	if err != nil {
		return true
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return true
	}
	return time.Since(t) > interval
}

func (a *Archive) LastIngest() (time.Time, error) {
	value, err := a.getMeta("last_ingest")
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339, value)
}

func (a *Archive) SetLastIngest() error {
	return a.setMeta("last_ingest", time.Now().Format(time.RFC3339))
}

// Stats returns the archived update count and the database file size.
func (a *Archive) Stats(dbPath string) (count int, size int64, err error) {
	if err := a.readDB.QueryRow("SELECT COUNT(*) FROM updates").Scan(&count); err != nil {
		return 0, 0, fmt.Errorf("counting updates: %w", err)
	}
	info, err := os.Stat(dbPath)
	if err != nil {
		return count, 0, fmt.Errorf("statting db: %w", err)
	}
	return count, info.Size(), nil
}

// CountByTopic returns how many archived updates each topic has.
func (a *Archive) CountByTopic() (map[domain.Topic]int, error) {
	rows, err := a.readDB.Query("SELECT topic, COUNT(*) FROM updates GROUP BY topic")
	if err != nil {
		return nil, fmt.Errorf("counting by topic: %w", err)
	}
	defer rows.Close()

	counts := map[domain.Topic]int{}
	for rows.Next() {
		var (
			topic string
			n     int
		)
		if err := rows.Scan(&topic, &n); err != nil {
			return nil, fmt.Errorf("scanning topic count: %w", err)
		}
		counts[domain.Topic(topic)] = n
	}
	return counts, rows.Err()
}

func (a *Archive) getMeta(key string) (string, error) {
	var value string
	err := a.readDB.QueryRow("SELECT value FROM meta WHERE key = ?", key).Scan(&value)
	return value, err
}

func (a *Archive) setMeta(key, value string) error {
	_, err := a.writeDB.Exec(`
		INSERT INTO meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}
