// Package figurestore is the Firestore client for figure and fact
// documents. The database itself is a hosted service; this package owns
// the document shapes and the few queries the platform needs.
package figurestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/ehco-tech/ehco/internal/domain"
)

const (
	figuresCollection = "figures"
	factsCollection   = "facts"

	// cachedFieldTTL is how long a denormalized discography or
	// filmography stays fresh before a refresh rewrites it.
	cachedFieldTTL = 24 * time.Hour
)

// ErrNotFound means the requested document does not exist.
var ErrNotFound = errors.New("figure not found")

type Store struct {
	fs        *firestore.Client
	projectID string
}

// New connects to Firestore for the given project. An empty
// credentials path falls back to application default credentials.
func New(ctx context.Context, projectID, credentialsFile string) (*Store, error) {
	if projectID == "" {
		return nil, fmt.Errorf("firestore project not configured")
	}

	conf := &firebase.Config{ProjectID: projectID}

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, conf, opts...)
	if err != nil {
		return nil, fmt.Errorf("initializing firebase app: %w", err)
	}

	fs, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return &Store{fs: fs, projectID: projectID}, nil
}

func (s *Store) Close() error {
	return s.fs.Close()
}

// GetFigure fetches one figure document by its slug ID.
func (s *Store) GetFigure(ctx context.Context, id string) (domain.Figure, error) {
	doc, err := s.fs.Collection(figuresCollection).Doc(id).Get(ctx)
	if err != nil {
		if doc != nil && !doc.Exists() {
			return domain.Figure{}, ErrNotFound
		}
		return domain.Figure{}, fmt.Errorf("fetching figure %s: %w", id, err)
	}

	var f domain.Figure
	if err := doc.DataTo(&f); err != nil {
		return domain.Figure{}, fmt.Errorf("parsing figure %s: %w", id, err)
	}
	return f, nil
}

// ListFigures returns figures ordered by name. A non-positive limit
// returns everything.
func (s *Store) ListFigures(ctx context.Context, limit int) ([]domain.Figure, error) {
	q := s.fs.Collection(figuresCollection).OrderBy("name", firestore.Asc)
	if limit > 0 {
		q = q.Limit(limit)
	}

	iter := q.Documents(ctx)
	var figures []domain.Figure
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterating figures: %w", err)
		}

		var f domain.Figure
		if err := doc.DataTo(&f); err != nil {
			return nil, fmt.Errorf("parsing figure: %w", err)
		}
		figures = append(figures, f)
	}
	return figures, nil
}

// FeaturedFigures returns up to n editorially flagged figures, ordered
// by name.
func (s *Store) FeaturedFigures(ctx context.Context, n int) ([]domain.Figure, error) {
	iter := s.fs.Collection(figuresCollection).
		Where("featured", "==", true).
		OrderBy("name", firestore.Asc).
		Limit(n).
		Documents(ctx)

	var figures []domain.Figure
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterating featured figures: %w", err)
		}

		var f domain.Figure
		if err := doc.DataTo(&f); err != nil {
			return nil, fmt.Errorf("parsing featured figure: %w", err)
		}
		figures = append(figures, f)
	}
	return figures, nil
}

// UpsertFigure writes a whole figure document keyed by its slug.
func (s *Store) UpsertFigure(ctx context.Context, f domain.Figure) error {
	if f.ID == "" {
		return fmt.Errorf("figure ID is required")
	}
	if _, err := s.fs.Collection(figuresCollection).Doc(f.ID).Set(ctx, f); err != nil {
		return fmt.Errorf("writing figure %s: %w", f.ID, err)
	}
	return nil
}

func (s *Store) CountFigures(ctx context.Context) (int, error) {
	return s.countCollection(ctx, figuresCollection)
}

func (s *Store) CountFacts(ctx context.Context) (int, error) {
	return s.countCollection(ctx, factsCollection)
}

// countCollection iterates keys-only snapshots; the collections stay
// small enough that an aggregation pipeline is not worth it.
func (s *Store) countCollection(ctx context.Context, name string) (int, error) {
	iter := s.fs.Collection(name).Select().Documents(ctx)
	count := 0
	for {
		_, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("counting %s: %w", name, err)
		}
		count++
	}
	return count, nil
}

// Stats bundles the site-wide counters for the home surface.
func (s *Store) Stats(ctx context.Context) (domain.Stats, error) {
	figures, err := s.CountFigures(ctx)
	if err != nil {
		return domain.Stats{}, err
	}
	facts, err := s.CountFacts(ctx)
	if err != nil {
		return domain.Stats{}, err
	}
	return domain.Stats{TotalFigures: figures, TotalFacts: facts}, nil
}

// FactsForFigure returns a figure's facts, newest first.
func (s *Store) FactsForFigure(ctx context.Context, figureID string) ([]domain.Fact, error) {
	iter := s.fs.Collection(factsCollection).
		Where("figureId", "==", figureID).
		OrderBy("addedAt", firestore.Desc).
		Documents(ctx)

	var facts []domain.Fact
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterating facts for %s: %w", figureID, err)
		}

		var f domain.Fact
		if err := doc.DataTo(&f); err != nil {
			return nil, fmt.Errorf("parsing fact: %w", err)
		}
		facts = append(facts, f)
	}
	return facts, nil
}

// ValidateFact checks a fact before it is written.
func ValidateFact(f *domain.Fact) error {
	if f.ID == "" {
		return fmt.Errorf("fact ID is required")
	}
	if f.FigureID == "" {
		return fmt.Errorf("figure ID is required")
	}
	if f.Text == "" {
		return fmt.Errorf("fact text is required")
	}
	if f.AddedAt.IsZero() {
		f.AddedAt = time.Now()
	}
	return nil
}

// AddFact writes a fact and bumps the owning figure's fact counter.
func (s *Store) AddFact(ctx context.Context, fact domain.Fact) error {
	if err := ValidateFact(&fact); err != nil {
		return fmt.Errorf("invalid fact: %w", err)
	}

	if _, err := s.fs.Collection(factsCollection).Doc(fact.ID).Set(ctx, fact); err != nil {
		return fmt.Errorf("writing fact %s: %w", fact.ID, err)
	}

	_, err := s.fs.Collection(figuresCollection).Doc(fact.FigureID).Update(ctx, []firestore.Update{
		{Path: "factCount", Value: firestore.Increment(1)},
	})
	if err != nil {
		return fmt.Errorf("bumping fact count for %s: %w", fact.FigureID, err)
	}
	return nil
}

// RefreshDiscography overwrites the denormalized discography on a
// figure document and stamps the refresh time.
func (s *Store) RefreshDiscography(ctx context.Context, figureID string, albums []domain.Album) error {
	_, err := s.fs.Collection(figuresCollection).Doc(figureID).Update(ctx, []firestore.Update{
		{Path: "discography", Value: albums},
		{Path: "discographyUpdatedAt", Value: time.Now()},
	})
	if err != nil {
		return fmt.Errorf("refreshing discography for %s: %w", figureID, err)
	}
	return nil
}

// RefreshFilmography is RefreshDiscography for screen credits.
func (s *Store) RefreshFilmography(ctx context.Context, figureID string, credits []domain.Credit) error {
	_, err := s.fs.Collection(figuresCollection).Doc(figureID).Update(ctx, []firestore.Update{
		{Path: "filmography", Value: credits},
		{Path: "filmographyUpdatedAt", Value: time.Now()},
	})
	if err != nil {
		return fmt.Errorf("refreshing filmography for %s: %w", figureID, err)
	}
	return nil
}

// DiscographyStale reports whether the cached discography needs a
// refresh. A zero timestamp (never refreshed) is always stale.
func DiscographyStale(f domain.Figure, now time.Time) bool {
	return now.Sub(f.DiscographyUpdatedAt) > cachedFieldTTL
}

// FilmographyStale is DiscographyStale for the filmography field.
func FilmographyStale(f domain.Figure, now time.Time) bool {
	return now.Sub(f.FilmographyUpdatedAt) > cachedFieldTTL
}
