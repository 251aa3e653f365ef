package feed

import (
	"context"
	"crypto/sha256"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/ehco-tech/ehco/internal/classify"
	"github.com/ehco-tech/ehco/internal/config"
	"github.com/ehco-tech/ehco/internal/domain"
)

type Fetcher interface {
	Fetch(ctx context.Context, source config.Source) ([]domain.Update, error)
}

type RSSFetcher struct {
	parser *gofeed.Parser
}

func NewRSSFetcher() *RSSFetcher {
	return &RSSFetcher{parser: gofeed.NewParser()}
}

func (f *RSSFetcher) Fetch(ctx context.Context, source config.Source) ([]domain.Update, error) {
	feed, err := f.parser.ParseURLWithContext(source.URL, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", source.Name, err)
	}

	now := time.Now()
	maxAge := now.Add(-7 * 24 * time.Hour)
	updates := make([]domain.Update, 0, len(feed.Items))
	for _, item := range feed.Items {
		pub := now
		if item.PublishedParsed != nil {
			pub = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			pub = *item.UpdatedParsed
		}

		// Skip items older than 7 days
		if pub.Before(maxAge) {
			continue
		}

		desc := item.Description
		if desc == "" {
			desc = item.Content
		}
		excerpt := truncate(stripHTML(desc), 300)

		updates = append(updates, domain.Update{
			ID:          updateID(item.Link),
			Source:      source.Name,
			Title:       item.Title,
			Link:        item.Link,
			Topic:       classify.Classify(item.Title, excerpt),
			Excerpt:     excerpt,
			PublishedAt: pub,
		})
	}
	return updates, nil
}

func updateID(link string) string {
	h := sha256.Sum256([]byte(link))
	return fmt.Sprintf("%x", h[:16])
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

func stripHTML(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// AttributeFigures fills in FigureID on updates whose title or excerpt
// mentions a known figure by name. Longer names are tried first so
// "Yuna Seo" wins over a figure just called "Yuna".
func AttributeFigures(updates []domain.Update, figures []domain.Figure) {
	type candidate struct {
		id   string
		name string
	}
	candidates := make([]candidate, 0, len(figures))
	for _, f := range figures {
		if f.Name == "" {
			continue
		}
		candidates = append(candidates, candidate{id: f.ID, name: strings.ToLower(f.Name)})
	}
	sort.Slice(candidates, func(i, j int) bool {
		return len(candidates[i].name) > len(candidates[j].name)
	})

	for i := range updates {
		if updates[i].FigureID != "" {
			continue
		}
		text := strings.ToLower(updates[i].Title + " " + updates[i].Excerpt)
		for _, c := range candidates {
			if strings.Contains(text, c.name) {
				updates[i].FigureID = c.id
				break
			}
		}
	}
}

type FetchResult struct {
	Updates []domain.Update
	Errors  []error
}

// FetchAll pulls every enabled source concurrently. Per-source failures
// are collected, never fatal: one dead feed must not sink the rest.
func FetchAll(ctx context.Context, sources []config.Source) FetchResult {
	var (
		mu     sync.Mutex
		result FetchResult
		wg     sync.WaitGroup
	)

	fetcher := NewRSSFetcher()

	for _, src := range sources {
		wg.Add(1)
		go func(s config.Source) {
			defer wg.Done()
			updates, err := fetcher.Fetch(ctx, s)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Errors = append(result.Errors, err)
				return
			}
			result.Updates = append(result.Updates, updates...)
		}(src)
	}

	wg.Wait()
	return result
}
