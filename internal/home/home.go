// Package home assembles the home-surface payload: featured figures,
// trending updates and site stats, fetched concurrently and cached via
// the home cache.
package home

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ehco-tech/ehco/internal/domain"
	"github.com/ehco-tech/ehco/internal/feature"
	"github.com/ehco-tech/ehco/internal/homecache"
	"github.com/ehco-tech/ehco/internal/trend"
)

// FigureSource is the slice of the figure store the fetcher needs.
type FigureSource interface {
	ListFigures(ctx context.Context, limit int) ([]domain.Figure, error)
	Stats(ctx context.Context) (domain.Stats, error)
}

// UpdateSource is the slice of the update archive the fetcher needs.
type UpdateSource interface {
	GetUpdatesSince(since time.Time) ([]domain.Update, error)
}

// Options tune the assembled payload. Zero values fall back to the
// defaults the home surface ships with.
type Options struct {
	FeaturedSize int
	TrendingSize int
	Window       time.Duration // update lookback
	Weights      trend.SourceWeights
	Now          func() time.Time
}

const (
	defaultTrendingSize = 8
	defaultWindow       = 7 * 24 * time.Hour
)

type Fetcher struct {
	figures FigureSource
	updates UpdateSource
	opts    Options
}

func NewFetcher(figures FigureSource, updates UpdateSource, opts Options) *Fetcher {
	if opts.FeaturedSize <= 0 {
		opts.FeaturedSize = feature.DefaultSize
	}
	if opts.TrendingSize <= 0 {
		opts.TrendingSize = defaultTrendingSize
	}
	if opts.Window <= 0 {
		opts.Window = defaultWindow
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Fetcher{figures: figures, updates: updates, opts: opts}
}

// Fetch pulls figures, recent updates and stats concurrently, then
// ranks and selects. Any failed leg fails the whole fetch; the caller's
// cache keeps whatever state it had.
func (f *Fetcher) Fetch(ctx context.Context) (domain.HomeData, error) {
	now := f.opts.Now()

	var (
		figures []domain.Figure
		updates []domain.Update
		stats   domain.Stats
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		figures, err = f.figures.ListFigures(gCtx, 0)
		return err
	})
	g.Go(func() error {
		var err error
		updates, err = f.updates.GetUpdatesSince(now.Add(-f.opts.Window))
		return err
	})
	g.Go(func() error {
		var err error
		stats, err = f.figures.Stats(gCtx)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.HomeData{}, fmt.Errorf("fetching home data: %w", err)
	}

	ranked := trend.Rank(updates, now, f.opts.Weights)
	trending := ranked
	if len(trending) > f.opts.TrendingSize {
		trending = trending[:f.opts.TrendingSize]
	}

	return domain.HomeData{
		FeaturedFigures: feature.Select(figures, ranked, f.opts.FeaturedSize),
		TrendingUpdates: trending,
		Stats:           stats,
	}, nil
}

// Refresh fetches fresh home data and stores it in the cache. After a
// failed persist the fresh data is still live in the manager's memory;
// the wrapped error tells the caller the slot on disk is behind.
func (f *Fetcher) Refresh(ctx context.Context, cache *homecache.Manager) (domain.HomeData, error) {
	data, err := f.Fetch(ctx)
	if err != nil {
		return domain.HomeData{}, err
	}
	if err := cache.Set(data); err != nil {
		return data, fmt.Errorf("persisting home snapshot: %w", err)
	}
	return data, nil
}
