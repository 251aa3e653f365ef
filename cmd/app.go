package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/ehco-tech/ehco/internal/archive"
	"github.com/ehco-tech/ehco/internal/config"
	"github.com/ehco-tech/ehco/internal/domain"
	"github.com/ehco-tech/ehco/internal/feed"
	"github.com/ehco-tech/ehco/internal/figurestore"
	"github.com/ehco-tech/ehco/internal/home"
	"github.com/ehco-tech/ehco/internal/homecache"
	"github.com/ehco-tech/ehco/internal/trend"
	"github.com/ehco-tech/ehco/internal/tui"
	"github.com/ehco-tech/ehco/internal/update"
)

func runApp(browseMode bool) error {
	// Version check runs alongside the slow startup work; whatever it
	// has found by launch time is shown, otherwise skipped.
	updateCh := make(chan string, 1)
	go func() {
		if r := update.Check(context.Background(), version); r != nil {
			updateCh <- r.LatestVersion
		} else {
			updateCh <- ""
		}
	}()

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	arch, err := archive.Open(config.ArchivePath())
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer arch.Close()

	// The figure store is optional. Without it the home screen degrades
	// to archive-only trending and updates stay unattributed.
	var (
		store   *figurestore.Store
		figures []domain.Figure
	)
	if project := cfg.FirestoreProject(); project != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		store, err = figurestore.New(ctx, project, cfg.FirestoreCredentials())
		cancel()
		if err != nil {
			fmt.Printf("  [warn] figure store unavailable: %v\n", err)
			store = nil
		}
	}
	if store != nil {
		defer store.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		figures, err = store.ListFigures(ctx, 0)
		cancel()
		if err != nil {
			fmt.Printf("  [warn] listing figures: %v\n", err)
		}
	}

	// Ingest if needed
	if flagRefresh || arch.NeedsIngest(cfg.IngestIntervalDuration()) {
		fmt.Println("Fetching feeds...")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		result := feed.FetchAll(ctx, cfg.EnabledSources())
		cancel()

		for _, e := range result.Errors {
			fmt.Printf("  [warn] %v\n", e)
		}

		feed.AttributeFigures(result.Updates, figures)
		ranked := trend.Rank(result.Updates, time.Now(), cfg.SourceWeights())

		if err := arch.UpsertUpdates(ranked); err != nil {
			return fmt.Errorf("archiving updates: %w", err)
		}
		if err := arch.SetScores(ranked); err != nil {
			return fmt.Errorf("storing scores: %w", err)
		}
		arch.SetLastIngest()

		// Auto-prune old updates after ingest
		arch.Prune(cfg.RetentionDuration())
	}

	var slot homecache.Store = homecache.NewFileStore(config.HomeCachePath())
	if flagNoCache {
		slot = homecache.NopStore{}
	}
	cache := homecache.New(slot, cfg.HomeTTLDuration())

	var fetcher *home.Fetcher
	if store != nil {
		fetcher = home.NewFetcher(store, arch, home.Options{
			FeaturedSize: cfg.GetFeaturedSize(),
			TrendingSize: cfg.GetTrendingSize(),
			Weights:      cfg.SourceWeights(),
		})
	}

	// Parse --since
	var since time.Time
	if flagSince != "" {
		d, err := parseSince(flagSince)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		since = time.Now().Add(-d)
	}

	var updateVersion string
	select {
	case updateVersion = <-updateCh:
	case <-time.After(200 * time.Millisecond):
	}

	return tui.Run(tui.RunOpts{
		Cfg:           cfg,
		Archive:       arch,
		Cache:         cache,
		Fetcher:       fetcher,
		Figures:       figures,
		Since:         since,
		BrowseMode:    browseMode,
		UpdateVersion: updateVersion,
	})
}

func parseSince(s string) (time.Duration, error) {
	if len(s) > 1 && s[len(s)-1] == 'd' {
		var days int
		if _, err := fmt.Sscanf(s, "%dd", &days); err == nil {
			return time.Duration(days) * 24 * time.Hour, nil
		}
	}
	return time.ParseDuration(s)
}
