package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ehco-tech/ehco/internal/archive"
	"github.com/ehco-tech/ehco/internal/config"
	"github.com/ehco-tech/ehco/internal/domain"
	"github.com/ehco-tech/ehco/internal/feed"
	"github.com/ehco-tech/ehco/internal/figurestore"
	"github.com/ehco-tech/ehco/internal/trend"
	"github.com/ehco-tech/ehco/internal/ui"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Fetch feeds and archive updates",
	Long:  "Fetch every enabled source, attribute updates to figures, rank them, and store the result in the local archive.",
	RunE:  runIngest,
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	arch, err := archive.Open(config.ArchivePath())
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer arch.Close()

	ui.Header("ehco ingest")

	const totalSteps = 5

	ui.Step(1, totalSteps, fmt.Sprintf("Fetching %d feed(s)", len(cfg.EnabledSources())))
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	result := feed.FetchAll(ctx, cfg.EnabledSources())
	cancel()
	for _, e := range result.Errors {
		ui.Warning(e.Error())
	}
	ui.Success(fmt.Sprintf("%d update(s) fetched", len(result.Updates)))

	ui.Step(2, totalSteps, "Attributing figures")
	figures := loadFigures(cfg)
	feed.AttributeFigures(result.Updates, figures)
	attributed := 0
	for _, u := range result.Updates {
		if u.FigureID != "" {
			attributed++
		}
	}
	if len(figures) == 0 {
		ui.Info("No figure store configured, skipping attribution")
	} else {
		ui.Success(fmt.Sprintf("%d update(s) attributed", attributed))
	}

	ui.Step(3, totalSteps, "Ranking updates")
	ranked := trend.Rank(result.Updates, time.Now(), cfg.SourceWeights())

	ui.Step(4, totalSteps, "Archiving")
	if err := arch.UpsertUpdates(ranked); err != nil {
		return fmt.Errorf("archiving updates: %w", err)
	}
	if err := arch.SetScores(ranked); err != nil {
		return fmt.Errorf("storing scores: %w", err)
	}
	arch.SetLastIngest()

	ui.Step(5, totalSteps, "Pruning old updates")
	deleted, err := arch.Prune(cfg.RetentionDuration())
	if err != nil {
		ui.Warning(err.Error())
	} else if deleted > 0 {
		ui.Success(fmt.Sprintf("%d old update(s) pruned", deleted))
	}

	ui.Success(fmt.Sprintf("Archived %d update(s)", len(ranked)))
	return nil
}

// loadFigures pulls the roster for attribution; an unconfigured or
// unreachable store just means unattributed updates.
func loadFigures(cfg *config.Config) []domain.Figure {
	project := cfg.FirestoreProject()
	if project == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, err := figurestore.New(ctx, project, cfg.FirestoreCredentials())
	if err != nil {
		ui.Warning(fmt.Sprintf("figure store unavailable: %v", err))
		return nil
	}
	defer store.Close()

	figures, err := store.ListFigures(ctx, 0)
	if err != nil {
		ui.Warning(fmt.Sprintf("listing figures: %v", err))
		return nil
	}
	return figures
}
