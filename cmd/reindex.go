package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ehco-tech/ehco/internal/config"
	"github.com/ehco-tech/ehco/internal/figurestore"
	"github.com/ehco-tech/ehco/internal/searchidx"
	"github.com/ehco-tech/ehco/internal/ui"
)

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Rebuild the figure search index",
	Long:  "Push every figure in the store to the search index. Requires search credentials and a figure store.",
	RunE:  runReindex,
}

func runReindex(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	appID, key := cfg.SearchCredentials()
	idx, err := searchidx.New(cfg.Search, appID, key, cfg.SearchIndexName())
	if err != nil {
		return fmt.Errorf("search index: %w", err)
	}

	project := cfg.FirestoreProject()
	if project == "" {
		return fmt.Errorf("reindex requires a figure store; set firestore.project_id or EHCO_FIRESTORE_PROJECT")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	store, err := figurestore.New(ctx, project, cfg.FirestoreCredentials())
	if err != nil {
		return fmt.Errorf("connecting figure store: %w", err)
	}
	defer store.Close()

	figures, err := store.ListFigures(ctx, 0)
	if err != nil {
		return fmt.Errorf("listing figures: %w", err)
	}
	if len(figures) == 0 {
		ui.Info("No figures to index")
		return nil
	}

	if err := idx.SaveFigures(ctx, figures); err != nil {
		return fmt.Errorf("indexing figures: %w", err)
	}

	ui.Success(fmt.Sprintf("Indexed %d figure(s) into %q", len(figures), cfg.SearchIndexName()))
	return nil
}
