package cmd

import (
	"context"
	"fmt"
	"time"

	prettytable "github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/ehco-tech/ehco/internal/config"
	"github.com/ehco-tech/ehco/internal/figurestore"
)

var flagFiguresLimit int

var figuresCmd = &cobra.Command{
	Use:   "figures",
	Short: "List figures in the store",
	RunE:  runFigures,
}

func init() {
	figuresCmd.Flags().IntVar(&flagFiguresLimit, "limit", 0, "max figures to list (0 = all)")
}

func runFigures(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	project := cfg.FirestoreProject()
	if project == "" {
		return fmt.Errorf("figures requires a figure store; set firestore.project_id or EHCO_FIRESTORE_PROJECT")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := figurestore.New(ctx, project, cfg.FirestoreCredentials())
	if err != nil {
		return fmt.Errorf("connecting figure store: %w", err)
	}
	defer store.Close()

	figures, err := store.ListFigures(ctx, flagFiguresLimit)
	if err != nil {
		return fmt.Errorf("listing figures: %w", err)
	}

	if len(figures) == 0 {
		fmt.Println("No figures in the store.")
		return nil
	}

	t := prettytable.NewWriter()
	t.SetStyle(prettytable.StyleRounded)
	t.AppendHeader(prettytable.Row{"ID", "Name", "Group", "Category", "Debut", "Facts", "Featured"})

	for _, f := range figures {
		featured := ""
		if f.Featured {
			featured = "★"
		}
		t.AppendRow(prettytable.Row{f.ID, f.Name, f.Group, f.Category, f.DebutYear, f.FactCount, featured})
	}

	fmt.Println(t.Render())
	fmt.Printf("\n%d figure(s)\n", len(figures))
	return nil
}
