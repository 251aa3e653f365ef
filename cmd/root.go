package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	flagSince   string
	flagRefresh bool
	flagNoCache bool
	flagConfig  string
)

var rootCmd = &cobra.Command{
	Use:   "ehco",
	Short: "K-pop figure tracker",
	Long:  "ehco tracks K-pop public figures: a cached home snapshot of featured figures and trending updates, plus a two-pane update browser.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(false)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file")
	rootCmd.Flags().StringVar(&flagSince, "since", "", "only show updates from the last duration (e.g., 7d, 24h)")
	rootCmd.Flags().BoolVar(&flagRefresh, "refresh", false, "force feed ingest before launching")
	rootCmd.Flags().BoolVar(&flagNoCache, "no-cache", false, "skip the home snapshot slot for this run")

	browseCmd.Flags().StringVar(&flagSince, "since", "", "only show updates from the last duration (e.g., 7d, 24h)")
	browseCmd.Flags().BoolVar(&flagRefresh, "refresh", false, "force feed ingest before launching")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(reindexCmd)
	rootCmd.AddCommand(figuresCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(pruneCmd)
	rootCmd.AddCommand(statsCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ehco %s (commit: %s, built: %s)\n", version, commit, date)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}
