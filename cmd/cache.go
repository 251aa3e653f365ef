package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ehco-tech/ehco/internal/config"
	"github.com/ehco-tech/ehco/internal/homecache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the home snapshot slot",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show home snapshot details",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		path := config.HomeCachePath()
		mgr := homecache.New(homecache.NewFileStore(path), cfg.HomeTTLDuration())

		entry, ok := mgr.Entry()
		if !ok {
			fmt.Println("No home snapshot cached.")
			return nil
		}

		state := "stale"
		if mgr.Valid() {
			state = "fresh"
		}

		fmt.Printf("Slot: %s\n", path)
		fmt.Printf("Captured: %s (%s)\n", entry.CapturedAt.Format(time.RFC1123), humanize.Time(entry.CapturedAt))
		fmt.Printf("State: %s (TTL %s)\n", state, mgr.TTL())
		fmt.Printf("Featured figures: %d\n", len(entry.Payload.FeaturedFigures))
		fmt.Printf("Trending updates: %d\n", len(entry.Payload.TrendingUpdates))
		fmt.Printf("Store stats: %d figures, %d facts\n", entry.Payload.Stats.TotalFigures, entry.Payload.Stats.TotalFacts)

		if info, err := os.Stat(path); err == nil {
			fmt.Printf("Size: %s\n", humanize.Bytes(uint64(info.Size())))
		}
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the cached home snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		mgr := homecache.New(homecache.NewFileStore(config.HomeCachePath()), cfg.HomeTTLDuration())
		if err := mgr.Clear(); err != nil {
			return fmt.Errorf("clearing snapshot: %w", err)
		}
		fmt.Println("Home snapshot cleared.")
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}
