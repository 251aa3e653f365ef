package cmd

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ehco-tech/ehco/internal/archive"
	"github.com/ehco-tech/ehco/internal/catalog"
	"github.com/ehco-tech/ehco/internal/config"
	"github.com/ehco-tech/ehco/internal/figurestore"
	"github.com/ehco-tech/ehco/internal/home"
	"github.com/ehco-tech/ehco/internal/homecache"
	"github.com/ehco-tech/ehco/internal/screen"
	"github.com/ehco-tech/ehco/internal/searchidx"
	"github.com/ehco-tech/ehco/internal/server"
)

var flagListen string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP content API",
	Long:  "Serve the home snapshot, figures, updates and search over HTTP.",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagListen, "listen", "", "listen address (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	project := cfg.FirestoreProject()
	if project == "" {
		return fmt.Errorf("serve requires a figure store; set firestore.project_id or EHCO_FIRESTORE_PROJECT")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	store, err := figurestore.New(ctx, project, cfg.FirestoreCredentials())
	cancel()
	if err != nil {
		return fmt.Errorf("connecting figure store: %w", err)
	}
	defer store.Close()

	arch, err := archive.Open(config.ArchivePath())
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer arch.Close()

	cache := homecache.New(homecache.NewFileStore(config.HomeCachePath()), cfg.HomeTTLDuration())

	fetcher := home.NewFetcher(store, arch, home.Options{
		FeaturedSize: cfg.GetFeaturedSize(),
		TrendingSize: cfg.GetTrendingSize(),
		Weights:      cfg.SourceWeights(),
	})

	appID, key := cfg.SearchCredentials()
	idx, err := searchidx.New(cfg.Search, appID, key, cfg.SearchIndexName())
	if err != nil {
		idx = searchidx.Noop()
	}

	var cat catalog.Client
	if key := cfg.CatalogKey(); key != "" {
		client, err := catalog.New(cfg.Catalog, key)
		if err != nil {
			log.Printf("WARN: catalog disabled: %v", err)
		} else {
			cat = client
		}
	}

	var scr screen.Client
	if key := cfg.ScreenKey(); key != "" {
		client, err := screen.New(cfg.Screen, key)
		if err != nil {
			log.Printf("WARN: screen metadata disabled: %v", err)
		} else {
			scr = client
		}
	}

	srv := server.New(server.Deps{
		Cache:   cache,
		Fetcher: fetcher,
		Figures: store,
		Updates: arch,
		Search:  idx,
		Catalog: cat,
		Screen:  scr,
	})

	addr := cfg.ListenAddr()
	if flagListen != "" {
		addr = flagListen
	}

	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      srv.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine so shutdown can be handled gracefully
	go func() {
		log.Printf("ehco API listening on %s", addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("Server stopped")
	return nil
}
