// Package main runs the standalone REST API server: card corpus lookups,
// synergy recommendations and greedy commander deck builds.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"github.com/desktopmtg/desktopmtg/internal/api"
	"github.com/desktopmtg/desktopmtg/internal/config"
	"github.com/desktopmtg/desktopmtg/internal/events"
	"github.com/desktopmtg/desktopmtg/internal/mtg/recommendations"
	"github.com/desktopmtg/desktopmtg/internal/search"
	"github.com/desktopmtg/desktopmtg/internal/storage"
	"github.com/desktopmtg/desktopmtg/internal/storage/repository"
	"github.com/desktopmtg/desktopmtg/internal/version"
)

var (
	port       = flag.Int("port", 0, "API server port (overrides settings)")
	dbPath     = flag.String("db-path", "", "Database path (default: ~/.desktopmtg/cards.db)")
	watchFlag  = flag.Bool("watch-settings", false, "Reload settings when the file changes")
	configPath = flag.String("config", "", "Settings file path (default: ~/.desktopmtg/settings.toml)")
)

func main() {
	flag.Parse()

	settings, err := loadSettings(*configPath)
	if err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}
	if *port != 0 {
		settings.API.Port = *port
	}

	finalDBPath := *dbPath
	if finalDBPath == "" {
		finalDBPath = settings.Database.Path
	}
	if finalDBPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Failed to get home directory: %v", err)
		}
		finalDBPath = filepath.Join(home, ".desktopmtg", "cards.db")
	}

	dbConfig := storage.DefaultConfig(finalDBPath)
	dbConfig.AutoMigrate = true
	db, err := storage.Open(dbConfig)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	repo := repository.NewCardRepository(db.Conn())

	searcher, err := buildSearcher(settings)
	if err != nil {
		log.Fatalf("Failed to configure search client: %v", err)
	}

	dispatcher := events.NewDispatcher()
	tracer := events.NewTracer(dispatcher)

	orchestrator := recommendations.NewOrchestrator(
		searcher,
		repo,
		settings,
		tracer,
		log.Default(),
	)

	server := api.NewServer(api.Dependencies{
		Settings:        settings,
		Orchestrator:    orchestrator,
		Repo:            repo,
		Dispatcher:      dispatcher,
		PersistSettings: true,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if *watchFlag {
		startSettingsWatcher(ctx, *configPath, settings)
	}

	if err := server.Start(); err != nil {
		log.Fatalf("Failed to start API server: %v", err)
	}
	fmt.Printf("API server %s running at http://localhost:%d\n", version.GetVersion(), settings.API.Port)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	fmt.Println("Shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}

func loadSettings(path string) (*config.Settings, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

// buildSearcher wires the rate-limited HTTP client behind the result cache.
func buildSearcher(settings *config.Settings) (*search.CachedClient, error) {
	timeout, err := settings.GetSearchTimeout()
	if err != nil {
		return nil, err
	}
	ttl, err := settings.GetCacheTTL()
	if err != nil {
		return nil, err
	}

	client := search.NewClient(search.ClientOptions{
		BaseURL:    settings.Search.BaseURL,
		RateLimit:  rate.Limit(settings.Search.RateLimit),
		Timeout:    timeout,
		MaxRetries: settings.Search.MaxRetries,
	})
	return search.NewCachedClient(client, ttl, settings.Search.CacheSize), nil
}

// startSettingsWatcher hot-reloads scoring settings. The settings struct is
// shared by pointer, so updated values apply to subsequent requests.
func startSettingsWatcher(ctx context.Context, path string, settings *config.Settings) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Printf("Settings watcher disabled: %v", err)
			return
		}
		path = filepath.Join(home, ".desktopmtg", "settings.toml")
	}

	watcher := config.NewWatcher(path, settings,
		func(updated *config.Settings) {
			*settings = *updated
			log.Printf("Settings reloaded from %s", path)
		},
		func(err error) {
			log.Printf("Settings reload error: %v", err)
		},
	)

	go func() {
		if err := watcher.Watch(ctx); err != nil && ctx.Err() == nil {
			log.Printf("Settings watcher stopped: %v", err)
		}
	}()
}
