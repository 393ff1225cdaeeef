package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/emberhollow/delvegen/internal/biome"
	"github.com/emberhollow/delvegen/internal/cache"
	"github.com/emberhollow/delvegen/internal/config"
	"github.com/emberhollow/delvegen/internal/logger"
	"github.com/emberhollow/delvegen/internal/server"
)

func main() {
	// Parse command-line flags
	wsPort := flag.Int("wsport", 4443, "WebSocket server port")
	serverConfigFile := flag.String("config", "data/server.yaml", "Path to server config YAML file")
	loggingConfig := flag.String("logging", "data/logging.yaml", "Path to logging config YAML file")
	backend := flag.String("backend", "", "Cache store backend: memory, sqlite, or postgres (overrides config)")
	sqlitePath := flag.String("db", "", "Path to SQLite cache database (overrides config)")
	pgDSN := flag.String("pg-dsn", "", "PostgreSQL DSN for the cache store (overrides config)")
	biomeFile := flag.String("biomes", "", "Path to persisted biome definitions (overrides config)")
	flag.Parse()

	// Initialize logger first (before any logging)
	logConfig, _ := logger.LoadConfig(*loggingConfig)
	logger.Initialize(logConfig)

	logger.Info("Starting delvegen server")

	cfg, err := config.LoadConfig(*serverConfigFile)
	if err != nil {
		logger.Warning("Failed to load server config, using defaults", "path", *serverConfigFile, "error", err)
	}
	if *backend != "" {
		cfg.Cache.Backend = *backend
	}
	if *sqlitePath != "" {
		cfg.Cache.SQLitePath = *sqlitePath
	}
	if *pgDSN != "" {
		cfg.Cache.Backend = "postgres"
		cfg.Cache.PostgresDSN = *pgDSN
	}
	if *biomeFile != "" {
		cfg.Generation.BiomeFile = *biomeFile
	}

	store, err := openStore(cfg.Cache)
	if err != nil {
		log.Fatalf("Failed to open cache store: %v", err)
	}
	logger.Info("Cache store ready", "backend", cfg.Cache.Backend)

	// Biome registry: AI-generated definitions persist across restarts.
	// Without a generator wired, unknown biome keys fall back to the legacy sets.
	biomes := biome.NewRegistry(nil, cfg.Generation.BiomeFile)
	if err := biomes.Load(); err != nil {
		logger.Warning("Failed to load persisted biomes", "path", cfg.Generation.BiomeFile, "error", err)
	}

	srv := server.NewServer(cfg, biomes, nil, store)

	wsAddr := fmt.Sprintf(":%d", *wsPort)
	go func() {
		if err := srv.Start(wsAddr); err != nil {
			log.Fatalf("WebSocket server error: %v", err)
		}
	}()

	logger.Info("Server running", "websocket_port", *wsPort)
	logger.Info("Press Ctrl+C to shutdown")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down server")
	srv.Shutdown()
	logger.Info("Server stopped")
}

// openStore selects the persistent cache backend from config.
func openStore(cfg config.CacheConfig) (cache.Store, error) {
	switch cfg.Backend {
	case "memory":
		return cache.NewMemoryStore(0), nil
	case "postgres":
		return cache.OpenPostgres(cfg.PostgresDSN)
	case "sqlite", "":
		return cache.OpenSQLite(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}
