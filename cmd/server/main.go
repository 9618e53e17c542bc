// Package main starts the HTTP API for the acquisition service.
package main

import (
	"flag"
	"os"

	"github.com/joho/godotenv"

	"vitidata/internal/cache"
	"vitidata/internal/config"
	"vitidata/internal/logger"
	"vitidata/internal/scraper"
	"vitidata/internal/server"
	"vitidata/internal/snapshot"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file (optional)")
	envFile := flag.String("env", ".env", "Path to .env file (optional)")
	flag.Parse()

	// Best effort: a missing .env file is fine, the environment may
	// already be populated.
	_ = godotenv.Load(*envFile)

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.NewLogger("error").Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg.Logging.Level)
	log.Info("starting vitidata server", "config", cfg.String())

	store := snapshot.New(cfg.Snapshot.Dir, cfg.Snapshot.Separator, log.With("component", "snapshot"))
	client := scraper.NewClient(cfg.Scraper, store, log.With("component", "scraper"))

	var memo *cache.Cache
	if cfg.Cache.Enabled {
		memo = cache.New(cfg.Cache.TTLSeconds, cfg.Cache.KeyPrefix)
	}

	srv := server.New(cfg, client, memo, log.With("component", "server"))

	if err := srv.Run(); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
