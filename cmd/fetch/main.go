// Package main provides a one-shot CLI that runs a single acquisition and
// prints the records.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"vitidata/internal/config"
	"vitidata/internal/logger"
	"vitidata/internal/render"
	"vitidata/internal/scraper"
	"vitidata/internal/snapshot"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file (optional)")
	category := flag.String("category", "", "Data category (production, processing, commercialization, imports, exports)")
	subcategory := flag.String("subcategory", "", "Subcategory within the category (optional)")
	year := flag.Int("year", 0, "Reference year; 0 aggregates all available years")
	asJSON := flag.Bool("json", false, "Print the full result as JSON instead of a table")
	timeout := flag.Duration("timeout", 5*time.Minute, "Overall acquisition timeout")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.NewLogger("error").Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg.Logging.Level)

	if *category == "" {
		log.Error("please provide a category with -category")
		flag.PrintDefaults()
		os.Exit(1)
	}

	store := snapshot.New(cfg.Snapshot.Dir, cfg.Snapshot.Separator, log.With("component", "snapshot"))
	client := scraper.NewClient(cfg.Scraper, store, log.With("component", "scraper"))

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	start := time.Now()

	result, err := client.Acquire(ctx, *category, *subcategory, *year)
	if err != nil {
		log.Error("acquisition failed", "error", err)
		os.Exit(1)
	}

	log.Info("acquisition complete",
		"records", len(result.Data),
		"source", result.Source,
		"elapsed", time.Since(start))

	if *asJSON {
		encoded, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			log.Error("failed to encode result", "error", err)
			os.Exit(1)
		}

		fmt.Println(string(encoded))

		return
	}

	render.Table(os.Stdout, result.Data)
	fmt.Printf("\n%d records (source: %s)\n", len(result.Data), result.Source)
}
