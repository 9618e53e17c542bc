// Package config provides configuration management for the acquisition service.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrMissingBaseURL     = errors.New("scraper.base_url is required")
	ErrInvalidMaxAttempts = errors.New("scraper.retry.max_attempts must be at least 1")
	ErrInvalidBackoff     = errors.New("scraper.retry.backoff_factor must be non-negative")
	ErrInvalidTimeout     = errors.New("scraper.retry.timeout_sec must be at least 1")
	ErrInvalidWorkers     = errors.New("scraper.multi_year_workers must be at least 1")
	ErrMissingSnapshotDir = errors.New("snapshot.dir is required")
	ErrInvalidCacheTTL    = errors.New("cache.ttl_seconds must be non-negative")
	ErrMissingServerAddr  = errors.New("server.addr is required")
	ErrInvalidLogLevel    = errors.New("logging.level must be one of: debug, info, warn, error")
)

// Config represents the complete service configuration.
type Config struct {
	Scraper  ScraperConfig  `yaml:"scraper"`
	Snapshot SnapshotConfig `yaml:"snapshot"`
	Cache    CacheConfig    `yaml:"cache"`
	Server   ServerConfig   `yaml:"server"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ScraperConfig contains settings for the live-fetch pipeline.
type ScraperConfig struct {
	BaseURL          string      `yaml:"base_url"`
	Retry            RetryPolicy `yaml:"retry"`
	MultiYearWorkers int         `yaml:"multi_year_workers"`
}

// RetryPolicy defines retry behavior for transient upstream failures.
type RetryPolicy struct {
	MaxAttempts   int     `yaml:"max_attempts"`
	BackoffFactor float64 `yaml:"backoff_factor"`
	TimeoutSec    int     `yaml:"timeout_sec"`
}

// SnapshotConfig locates the local CSV snapshot store.
type SnapshotConfig struct {
	Dir       string `yaml:"dir"`
	Separator string `yaml:"separator"`
}

// CacheConfig controls the response memoization layer.
type CacheConfig struct {
	Enabled    bool   `yaml:"enabled"`
	TTLSeconds int    `yaml:"ttl_seconds"`
	KeyPrefix  string `yaml:"key_prefix"`
}

// ServerConfig contains HTTP API settings.
type ServerConfig struct {
	Addr   string   `yaml:"addr"`
	Tokens []string `yaml:"tokens"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when no file is provided.
func Default() *Config {
	return &Config{
		Scraper: ScraperConfig{
			BaseURL: "http://vitibrasil.cnpuv.embrapa.br/index.php",
			Retry: RetryPolicy{
				MaxAttempts:   3,
				BackoffFactor: 1,
				TimeoutSec:    10,
			},
			MultiYearWorkers: 4,
		},
		Snapshot: SnapshotConfig{
			Dir:       "data",
			Separator: ";",
		},
		Cache: CacheConfig{
			Enabled:    true,
			TTLSeconds: 3600,
			KeyPrefix:  "vitidata",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from a YAML file on top of the defaults,
// then applies environment overrides.
func LoadConfig(filepath string) (*Config, error) {
	cfg := Default()

	if filepath != "" {
		data, err := os.ReadFile(filepath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// applyEnv overrides file values with environment variables when set.
// The process environment may have been seeded from a .env file.
func (c *Config) applyEnv() {
	if v := os.Getenv("VITIDATA_BASE_URL"); v != "" {
		c.Scraper.BaseURL = v
	}

	if v := os.Getenv("VITIDATA_SNAPSHOT_DIR"); v != "" {
		c.Snapshot.Dir = v
	}

	if v := os.Getenv("VITIDATA_ADDR"); v != "" {
		c.Server.Addr = v
	}

	if v := os.Getenv("VITIDATA_API_TOKEN"); v != "" {
		c.Server.Tokens = append(c.Server.Tokens, v)
	}

	if v := os.Getenv("VITIDATA_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}

	if v := os.Getenv("VITIDATA_CACHE_TTL"); v != "" {
		if ttl, err := strconv.Atoi(v); err == nil {
			c.Cache.TTLSeconds = ttl
		}
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Scraper.BaseURL == "" {
		return ErrMissingBaseURL
	}

	if c.Scraper.Retry.MaxAttempts < 1 {
		return ErrInvalidMaxAttempts
	}

	if c.Scraper.Retry.BackoffFactor < 0 {
		return ErrInvalidBackoff
	}

	if c.Scraper.Retry.TimeoutSec < 1 {
		return ErrInvalidTimeout
	}

	if c.Scraper.MultiYearWorkers < 1 {
		return ErrInvalidWorkers
	}

	if c.Snapshot.Dir == "" {
		return ErrMissingSnapshotDir
	}

	if c.Cache.TTLSeconds < 0 {
		return ErrInvalidCacheTTL
	}

	if c.Server.Addr == "" {
		return ErrMissingServerAddr
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	return nil
}

// GetRetryDelay returns the delay before the given attempt. With a backoff
// factor of 1 the sequence is 0s, 1s, 2s, matching the upstream retry policy.
func (rp *RetryPolicy) GetRetryDelay(attempt int) time.Duration {
	if attempt <= 1 {
		return 0
	}

	return time.Duration(rp.BackoffFactor*float64(attempt-1)*1000) * time.Millisecond
}

// GetTimeout returns the HTTP client timeout.
func (rp *RetryPolicy) GetTimeout() time.Duration {
	return time.Duration(rp.TimeoutSec) * time.Second
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{BaseURL: %s, MaxAttempts: %d, SnapshotDir: %s, Addr: %s}",
		c.Scraper.BaseURL,
		c.Scraper.Retry.MaxAttempts,
		c.Snapshot.Dir,
		c.Server.Addr,
	)
}
