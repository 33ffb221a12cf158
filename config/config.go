// Package config manages application configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"mvtrack/retry"
)

// Config holds all application configuration for chart tracking operations.
type Config struct {
	// APIKeys are the YouTube Data API keys, tried in order as quota runs out
	APIKeys []string `json:"api_keys"`

	// CSVPath is the location of the chart CSV (default: "data.csv")
	CSVPath string `json:"csv_path"`
	// HistoryPath is the location of the update-run history file
	HistoryPath string `json:"history_path"`
	// LockTimeout is the maximum time to wait for the chart file lock
	LockTimeout time.Duration `json:"lock_timeout"`

	// ChartYear selects which year's songs reports cover
	ChartYear int `json:"chart_year"`

	// RequestTimeout is the maximum time for one API request
	RequestTimeout time.Duration `json:"request_timeout"`
	// RatePerSecond throttles API requests during full updates
	RatePerSecond float64 `json:"rate_per_second"`
	// CacheTTL is how long fetched statistics stay fresh (0 disables caching)
	CacheTTL time.Duration `json:"cache_ttl"`
	// MaxConsecutiveFailures aborts a full update after this many failed
	// batch requests in a row
	MaxConsecutiveFailures int `json:"max_consecutive_failures"`

	// MaxRetries is the maximum number of retries for failed operations
	MaxRetries int `json:"max_retries"`
	// InitialBackoff is the initial backoff duration for retries
	InitialBackoff time.Duration `json:"initial_backoff"`
	// MaxBackoff is the maximum backoff duration for retries
	MaxBackoff time.Duration `json:"max_backoff"`
	// BackoffMultiplier is the multiplier for exponential backoff (must be > 1)
	BackoffMultiplier float64 `json:"backoff_multiplier"`
}

// DefaultConfig returns configuration with safe defaults.
func DefaultConfig() *Config {
	return &Config{
		CSVPath:                "data.csv",
		HistoryPath:            "history.json",
		LockTimeout:            5 * time.Second,
		ChartYear:              2024,
		RequestTimeout:         30 * time.Second,
		RatePerSecond:          2,
		CacheTTL:               1 * time.Hour,
		MaxConsecutiveFailures: 3,
		MaxRetries:             5,
		InitialBackoff:         1 * time.Second,
		MaxBackoff:             30 * time.Second,
		BackoffMultiplier:      2.0,
	}
}

// Load loads configuration from environment variables, config file, and applies defaults.
// Priority: env vars > config file > defaults. A .env file in the working
// directory is read into the environment first, so the API key can live
// there instead of the shell profile.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	// The .env file is optional
	godotenv.Load()

	// Try to load from config file
	if err := cfg.loadFromFile(); err != nil {
		// Config file is optional
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	// Override with environment variables
	cfg.loadFromEnv()

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile attempts to load config from mvtrack.json in current directory or home directory.
func (c *Config) loadFromFile() error {
	paths := []string{
		"mvtrack.json",
		filepath.Join(os.Getenv("HOME"), ".config", "mvtrack", "mvtrack.json"),
	}

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return err
		}

		if err := json.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		return nil
	}

	return os.ErrNotExist
}

// loadFromEnv overrides config with environment variables.
func (c *Config) loadFromEnv() {
	if v := os.Getenv("YOUTUBE_API_KEY"); v != "" {
		c.APIKeys = splitKeys(v)
	}
	if v := os.Getenv("MVTRACK_CSV_PATH"); v != "" {
		c.CSVPath = v
	}
	if v := os.Getenv("MVTRACK_HISTORY_PATH"); v != "" {
		c.HistoryPath = v
	}
	if v := os.Getenv("MVTRACK_LOCK_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.LockTimeout = d
		}
	}
	if v := os.Getenv("MVTRACK_CHART_YEAR"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.ChartYear = n
		}
	}
	if v := os.Getenv("MVTRACK_REQUEST_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.RequestTimeout = d
		}
	}
	if v := os.Getenv("MVTRACK_RATE_PER_SECOND"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.RatePerSecond = f
		}
	}
	if v := os.Getenv("MVTRACK_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.CacheTTL = d
		}
	}
	if v := os.Getenv("MVTRACK_MAX_CONSECUTIVE_FAILURES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxConsecutiveFailures = n
		}
	}
	if v := os.Getenv("MVTRACK_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxRetries = n
		}
	}
	if v := os.Getenv("MVTRACK_INITIAL_BACKOFF"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.InitialBackoff = d
		}
	}
	if v := os.Getenv("MVTRACK_MAX_BACKOFF"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.MaxBackoff = d
		}
	}
}

// splitKeys parses a comma-separated API key list, dropping empty entries.
func splitKeys(s string) []string {
	var keys []string
	for _, k := range strings.Split(s, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// RetryConfig converts the retry knobs into a retry.Config.
func (c *Config) RetryConfig() *retry.Config {
	rc := retry.DefaultConfig()
	rc.MaxRetries = c.MaxRetries
	rc.InitialBackoff = c.InitialBackoff
	rc.MaxBackoff = c.MaxBackoff
	rc.Multiplier = c.BackoffMultiplier
	return &rc
}

// Validate checks that configuration values are valid and consistent.
// It returns an error if any configuration value is invalid.
func (c *Config) Validate() error {
	if c.CSVPath == "" {
		return fmt.Errorf("csv_path must not be empty")
	}
	if c.HistoryPath == "" {
		return fmt.Errorf("history_path must not be empty")
	}
	if c.LockTimeout <= 0 {
		return fmt.Errorf("lock_timeout must be positive")
	}
	if c.ChartYear <= 0 {
		return fmt.Errorf("chart_year must be positive")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive")
	}
	if c.RatePerSecond <= 0 {
		return fmt.Errorf("rate_per_second must be positive")
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("cache_ttl must be non-negative")
	}
	if c.MaxConsecutiveFailures <= 0 {
		return fmt.Errorf("max_consecutive_failures must be positive")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be non-negative")
	}
	if c.InitialBackoff <= 0 {
		return fmt.Errorf("initial_backoff must be positive")
	}
	if c.MaxBackoff <= 0 {
		return fmt.Errorf("max_backoff must be positive")
	}
	if c.MaxBackoff < c.InitialBackoff {
		return fmt.Errorf("max_backoff must be >= initial_backoff")
	}
	if c.BackoffMultiplier <= 1 {
		return fmt.Errorf("backoff_multiplier must be > 1")
	}
	return nil
}
