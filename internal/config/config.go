// Package config loads trendwatch settings from the environment and holds
// the fetch grid the collector walks on every batch pass.
package config

import (
	"fmt"
	"os"
	"time"
)

// Category maps a human-readable category name to the platform's category
// id. An empty ID means "no category filter".
type Category struct {
	Name string
	ID   string
}

// Grid is the fixed work grid for one collector: every region is crossed
// with every category, plus one aggregate and one keyword bucket per region.
type Grid struct {
	Regions    []string
	Categories []Category
	// Keywords holds the per-region search keyword for the keyword bucket.
	Keywords map[string]string
}

// DefaultGrid returns the production fetch grid.
func DefaultGrid() Grid {
	return Grid{
		Regions: []string{"KR", "US"},
		Categories: []Category{
			{Name: "all", ID: ""},
			{Name: "music", ID: "10"},
			{Name: "sports", ID: "17"},
			{Name: "people_blogs", ID: "22"},
			{Name: "comedy", ID: "23"},
			{Name: "entertainment", ID: "24"},
			{Name: "news", ID: "25"},
		},
		Keywords: map[string]string{
			"KR": "LG전자",
			"US": "lg electronics",
		},
	}
}

// Config holds everything read from the environment.
type Config struct {
	APIKey     string
	DataDir    string
	NotifyHost string
	NotifyPort string
	Interval   time.Duration
	Rotate     bool
	Grid       Grid
}

// Load reads configuration from environment variables. Every setting has a
// documented default except the API key, which is required.
func Load() (Config, error) {
	apiKey := os.Getenv("YOUTUBE_API_KEY")
	if apiKey == "" {
		return Config{}, fmt.Errorf("missing credentials: set YOUTUBE_API_KEY environment variable")
	}

	cfg := Config{
		APIKey:     apiKey,
		DataDir:    getEnv("CSV_DATA_PATH", "./data"),
		NotifyHost: getEnv("DASH_IP", "localhost"),
		NotifyPort: getEnv("DASH_PORT", "8050"),
		Interval:   10 * time.Minute,
		Rotate:     os.Getenv("CSV_ROTATE") == "true",
		Grid:       DefaultGrid(),
	}

	if raw := os.Getenv("BATCH_INTERVAL"); raw != "" {
		interval, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid BATCH_INTERVAL %q: %w", raw, err)
		}
		cfg.Interval = interval
	}

	return cfg, nil
}

// getEnv returns the environment value or the fallback when unset.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
