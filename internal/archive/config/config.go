// Package config handles configuration for the archive client component,
// including defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the puzzle archive client.
//
// Fields:
//   - ServerBaseURL: base URL of the catalogd HTTP API.
//   - DatabasePath: path to the local SQLite catalog replica.
//   - ContentCacheDir: directory for downloaded content payloads.
//   - FreeWindowDays: size of the rolling free window in calendar days,
//     today included.
//   - PageSize: number of catalog entries per archive page.
//   - SyncTimeout: upper bound for one catalog sync; zero means no bound.
//   - MetricsEnabled: whether Prometheus collectors are registered.
type Config struct {
	ServerBaseURL   string
	DatabasePath    string
	ContentCacheDir string
	FreeWindowDays  int
	PageSize        int
	SyncTimeout     time.Duration
	MetricsEnabled  bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:8080"
	c.DatabasePath = "archive.db"
	c.ContentCacheDir = "content"
	c.FreeWindowDays = 7
	c.PageSize = 30
	c.SyncTimeout = 30 * time.Second
	c.MetricsEnabled = false
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
