package config

import (
	"encoding/json"
	"os"
	"time"

	"puzzlearchive/internal/flagx"
	"puzzlearchive/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify the sync timeout either as a string like
// "30s" or as integer nanoseconds. After parsing, values are copied into the
// runtime Config (which uses time.Duration).
type JsonConfig struct {
	ServerBaseURL   string         `json:"server_base_url"`
	DatabasePath    string         `json:"database_path"`
	ContentCacheDir string         `json:"content_cache_dir"`
	FreeWindowDays  int            `json:"free_window_days"`
	PageSize        int            `json:"page_size"`
	SyncTimeout     timex.Duration `json:"sync_timeout"`
	MetricsEnabled  bool           `json:"metrics_enabled"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// Lookup order for the JSON file path:
//  1. Command-line flags (-c or -config) via flagx.JsonConfigFlags().
//  2. If empty, no JSON is loaded and the function returns.
//
// A JSON file fully specifies the overlaid fields; reads and unmarshal errors
// panic. Intended usage is: defaults -> parseJson -> parseFlags, where later
// stages override earlier ones.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	cfg.ServerBaseURL = jc.ServerBaseURL
	cfg.DatabasePath = jc.DatabasePath
	cfg.ContentCacheDir = jc.ContentCacheDir
	cfg.FreeWindowDays = jc.FreeWindowDays
	cfg.PageSize = jc.PageSize
	cfg.SyncTimeout = time.Duration(jc.SyncTimeout.Duration)
	cfg.MetricsEnabled = jc.MetricsEnabled
}
