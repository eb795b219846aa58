// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/hclsimple"

	"eurobase/internal/errors"
	"eurobase/internal/logging"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version" hcl:"version,optional"`

	// Service contains REST API settings
	Service ServiceConfig `json:"service" hcl:"service,block"`

	// Bulk contains bulk-download facility settings
	Bulk BulkConfig `json:"bulk" hcl:"bulk,block"`

	// Cache contains on-disk cache settings
	Cache CacheConfig `json:"cache" hcl:"cache,block"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging" hcl:"logging,block"`
}

// ServiceConfig contains settings for the REST data API
type ServiceConfig struct {
	// BaseURL is the root of the JSON data API
	BaseURL string `json:"base_url" hcl:"base_url,optional"`

	// Language selects the label language (en, fr, de)
	Language string `json:"language" hcl:"language,optional"`

	// Quota is the maximum category count one request may ask for
	Quota int64 `json:"quota" hcl:"quota,optional"`

	// Concurrency bounds the number of parallel sub-requests
	Concurrency int `json:"concurrency" hcl:"concurrency,optional"`

	// TimeoutSeconds is the per-request timeout
	TimeoutSeconds int `json:"timeout_seconds" hcl:"timeout_seconds,optional"`
}

// BulkConfig contains settings for the bulk-download facility
type BulkConfig struct {
	// BaseURL is the root of the bulk listing service
	BaseURL string `json:"base_url" hcl:"base_url,optional"`

	// Sort is the listing sort parameter; the service requires it to be
	// the first query parameter
	Sort int `json:"sort" hcl:"sort,optional"`
}

// CacheConfig contains cache-related settings
type CacheConfig struct {
	// Enabled enables caching
	Enabled bool `json:"enabled" hcl:"enabled,optional"`

	// Path is the SQLite database file
	Path string `json:"path" hcl:"path,optional"`

	// ExpireSeconds is how long a stored page stays fresh; 0 disables
	// storing, negative means keep forever
	ExpireSeconds int `json:"expire_seconds" hcl:"expire_seconds,optional"`
}

// Languages supported by the dictionary service
var Languages = []string{"en", "fr", "de"}

// Default returns a default configuration
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	cachePath := filepath.Join(homeDir, ".eurobase", "cache.db")

	return &Config{
		Version: "1.0",
		Service: ServiceConfig{
			BaseURL:        "https://ec.europa.eu/eurostat/api/dissemination/statistics/1.0/data",
			Language:       "en",
			Quota:          50,
			Concurrency:    4,
			TimeoutSeconds: 60,
		},
		Bulk: BulkConfig{
			BaseURL: "https://ec.europa.eu/eurostat/estat-navtree-portlet-prod/BulkDownloadListing",
			Sort:    1,
		},
		Cache: CacheConfig{
			Enabled:       true,
			Path:          cachePath,
			ExpireSeconds: 86400, // 24 hours
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load loads configuration from a file. Files ending in .hcl are decoded
// as HCL, everything else as JSON. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	config := Default()

	if strings.HasSuffix(path, ".hcl") {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return config, nil
		}
		if err := hclsimple.DecodeFile(path, nil, config); err != nil {
			return nil, errors.Config("decode hcl config", err)
		}
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, errors.Config("read config file", err)
	}
	if err := json.Unmarshal(data, config); err != nil {
		return nil, errors.Config("decode json config", err)
	}

	return config, nil
}

// Save saves configuration to a file as JSON
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
