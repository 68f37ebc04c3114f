// Package config handles configuration for the capture client, including
// defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the PageVault client.
//
// Fields:
//   - ServerURL: base URL of the ingestion service; a URL stored in the
//     local settings db takes precedence once set.
//   - DatabasePath: path to the local SQLite settings database.
//   - ScrapeTimeout: upper bound for one scrape call, enforced by the
//     orchestrator.
//   - InlineImages / InlineStylesheets: default capture fidelity options.
type Config struct {
	ServerURL         string
	DatabasePath      string
	ScrapeTimeout     time.Duration
	InlineImages      bool
	InlineStylesheets bool
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://localhost:8080"
	c.DatabasePath = "pagevault.db"
	c.ScrapeTimeout = 30 * time.Second
	c.InlineImages = true
	c.InlineStylesheets = true
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
