package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/akarpov87/pagevault/internal/flagx"
)

// JsonConfig is an intermediate DTO used only for reading JSON configuration
// files. Durations are expressed in whole seconds. After unmarshalling, its
// fields are copied into the runtime Config.
type JsonConfig struct {
	ServerURL         string `json:"server_url"`
	DatabasePath      string `json:"database_path"`
	ScrapeTimeoutS    int    `json:"scrape_timeout_s"`
	InlineImages      *bool  `json:"inline_images"`
	InlineStylesheets *bool  `json:"inline_stylesheets"`
}

// parseJson loads configuration values from the JSON file named by the
// -c or -config flags. When no file is given, nothing happens. A file that
// cannot be read or parsed is a programming/deployment error and panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.ServerURL != "" {
		config.ServerURL = c.ServerURL
	}
	if c.DatabasePath != "" {
		config.DatabasePath = c.DatabasePath
	}
	if c.ScrapeTimeoutS > 0 {
		config.ScrapeTimeout = time.Duration(c.ScrapeTimeoutS) * time.Second
	}
	if c.InlineImages != nil {
		config.InlineImages = *c.InlineImages
	}
	if c.InlineStylesheets != nil {
		config.InlineStylesheets = *c.InlineStylesheets
	}
}
