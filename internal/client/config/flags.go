package config

import (
	"flag"
	"os"
	"time"

	"github.com/akarpov87/pagevault/internal/flagx"
)

// parseFlags populates selected client Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-s string   server base URL
//	-d string   settings database path
//	-t int      scrape timeout, seconds
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-s", "-d", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.ServerURL, "s", config.ServerURL, "server base URL")
	fs.StringVar(&config.DatabasePath, "d", config.DatabasePath, "settings database path")

	scrapeTimeout := fs.Int("t", int(config.ScrapeTimeout.Seconds()), "scrape timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.ScrapeTimeout = time.Duration(*scrapeTimeout) * time.Second
}
