package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/dossier"
	"github.com/fwojciec/dossier/goquery"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Logger   *slog.Logger
	Scraper  dossier.Scraper
	Limiter  dossier.ClientLimiter
	Sessions dossier.SessionService
	Sites    *goquery.SiteRegistry

	// Results, when set, receives every scrape result in addition to stdout.
	Results dossier.ResultStore

	// Now is used for relative time arguments.
	Now func() time.Time
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config      string `short:"c" type:"path" env:"DOSSIER_CONFIG" help:"YAML config file"`
	DB          string `env:"DOSSIER_DB" help:"Session database path"`
	LogLevel    string `env:"DOSSIER_LOG_LEVEL" help:"Log level (debug, info, warn, error)"`
	LogFormat   string `env:"DOSSIER_LOG_FORMAT" help:"Log format (text, json)"`
	MetricsAddr string `env:"DOSSIER_METRICS_ADDR" help:"Serve Prometheus metrics on this address"`
	APIKey      string `name:"gemini-api-key" env:"GEMINI_API_KEY" help:"Gemini API key enabling the model fallback"`

	Scrape   ScrapeCmd   `cmd:"" help:"Extract profiles from one or more pages"`
	Sessions SessionsCmd `cmd:"" help:"Inspect recorded scrape sessions"`
	Sites    SitesCmd    `cmd:"" help:"List sites with a dedicated extractor"`
}

// apply overlays the flags that were set onto cfg.
func (c *CLI) apply(cfg *Config) {
	if c.DB != "" {
		cfg.DBPath = c.DB
	}
	if c.LogLevel != "" {
		cfg.LogLevel = c.LogLevel
	}
	if c.LogFormat != "" {
		cfg.LogFormat = c.LogFormat
	}
	if c.MetricsAddr != "" {
		cfg.MetricsAddr = c.MetricsAddr
	}
	if c.Scrape.Render {
		cfg.Render = true
	}
}

// ScrapeCmd is the "scrape" subcommand.
type ScrapeCmd struct {
	URLs        []string      `arg:"" name:"url" help:"Page URLs to scrape"`
	MaxProfiles int           `short:"n" default:"10" help:"Maximum profiles per page"`
	Timeout     time.Duration `short:"t" default:"30s" help:"Overall timeout per page"`
	Client      string        `default:"cli" help:"Client identifier for rate limiting"`
	Render      bool          `env:"DOSSIER_RENDER" help:"Render allow-listed pages in a headless browser"`
	Pretty      bool          `short:"p" help:"Indent JSON output"`
	Out         string        `short:"o" type:"path" help:"Also write one JSON file per page under this directory"`
}

// SessionsCmd groups the session subcommands.
type SessionsCmd struct {
	List  SessionsListCmd  `cmd:"" default:"1" help:"List recent sessions"`
	Prune SessionsPruneCmd `cmd:"" help:"Delete old sessions"`
}

// SessionsListCmd is the "sessions list" subcommand.
type SessionsListCmd struct {
	URL    string `help:"Only sessions for this URL"`
	Status string `help:"Only sessions with this status (success, failed, timeout)"`
	Limit  int    `short:"l" default:"20" help:"Maximum sessions to list"`
}

// SessionsPruneCmd is the "sessions prune" subcommand.
type SessionsPruneCmd struct {
	OlderThan time.Duration `default:"720h" help:"Delete sessions older than this"`
}

// SitesCmd is the "sites" subcommand.
type SitesCmd struct {
	URL string `arg:"" optional:"" help:"Show the extractor used for this URL"`
}
