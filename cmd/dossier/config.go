package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fwojciec/dossier"
	"github.com/fwojciec/dossier/cache"
	"github.com/fwojciec/dossier/gemini"
	dhttp "github.com/fwojciec/dossier/http"
	"github.com/fwojciec/dossier/ratelimit"
	"github.com/fwojciec/dossier/rod"
	"github.com/fwojciec/dossier/scrape"
	"gopkg.in/yaml.v3"
)

// Bio extractor names accepted by Config.BioExtractor.
const (
	BioTrafilatura = "trafilatura"
	BioReadability = "readability"
)

// Config holds the settings shared by all commands. Values are layered:
// defaults, then the YAML file, then flags and environment variables.
type Config struct {
	DBPath      string `yaml:"db_path"`
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`
	MetricsAddr string `yaml:"metrics_addr"`

	FetchTimeout     time.Duration `yaml:"fetch_timeout"`
	MaxRetries       int           `yaml:"max_retries"`
	UserAgent        string        `yaml:"user_agent"`
	BlockedThreshold int           `yaml:"blocked_threshold"`

	CacheTTL time.Duration `yaml:"cache_ttl"`

	Render          bool     `yaml:"render"`
	RenderAllowList []string `yaml:"render_allow_list"`
	RenderMaxPages  int      `yaml:"render_max_pages"`

	Model        string `yaml:"model"`
	BioExtractor string `yaml:"bio_extractor"`
	BioFallback  bool   `yaml:"bio_fallback"`
	BioTables    bool   `yaml:"bio_tables"`

	RateLimit  int           `yaml:"rate_limit"`
	RateWindow time.Duration `yaml:"rate_window"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		DBPath:           defaultDBPath(),
		LogLevel:         "info",
		LogFormat:        "text",
		FetchTimeout:     dhttp.DefaultFetchTimeout,
		MaxRetries:       dhttp.DefaultMaxRetries,
		UserAgent:        dhttp.DefaultUserAgent,
		BlockedThreshold: dhttp.DefaultBlockedThreshold,
		CacheTTL:         cache.DefaultTTL,
		RenderAllowList:  scrape.DefaultRenderAllowList,
		RenderMaxPages:   rod.DefaultMaxPages,
		Model:            gemini.DefaultModel,
		BioExtractor:     BioTrafilatura,
		BioFallback:      true,
		RateLimit:        ratelimit.DefaultRequests,
		RateWindow:       ratelimit.DefaultWindow,
	}
}

// LoadConfig returns the defaults overlaid with the YAML file at path.
// An empty path returns the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, dossier.Errorf(dossier.EINVALID, "parse config %s: %v", path, err)
	}
	return cfg, nil
}

// Validate returns an error if the configuration cannot be used.
func (c Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return dossier.Errorf(dossier.EINVALID, "invalid log level %q", c.LogLevel)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return dossier.Errorf(dossier.EINVALID, "invalid log format %q", c.LogFormat)
	}
	switch c.BioExtractor {
	case BioTrafilatura, BioReadability:
	default:
		return dossier.Errorf(dossier.EINVALID, "invalid bio extractor %q", c.BioExtractor)
	}
	if c.DBPath == "" {
		return dossier.Errorf(dossier.EINVALID, "database path required")
	}
	if c.FetchTimeout <= 0 {
		return dossier.Errorf(dossier.EINVALID, "fetch timeout must be positive")
	}
	if c.MaxRetries < 0 {
		return dossier.Errorf(dossier.EINVALID, "max retries must not be negative")
	}
	if c.BlockedThreshold < 0 {
		return dossier.Errorf(dossier.EINVALID, "blocked threshold must not be negative")
	}
	if c.CacheTTL <= 0 {
		return dossier.Errorf(dossier.EINVALID, "cache TTL must be positive")
	}
	if c.RateLimit <= 0 || c.RateWindow <= 0 {
		return dossier.Errorf(dossier.EINVALID, "rate limit and window must be positive")
	}
	return nil
}

func defaultDBPath() string {
	if path := os.Getenv("DOSSIER_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "dossier.db"
	}
	dir := filepath.Join(home, ".dossier")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "dossier.db")
}
