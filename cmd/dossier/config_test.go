package main_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/dossier"
	main "github.com/fwojciec/dossier/cmd/dossier"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dossier.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("empty path returns defaults", func(t *testing.T) {
		t.Parallel()

		cfg, err := main.LoadConfig("")

		require.NoError(t, err)
		assert.Equal(t, main.DefaultConfig(), cfg)
		require.NoError(t, cfg.Validate())
	})

	t.Run("file overrides defaults", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, `
db_path: /tmp/sessions.db
log_format: json
fetch_timeout: 8s
max_retries: 4
cache_ttl: 1h
render: true
render_allow_list:
  - example.com/leadership
bio_extractor: readability
bio_fallback: false
bio_tables: true
blocked_threshold: 2000
rate_limit: 3
rate_window: 30s
`)

		cfg, err := main.LoadConfig(path)

		require.NoError(t, err)
		assert.Equal(t, "/tmp/sessions.db", cfg.DBPath)
		assert.Equal(t, "json", cfg.LogFormat)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, 8*time.Second, cfg.FetchTimeout)
		assert.Equal(t, 4, cfg.MaxRetries)
		assert.Equal(t, time.Hour, cfg.CacheTTL)
		assert.True(t, cfg.Render)
		assert.Equal(t, []string{"example.com/leadership"}, cfg.RenderAllowList)
		assert.Equal(t, main.BioReadability, cfg.BioExtractor)
		assert.False(t, cfg.BioFallback)
		assert.True(t, cfg.BioTables)
		assert.Equal(t, 2000, cfg.BlockedThreshold)
		assert.Equal(t, 3, cfg.RateLimit)
		assert.Equal(t, 30*time.Second, cfg.RateWindow)
		require.NoError(t, cfg.Validate())
	})

	t.Run("empty file keeps defaults", func(t *testing.T) {
		t.Parallel()

		cfg, err := main.LoadConfig(writeConfig(t, ""))

		require.NoError(t, err)
		assert.Equal(t, main.DefaultConfig(), cfg)
	})

	t.Run("unknown keys are rejected", func(t *testing.T) {
		t.Parallel()

		_, err := main.LoadConfig(writeConfig(t, "db_paht: x.db\n"))

		require.Error(t, err)
		assert.Equal(t, dossier.EINVALID, dossier.ErrorCode(err))
	})

	t.Run("missing file is an error", func(t *testing.T) {
		t.Parallel()

		_, err := main.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))

		require.Error(t, err)
	})
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		modify func(*main.Config)
		want   string
	}{
		{"log level", func(c *main.Config) { c.LogLevel = "verbose" }, "log level"},
		{"log format", func(c *main.Config) { c.LogFormat = "xml" }, "log format"},
		{"bio extractor", func(c *main.Config) { c.BioExtractor = "boilerpipe" }, "bio extractor"},
		{"db path", func(c *main.Config) { c.DBPath = "" }, "database path"},
		{"fetch timeout", func(c *main.Config) { c.FetchTimeout = 0 }, "fetch timeout"},
		{"retries", func(c *main.Config) { c.MaxRetries = -1 }, "max retries"},
		{"blocked threshold", func(c *main.Config) { c.BlockedThreshold = -1 }, "blocked threshold"},
		{"cache ttl", func(c *main.Config) { c.CacheTTL = 0 }, "cache TTL"},
		{"rate limit", func(c *main.Config) { c.RateLimit = 0 }, "rate limit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := main.DefaultConfig()
			tt.modify(&cfg)

			err := cfg.Validate()

			require.Error(t, err)
			assert.Equal(t, dossier.EINVALID, dossier.ErrorCode(err))
			assert.Contains(t, dossier.ErrorMessage(err), tt.want)
		})
	}
}
