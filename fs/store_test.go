package fs_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/dossier"
	"github.com/fwojciec/dossier/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURLToPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{name: "simple path", url: "https://example.com/company/team", want: "example.com/company/team.json"},
		{name: "trailing slash becomes index", url: "https://example.com/about/", want: "example.com/about/index.json"},
		{name: "root path becomes index", url: "https://example.com/", want: "example.com/index.json"},
		{name: "root without slash", url: "https://example.com", want: "example.com/index.json"},
		{name: "host is lowercased", url: "https://Example.COM/team", want: "example.com/team.json"},
		{name: "ignores query and fragment", url: "https://example.com/team?x=1#ceo", want: "example.com/team.json"},
		{name: "rejects missing host", url: "/team", wantErr: true},
		{name: "rejects parent segments", url: "https://example.com/a/../../etc", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := fs.URLToPath(tt.url)

			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, dossier.EINVALID, dossier.ErrorCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, filepath.FromSlash(tt.want), got)
		})
	}
}

func TestResultStore(t *testing.T) {
	t.Parallel()

	result := func(url string) *dossier.ScrapeResult {
		return &dossier.ScrapeResult{
			URL:     url,
			Success: true,
			Profiles: []*dossier.Profile{{
				Name:       "Jane Doe",
				Title:      "CTO",
				SourceURL:  url,
				Confidence: 0.8,
				Strategy:   dossier.StrategyStructural,
			}},
		}
	}

	t.Run("results appear only after commit", func(t *testing.T) {
		t.Parallel()

		base := t.TempDir()
		store := fs.NewResultStore(base, "out")

		require.NoError(t, store.Save(context.Background(), result("https://example.com/team")))
		assert.NoDirExists(t, filepath.Join(base, "out"))

		require.NoError(t, store.Commit())

		data, err := os.ReadFile(filepath.Join(base, "out", "example.com", "team.json"))
		require.NoError(t, err)
		var got dossier.ScrapeResult
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, "https://example.com/team", got.URL)
		require.Len(t, got.Profiles, 1)
		assert.Equal(t, "Jane Doe", got.Profiles[0].Name)
		assert.NoDirExists(t, filepath.Join(base, "out.tmp"))
	})

	t.Run("commit replaces previous output", func(t *testing.T) {
		t.Parallel()

		base := t.TempDir()
		first := fs.NewResultStore(base, "out")
		require.NoError(t, first.Save(context.Background(), result("https://old.example/team")))
		require.NoError(t, first.Commit())

		second := fs.NewResultStore(base, "out")
		require.NoError(t, second.Save(context.Background(), result("https://new.example/team")))
		require.NoError(t, second.Commit())

		assert.NoFileExists(t, filepath.Join(base, "out", "old.example", "team.json"))
		assert.FileExists(t, filepath.Join(base, "out", "new.example", "team.json"))
	})

	t.Run("abort discards staged results", func(t *testing.T) {
		t.Parallel()

		base := t.TempDir()
		store := fs.NewResultStore(base, "out")
		require.NoError(t, store.Save(context.Background(), result("https://example.com/team")))

		require.NoError(t, store.Abort())

		assert.NoDirExists(t, filepath.Join(base, "out.tmp"))
		assert.NoDirExists(t, filepath.Join(base, "out"))
	})

	t.Run("commit with nothing saved creates an empty directory", func(t *testing.T) {
		t.Parallel()

		base := t.TempDir()

		require.NoError(t, fs.NewResultStore(base, "out").Commit())

		assert.DirExists(t, filepath.Join(base, "out"))
	})

	t.Run("rejects results without URL", func(t *testing.T) {
		t.Parallel()

		err := fs.NewResultStore(t.TempDir(), "out").Save(context.Background(), &dossier.ScrapeResult{})

		require.Error(t, err)
		assert.Equal(t, dossier.EINVALID, dossier.ErrorCode(err))
	})

	t.Run("respects canceled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := fs.NewResultStore(t.TempDir(), "out").Save(ctx, result("https://example.com/team"))

		require.ErrorIs(t, err, context.Canceled)
	})
}
