// Package fs provides file-based storage for scrape results.
package fs

import (
	"context"
	"encoding/json"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/dossier"
)

// URLToPath converts a page URL to a relative file path under its host.
// Example: https://example.com/company/team → example.com/company/team.json
func URLToPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", dossier.Errorf(dossier.EINVALID, "invalid URL %q: %v", rawURL, err)
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return "", dossier.Errorf(dossier.EINVALID, "URL %q has no host", rawURL)
	}

	path := strings.TrimPrefix(u.Path, "/")
	switch {
	case path == "":
		path = "index"
	case strings.HasSuffix(path, "/"):
		path += "index"
	}
	for _, seg := range strings.Split(path, "/") {
		if seg == ".." {
			return "", dossier.Errorf(dossier.EINVALID, "URL %q escapes its host directory", rawURL)
		}
	}
	return filepath.Join(host, filepath.FromSlash(path)+".json"), nil
}

// Ensure ResultStore implements dossier.ResultStore at compile time.
var _ dossier.ResultStore = (*ResultStore)(nil)

// ResultStore writes results as JSON files with atomic update semantics.
// Results are saved to a temporary directory, then moved into place on
// Commit.
type ResultStore struct {
	baseDir string
	name    string
}

// NewResultStore creates a new ResultStore.
// Files are saved to baseDir/name.tmp and moved to baseDir/name on Commit.
func NewResultStore(baseDir, name string) *ResultStore {
	return &ResultStore{
		baseDir: baseDir,
		name:    name,
	}
}

func (s *ResultStore) tempDir() string {
	return filepath.Join(s.baseDir, s.name+".tmp")
}

func (s *ResultStore) finalDir() string {
	return filepath.Join(s.baseDir, s.name)
}

// Save writes result to the staging directory.
func (s *ResultStore) Save(ctx context.Context, result *dossier.ScrapeResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if result == nil || result.URL == "" {
		return dossier.Errorf(dossier.EINVALID, "result URL required")
	}
	relPath, err := URLToPath(result.URL)
	if err != nil {
		return err
	}

	fullPath := filepath.Join(s.tempDir(), relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return dossier.Errorf(dossier.EINTERNAL, "encode result: %v", err)
	}
	return os.WriteFile(fullPath, append(data, '\n'), 0644)
}

// Commit replaces the output directory with the staged results.
func (s *ResultStore) Commit() error {
	if err := os.MkdirAll(s.tempDir(), 0755); err != nil {
		return err
	}
	if err := os.RemoveAll(s.finalDir()); err != nil {
		return err
	}
	return os.Rename(s.tempDir(), s.finalDir())
}

// Abort discards the staged results.
func (s *ResultStore) Abort() error {
	return os.RemoveAll(s.tempDir())
}
