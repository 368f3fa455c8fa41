package dossier

import (
	"context"
	"strings"
)

// FetchStatus classifies the HTTP outcome of a fetch.
type FetchStatus string

// FetchStatus constants.
const (
	StatusSuccess            FetchStatus = "success"
	StatusRetryable          FetchStatus = "retryable"
	StatusBlockedWithContent FetchStatus = "blocked_with_content"
	StatusNotFound           FetchStatus = "not_found"
	StatusOther              FetchStatus = "other"
)

// Protection is a set of bot-defense signals observed in a page body.
type Protection uint8

// Protection flags.
const (
	ProtectionChallenge Protection = 1 << iota
	ProtectionCaptcha
	ProtectionRateLimit
	ProtectionGeoBlock
)

// Has reports whether all flags in f are set.
func (p Protection) Has(f Protection) bool {
	return p&f == f && f != 0
}

// Strings returns the names of the set flags.
func (p Protection) Strings() []string {
	var out []string
	for _, f := range []struct {
		flag Protection
		name string
	}{
		{ProtectionChallenge, "challenge"},
		{ProtectionCaptcha, "captcha"},
		{ProtectionRateLimit, "rate_limit"},
		{ProtectionGeoBlock, "geo_block"},
	} {
		if p.Has(f.flag) {
			out = append(out, f.name)
		}
	}
	return out
}

// String implements fmt.Stringer.
func (p Protection) String() string {
	if p == 0 {
		return "none"
	}
	return strings.Join(p.Strings(), ",")
}

// Page is the raw result of fetching a URL.
type Page struct {
	URL        string
	StatusCode int
	Status     FetchStatus
	Body       string
	Protection Protection

	// Rendered is true when the body came from a headless renderer.
	Rendered bool
}

// Fetcher retrieves page bodies over the network with bounded retries.
type Fetcher interface {
	// FetchPage returns the classified page for url. Terminal failures
	// return an EFETCH or ENOTFOUND error.
	FetchPage(ctx context.Context, url string) (*Page, error)
}

// Renderer retrieves the rendered HTML of JavaScript-heavy pages.
type Renderer interface {
	// Render navigates to url, waits for the page to load and returns
	// the rendered HTML.
	Render(ctx context.Context, url string) (html string, err error)

	// Close releases browser resources.
	Close() error
}
