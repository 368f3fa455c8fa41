// Package readability extracts the main content of biography pages with
// go-readability.
package readability

import (
	nurl "net/url"
	"strings"

	"github.com/fwojciec/dossier"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements dossier.Extractor at compile time.
var _ dossier.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability.
type Extractor struct {
	pageURL *nurl.URL
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithPageURL sets the URL used to resolve relative links in the content.
func WithPageURL(rawURL string) Option {
	return func(e *Extractor) {
		if u, err := nurl.Parse(rawURL); err == nil && u.IsAbs() {
			e.pageURL = u
		}
	}
}

// NewExtractor creates a new Extractor.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns the readable article of rawHTML.
func (e *Extractor) Extract(rawHTML string) (*dossier.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, dossier.Errorf(dossier.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), e.pageURL)
	if err != nil {
		return nil, dossier.Errorf(dossier.EPARSE, "extract article: %v", err)
	}

	return &dossier.ExtractResult{
		Title:       article.Title,
		ContentHTML: article.Content,
	}, nil
}
