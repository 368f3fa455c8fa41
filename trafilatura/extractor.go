// Package trafilatura extracts the main content of biography pages with
// go-trafilatura.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/fwojciec/dossier"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements dossier.Extractor at compile time.
var _ dossier.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura. Comments and tables are dropped since a
// biography lives in running text.
type Extractor struct {
	fallback bool
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithFallback toggles the readability and dom-distiller fallbacks that
// go-trafilatura runs when its own extraction finds little text.
func WithFallback(enabled bool) Option {
	return func(e *Extractor) {
		e.fallback = enabled
	}
}

// NewExtractor creates a new Extractor with fallbacks enabled.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{fallback: true}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns the main content of rawHTML.
func (e *Extractor) Extract(rawHTML string) (*dossier.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, dossier.Errorf(dossier.EINVALID, "empty HTML input")
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), trafilatura.Options{
		EnableFallback:  e.fallback,
		ExcludeComments: true,
		ExcludeTables:   true,
	})
	if err != nil {
		return nil, dossier.Errorf(dossier.EPARSE, "extract main content: %v", err)
	}

	var content string
	if result.ContentNode != nil {
		var buf bytes.Buffer
		if err := html.Render(&buf, result.ContentNode); err != nil {
			return nil, dossier.Errorf(dossier.EPARSE, "render main content: %v", err)
		}
		content = buf.String()
	}

	return &dossier.ExtractResult{
		Title:       result.Metadata.Title,
		ContentHTML: content,
	}, nil
}
