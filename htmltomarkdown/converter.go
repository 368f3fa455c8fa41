// Package htmltomarkdown converts extracted biography HTML to Markdown.
package htmltomarkdown

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/dossier"
)

// Ensure Converter implements dossier.Converter at compile time.
var _ dossier.Converter = (*Converter)(nil)

// Converter wraps html-to-markdown. Paragraphs come out separated by a
// blank line.
type Converter struct {
	conv *converter.Converter
}

// Option configures a Converter.
type Option func(*options)

type options struct {
	tables bool
}

// WithTables renders HTML tables as Markdown tables. Without it table
// cells are flattened to text.
func WithTables() Option {
	return func(o *options) {
		o.tables = true
	}
}

// NewConverter creates a new Converter.
func NewConverter(opts ...Option) *Converter {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	plugins := []converter.Plugin{
		base.NewBasePlugin(),
		commonmark.NewCommonmarkPlugin(),
	}
	if o.tables {
		plugins = append(plugins, table.NewTablePlugin())
	}
	return &Converter{conv: converter.NewConverter(converter.WithPlugins(plugins...))}
}

// Convert transforms HTML content into Markdown.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", dossier.Errorf(dossier.EINVALID, "empty HTML input")
	}
	md, err := c.conv.ConvertString(html)
	if err != nil {
		return "", dossier.Errorf(dossier.EPARSE, "convert to markdown: %v", err)
	}
	return md, nil
}
