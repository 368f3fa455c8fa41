// Package goquery implements profile extraction strategies over parsed
// HTML using goquery selectors.
package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/dossier"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Ensure Parser implements dossier.Parser at compile time.
var _ dossier.Parser = (*Parser)(nil)

// Parser builds a dossier.Document from a fetched page.
type Parser struct{}

// NewParser creates a new Parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse parses the page body once. The returned tree is shared by every
// strategy and must not be modified.
func (p *Parser) Parse(page *dossier.Page) (*dossier.Document, error) {
	if page == nil || strings.TrimSpace(page.Body) == "" {
		return nil, dossier.Errorf(dossier.EPARSE, "empty document")
	}

	base, err := url.Parse(page.URL)
	if err != nil || !base.IsAbs() {
		return nil, dossier.Errorf(dossier.EPARSE, "invalid document URL %q", page.URL)
	}

	root, err := html.Parse(strings.NewReader(page.Body))
	if err != nil {
		return nil, dossier.Errorf(dossier.EPARSE, "failed to parse HTML: %v", err)
	}

	doc := goquery.NewDocumentFromNode(root)
	if doc.Find("body").Children().Length() == 0 && strings.TrimSpace(doc.Find("body").Text()) == "" {
		return nil, dossier.Errorf(dossier.EPARSE, "document has no content")
	}

	// A <base href> overrides the page URL for relative references.
	if href, ok := doc.Find("base[href]").First().Attr("href"); ok {
		if ref, err := url.Parse(strings.TrimSpace(href)); err == nil {
			base = base.ResolveReference(ref)
		}
	}

	var text strings.Builder
	visibleText(root, &text)

	return &dossier.Document{
		URL:   page.URL,
		Base:  base,
		Root:  root,
		Title: clean(doc.Find("title").First().Text()),
		Text:  strings.ToLower(strings.Join(strings.Fields(text.String()), " ")),
		Page:  page,
	}, nil
}

// visibleText appends the text of n that a reader would see.
func visibleText(n *html.Node, sb *strings.Builder) {
	if n.Type == html.ElementNode {
		switch n.DataAtom {
		case atom.Script, atom.Style, atom.Noscript, atom.Template, atom.Head:
			return
		}
	}
	if n.Type == html.TextNode {
		sb.WriteString(n.Data)
		sb.WriteByte(' ')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		visibleText(c, sb)
	}
}
