package dossier

import (
	"net/url"

	"golang.org/x/net/html"
)

// Document is a parsed page. It is built once per request and shared
// read-only by every strategy; strategies that need to modify the tree
// must work on a copy.
type Document struct {
	// URL is the normalized source URL.
	URL string

	// Base resolves relative references found in the page.
	Base *url.URL

	// Root is the parsed HTML tree.
	Root *html.Node

	// Title is the text of the <title> element.
	Title string

	// Text is the lowercased visible text of the page.
	Text string

	// Page is the fetch result the document was built from.
	Page *Page
}

// Parser builds a Document from a fetched page.
type Parser interface {
	// Parse returns an EPARSE error for empty or malformed bodies.
	Parse(page *Page) (*Document, error)
}
