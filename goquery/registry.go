package goquery

import (
	"context"
	"net/url"
	"strings"

	"github.com/fwojciec/dossier"
)

// SiteExtractor extracts raw candidates from pages of one kind of site.
type SiteExtractor interface {
	// Platform identifies the site served by the extractor.
	Platform() dossier.Platform

	// Extract returns unfiltered candidates found in doc.
	Extract(ctx context.Context, doc *dossier.Document) []*dossier.Profile
}

// siteEntry pairs a host predicate with its extractor.
type siteEntry struct {
	hosts     []string
	extractor SiteExtractor
}

func (e siteEntry) matches(host string) bool {
	for _, h := range e.hosts {
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return false
}

// SiteRegistry maps known domains to site extractors. Pages on unknown
// domains are handled by the fallback extractor. Adding support for a site
// is a registration; nothing else changes.
type SiteRegistry struct {
	fallback SiteExtractor
	entries  []siteEntry
}

// NewSiteRegistry creates a new SiteRegistry with the given fallback
// extractor. A nil fallback means unknown domains yield no candidates.
func NewSiteRegistry(fallback SiteExtractor) *SiteRegistry {
	return &SiteRegistry{fallback: fallback}
}

// Register adds an extractor for the given hosts. A host matches itself and
// its subdomains. Registrations for a platform already present replace it.
func (r *SiteRegistry) Register(hosts []string, extractor SiteExtractor) {
	entry := siteEntry{hosts: hosts, extractor: extractor}
	for i, e := range r.entries {
		if e.extractor.Platform() == extractor.Platform() {
			r.entries[i] = entry
			return
		}
	}
	r.entries = append(r.entries, entry)
}

// GetForURL returns the extractor whose hosts match rawURL, falling back
// to the fallback extractor for unknown domains.
func (r *SiteRegistry) GetForURL(rawURL string) SiteExtractor {
	u, err := url.Parse(rawURL)
	if err != nil {
		return r.fallback
	}
	host := strings.ToLower(strings.TrimPrefix(u.Hostname(), "www."))
	for _, e := range r.entries {
		if e.matches(host) {
			return e.extractor
		}
	}
	return r.fallback
}

// List returns the registered platforms in registration order.
func (r *SiteRegistry) List() []dossier.Platform {
	platforms := make([]dossier.Platform, 0, len(r.entries))
	for _, e := range r.entries {
		platforms = append(platforms, e.extractor.Platform())
	}
	return platforms
}

// Ensure DomainStrategy implements dossier.Strategy at compile time.
var _ dossier.Strategy = (*DomainStrategy)(nil)

// DomainStrategy dispatches a page to the extractor registered for its
// domain.
type DomainStrategy struct {
	registry *SiteRegistry
}

// NewDomainStrategy creates a new DomainStrategy backed by registry.
func NewDomainStrategy(registry *SiteRegistry) *DomainStrategy {
	return &DomainStrategy{registry: registry}
}

// Name returns the strategy tag.
func (s *DomainStrategy) Name() string { return dossier.StrategyDomain }

// Extract runs the site extractor for the document's domain.
func (s *DomainStrategy) Extract(ctx context.Context, doc *dossier.Document) ([]*dossier.Profile, error) {
	extractor := s.registry.GetForURL(doc.URL)
	if extractor == nil {
		return nil, nil
	}
	candidates := extractor.Extract(ctx, doc)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, c := range candidates {
		c.Strategy = dossier.StrategyDomain
		c.SourceURL = doc.URL
	}
	return dossier.AcceptAll(candidates), nil
}
