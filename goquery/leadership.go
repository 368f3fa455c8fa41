package goquery

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/dossier"
	"golang.org/x/net/html"
)

// Ensure LeadershipStrategy implements dossier.Strategy at compile time.
var _ dossier.Strategy = (*LeadershipStrategy)(nil)

const (
	// DefaultBioTimeout bounds a single "read more" dereference.
	DefaultBioTimeout = 5 * time.Second

	maxLeadershipTitleLen = 140
)

// leadershipKeywords mark the heading of a leadership section.
var leadershipKeywords = []string{
	"leadership", "executive team", "board of directors", "management", "our team",
}

var readMoreRe = regexp.MustCompile(`(?i)read more`)

// LeadershipStrategy reads leader cards from sections introduced by a
// leadership heading, optionally following "read more" links for a bio.
type LeadershipStrategy struct {
	bios       dossier.BioFetcher
	bioTimeout time.Duration
}

// LeadershipOption configures a LeadershipStrategy.
type LeadershipOption func(*LeadershipStrategy)

// WithBioFetcher enables dereferencing "read more" links through f.
func WithBioFetcher(f dossier.BioFetcher) LeadershipOption {
	return func(s *LeadershipStrategy) {
		s.bios = f
	}
}

// WithBioTimeout sets the timeout for a single bio fetch.
func WithBioTimeout(d time.Duration) LeadershipOption {
	return func(s *LeadershipStrategy) {
		s.bioTimeout = d
	}
}

// NewLeadershipStrategy creates a new LeadershipStrategy.
func NewLeadershipStrategy(opts ...LeadershipOption) *LeadershipStrategy {
	s := &LeadershipStrategy{bioTimeout: DefaultBioTimeout}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the strategy tag.
func (s *LeadershipStrategy) Name() string { return dossier.StrategyLeadership }

// Extract returns one candidate per leader card.
func (s *LeadershipStrategy) Extract(ctx context.Context, doc *dossier.Document) ([]*dossier.Profile, error) {
	ext := &leadershipExtraction{
		strategy: s,
		doc:      doc,
		names:    make(map[*html.Node]bool),
		seen:     make(map[string]struct{}),
	}

	var err error
	root(doc).Find("h2, h3, h4").EachWithBreak(func(_ int, h *goquery.Selection) bool {
		if err = ctx.Err(); err != nil {
			return false
		}
		if !containsAny(strings.ToLower(clean(h.Text())), leadershipKeywords...) {
			return true
		}
		section := h.Closest("section")
		if section.Length() == 0 {
			section = h.Parent()
		}
		section.Find("div, article").Each(func(_ int, card *goquery.Selection) {
			if p := ext.card(ctx, card); p != nil {
				if p, ok := dossier.Accept(p); ok {
					ext.profiles = append(ext.profiles, p)
				}
			}
		})
		return true
	})
	if err != nil {
		return nil, err
	}
	return ext.profiles, nil
}

// leadershipExtraction carries the per-call state of one Extract.
type leadershipExtraction struct {
	strategy *LeadershipStrategy
	doc      *dossier.Document
	profiles []*dossier.Profile

	// names records name elements already turned into a profile, so that
	// wrappers of the same card are read once.
	names map[*html.Node]bool
	// seen records normalized bio links already requested.
	seen map[string]struct{}
}

func (e *leadershipExtraction) card(ctx context.Context, card *goquery.Selection) *dossier.Profile {
	headings := card.Find("h3, h4")
	if headings.Length() != 1 {
		return nil
	}
	nameEl := headings.First()
	name := clean(nameEl.Text())
	if !dossier.LooksLikeName(name) || e.names[nameEl.Get(0)] {
		return nil
	}

	p := &dossier.Profile{
		Name:        name,
		Title:       leaderTitle(card, nameEl, name),
		Email:       findEmail(card.Text()),
		ImageURL:    imageOf(card, e.doc.Base),
		SocialLinks: socialLinksOf(card, e.doc.Base),
		SourceURL:   e.doc.URL,
		Strategy:    dossier.StrategyLeadership,
	}
	p.Bio = e.bio(ctx, card)
	if p.Title == "" && p.ImageURL == "" && p.Bio == "" {
		return nil
	}
	e.names[nameEl.Get(0)] = true

	p.Confidence = 0.7
	if p.ImageURL != "" || p.Title != "" {
		p.Confidence = 0.9
	}
	return p
}

// bio follows the card's "read more" link, once per link per call.
func (e *leadershipExtraction) bio(ctx context.Context, card *goquery.Selection) string {
	if e.strategy.bios == nil {
		return ""
	}
	var link string
	card.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		if !readMoreRe.MatchString(a.Text()) {
			return true
		}
		href, _ := a.Attr("href")
		link = dossier.ResolveURL(e.doc.Base, href)
		return false
	})
	if !strings.HasPrefix(link, "http") || !e.markSeen(link) {
		return ""
	}

	ctx, cancel := context.WithTimeout(ctx, e.strategy.bioTimeout)
	defer cancel()
	bio, err := e.strategy.bios.FetchBio(ctx, link)
	if err != nil {
		return ""
	}
	return clean(bio)
}

// leaderTitle returns the first short text element following the name
// element within the card.
func leaderTitle(card, nameEl *goquery.Selection, name string) string {
	candidates := nameEl.NextAllFiltered("p, span, div").AddSelection(card.Find("p, span, div"))
	var title string
	candidates.EachWithBreak(func(_ int, el *goquery.Selection) bool {
		if el.Find("h3, h4").Length() > 0 || readMoreRe.MatchString(el.Text()) {
			return true
		}
		t := clean(el.Text())
		if t == "" || t == name || len(t) >= maxLeadershipTitleLen || dossier.IsGenericHeading(t) {
			return true
		}
		title = t
		return false
	})
	return title
}

// markSeen records link and reports whether it was new. Links differing
// only in fragment, host case or trailing slash are the same link.
func (e *leadershipExtraction) markSeen(link string) bool {
	key := link
	if n, err := dossier.NormalizeURL(link); err == nil {
		key = n
	}
	if _, ok := e.seen[key]; ok {
		return false
	}
	e.seen[key] = struct{}{}
	return true
}
