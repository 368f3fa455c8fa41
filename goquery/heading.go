package goquery

import (
	"context"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/dossier"
)

// Ensure HeadingStrategy implements dossier.Strategy at compile time.
var _ dossier.Strategy = (*HeadingStrategy)(nil)

const (
	// maxTitleSiblings bounds the siblings inspected for a heading's title.
	maxTitleSiblings = 5
	// maxTitleLen is the exclusive upper bound on a title's length.
	maxTitleLen = 120
	// minHeadingBioLen is the exclusive lower bound on a bio paragraph.
	minHeadingBioLen = 40
)

// HeadingStrategy reads people from name-like h2-h4 headings and the
// content around them.
type HeadingStrategy struct{}

// NewHeadingStrategy creates a new HeadingStrategy.
func NewHeadingStrategy() *HeadingStrategy {
	return &HeadingStrategy{}
}

// Name returns the strategy tag.
func (s *HeadingStrategy) Name() string { return dossier.StrategyHeading }

// Extract returns one candidate per name-like heading with at least one
// supporting signal nearby.
func (s *HeadingStrategy) Extract(ctx context.Context, doc *dossier.Document) ([]*dossier.Profile, error) {
	var profiles []*dossier.Profile
	var err error
	root(doc).Find("h2, h3, h4").EachWithBreak(func(_ int, h *goquery.Selection) bool {
		if err = ctx.Err(); err != nil {
			return false
		}
		if p := s.extractHeading(h, doc); p != nil {
			if p, ok := dossier.Accept(p); ok {
				profiles = append(profiles, p)
			}
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

func (s *HeadingStrategy) extractHeading(h *goquery.Selection, doc *dossier.Document) *dossier.Profile {
	name := clean(h.Text())
	if !dossier.LooksLikeName(name) {
		return nil
	}
	container := h.ParentsFiltered("div, section").First()
	if container.Length() == 0 {
		container = h
	}

	p := &dossier.Profile{
		Name:        name,
		Title:       adjacentText(h, name),
		Bio:         longestParagraph(container, minHeadingBioLen),
		Email:       findEmail(container.Text()),
		ImageURL:    imageOf(container, doc.Base),
		SocialLinks: socialLinksOf(container, doc.Base),
		SourceURL:   doc.URL,
		Strategy:    dossier.StrategyHeading,
	}
	if p.Title == "" && p.ImageURL == "" && p.Bio == "" && p.Email == "" && p.SocialLinks.Count() == 0 {
		return nil
	}
	if p.Bio == p.Title {
		p.Bio = ""
	}
	p.Confidence = headingScore(p)
	return p
}

func headingScore(p *dossier.Profile) float64 {
	score := 0.5
	if p.Title != "" {
		score += 0.3
	}
	if p.ImageURL != "" {
		score += 0.15
	}
	if p.SocialLinks.Count() > 0 {
		score += 0.05
	}
	return dossier.Clamp(score)
}

// adjacentText returns the first short text among the heading's next
// siblings, falling back to the first p, span or div in its parent.
func adjacentText(h *goquery.Selection, name string) string {
	next := h
	for range maxTitleSiblings {
		next = next.Next()
		if next.Length() == 0 {
			break
		}
		if t := clean(next.Text()); titleCandidate(t, name) {
			return t
		}
	}
	if t := clean(h.Parent().Find("p, span, div").First().Text()); titleCandidate(t, name) {
		return t
	}
	return ""
}

func titleCandidate(t, name string) bool {
	return len(t) > 2 && len(t) < maxTitleLen && t != name && !dossier.IsGenericHeading(t)
}
