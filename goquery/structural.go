package goquery

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/dossier"
	"golang.org/x/net/html"
)

// Ensure StructuralStrategy implements dossier.Strategy at compile time.
var _ dossier.Strategy = (*StructuralStrategy)(nil)

// maxContainers bounds the containers taken from each selector.
const maxContainers = 5

// containerSelectors locate elements that commonly wrap one person.
var containerSelectors = []string{
	".profile", ".person", ".member", ".team-member",
	".employee", ".staff", ".author", ".contributor",
	`[itemtype*="Person"]`,
	".card", ".profile-card", ".person-card",
	"article", "section", ".content",
}

// profileIndicators is the vocabulary of the container density heuristic.
var profileIndicators = []string{
	"name", "title", "position", "role", "job", "bio", "about",
	"experience", "education", "contact", "email", "phone",
}

// personHints are words that mark a short container as person-related.
var personHints = []string{"mr", "ms", "dr", "prof", "ceo", "cto", "founder", "director"}

// chromeWords mark navigation and page chrome rather than content.
var chromeWords = []string{"navigation", "menu", "footer", "copyright", "cookie"}

// fieldSelectors are ordered fallback lists used inside a container.
var fieldSelectors = struct {
	name, title, bio, company, location, image []string
}{
	name: []string{
		".profile-name", ".user-name", ".full-name", "h1.name",
		".author-name", ".person-name", ".member-name",
		`[itemprop="name"]`, "h1", "h2", "h3", ".heading", `[class*="name"]`,
	},
	title: []string{
		".profile-title", ".job-title", ".position", ".role",
		".job-role", ".designation", ".occupation",
		`[itemprop="jobTitle"]`, `[class*="title"]`, ".subtitle",
	},
	bio: []string{
		".profile-bio", ".bio", ".about", ".summary", ".introduction",
		".overview", `[itemprop="description"]`, `[class*="bio"]`,
		".profile-text", ".person-description", ".description",
	},
	company: []string{
		".company", ".organization", ".employer",
		`[itemprop="affiliation"]`, `[itemprop="worksFor"]`, `[class*="company"]`,
		".workplace", ".institution",
	},
	location: []string{
		".location", ".address", ".city", ".country",
		`[itemprop="address"]`, `[class*="location"]`, ".region",
	},
	image: []string{
		".profile-image", ".avatar", ".user-photo", ".profile-pic",
		".person-image", ".member-photo", `[itemprop="image"]`,
		`img[alt*="profile"]`, `img[alt*="avatar"]`, `img[alt*="photo"]`,
	},
}

// structuralWeights follow the container extractor's evidence model.
var structuralWeights = dossier.Weights{
	Name:   0.3,
	Title:  0.25,
	Email:  0.25,
	Bio:    0.2,
	Social: 0.05,
}

// genericFieldNames are label texts that are never a name.
var genericFieldNames = map[string]bool{
	"profile": true, "user": true, "member": true, "person": true, "name": true, "title": true,
}

// StructuralStrategy extracts profiles from profile-like container elements.
type StructuralStrategy struct{}

// NewStructuralStrategy creates a new StructuralStrategy.
func NewStructuralStrategy() *StructuralStrategy {
	return &StructuralStrategy{}
}

// Name returns the strategy tag.
func (s *StructuralStrategy) Name() string { return dossier.StrategyStructural }

// Extract returns one candidate per profile container.
func (s *StructuralStrategy) Extract(ctx context.Context, doc *dossier.Document) ([]*dossier.Profile, error) {
	var profiles []*dossier.Profile
	for _, container := range findContainers(root(doc)) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p := s.extractContainer(container, doc)
		if p == nil {
			continue
		}
		if p, ok := dossier.Accept(p); ok {
			profiles = append(profiles, p)
		}
	}
	return profiles, nil
}

func (s *StructuralStrategy) extractContainer(c *goquery.Selection, doc *dossier.Document) *dossier.Profile {
	p := &dossier.Profile{
		Name:     textOf(c, fieldSelectors.name...),
		Title:    textOf(c, fieldSelectors.title...),
		Bio:      textOf(c, fieldSelectors.bio...),
		Company:  textOf(c, fieldSelectors.company...),
		Location: textOf(c, fieldSelectors.location...),
		Email:    emailOf(c),
		Phone:    phoneOf(c),
		ImageURL: structuralImage(c, doc),

		SocialLinks: socialLinksOf(c, doc.Base),
		SourceURL:   doc.URL,
		Strategy:    dossier.StrategyStructural,
	}
	if len(p.Name) < minFieldLen || genericFieldNames[strings.ToLower(p.Name)] {
		return nil
	}
	if p.Title == p.Name {
		p.Title = ""
	}
	if p.Bio == p.Title {
		p.Bio = ""
	}
	p.Confidence = dossier.Score(p, structuralWeights)
	return p
}

func structuralImage(c *goquery.Selection, doc *dossier.Document) string {
	for _, sel := range fieldSelectors.image {
		if m := c.Find(sel).First(); m.Length() > 0 {
			if img := imageOf(m, doc.Base); img != "" {
				return img
			}
		}
	}
	return imageOf(c, doc.Base)
}

// findContainers returns distinct container elements, in selector order,
// that pass the profile density heuristic. Each selector contributes at
// most maxContainers elements.
func findContainers(s *goquery.Selection) []*goquery.Selection {
	var out []*goquery.Selection
	nodes := make(map[*html.Node]bool)
	for _, sel := range containerSelectors {
		taken := 0
		s.Find(sel).EachWithBreak(func(_ int, c *goquery.Selection) bool {
			node := c.Get(0)
			if nodes[node] {
				return true
			}
			nodes[node] = true
			if looksLikeProfileContainer(c) {
				out = append(out, c)
				taken++
			}
			return taken < maxContainers
		})
	}
	return out
}

// looksLikeProfileContainer applies the indicator-density heuristic.
func looksLikeProfileContainer(c *goquery.Selection) bool {
	text := strings.ToLower(clean(c.Text()))
	if len(text) < 30 {
		return false
	}
	if countContained(text, profileIndicators...) < 3 {
		return false
	}
	if containsAny(text, chromeWords...) {
		return false
	}
	if !hasWord(text, personHints...) && len(strings.Fields(text)) < 4 {
		return false
	}
	return true
}

// hasWord reports whether any of words occurs in text as a whole word.
func hasWord(text string, words ...string) bool {
	for _, tok := range strings.FieldsFunc(text, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	}) {
		for _, w := range words {
			if tok == w {
				return true
			}
		}
	}
	return false
}
