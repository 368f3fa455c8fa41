package goquery

import (
	"context"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/dossier"
)

// Ensure TeamExtractor implements SiteExtractor at compile time.
var _ SiteExtractor = (*TeamExtractor)(nil)

// teamIndicators mark a page, by URL or text, as a company team page.
var teamIndicators = []string{
	"team", "about", "company", "organization",
	"employees", "staff", "members", "people", "leadership",
}

var teamContainerSelectors = []string{
	".team-member", ".member", ".profile", ".card", ".person",
	".employee", ".leader", ".executive", "article", "section",
}

var teamFields = struct {
	name, title, bio []string
}{
	name: []string{
		"h3", "h4", ".name", ".member-name", ".employee-name",
		".profile-name", ".person-name", `[class*="name"]`,
	},
	title: []string{
		".title", ".position", ".role", ".job-title",
		".member-title", ".employee-title", `[class*="title"]`,
	},
	bio: []string{
		".bio", ".description", ".about", ".summary",
		".member-bio", ".employee-bio", `[class*="bio"]`,
	},
}

var (
	teamWeights = dossier.Weights{Name: 0.5, Title: 0.3, Bio: 0.2}

	roleClassRe = regexp.MustCompile(`(?i)name|title|position|role|bio`)
	jobClassRe  = regexp.MustCompile(`(?i)title|position|role|job`)
	heroClassRe = regexp.MustCompile(`(?i)main|primary|hero`)
)

// TeamExtractor reads team members from company team and about pages on
// domains without a dedicated site extractor.
type TeamExtractor struct{}

// NewTeamExtractor creates a new TeamExtractor.
func NewTeamExtractor() *TeamExtractor {
	return &TeamExtractor{}
}

// Platform returns PlatformUnknown; the extractor serves any domain.
func (e *TeamExtractor) Platform() dossier.Platform { return dossier.PlatformUnknown }

// Extract returns team member candidates when the page looks like a team
// page. Member containers are tried first, then name-like headings.
func (e *TeamExtractor) Extract(ctx context.Context, doc *dossier.Document) []*dossier.Profile {
	if !isTeamPage(doc) {
		return nil
	}
	sel := root(doc)
	company := companyFromContext(sel, doc)

	var profiles []*dossier.Profile
	for _, c := range teamContainers(sel) {
		if ctx.Err() != nil {
			return nil
		}
		p := e.extractMember(c, doc)
		if p.Company == "" {
			p.Company = company
		}
		if dossier.ValidTeamProfile(p) {
			profiles = append(profiles, p)
		}
	}
	if len(profiles) > 0 {
		return profiles
	}
	return e.extractFromHeadings(sel, doc, company)
}

func (e *TeamExtractor) extractMember(c *goquery.Selection, doc *dossier.Document) *dossier.Profile {
	p := &dossier.Profile{
		Name:        textOf(c, teamFields.name...),
		Title:       textOf(c, teamFields.title...),
		Bio:         textOf(c, teamFields.bio...),
		ImageURL:    imageOf(c, doc.Base),
		SocialLinks: socialLinksOf(c, doc.Base),
		SourceURL:   doc.URL,
	}
	if p.Title == p.Name {
		p.Title = ""
	}
	p.Confidence = dossier.Score(p, teamWeights)
	return p
}

// extractFromHeadings reads members from name-like headings when no member
// container was recognized.
func (e *TeamExtractor) extractFromHeadings(sel *goquery.Selection, doc *dossier.Document, company string) []*dossier.Profile {
	var profiles []*dossier.Profile
	sel.Find("h1, h2, h3, h4").Each(func(_ int, h *goquery.Selection) {
		name := clean(h.Text())
		if !dossier.LooksLikeName(name) {
			return
		}
		p := &dossier.Profile{
			Name:      name,
			Title:     nearbyJobTitle(h, name),
			Company:   company,
			SourceURL: doc.URL,
		}
		p.Confidence = dossier.Score(p, teamWeights)
		if dossier.ValidTeamProfile(p) {
			profiles = append(profiles, p)
		}
	})
	return profiles
}

// nearbyJobTitle looks in the heading's container for an element whose
// class names a job title.
func nearbyJobTitle(h *goquery.Selection, name string) string {
	var title string
	h.Parent().Find("p, span, div").EachWithBreak(func(_ int, el *goquery.Selection) bool {
		class, _ := el.Attr("class")
		if !jobClassRe.MatchString(class) {
			return true
		}
		if t := clean(el.Text()); len(t) > 3 && t != name {
			title = t
			return false
		}
		return true
	})
	return title
}

// isTeamPage reports whether the URL or page text mentions team vocabulary.
func isTeamPage(doc *dossier.Document) bool {
	return containsAny(strings.ToLower(doc.URL), teamIndicators...) ||
		containsAny(doc.Text, teamIndicators...)
}

// teamContainers returns member containers: elements matching a team
// selector that either mention profile vocabulary or carry role-like
// class names on at least one descendant.
func teamContainers(sel *goquery.Selection) []*goquery.Selection {
	var out []*goquery.Selection
	seen := make(map[string]bool)
	for _, s := range teamContainerSelectors {
		sel.Find(s).Each(func(_ int, c *goquery.Selection) {
			if !looksLikeMember(c) {
				return
			}
			key := clean(c.Text())
			if seen[key] {
				return
			}
			seen[key] = true
			out = append(out, c)
		})
	}
	return out
}

func looksLikeMember(c *goquery.Selection) bool {
	text := strings.ToLower(clean(c.Text()))
	if len(text) < 10 {
		return false
	}
	if countContained(text, profileIndicators...) >= 2 {
		return true
	}
	roles := 0
	c.Find("[class]").EachWithBreak(func(_ int, el *goquery.Selection) bool {
		class, _ := el.Attr("class")
		if roleClassRe.MatchString(class) {
			roles++
		}
		return roles < 2
	})
	return roles >= 2
}

// companyFromContext reads the company name from the page title prefix or
// a hero heading.
func companyFromContext(sel *goquery.Selection, doc *dossier.Document) string {
	if before, _, ok := strings.Cut(doc.Title, " - "); ok {
		if c := strings.TrimSpace(before); c != "" {
			return c
		}
	}
	if before, _, ok := strings.Cut(doc.Title, " | "); ok {
		if c := strings.TrimSpace(before); c != "" {
			return c
		}
	}
	var company string
	sel.Find("h1[class], h2[class]").EachWithBreak(func(_ int, h *goquery.Selection) bool {
		class, _ := h.Attr("class")
		if !heroClassRe.MatchString(class) {
			return true
		}
		if t := clean(h.Text()); t != "" && len(t) < 50 {
			company = t
			return false
		}
		return true
	})
	return company
}
