package goquery

import (
	"context"
	"regexp"
	"slices"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/dossier"
	"golang.org/x/net/html"
)

// Ensure UniversalStrategy implements dossier.Strategy at compile time.
var _ dossier.Strategy = (*UniversalStrategy)(nil)

// maxElements bounds the person elements inspected per page.
const maxElements = 20

// mainPageFactor discounts profiles read from the whole page rather than a
// person element.
const mainPageFactor = 0.6

// siteKeywords classify a page by its text, checked in order.
var siteKeywords = []struct {
	site  dossier.SiteType
	words []string
}{
	{dossier.SiteEcommerce, []string{"buy", "shop", "cart", "checkout", "price", "sale"}},
	{dossier.SiteBlog, []string{"blog", "post", "article", "author", "published"}},
	{dossier.SiteForum, []string{"forum", "thread", "reply", "topic", "discussion"}},
	{dossier.SiteNews, []string{"news", "breaking", "headline", "reporter", "journalist"}},
	{dossier.SitePortfolio, []string{"portfolio", "projects", "my work", "case study"}},
}

// ClassifySite returns the kind of site doc belongs to. Known social
// profile hosts win over content keywords; the default is company.
func ClassifySite(doc *dossier.Document) dossier.SiteType {
	if dossier.PlatformOf(doc.URL) != dossier.PlatformUnknown {
		return dossier.SiteSocialProfile
	}
	for _, k := range siteKeywords {
		if containsAny(doc.Text, k.words...) {
			return k.site
		}
	}
	return dossier.SiteCompany
}

// elementSelectors locate person elements by site type.
var elementSelectors = map[dossier.SiteType][]string{
	dossier.SiteSocialProfile: {
		".profile", ".user-profile", ".member-profile",
		`[data-testid*="profile"]`, `[class*="profile"]`,
	},
	dossier.SiteCompany: {
		".team-member", ".employee", ".staff", ".person", ".about-person",
		".team", ".leadership", ".card", `[class*="card"]`, `[class*="leader"]`,
	},
	dossier.SitePortfolio: {".about-me", ".author", ".bio", ".profile"},
	dossier.SiteBlog:      {".author", ".author-bio", ".author-card", ".byline"},
	dossier.SiteNews:      {".author", ".byline", ".reporter", ".contributor"},
	dossier.SiteForum:     {".user-info", ".poster", ".member-card", ".user-card"},
	dossier.SiteEcommerce: {".seller", ".vendor", ".vendor-profile", ".shop-owner"},
}

// fieldPattern pairs selectors with validation and a fallback text sweep.
type fieldPattern struct {
	selectors []string
	// valid, when set, must match selector text for it to be accepted.
	valid *regexp.Regexp
	// sweep, when set, is searched in the element text after selectors fail.
	sweep *regexp.Regexp
	sites []dossier.SiteType
}

func (f fieldPattern) appliesTo(site dossier.SiteType) bool {
	return slices.Contains(f.sites, site)
}

// extract returns the first valid selector match, then the sweep match.
func (f fieldPattern) extract(s *goquery.Selection) string {
	for _, sel := range f.selectors {
		var found string
		s.Find(sel).EachWithBreak(func(_ int, m *goquery.Selection) bool {
			t := clean(m.Text())
			if len(t) < 2 || (f.valid != nil && !f.valid.MatchString(t)) {
				return true
			}
			found = t
			return false
		})
		if found != "" {
			return found
		}
	}
	if f.sweep != nil {
		return f.sweep.FindString(clean(s.Text()))
	}
	return ""
}

var (
	personSites = []dossier.SiteType{
		dossier.SiteSocialProfile, dossier.SitePortfolio, dossier.SiteCompany,
		dossier.SiteBlog, dossier.SiteNews, dossier.SiteForum,
	}
	bioSites = []dossier.SiteType{
		dossier.SiteSocialProfile, dossier.SitePortfolio, dossier.SiteBlog,
	}
	orgSites = []dossier.SiteType{
		dossier.SiteSocialProfile, dossier.SitePortfolio, dossier.SiteCompany,
	}

	personNameRe = regexp.MustCompile(`^[A-Z][a-z]+(?: [A-Z]\.)?(?: [A-Z][a-z]+){1,2}$`)
	jobTitleRe   = regexp.MustCompile(`(?:(?:Senior|Junior|Lead|Principal|Staff|Chief|Head of|Vice|Executive|Managing|General|Software|Product|Engineering|Marketing|Sales|Technical|Creative|Operating|Financial|Technology|Data)\s+){0,3}(?:Engineer|Developer|Designer|Manager|Director|Analyst|Consultant|Specialist|Coordinator|Officer|Founder|Co-founder|Partner|President|CEO|CTO|CFO|COO|VP)\b`)
	companyRe    = regexp.MustCompile(`(?:[A-Z][\w&-]*\s+){1,3}(?:Inc\.|LLC|Ltd\.|Corp\.|Corporation|Group|Technologies|Solutions|Systems|Labs|Studio|Agency|Consulting|Partners|Ventures|Foundation|University)`)
	locationRe   = regexp.MustCompile(`\b(?:San Francisco|New York|London|Berlin|Paris|Tokyo|Toronto|Sydney|Bangalore|Singapore|Amsterdam|Stockholm|Zurich|Dubai|Seoul|Warsaw)\b`)

	universalPatterns = struct {
		name, title, bio, company, location fieldPattern
	}{
		name: fieldPattern{
			selectors: []string{
				".name", ".full-name", ".user-name", ".profile-name", ".author-name",
				".person-name", ".member-name", `[itemprop="name"]`, "h1", "h2", "h3",
				`[class*="name"]`, `[id*="name"]`,
			},
			valid: personNameRe,
			sites: personSites,
		},
		title: fieldPattern{
			selectors: []string{
				".title", ".job-title", ".position", ".role", ".occupation",
				".designation", ".job-role", ".profile-title", ".subtitle",
				`[itemprop="jobTitle"]`, `[class*="title"]`, `[class*="position"]`,
			},
			valid: jobTitleRe,
			sweep: jobTitleRe,
			sites: personSites,
		},
		bio: fieldPattern{
			selectors: []string{
				".bio", ".about", ".description", ".summary", ".introduction",
				".profile-bio", ".person-description", ".overview",
				`[itemprop="description"]`, `[class*="bio"]`, `[class*="about"]`,
			},
			sites: bioSites,
		},
		company: fieldPattern{
			selectors: []string{
				".company", ".organization", ".employer", ".workplace", ".institution",
				".firm", ".agency", `[itemprop="affiliation"]`, `[class*="company"]`,
			},
			sweep: companyRe,
			sites: orgSites,
		},
		location: fieldPattern{
			selectors: []string{
				".location", ".address", ".city", ".country", ".region",
				`[itemprop="address"]`, `[class*="location"]`, `[class*="address"]`,
			},
			sweep: locationRe,
			sites: orgSites,
		},
	}

	universalImageSelectors = []string{
		".profile-image", ".avatar", ".user-photo", ".profile-pic", ".person-image",
		".member-photo", ".user-avatar", `[itemprop="image"]`,
		`img[alt*="profile"]`, `img[alt*="avatar"]`, `img[alt*="photo"]`,
	}
)

// UniversalStrategy classifies the site and applies field patterns suited
// to its type, first to person elements and then to the page as a whole.
type UniversalStrategy struct{}

// NewUniversalStrategy creates a new UniversalStrategy.
func NewUniversalStrategy() *UniversalStrategy {
	return &UniversalStrategy{}
}

// Name returns the strategy tag.
func (s *UniversalStrategy) Name() string { return dossier.StrategyUniversal }

// Extract returns element profiles or, when there are none, a single
// main-page profile.
func (s *UniversalStrategy) Extract(ctx context.Context, doc *dossier.Document) ([]*dossier.Profile, error) {
	site := ClassifySite(doc)
	sel := root(doc)

	var profiles []*dossier.Profile
	for _, el := range personElements(sel, site) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p := s.extractElement(el, doc, site)
		if p == nil {
			continue
		}
		if p, ok := dossier.Accept(p); ok {
			profiles = append(profiles, p)
		}
	}
	if len(profiles) > 0 {
		return profiles, nil
	}

	if p := s.extractMainPage(sel, doc, site); p != nil {
		if p, ok := dossier.Accept(p); ok {
			profiles = append(profiles, p)
		}
	}
	return profiles, nil
}

func (s *UniversalStrategy) extractElement(el *goquery.Selection, doc *dossier.Document, site dossier.SiteType) *dossier.Profile {
	p := s.fields(el, doc, site)
	if p.Name == "" || dossier.IsGenericHeading(p.Name) {
		return nil
	}
	if p.Title == "" && p.ImageURL == "" {
		return nil
	}
	confidence := 0.5
	if p.Title != "" {
		confidence += 0.3
	}
	if p.ImageURL != "" {
		confidence += 0.2
	}
	p.Confidence = dossier.Clamp(confidence)
	return p
}

func (s *UniversalStrategy) extractMainPage(sel *goquery.Selection, doc *dossier.Document, site dossier.SiteType) *dossier.Profile {
	p := s.fields(sel, doc, site)
	if p.Name == "" && p.Title == "" {
		return nil
	}
	p.Confidence = mainPageFactor * dossier.Score(p, dossier.DefaultWeights)
	return p
}

// fields applies every pattern relevant to site within s.
func (s *UniversalStrategy) fields(el *goquery.Selection, doc *dossier.Document, site dossier.SiteType) *dossier.Profile {
	pat := universalPatterns
	p := &dossier.Profile{
		Email:       emailOf(el),
		Phone:       phoneOf(el),
		SocialLinks: socialLinksOf(el, doc.Base),
		SourceURL:   doc.URL,
		Strategy:    dossier.StrategyUniversal,
	}
	if pat.name.appliesTo(site) {
		p.Name = pat.name.extract(el)
	}
	if pat.title.appliesTo(site) {
		p.Title = pat.title.extract(el)
	}
	if pat.bio.appliesTo(site) {
		p.Bio = pat.bio.extract(el)
	}
	if pat.company.appliesTo(site) {
		p.Company = pat.company.extract(el)
	}
	if pat.location.appliesTo(site) {
		p.Location = pat.location.extract(el)
	}
	if p.Title == p.Name {
		p.Title = ""
	}
	for _, is := range universalImageSelectors {
		if m := el.Find(is).First(); m.Length() > 0 {
			if p.ImageURL = imageOf(m, doc.Base); p.ImageURL != "" {
				break
			}
		}
	}
	if p.ImageURL == "" {
		p.ImageURL = imageOf(el, doc.Base)
	}
	return p
}

// personElements returns distinct elements matching the selectors for site.
func personElements(sel *goquery.Selection, site dossier.SiteType) []*goquery.Selection {
	var out []*goquery.Selection
	seen := make(map[*html.Node]bool)
	for _, es := range elementSelectors[site] {
		sel.Find(es).EachWithBreak(func(_ int, el *goquery.Selection) bool {
			if node := el.Get(0); !seen[node] {
				seen[node] = true
				out = append(out, el)
			}
			return len(out) < maxElements
		})
		if len(out) >= maxElements {
			break
		}
	}
	return out
}
