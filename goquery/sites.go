package goquery

import (
	"context"
	"strings"

	"github.com/fwojciec/dossier"
)

// Ensure SiteSpec implements SiteExtractor at compile time.
var _ SiteExtractor = (*SiteSpec)(nil)

// SiteSpec describes the profile markup of one site as ordered selector
// lists per field.
type SiteSpec struct {
	Site  dossier.Platform
	Hosts []string

	// PathPrefix, when set, restricts extraction to profile pages.
	PathPrefix string

	// UsernameAsName names the profile after the URL username when the
	// page shows no display name.
	UsernameAsName bool

	Name     []string
	Title    []string
	Bio      []string
	Company  []string
	Location []string
	Image    []string

	// Weights score the extracted evidence. The Name weight is earned by
	// either a display name or a username.
	Weights dossier.Weights
}

// Platform returns the site served by the spec.
func (s *SiteSpec) Platform() dossier.Platform { return s.Site }

// Extract reads a single profile from a profile page.
func (s *SiteSpec) Extract(ctx context.Context, doc *dossier.Document) []*dossier.Profile {
	if s.PathPrefix != "" && !strings.HasPrefix(doc.Base.Path, s.PathPrefix) {
		return nil
	}

	sel := root(doc)
	p := &dossier.Profile{
		Name:      textOf(sel, s.Name...),
		Title:     textOf(sel, s.Title...),
		Bio:       textOf(sel, s.Bio...),
		Company:   textOf(sel, s.Company...),
		Location:  textOf(sel, s.Location...),
		Username:  dossier.UsernameFromURL(s.Site, doc.URL),
		SourceURL: doc.URL,
	}
	for _, imgSel := range s.Image {
		if m := sel.Find(imgSel).First(); m.Length() > 0 {
			if p.ImageURL = imageOf(m, doc.Base); p.ImageURL != "" {
				break
			}
		}
	}
	p.SocialLinks.Set(s.Site, doc.URL)

	if p.Name == "" && s.UsernameAsName {
		p.Name = p.Username
	}
	if !validSiteName(p.Name) {
		return nil
	}
	if p.Title == p.Name {
		p.Title = ""
	}
	if p.Bio == p.Title {
		p.Bio = ""
	}

	// Own-profile social link is not evidence of quality.
	scored := *p
	scored.SocialLinks = dossier.SocialLinks{}
	p.Confidence = dossier.Score(&scored, s.Weights)
	return []*dossier.Profile{p}
}

// siteNames are platform chrome texts that are never a person's name.
var siteNames = map[string]bool{
	"linkedin": true, "github": true, "twitter": true, "x": true,
	"profile": true, "user": true, "member": true,
}

func validSiteName(name string) bool {
	return len(strings.TrimSpace(name)) >= minFieldLen && !siteNames[strings.ToLower(name)]
}

var (
	linkedInWeights = dossier.Weights{Name: 0.4, Title: 0.3, Company: 0.2, Bio: 0.1}
	gitHubWeights   = dossier.Weights{Name: 0.5, Bio: 0.3, Company: 0.2}
	twitterWeights  = dossier.Weights{Name: 0.6, Bio: 0.4}
	siteWeights     = dossier.Weights{Name: 0.5, Title: 0.2, Bio: 0.2, Company: 0.05, Location: 0.05}
)

// siteSpecs are the built-in site registrations.
var siteSpecs = []*SiteSpec{
	{
		Site:       dossier.PlatformLinkedIn,
		Hosts:      []string{"linkedin.com"},
		PathPrefix: "/in/",
		Name: []string{
			"h1.text-heading-xlarge", ".text-heading-xlarge", `h1[class*="text-heading"]`,
			".pv-text-details__left-panel h1", `[data-testid="hero-title"]`, ".top-card-layout__title",
		},
		Title: []string{
			".text-body-medium.break-words", ".pv-text-details__left-panel .text-body-medium",
			`[data-testid="hero-subtitle"]`, ".top-card__headline", ".top-card-layout__headline",
		},
		Company: []string{
			".pv-text-details__right-panel .text-body-medium", `[data-testid="experience-company-name"]`,
			".experience__company-name", ".top-card-link__description",
		},
		Location: []string{
			".pv-text-details__left-panel .text-body-small", `[data-testid="hero-location"]`,
			".top-card__subline-item",
		},
		Bio: []string{
			".pv-shared-text-with-see-more .visually-hidden", ".pv-shared-text-with-see-more",
			".about__summary", `[data-testid="about"]`, ".core-section-container__content p",
		},
		Image:   []string{".pv-top-card-profile-picture__image", ".profile-picture img", ".top-card__profile-image"},
		Weights: linkedInWeights,
	},
	{
		Site:           dossier.PlatformGitHub,
		Hosts:          []string{"github.com"},
		UsernameAsName: true,
		Name:           []string{".vcard-names .p-name", ".vcard-names .p-realname", ".profile-names .p-name"},
		Bio:            []string{".user-profile-bio", ".vcard-details .p-note", ".p-note", ".profile-bio"},
		Company:        []string{".vcard-details .p-org", ".p-org", ".profile-company"},
		Location:       []string{".vcard-details .p-label", ".p-label", ".profile-location"},
		Image:          []string{".vcard-names .avatar", "img.avatar-user", "img.avatar"},
		Weights:        gitHubWeights,
	},
	{
		Site:           dossier.PlatformTwitter,
		Hosts:          []string{"twitter.com", "x.com"},
		UsernameAsName: true,
		Name:           []string{`[data-testid="UserName"] span`, `[data-testid="UserName"]`, `h1[role="heading"]`, ".profile-name"},
		Bio:            []string{`[data-testid="UserDescription"]`, ".profile-bio"},
		Location:       []string{`[data-testid="UserLocation"]`, ".profile-location"},
		Image:          []string{`[data-testid^="UserAvatar-Container"] img`, `img[alt*="profile"]`},
		Weights:        twitterWeights,
	},
	{
		Site:    dossier.PlatformFacebook,
		Hosts:   []string{"facebook.com", "fb.com"},
		Name:    []string{`h1[data-testid="profile_name"]`, ".profile-name", "h1"},
		Bio:     []string{`[data-testid="profile_bio"]`, ".profile-bio", ".about-me"},
		Image:   []string{`[data-testid="profile_picture"] img`, ".profile-picture img"},
		Weights: siteWeights,
	},
	{
		Site:    dossier.PlatformInstagram,
		Hosts:   []string{"instagram.com"},
		Name:    []string{"header h1", "header h2", ".profile-name", "h1"},
		Bio:     []string{"header section > div span", ".profile-bio", ".biography"},
		Image:   []string{"header img"},
		Weights: siteWeights,
	},
	{
		Site:  dossier.PlatformMedium,
		Hosts: []string{"medium.com"},
		Name: []string{
			`[data-testid="profileName"]`, `h1[data-testid="profile_name"]`, ".profile-name",
			".profile-header h1", "h1",
		},
		Title:    []string{`[data-testid="profileTitle"]`, ".profile-title", ".profile-subtitle"},
		Bio:      []string{`[data-testid="profileBio"]`, `[data-testid="profileDescription"]`, ".profile-bio", ".bio"},
		Location: []string{`[data-testid="profileLocation"]`, ".profile-location"},
		Image:    []string{`img[alt*="profile"]`, ".profile-header img"},
		Weights:  siteWeights,
	},
	{
		Site:     dossier.PlatformDevTo,
		Hosts:    []string{"dev.to"},
		Name:     []string{".profile-header__name", ".crayons-title", ".profile-name", "h1"},
		Title:    []string{".profile-header__title", ".profile-title"},
		Bio:      []string{".profile-header__bio", ".profile-bio"},
		Location: []string{".profile-header__location", ".profile-location"},
		Image:    []string{".profile-header__avatar img", ".crayons-avatar img"},
		Weights:  siteWeights,
	},
	{
		Site:     dossier.PlatformStackOverflow,
		Hosts:    []string{"stackoverflow.com"},
		Name:     []string{".profile-user--name", ".fs-headline2", ".profile-name", "h1"},
		Title:    []string{".profile-user--title", ".fs-title", ".profile-title"},
		Bio:      []string{".profile-user--bio", ".js-about-me-content", ".profile-bio"},
		Location: []string{".profile-user--location", ".profile-location"},
		Image:    []string{".profile-user--avatar img", "img.bar-sm"},
		Weights:  siteWeights,
	},
	{
		Site:    dossier.PlatformReddit,
		Hosts:   []string{"reddit.com"},
		Name:    []string{".profile-name", "h1", ".username"},
		Bio:     []string{".profile-bio", ".user-description"},
		Image:   []string{`img[alt*="avatar"]`},
		Weights: siteWeights,
	},
	{
		Site:     dossier.PlatformBehance,
		Hosts:    []string{"behance.net"},
		Name:     []string{".profile-name", ".user-name", "h1"},
		Title:    []string{".profile-title", ".user-title"},
		Bio:      []string{".profile-bio", ".user-bio"},
		Location: []string{".profile-location", ".user-location"},
		Image:    []string{".profile-avatar img", `img[alt*="avatar"]`},
		Weights:  siteWeights,
	},
	{
		Site:     dossier.PlatformDribbble,
		Hosts:    []string{"dribbble.com"},
		Name:     []string{".profile-name", ".user-name", "h1"},
		Title:    []string{".profile-title", ".user-title"},
		Bio:      []string{".profile-bio", ".user-bio"},
		Location: []string{".profile-location", ".user-location"},
		Image:    []string{".profile-avatar img", `img[alt*="avatar"]`},
		Weights:  siteWeights,
	},
	{
		Site:     dossier.PlatformFiverr,
		Hosts:    []string{"fiverr.com"},
		Name:     []string{".seller-name", ".profile-name", "h1"},
		Title:    []string{".seller-title", ".profile-title"},
		Bio:      []string{".seller-description", ".profile-bio"},
		Location: []string{".seller-location", ".profile-location"},
		Image:    []string{".profile-pict img", `img[alt*="profile"]`},
		Weights:  siteWeights,
	},
	{
		Site:     dossier.PlatformUpwork,
		Hosts:    []string{"upwork.com"},
		Name:     []string{".freelancer-name", ".profile-name", "h1"},
		Title:    []string{".freelancer-title", ".profile-title", "h2"},
		Bio:      []string{".freelancer-description", ".profile-bio"},
		Location: []string{".freelancer-location", ".profile-location"},
		Image:    []string{".up-avatar img", `img[alt*="avatar"]`},
		Weights:  siteWeights,
	},
	{
		Site:  dossier.PlatformProductHunt,
		Hosts: []string{"producthunt.com"},
		Name: []string{
			`[data-testid="profileName"]`, ".maker-name", ".profile-name", ".profile-header h1", "h1",
		},
		Title:    []string{`[data-testid="profileTitle"]`, ".maker-title", ".profile-title", ".profile-role"},
		Bio:      []string{`[data-testid="profileBio"]`, ".maker-bio", ".profile-bio", ".profile-about"},
		Company:  []string{`[data-testid="profileCompany"]`, ".maker-company", ".profile-company"},
		Location: []string{`[data-testid="profileLocation"]`, ".maker-location", ".profile-location"},
		Image:    []string{".profile-header img", `img[alt*="avatar"]`},
		Weights:  siteWeights,
	},
	{
		Site:     dossier.PlatformAngelList,
		Hosts:    []string{"angel.co", "wellfound.com"},
		Name:     []string{".founder-name", ".profile-name", "h1"},
		Title:    []string{".founder-title", ".profile-title"},
		Bio:      []string{".founder-bio", ".profile-bio"},
		Company:  []string{".profile-company", ".startup-name"},
		Location: []string{".profile-location", ".founder-location"},
		Image:    []string{".profile-avatar img", `img[alt*="avatar"]`},
		Weights:  siteWeights,
	},
	{
		Site:     dossier.PlatformCrunchbase,
		Hosts:    []string{"crunchbase.com"},
		Name:     []string{".profile-name", "h1.profile-name", "h1"},
		Title:    []string{".primary-job-title", ".profile-title"},
		Bio:      []string{".description", ".profile-bio"},
		Company:  []string{".primary-organization", ".profile-company"},
		Location: []string{".location", ".profile-location"},
		Image:    []string{".profile-avatar img", `img[alt*="profile"]`},
		Weights:  siteWeights,
	},
}

// NewDefaultSiteRegistry returns a registry with every built-in site and
// the company team extractor as the fallback for unknown domains.
func NewDefaultSiteRegistry() *SiteRegistry {
	r := NewSiteRegistry(NewTeamExtractor())
	for _, spec := range siteSpecs {
		r.Register(spec.Hosts, spec)
	}
	return r
}
