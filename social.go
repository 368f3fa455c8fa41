package dossier

import (
	"net/url"
	"regexp"
	"strings"
)

// Platform identifies a social or professional site.
type Platform string

// Platform constants.
const (
	PlatformUnknown       Platform = ""
	PlatformLinkedIn      Platform = "linkedin"
	PlatformTwitter       Platform = "twitter"
	PlatformGitHub        Platform = "github"
	PlatformInstagram     Platform = "instagram"
	PlatformFacebook      Platform = "facebook"
	PlatformMedium        Platform = "medium"
	PlatformDevTo         Platform = "devto"
	PlatformStackOverflow Platform = "stackoverflow"
	PlatformReddit        Platform = "reddit"
	PlatformBehance       Platform = "behance"
	PlatformDribbble      Platform = "dribbble"
	PlatformFiverr        Platform = "fiverr"
	PlatformUpwork        Platform = "upwork"
	PlatformProductHunt   Platform = "producthunt"
	PlatformAngelList     Platform = "angellist"
	PlatformCrunchbase    Platform = "crunchbase"
)

// SocialLinks holds links to a person's presence on well-known platforms.
// The set of keys is fixed; every value is optional.
type SocialLinks struct {
	LinkedIn  string `json:"linkedin,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	GitHub    string `json:"github,omitempty"`
	Website   string `json:"website,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
}

// Count returns the number of populated links.
func (s SocialLinks) Count() int {
	n := 0
	for _, v := range []string{s.LinkedIn, s.Twitter, s.GitHub, s.Website, s.Instagram, s.Facebook} {
		if v != "" {
			n++
		}
	}
	return n
}

// Set stores link under the field for platform. Platforms without a field
// of their own are ignored. An existing value is never overwritten.
func (s *SocialLinks) Set(platform Platform, link string) {
	var field *string
	switch platform {
	case PlatformLinkedIn:
		field = &s.LinkedIn
	case PlatformTwitter:
		field = &s.Twitter
	case PlatformGitHub:
		field = &s.GitHub
	case PlatformInstagram:
		field = &s.Instagram
	case PlatformFacebook:
		field = &s.Facebook
	default:
		return
	}
	if *field == "" {
		*field = link
	}
}

// SetWebsite stores link as the personal website if none is set.
func (s *SocialLinks) SetWebsite(link string) {
	if s.Website == "" {
		s.Website = link
	}
}

// platformSpec maps a platform to the hosts it serves from and the rule for
// pulling a username out of a profile URL path.
type platformSpec struct {
	platform Platform
	hosts    []string
	username *regexp.Regexp
}

// platforms is ordered; the first host match wins.
var platforms = []platformSpec{
	{PlatformLinkedIn, []string{"linkedin.com"}, regexp.MustCompile(`^/in/([^/?#]+)`)},
	{PlatformGitHub, []string{"github.com"}, regexp.MustCompile(`^/([^/?#]+)/?$`)},
	{PlatformTwitter, []string{"twitter.com", "x.com"}, regexp.MustCompile(`^/([^/?#]+)/?$`)},
	{PlatformFacebook, []string{"facebook.com", "fb.com"}, regexp.MustCompile(`^/([^/?#]+)/?$`)},
	{PlatformInstagram, []string{"instagram.com"}, regexp.MustCompile(`^/([^/?#]+)/?$`)},
	{PlatformMedium, []string{"medium.com"}, regexp.MustCompile(`^/@([^/?#]+)`)},
	{PlatformDevTo, []string{"dev.to"}, regexp.MustCompile(`^/([^/?#]+)/?$`)},
	{PlatformStackOverflow, []string{"stackoverflow.com"}, regexp.MustCompile(`^/users/\d+/([^/?#]+)`)},
	{PlatformReddit, []string{"reddit.com"}, regexp.MustCompile(`^/(?:u|user)/([^/?#]+)`)},
	{PlatformBehance, []string{"behance.net"}, regexp.MustCompile(`^/([^/?#]+)/?$`)},
	{PlatformDribbble, []string{"dribbble.com"}, regexp.MustCompile(`^/([^/?#]+)/?$`)},
	{PlatformFiverr, []string{"fiverr.com"}, regexp.MustCompile(`^/([^/?#]+)/?$`)},
	{PlatformUpwork, []string{"upwork.com"}, regexp.MustCompile(`^/freelancers/([^/?#]+)`)},
	{PlatformProductHunt, []string{"producthunt.com"}, regexp.MustCompile(`^/@([^/?#]+)`)},
	{PlatformAngelList, []string{"angel.co", "wellfound.com"}, regexp.MustCompile(`^/(?:u|p)/([^/?#]+)`)},
	{PlatformCrunchbase, []string{"crunchbase.com"}, regexp.MustCompile(`^/person/([^/?#]+)`)},
}

// reservedPaths are first path segments that never name a user.
var reservedPaths = map[string]bool{
	"about": true, "login": true, "signup": true, "share": true, "intent": true,
	"home": true, "explore": true, "settings": true, "search": true, "pages": true,
	"features": true, "pricing": true, "help": true, "privacy": true, "terms": true,
}

// PlatformOf returns the platform serving rawURL, or PlatformUnknown.
func PlatformOf(rawURL string) Platform {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return PlatformUnknown
	}
	host := strings.ToLower(strings.TrimPrefix(u.Hostname(), "www."))
	for _, spec := range platforms {
		for _, h := range spec.hosts {
			if host == h || strings.HasSuffix(host, "."+h) {
				return spec.platform
			}
		}
	}
	return PlatformUnknown
}

// UsernameFromURL returns the account handle encoded in a profile URL on
// platform, or "" when the URL does not point at a user.
func UsernameFromURL(platform Platform, rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	for _, spec := range platforms {
		if spec.platform != platform {
			continue
		}
		m := spec.username.FindStringSubmatch(u.EscapedPath())
		if m == nil {
			return ""
		}
		name, err := url.PathUnescape(m[1])
		if err != nil || reservedPaths[strings.ToLower(name)] {
			return ""
		}
		return strings.TrimPrefix(name, "@")
	}
	return ""
}
