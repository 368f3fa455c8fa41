package goquery

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/dossier"
)

// minFieldLen is the shortest text accepted for a selector-extracted field.
const minFieldLen = 3

var (
	emailRe = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)

	phoneRes = []*regexp.Regexp{
		regexp.MustCompile(`\(\d{3}\) \d{3}-\d{4}`),
		regexp.MustCompile(`\d{3}-\d{3}-\d{4}`),
		regexp.MustCompile(`\+?[\d\s\-().]{10,}`),
	}

	backgroundRe = regexp.MustCompile(`background(?:-image)?\s*:[^;]*url\(\s*['"]?([^'")]+)['"]?\s*\)`)
)

// root wraps the shared tree in a goquery selection without copying it.
func root(doc *dossier.Document) *goquery.Selection {
	return goquery.NewDocumentFromNode(doc.Root).Selection
}

// clean collapses runs of whitespace and trims the result.
func clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// textOf returns the first text, in selector order, of at least minFieldLen
// characters found under s.
func textOf(s *goquery.Selection, selectors ...string) string {
	for _, sel := range selectors {
		var found string
		s.Find(sel).EachWithBreak(func(_ int, m *goquery.Selection) bool {
			if t := clean(m.Text()); len(t) >= minFieldLen {
				found = t
				return false
			}
			return true
		})
		if found != "" {
			return found
		}
	}
	return ""
}

// attrOf returns the first non-empty attr value found under s.
func attrOf(s *goquery.Selection, attr string, selectors ...string) string {
	for _, sel := range selectors {
		var found string
		s.Find(sel).EachWithBreak(func(_ int, m *goquery.Selection) bool {
			if v, ok := m.Attr(attr); ok && strings.TrimSpace(v) != "" {
				found = strings.TrimSpace(v)
				return false
			}
			return true
		})
		if found != "" {
			return found
		}
	}
	return ""
}

// imageOf returns the absolute URL of the first image in s, looking at lazy
// loading attributes, srcset and inline background images.
func imageOf(s *goquery.Selection, base *url.URL) string {
	imgs := s.Filter("img").AddSelection(s.Find("img"))
	var found string
	imgs.EachWithBreak(func(_ int, img *goquery.Selection) bool {
		found = imageSource(img, base)
		return found == ""
	})
	if found != "" {
		return found
	}

	styled := s.Filter("[style]").AddSelection(s.Find("[style]"))
	styled.EachWithBreak(func(_ int, el *goquery.Selection) bool {
		style, _ := el.Attr("style")
		if m := backgroundRe.FindStringSubmatch(style); m != nil {
			found = dossier.ResolveURL(base, m[1])
		}
		return found == ""
	})
	return found
}

func imageSource(img *goquery.Selection, base *url.URL) string {
	for _, attr := range []string{"src", "data-src", "data-original", "data-lazy-src"} {
		if v, ok := img.Attr(attr); ok {
			v = strings.TrimSpace(v)
			if v == "" || strings.HasPrefix(v, "data:") {
				continue
			}
			return dossier.ResolveURL(base, v)
		}
	}
	if srcset, ok := img.Attr("srcset"); ok {
		first := strings.TrimSpace(strings.Split(srcset, ",")[0])
		if fields := strings.Fields(first); len(fields) > 0 {
			return dossier.ResolveURL(base, fields[0])
		}
	}
	return ""
}

// socialLinksOf classifies every anchor under s by platform.
func socialLinksOf(s *goquery.Selection, base *url.URL) dossier.SocialLinks {
	var links dossier.SocialLinks
	s.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		abs := dossier.ResolveURL(base, href)
		if !strings.HasPrefix(abs, "http") {
			return
		}
		if p := dossier.PlatformOf(abs); p != dossier.PlatformUnknown {
			links.Set(p, abs)
			return
		}
		if isWebsiteLink(a) {
			links.SetWebsite(abs)
		}
	})
	return links
}

func isWebsiteLink(a *goquery.Selection) bool {
	rel, _ := a.Attr("rel")
	class, _ := a.Attr("class")
	text := strings.ToLower(clean(a.Text()))
	return strings.Contains(" "+rel+" ", " me ") ||
		strings.Contains(strings.ToLower(class), "website") ||
		text == "website" || text == "personal website"
}

// emailOf prefers mailto: links and falls back to a pattern sweep over the
// text of s.
func emailOf(s *goquery.Selection) string {
	if href := attrOf(s, "href", `a[href^="mailto:"]`); href != "" {
		addr := strings.TrimPrefix(href, "mailto:")
		if i := strings.IndexByte(addr, '?'); i >= 0 {
			addr = addr[:i]
		}
		if emailRe.MatchString(addr) {
			return addr
		}
	}
	return findEmail(s.Text())
}

// phoneOf prefers tel: links and falls back to a pattern sweep over the
// text of s.
func phoneOf(s *goquery.Selection) string {
	if href := attrOf(s, "href", `a[href^="tel:"]`); href != "" {
		return strings.TrimPrefix(href, "tel:")
	}
	return findPhone(s.Text())
}

func findEmail(text string) string {
	return emailRe.FindString(text)
}

func findPhone(text string) string {
	for _, re := range phoneRes {
		for _, m := range re.FindAllString(text, -1) {
			m = strings.TrimSpace(m)
			if countDigits(m) >= 10 && countDigits(m) <= 15 {
				return m
			}
		}
	}
	return ""
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}

// longestParagraph returns the longest <p> text under s that is longer
// than minLen characters.
func longestParagraph(s *goquery.Selection, minLen int) string {
	best := ""
	s.Find("p").Each(func(_ int, p *goquery.Selection) {
		if t := clean(p.Text()); len(t) > len(best) {
			best = t
		}
	})
	if len(best) <= minLen {
		return ""
	}
	return best
}

// containsAny reports whether s contains any of the words.
func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// countContained returns how many of the words appear in s.
func countContained(s string, words ...string) int {
	n := 0
	for _, w := range words {
		if strings.Contains(s, w) {
			n++
		}
	}
	return n
}
