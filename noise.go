package dossier

import (
	"regexp"
	"strings"
	"unicode"
)

// GenericHeadings are section headings that are never a person's name.
var GenericHeadings = []string{
	"leadership",
	"executive team",
	"board of directors",
	"see what we're all about",
	"our team",
	"management",
	"team",
	"leaders",
	"about us",
	"contact us",
	"meet the team",
}

// noisePhrases is authentication, navigation and consent-banner boilerplate.
var noisePhrases = []string{
	"sign in to view",
	"sign in",
	"log in",
	"login",
	"join",
	"join now",
	"join linkedin",
	"create account",
	"forgot password",
	"reset password",
	"welcome back",
	"sign up",
	"public profile",
	"block or report",
	"view profile",
	"see more",
	"read more",
	"learn more",
	"privacy preference",
	"privacy preferences",
	"your privacy",
	"cookie policy",
	"cookie",
	"cookies",
	"strictly necessary",
	"functional cookies",
	"performance cookies",
	"targeting cookies",
	"advertising cookies",
}

// noiseMarkers are markup fragments that leak into text on gated pages.
var noiseMarkers = []string{
	"top-card_title",
	"contextual-sign-in",
	"sign-in-modal",
}

var noisePattern = compileWordList(noisePhrases)

// nameStopWords disqualify a heading from being read as a name.
var nameStopWords = map[string]bool{
	"team": true, "leadership": true, "about": true, "company": true,
	"organization": true, "contact": true, "careers": true, "news": true,
	"blog": true, "products": true, "services": true, "home": true,
	"login": true, "search": true, "menu": true, "navigation": true,
	"our": true, "meet": true, "the": true, "welcome": true, "board": true,
	"directors": true, "management": true, "executive": true, "leaders": true,
}

// genericTeamNames are placeholder names rejected by ValidTeamProfile.
var genericTeamNames = map[string]bool{
	"team": true, "member": true, "profile": true, "person": true, "employee": true,
}

func compileWordList(words []string) *regexp.Regexp {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)\b`)
}

// IsNoise reports whether a candidate's name, title and bio carry login,
// navigation or cookie-banner boilerplate rather than a person.
func IsNoise(p *Profile) bool {
	text := strings.ToLower(p.Name + " " + p.Title + " " + p.Bio)
	if noisePattern.MatchString(text) {
		return true
	}
	for _, m := range noiseMarkers {
		if strings.Contains(text, m) {
			return true
		}
	}
	return p.Name != "" && IsGenericHeading(p.Name)
}

// IsGenericHeading reports whether text is a generic section heading.
func IsGenericHeading(text string) bool {
	t := strings.ToLower(collapseSpace(text))
	t = strings.TrimRight(t, ":.!")
	for _, h := range GenericHeadings {
		if t == h {
			return true
		}
	}
	return false
}

// LooksLikeName reports whether text resembles a personal name: two to four
// tokens, at least two of them capitalized, and not a generic heading.
func LooksLikeName(text string) bool {
	text = collapseSpace(text)
	if len(text) < 3 || len(text) > 60 || IsGenericHeading(text) {
		return false
	}
	tokens := strings.Fields(text)
	if len(tokens) < 2 || len(tokens) > 4 {
		return false
	}
	capitalized := 0
	for _, tok := range tokens {
		if nameStopWords[strings.ToLower(strings.Trim(tok, ",.:"))] {
			return false
		}
		for _, r := range tok {
			if unicode.IsDigit(r) || r == '@' || r == '/' || r == '|' {
				return false
			}
		}
		r := []rune(tok)[0]
		if unicode.IsUpper(r) {
			capitalized++
		}
	}
	return capitalized >= 2
}

// ValidTeamProfile reports whether a company-team candidate is meaningful:
// a name of at least three characters that is not a placeholder, plus a
// title or a company.
func ValidTeamProfile(p *Profile) bool {
	name := strings.TrimSpace(p.Name)
	if len(name) < 3 {
		return false
	}
	if genericTeamNames[strings.ToLower(name)] {
		return false
	}
	return p.Title != "" || p.Company != ""
}
