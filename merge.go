package dossier

import (
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/text/cases"
)

// noCompany stands in for an absent company in the coarse dedup key.
const noCompany = "no-company"

// NormalizeName case-folds s, drops periods and collapses whitespace.
func NormalizeName(s string) string {
	s = cases.Fold().String(s)
	s = strings.ReplaceAll(s, ".", " ")
	return strings.Join(strings.Fields(s), " ")
}

// NamesMatch reports whether two names plausibly denote the same person.
// "John Smith", "john  smith" and "J. Smith" all match one another;
// "John Smith" and "Jane Smith" do not. A missing name matches nothing.
func NamesMatch(a, b string) bool {
	na, nb := NormalizeName(a), NormalizeName(b)
	if na == "" || nb == "" {
		return false
	}
	if na == nb {
		return true
	}
	if strings.ReplaceAll(na, " ", "") == strings.ReplaceAll(nb, " ", "") {
		return true
	}

	ta, tb := strings.Fields(na), strings.Fields(nb)
	if len(ta) < 2 || len(tb) < 2 || ta[len(ta)-1] != tb[len(tb)-1] {
		return false
	}
	return isInitialOf(ta[0], tb[0]) || isInitialOf(tb[0], ta[0])
}

// isInitialOf reports whether initial is a single letter that begins word.
func isInitialOf(initial, word string) bool {
	ri, rw := []rune(initial), []rune(word)
	return len(ri) == 1 && len(rw) > 1 && ri[0] == rw[0]
}

// SamePerson is the identity test used by Merge: names match and either
// both companies are present and equal, or both titles are present and equal.
func SamePerson(a, b *Profile) bool {
	if !NamesMatch(a.Name, b.Name) {
		return false
	}
	ca, cb := NormalizeName(a.Company), NormalizeName(b.Company)
	if ca != "" && cb != "" && ca == cb {
		return true
	}
	ta, tb := NormalizeName(a.Title), NormalizeName(b.Title)
	return ta != "" && ta == tb
}

// coarseKey hashes the normalized name and company. Title-only profiles
// carry their title in place of the name.
func coarseKey(p *Profile) uint64 {
	name := NormalizeName(p.Name)
	if name == "" {
		name = "title:" + NormalizeName(p.Title)
	}
	company := NormalizeName(p.Company)
	if company == "" {
		company = noCompany
	}
	return xxhash.Sum64String(name + "|" + company)
}

// Merge collapses candidates that denote the same person. Candidates are
// ranked by descending confidence and the highest ranked representative of
// each identity survives. The result is the same for any ordering of the
// same input, up to the order of exactly equal profiles. Merge does not
// modify its input.
func Merge(candidates []*Profile) []*Profile {
	ranked := make([]*Profile, 0, len(candidates))
	for _, c := range candidates {
		if c != nil {
			ranked = append(ranked, c)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return rankLess(ranked[i], ranked[j])
	})

	seen := make(map[uint64]bool, len(ranked))
	resolved := make([]*Profile, 0, len(ranked))
	for _, c := range ranked {
		key := coarseKey(c)
		if seen[key] {
			continue
		}
		duplicate := false
		for _, r := range resolved {
			if SamePerson(c, r) {
				duplicate = true
				break
			}
		}
		if duplicate {
			continue
		}
		seen[key] = true
		resolved = append(resolved, c)
	}
	return resolved
}

// rankLess orders by confidence, then by a content key so that ties do not
// depend on input order.
func rankLess(a, b *Profile) bool {
	if a.Confidence != b.Confidence {
		return a.Confidence > b.Confidence
	}
	if fa, fb := a.Fields(), b.Fields(); fa != fb {
		return fa > fb
	}
	ka, kb := tieKey(a), tieKey(b)
	for i := range ka {
		if ka[i] != kb[i] {
			return ka[i] < kb[i]
		}
	}
	return false
}

func tieKey(p *Profile) [17]string {
	return [17]string{
		p.Strategy,
		NormalizeName(p.Name),
		NormalizeName(p.Title),
		NormalizeName(p.Company),
		p.Email,
		p.Phone,
		p.Location,
		p.Username,
		p.ImageURL,
		p.Bio,
		p.SocialLinks.LinkedIn,
		p.SocialLinks.Twitter,
		p.SocialLinks.GitHub,
		p.SocialLinks.Website,
		p.SocialLinks.Instagram,
		p.SocialLinks.Facebook,
		p.SourceURL,
	}
}
