package dossier

import (
	"math"
	"strings"
)

// Strategy tags recorded on every profile.
const (
	StrategyStructural = "structural"
	StrategyDomain     = "domain"
	StrategyUniversal  = "universal"
	StrategyHeading    = "heading"
	StrategyLeadership = "leadership"
	StrategyModel      = "model"
)

// Profile is a person record extracted from a page. Profiles produced by a
// strategy are candidates; profiles that survive Merge are resolved.
type Profile struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name,omitempty"`
	Title    string `json:"title,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Bio      string `json:"bio,omitempty"`
	Company  string `json:"company,omitempty"`
	Location string `json:"location,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
	Username string `json:"username,omitempty"`

	SocialLinks SocialLinks `json:"social_links"`

	// SourceURL is the page the profile was extracted from.
	SourceURL string `json:"source_url"`

	// Confidence is a heuristic quality score in [0,1].
	Confidence float64 `json:"confidence"`

	// Strategy names the strategy that produced the profile.
	Strategy string `json:"strategy"`

	// RawEvidence keeps an opaque payload for audit, such as raw model output.
	RawEvidence string `json:"raw_evidence,omitempty"`
}

// Validate returns an error if the profile contains invalid fields.
func (p *Profile) Validate() error {
	if strings.TrimSpace(p.Name) == "" && strings.TrimSpace(p.Title) == "" {
		return Errorf(EINVALID, "profile name or title required")
	}
	if p.SourceURL == "" {
		return Errorf(EINVALID, "profile source URL required")
	}
	if math.IsNaN(p.Confidence) || p.Confidence < 0 || p.Confidence > 1 {
		return Errorf(EINVALID, "profile confidence %v out of range", p.Confidence)
	}
	return nil
}

// Fields returns the number of populated core fields.
func (p *Profile) Fields() int {
	n := 0
	for _, v := range []string{p.Name, p.Title, p.Email, p.Phone, p.Bio, p.Company, p.Location, p.ImageURL} {
		if v != "" {
			n++
		}
	}
	return n
}

// Clone returns a deep copy of the profile.
func (p *Profile) Clone() *Profile {
	cp := *p
	return &cp
}

// Accept normalizes a candidate and reports whether it may leave a strategy.
// Whitespace is trimmed, confidence is clamped and candidates without a name
// or title, or matching noise vocabulary, are rejected.
func Accept(p *Profile) (*Profile, bool) {
	if p == nil {
		return nil, false
	}
	p.Name = collapseSpace(p.Name)
	p.Title = collapseSpace(p.Title)
	p.Email = strings.TrimSpace(p.Email)
	p.Phone = strings.TrimSpace(p.Phone)
	p.Bio = strings.TrimSpace(p.Bio)
	p.Company = collapseSpace(p.Company)
	p.Location = collapseSpace(p.Location)
	p.ImageURL = strings.TrimSpace(p.ImageURL)
	p.Confidence = Clamp(p.Confidence)

	if p.Validate() != nil {
		return nil, false
	}
	if IsNoise(p) {
		return nil, false
	}
	return p, true
}

// AcceptAll applies Accept to each candidate and keeps the survivors.
func AcceptAll(candidates []*Profile) []*Profile {
	out := make([]*Profile, 0, len(candidates))
	for _, c := range candidates {
		if p, ok := Accept(c); ok {
			out = append(out, p)
		}
	}
	return out
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
