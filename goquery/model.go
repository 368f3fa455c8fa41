package goquery

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/dossier"
)

// Ensure ModelStrategy implements dossier.Strategy at compile time.
var _ dossier.Strategy = (*ModelStrategy)(nil)

const (
	// MaxModelInput bounds the cleaned text sent to the oracle.
	MaxModelInput = 8000
	// DefaultModelAttempts bounds oracle calls per extraction.
	DefaultModelAttempts = 3

	minBlockLen = 10
)

// modelNoise is removed from the page before it is rendered as text.
const modelNoise = "script, style, nav, footer, header, noscript, iframe, " +
	".cookie, .advert, .ads, .popup, .modal"

// DefaultModelDelay waits one second before the first call and 2+attempt
// seconds before each retry.
func DefaultModelDelay(attempt int) time.Duration {
	if attempt == 0 {
		return time.Second
	}
	return time.Duration(2+attempt) * time.Second
}

// ModelStrategy asks an external model to read profiles from a cleaned
// text rendering of the page.
type ModelStrategy struct {
	oracle   dossier.Oracle
	attempts int
	delay    func(attempt int) time.Duration
}

// ModelOption configures a ModelStrategy.
type ModelOption func(*ModelStrategy)

// WithAttempts sets the maximum number of oracle calls.
func WithAttempts(n int) ModelOption {
	return func(s *ModelStrategy) {
		if n > 0 {
			s.attempts = n
		}
	}
}

// WithDelay sets the wait before each oracle call.
func WithDelay(fn func(attempt int) time.Duration) ModelOption {
	return func(s *ModelStrategy) {
		s.delay = fn
	}
}

// NewModelStrategy creates a new ModelStrategy backed by oracle.
func NewModelStrategy(oracle dossier.Oracle, opts ...ModelOption) *ModelStrategy {
	s := &ModelStrategy{
		oracle:   oracle,
		attempts: DefaultModelAttempts,
		delay:    DefaultModelDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the strategy tag.
func (s *ModelStrategy) Name() string { return dossier.StrategyModel }

// Extract renders the page, queries the oracle and parses its answer.
// Exhausting all attempts yields no profiles and no error.
func (s *ModelStrategy) Extract(ctx context.Context, doc *dossier.Document) ([]*dossier.Profile, error) {
	if s.oracle == nil {
		return nil, nil
	}
	text := RenderText(doc)
	if text == "" {
		return nil, nil
	}

	for attempt := range s.attempts {
		if err := sleep(ctx, s.delay(attempt)); err != nil {
			return nil, err
		}
		answer, err := s.oracle.Complete(ctx, text)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue
		}
		if strings.TrimSpace(answer) == "" {
			continue
		}
		return dossier.AcceptAll(ParseModelAnswer(answer, doc)), nil
	}
	return nil, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// RenderText returns a line-oriented text rendering of doc with headings,
// text blocks and links, truncated to MaxModelInput bytes. The shared tree
// is not modified.
func RenderText(doc *dossier.Document) string {
	sel := root(doc).Clone()
	sel.Find(modelNoise).Remove()

	var b strings.Builder
	sel.Find("h1, h2, h3, h4, h5, h6").Each(func(_ int, h *goquery.Selection) {
		if t := clean(h.Text()); t != "" {
			fmt.Fprintf(&b, "HEADING: %s\n", t)
		}
	})
	sel.Find("p, li, span, div, td").Each(func(_ int, el *goquery.Selection) {
		if el.Find("p, li, div, td").Length() > 0 {
			return
		}
		if t := clean(el.Text()); len(t) > minBlockLen {
			b.WriteString(t)
			b.WriteByte('\n')
		}
	})
	sel.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if t := clean(a.Text()); t != "" && strings.TrimSpace(href) != "" {
			fmt.Fprintf(&b, "LINK: %s -> %s\n", t, dossier.ResolveURL(doc.Base, href))
		}
	})
	return truncate(b.String(), MaxModelInput)
}

// truncate cuts s to at most n bytes on a rune boundary.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// modelSocial accepts both key styles used by models.
type modelSocial map[string]string

// modelProfile is one profile object in a model answer. Snake and camel
// case keys are both accepted.
type modelProfile struct {
	Name     string `json:"name"`
	Title    string `json:"title"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Bio      string `json:"bio"`
	Company  string `json:"company"`
	Location string `json:"location"`
	Image    string `json:"image"`

	ImageURL      string      `json:"image_url"`
	ImageURLCamel string      `json:"imageUrl"`
	Social        modelSocial `json:"social_links"`
	SocialCamel   modelSocial `json:"socialLinks"`
}

// ParseModelAnswer reads profiles from a model answer: a JSON object with
// a profiles array when present, otherwise "key: value" lines.
func ParseModelAnswer(answer string, doc *dossier.Document) []*dossier.Profile {
	raws, ok := parseModelJSON(answer)
	if !ok {
		raws = parseModelLines(answer)
	}
	profiles := make([]*dossier.Profile, 0, len(raws))
	for _, raw := range raws {
		if p := raw.profile(doc, answer); p != nil {
			profiles = append(profiles, p)
		}
	}
	return profiles
}

func parseModelJSON(answer string) ([]modelProfile, bool) {
	start := strings.IndexByte(answer, '{')
	end := strings.LastIndexByte(answer, '}')
	if start < 0 || end <= start {
		return nil, false
	}
	var payload struct {
		Profiles *[]modelProfile `json:"profiles"`
	}
	if err := json.Unmarshal([]byte(answer[start:end+1]), &payload); err != nil || payload.Profiles == nil {
		return nil, false
	}
	return *payload.Profiles, true
}

// parseModelLines reads "key: value" lines. A blank line or a repeated
// name key starts a new profile.
func parseModelLines(answer string) []modelProfile {
	var out []modelProfile
	var cur modelProfile
	var dirty bool
	flush := func() {
		if dirty {
			out = append(out, cur)
		}
		cur, dirty = modelProfile{}, false
	}
	for line := range strings.SplitSeq(answer, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			flush()
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.Trim(strings.TrimSpace(key), "-*# "))
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if key == "name" && cur.Name != "" {
			flush()
		}
		if cur.set(key, value) {
			dirty = true
		}
	}
	flush()
	return out
}

func (m *modelProfile) set(key, value string) bool {
	switch key {
	case "name":
		m.Name = value
	case "title":
		m.Title = value
	case "email":
		m.Email = value
	case "phone":
		m.Phone = value
	case "bio":
		m.Bio = value
	case "company":
		m.Company = value
	case "location":
		m.Location = value
	case "image", "image_url", "imageurl":
		m.Image = value
	case "linkedin", "twitter", "github", "website", "instagram", "facebook":
		if m.Social == nil {
			m.Social = modelSocial{}
		}
		m.Social[key] = value
	default:
		return false
	}
	return true
}

func (m modelProfile) profile(doc *dossier.Document, answer string) *dossier.Profile {
	p := &dossier.Profile{
		Name:        nullable(m.Name),
		Title:       nullable(m.Title),
		Email:       nullable(m.Email),
		Phone:       nullable(m.Phone),
		Bio:         nullable(m.Bio),
		Company:     nullable(m.Company),
		Location:    nullable(m.Location),
		SourceURL:   doc.URL,
		Strategy:    dossier.StrategyModel,
		RawEvidence: answer,
	}
	for _, img := range []string{m.Image, m.ImageURL, m.ImageURLCamel} {
		if img = nullable(img); img != "" {
			p.ImageURL = dossier.ResolveURL(doc.Base, img)
			break
		}
	}
	for _, social := range []modelSocial{m.Social, m.SocialCamel} {
		for key, link := range social {
			link = nullable(link)
			if link == "" {
				continue
			}
			link = dossier.ResolveURL(doc.Base, link)
			if key == "website" {
				p.SocialLinks.SetWebsite(link)
				continue
			}
			p.SocialLinks.Set(dossier.Platform(strings.ToLower(key)), link)
		}
	}
	if p.Name == "" && p.Title == "" && p.Email == "" {
		return nil
	}
	p.Confidence = modelScore(p)
	return p
}

// nullable maps the literal null placeholders models emit to "".
func nullable(s string) string {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "null", "none", "n/a", "unknown":
		return ""
	}
	return s
}

func modelScore(p *dossier.Profile) float64 {
	fields := p.Fields()
	score := 0.1*float64(fields) + 0.05*float64(p.SocialLinks.Count())
	if fields >= 3 {
		score += 0.1
	}
	return dossier.Clamp(score)
}
