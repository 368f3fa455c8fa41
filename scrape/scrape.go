// Package scrape orchestrates a single profile scrape: fetch, parse,
// concurrent extraction, model fallback, merge and caching.
package scrape

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/dossier"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Ensure Scraper implements dossier.Scraper at compile time.
var _ dossier.Scraper = (*Scraper)(nil)

// DefaultRenderAllowList names URL fragments of pages that only show their
// people after client-side rendering.
var DefaultRenderAllowList = []string{
	"freshworks.com/company/leadership",
}

// Scraper runs the extraction pipeline for one URL at a time. It is safe
// for concurrent use when its collaborators are.
type Scraper struct {
	Fetcher dossier.Fetcher
	Parser  dossier.Parser

	// Strategies run concurrently on every parsed document, in declared
	// order for reporting and merge tie-breaking.
	Strategies []dossier.Strategy

	// Model, when set, runs only when Strategies produce no candidates.
	Model dossier.Strategy

	// Renderer, when set, replaces Fetcher for URLs containing any entry
	// of RenderAllowList.
	Renderer        dossier.Renderer
	RenderAllowList []string

	// Cache and Sessions are optional.
	Cache    dossier.Cache
	Sessions dossier.SessionService
}

// run carries the state of one Scrape call.
type run struct {
	url      string
	begin    time.Time
	timedOut bool
	result   *dossier.ScrapeResult
}

func (r *run) fail(err error) {
	if errors.Is(err, context.Canceled) {
		err = dossier.Errorf(dossier.EINTERNAL, "request canceled")
	}
	r.result.Success = false
	r.result.Profiles = []*dossier.Profile{}
	r.result.Diagnostics.Errors = append(r.result.Diagnostics.Errors, dossier.ErrorMessage(err))
}

// Scrape validates req and returns the resolved profiles for its URL.
// Fetch failures, parse failures and timeouts produce an unsuccessful
// result rather than an error.
func (s *Scraper) Scrape(ctx context.Context, req dossier.ScrapeRequest) (*dossier.ScrapeResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	normalized, err := dossier.NormalizeURL(req.URL)
	if err != nil {
		return nil, err
	}

	r := &run{
		url:   normalized,
		begin: time.Now(),
		result: &dossier.ScrapeResult{
			URL:      normalized,
			Profiles: []*dossier.Profile{},
		},
	}
	defer func() {
		r.result.Diagnostics.Duration = time.Since(r.begin)
		s.record(ctx, r)
	}()

	// An entry without profiles is scraped again.
	if s.Cache != nil {
		if entry, err := s.Cache.Get(ctx, normalized); err == nil && entry != nil && len(entry.Profiles) > 0 {
			r.result.Success = true
			r.result.Profiles = truncate(entry.Profiles, req.MaxProfiles)
			r.result.Diagnostics.Cached = true
			r.result.Diagnostics.Status = dossier.StatusSuccess
			return r.result, nil
		}
	}

	ctx, cancel := context.WithTimeout(ctx, req.Timeout)
	defer cancel()

	profiles, err := s.pipeline(ctx, r)
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		r.timedOut = true
		err = dossier.Errorf(dossier.ETIMEOUT, "timeout exceeded after %s", req.Timeout)
	}
	if err != nil {
		r.fail(err)
		return r.result, nil
	}

	for _, p := range profiles {
		if p.ID == "" {
			p.ID = uuid.New().String()
		}
	}
	r.result.Success = true
	r.result.Profiles = truncate(profiles, req.MaxProfiles)

	if s.Cache != nil && ctx.Err() == nil {
		_ = s.Cache.Put(ctx, normalized, r.result.Profiles)
	}
	return r.result, nil
}

// pipeline fetches, parses and extracts, returning merged profiles.
func (s *Scraper) pipeline(ctx context.Context, r *run) ([]*dossier.Profile, error) {
	page, err := s.fetch(ctx, r)
	if err != nil {
		if dossier.ErrorCode(err) == dossier.ENOTFOUND {
			r.result.Diagnostics.Status = dossier.StatusNotFound
		}
		return nil, err
	}
	r.result.Diagnostics.Status = page.Status
	r.result.Diagnostics.Protection = page.Protection.Strings()
	r.result.Diagnostics.Rendered = page.Rendered

	doc, err := s.Parser.Parse(page)
	if err != nil {
		return nil, err
	}

	candidates := s.extract(ctx, doc, s.Strategies, r)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(candidates) == 0 && s.Model != nil {
		candidates = s.extract(ctx, doc, []dossier.Strategy{s.Model}, r)
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	return dossier.Merge(candidates), nil
}

// fetch uses the renderer for allow-listed URLs and falls back to the
// fetcher when rendering fails.
func (s *Scraper) fetch(ctx context.Context, r *run) (*dossier.Page, error) {
	if s.Renderer != nil && s.renderable(r.url) {
		body, err := s.Renderer.Render(ctx, r.url)
		if err == nil && strings.TrimSpace(body) != "" {
			return &dossier.Page{
				URL:        r.url,
				StatusCode: 200,
				Status:     dossier.StatusSuccess,
				Body:       body,
				Rendered:   true,
			}, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if err != nil {
			r.result.Diagnostics.Errors = append(r.result.Diagnostics.Errors, "render failed: "+dossier.ErrorMessage(err))
		}
	}
	return s.Fetcher.FetchPage(ctx, r.url)
}

func (s *Scraper) renderable(url string) bool {
	allow := s.RenderAllowList
	if allow == nil {
		allow = DefaultRenderAllowList
	}
	for _, a := range allow {
		if a != "" && strings.Contains(url, a) {
			return true
		}
	}
	return false
}

// extract runs strategies concurrently and concatenates their accepted
// candidates in declared order. A failing strategy contributes nothing.
func (s *Scraper) extract(ctx context.Context, doc *dossier.Document, strategies []dossier.Strategy, r *run) []*dossier.Profile {
	results := make([][]*dossier.Profile, len(strategies))
	errs := make([]error, len(strategies))

	var g errgroup.Group
	for i, strategy := range strategies {
		g.Go(func() error {
			results[i], errs[i] = runStrategy(ctx, strategy, doc)
			return nil
		})
	}
	_ = g.Wait()

	var candidates []*dossier.Profile
	for i, strategy := range strategies {
		if errs[i] != nil {
			r.result.Diagnostics.StrategiesFailed = append(r.result.Diagnostics.StrategiesFailed, strategy.Name())
			r.result.Diagnostics.Errors = append(r.result.Diagnostics.Errors,
				fmt.Sprintf("%s: %s", strategy.Name(), dossier.ErrorMessage(errs[i])))
			continue
		}
		accepted := dossier.AcceptAll(results[i])
		if len(accepted) > 0 {
			r.result.Diagnostics.StrategiesUsed = append(r.result.Diagnostics.StrategiesUsed, strategy.Name())
		}
		candidates = append(candidates, accepted...)
	}
	return candidates
}

// runStrategy calls strategy, converting a panic into an error.
func runStrategy(ctx context.Context, strategy dossier.Strategy, doc *dossier.Document) (profiles []*dossier.Profile, err error) {
	defer func() {
		if v := recover(); v != nil {
			profiles = nil
			err = dossier.Errorf(dossier.EINTERNAL, "strategy %s panicked: %v", strategy.Name(), v)
		}
	}()
	return strategy.Extract(ctx, doc)
}

// record stores a session for the finished run. Failures are ignored.
func (s *Scraper) record(ctx context.Context, r *run) {
	if s.Sessions == nil {
		return
	}
	session := &dossier.Session{
		URL:           r.url,
		ProfilesFound: len(r.result.Profiles),
		Duration:      r.result.Diagnostics.Duration,
		Strategies:    r.result.Diagnostics.StrategiesUsed,
		Status:        dossier.SessionSuccess,
	}
	if !r.result.Success {
		session.Status = dossier.SessionFailed
		session.Error = strings.Join(r.result.Diagnostics.Errors, "; ")
	}
	if r.timedOut {
		session.Status = dossier.SessionTimeout
	}
	_ = s.Sessions.CreateSession(context.WithoutCancel(ctx), session)
}

func truncate(profiles []*dossier.Profile, n int) []*dossier.Profile {
	if len(profiles) > n {
		return profiles[:n]
	}
	return profiles
}
