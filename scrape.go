package dossier

import (
	"context"
	"time"
)

// Scrape request limits.
const (
	DefaultMaxProfiles = 10
	MinMaxProfiles     = 1
	MaxMaxProfiles     = 100

	DefaultScrapeTimeout = 30 * time.Second
	MinScrapeTimeout     = 10 * time.Second
	MaxScrapeTimeout     = 120 * time.Second
)

// ScrapeRequest asks for the profiles found on one page.
type ScrapeRequest struct {
	URL string

	// MaxProfiles bounds the number of resolved profiles returned.
	// Zero selects DefaultMaxProfiles.
	MaxProfiles int

	// Timeout is the overall wall-clock budget for the request.
	// Zero selects DefaultScrapeTimeout.
	Timeout time.Duration
}

// Validate applies defaults and returns an error if the request is invalid.
func (r *ScrapeRequest) Validate() error {
	if r.URL == "" {
		return Errorf(EINVALID, "URL required")
	}
	if r.MaxProfiles == 0 {
		r.MaxProfiles = DefaultMaxProfiles
	}
	if r.MaxProfiles < MinMaxProfiles || r.MaxProfiles > MaxMaxProfiles {
		return Errorf(EINVALID, "max profiles must be between %d and %d", MinMaxProfiles, MaxMaxProfiles)
	}
	if r.Timeout == 0 {
		r.Timeout = DefaultScrapeTimeout
	}
	if r.Timeout < MinScrapeTimeout || r.Timeout > MaxScrapeTimeout {
		return Errorf(EINVALID, "timeout must be between %s and %s", MinScrapeTimeout, MaxScrapeTimeout)
	}
	return nil
}

// Diagnostics explains how a scrape result was produced.
type Diagnostics struct {
	// StrategiesUsed lists, in declared order, the strategies that
	// contributed at least one accepted candidate.
	StrategiesUsed []string `json:"strategies_used"`

	// StrategiesFailed lists the strategies that returned an error.
	StrategiesFailed []string `json:"strategies_failed,omitempty"`

	// Errors holds user-facing messages for failures.
	Errors []string `json:"errors,omitempty"`

	Status     FetchStatus   `json:"status,omitempty"`
	Protection []string      `json:"protection,omitempty"`
	Rendered   bool          `json:"rendered,omitempty"`
	Cached     bool          `json:"cached,omitempty"`
	Duration   time.Duration `json:"duration"`
}

// ScrapeResult is the uniform answer to a scrape request.
type ScrapeResult struct {
	URL         string      `json:"url"`
	Success     bool        `json:"success"`
	Profiles    []*Profile  `json:"profiles"`
	Diagnostics Diagnostics `json:"diagnostics"`
}

// Scraper extracts resolved profiles from a page.
type Scraper interface {
	// Scrape returns a result for every valid request; unsuccessful
	// fetches and timeouts are reported through Success and Diagnostics.
	// An error is returned only for invalid requests.
	Scrape(ctx context.Context, req ScrapeRequest) (*ScrapeResult, error)
}

// ClientLimiter gates inbound requests per client identity.
type ClientLimiter interface {
	// Allow reports whether client may issue another request now.
	Allow(client string) bool

	// Remaining returns how many requests client may issue now.
	Remaining(client string) int

	// ResetAfter returns how long until client's allowance is full again.
	ResetAfter(client string) time.Duration
}

// ResultStore persists a batch of scrape results. Saved results become
// visible together on Commit; Abort discards them.
type ResultStore interface {
	Save(ctx context.Context, result *ScrapeResult) error
	Commit() error
	Abort() error
}
