// Package http provides an HTTP-based implementation of dossier.Fetcher with
// bounded retries and bot-protection detection.
package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"github.com/fwojciec/dossier"
)

const (
	// DefaultFetchTimeout bounds a single attempt, including the body read.
	DefaultFetchTimeout = 5 * time.Second

	// DefaultMaxRetries is the number of retries after the first attempt.
	DefaultMaxRetries = 2

	// DefaultInitialBackoff is the delay before the first retry. Later
	// retries back off exponentially.
	DefaultInitialBackoff = 500 * time.Millisecond

	// DefaultJitter is the upper bound of random delay added per retry.
	DefaultJitter = 250 * time.Millisecond

	// DefaultBlockedThreshold is the body size above which a blocked
	// response is still worth parsing.
	DefaultBlockedThreshold = 500

	// DefaultUserAgent is sent with every request.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

	maxBodySize = 10 << 20
)

// Ensure Fetcher implements dossier.Fetcher at compile time.
var _ dossier.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves pages using plain HTTP requests. It does not execute
// JavaScript.
type Fetcher struct {
	client           *http.Client
	timeout          time.Duration
	maxRetries       int
	initialBackoff   time.Duration
	jitter           time.Duration
	blockedThreshold int
	userAgent        string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the per-attempt timeout.
// Defaults to DefaultFetchTimeout (5s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithMaxRetries sets the number of retries after the first attempt.
func WithMaxRetries(n int) Option {
	return func(f *Fetcher) {
		if n >= 0 {
			f.maxRetries = n
		}
	}
}

// WithInitialBackoff sets the delay before the first retry.
func WithInitialBackoff(d time.Duration) Option {
	return func(f *Fetcher) {
		f.initialBackoff = d
	}
}

// WithJitter sets the upper bound of the random delay added per retry.
func WithJitter(d time.Duration) Option {
	return func(f *Fetcher) {
		f.jitter = d
	}
}

// WithBlockedThreshold sets the body size above which 401, 403 and
// exhausted 429 responses are returned as blocked-with-content pages.
func WithBlockedThreshold(n int) Option {
	return func(f *Fetcher) {
		f.blockedThreshold = n
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithClient replaces the pooled HTTP client.
func WithClient(c *http.Client) Option {
	return func(f *Fetcher) {
		f.client = c
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:          DefaultFetchTimeout,
		maxRetries:       DefaultMaxRetries,
		initialBackoff:   DefaultInitialBackoff,
		jitter:           DefaultJitter,
		blockedThreshold: DefaultBlockedThreshold,
		userAgent:        DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.client == nil {
		f.client = &http.Client{Transport: NewTransport()}
	}
	return f
}

// NewTransport returns the pooled transport used by default. Each phase of
// a request carries its own bound.
func NewTransport() *http.Transport {
	return &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: 3 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		TLSHandshakeTimeout:   5 * time.Second,
		ResponseHeaderTimeout: 5 * time.Second,
		MaxConnsPerHost:       20,
		MaxIdleConns:          10,
		IdleConnTimeout:       30 * time.Second,
	}
}

// statusError reports a retryable HTTP status.
type statusError struct {
	page *dossier.Page
}

func (e *statusError) Error() string {
	return fmt.Sprintf("HTTP %d for %s", e.page.StatusCode, e.page.URL)
}

// FetchPage retrieves and classifies the page at url. Retryable statuses
// and transport errors are retried with exponential backoff. A 404 yields
// ENOTFOUND; exhausted retries yield EFETCH unless a 429 carried enough
// content to be worth parsing.
func (f *Fetcher) FetchPage(ctx context.Context, url string) (*dossier.Page, error) {
	page, err := retry.DoWithData(
		func() (*dossier.Page, error) {
			page, err := f.attempt(ctx, url)
			if err != nil {
				return nil, err
			}
			if page.Status == dossier.StatusRetryable {
				return nil, &statusError{page: page}
			}
			return page, nil
		},
		retry.Context(ctx),
		retry.Attempts(uint(f.maxRetries+1)),
		retry.Delay(f.initialBackoff),
		retry.MaxJitter(max(f.jitter, time.Nanosecond)),
		retry.RetryIf(func(err error) bool {
			return ctx.Err() == nil && dossier.ErrorCode(err) != dossier.EINVALID
		}),
	)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		var se *statusError
		var de *dossier.Error
		if errors.As(err, &de) {
			return nil, de
		}
		if errors.As(err, &se) {
			if se.page.StatusCode == http.StatusTooManyRequests && len(se.page.Body) > f.blockedThreshold {
				se.page.Status = dossier.StatusBlockedWithContent
				return se.page, nil
			}
			return nil, dossier.Errorf(dossier.EFETCH, "HTTP %d for %s after %d attempts", se.page.StatusCode, url, f.maxRetries+1)
		}
		return nil, dossier.Errorf(dossier.EFETCH, "failed to fetch %s: %v", url, err)
	}
	if page.Status == dossier.StatusNotFound {
		return nil, dossier.Errorf(dossier.ENOTFOUND, "page not found: %s", url)
	}
	return page, nil
}

// attempt performs a single request under the per-attempt timeout.
func (f *Fetcher) attempt(ctx context.Context, url string) (*dossier.Page, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, dossier.Errorf(dossier.EINVALID, "invalid URL %q: %v", url, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, err
	}

	return &dossier.Page{
		URL:        url,
		StatusCode: resp.StatusCode,
		Status:     f.classify(resp.StatusCode, len(body)),
		Body:       string(body),
		Protection: DetectProtection(string(body)),
	}, nil
}

// classify maps a status code and body size to a fetch status.
func (f *Fetcher) classify(code, size int) dossier.FetchStatus {
	switch {
	case code >= 200 && code < 300:
		return dossier.StatusSuccess
	case code == http.StatusNotFound:
		return dossier.StatusNotFound
	case code == http.StatusRequestTimeout, code == http.StatusTooManyRequests, code >= 500:
		return dossier.StatusRetryable
	case (code == http.StatusUnauthorized || code == http.StatusForbidden) && size > f.blockedThreshold:
		return dossier.StatusBlockedWithContent
	default:
		return dossier.StatusOther
	}
}
