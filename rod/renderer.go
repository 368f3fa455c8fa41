// Package rod renders JavaScript-heavy pages with a headless Chrome
// browser driven by go-rod.
package rod

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fwojciec/dossier"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

const (
	// DefaultMaxPages is the number of rendered pages after which the
	// browser process is replaced.
	DefaultMaxPages = 75
	// DefaultSettle bounds the wait for client-side rendering after load.
	DefaultSettle = 2 * time.Second
)

// Ensure Renderer implements dossier.Renderer at compile time.
var _ dossier.Renderer = (*Renderer)(nil)

// Renderer returns the HTML of a page after its scripts have run. Chrome
// memory grows with every page, so the browser is relaunched after
// MaxPages pages. Renderer is safe for concurrent use.
type Renderer struct {
	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher
	pages    int
	closed   bool

	maxPages int
	settle   time.Duration
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithMaxPages sets the number of pages rendered before recycling.
func WithMaxPages(n int) Option {
	return func(r *Renderer) {
		if n > 0 {
			r.maxPages = n
		}
	}
}

// WithSettle sets how long to wait for the page to go idle after load.
func WithSettle(d time.Duration) Option {
	return func(r *Renderer) {
		r.settle = d
	}
}

// NewRenderer launches a headless browser. Close must be called when the
// Renderer is no longer needed.
func NewRenderer(opts ...Option) (*Renderer, error) {
	r := &Renderer{maxPages: DefaultMaxPages, settle: DefaultSettle}
	for _, opt := range opts {
		opt(r)
	}
	browser, l, err := launch()
	if err != nil {
		return nil, err
	}
	r.browser, r.launcher = browser, l
	return r, nil
}

// Render navigates to url, waits for load and returns the rendered HTML.
func (r *Renderer) Render(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	browser, err := r.acquire()
	if err != nil {
		return "", err
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", dossier.Errorf(dossier.EFETCH, "open page: %v", err)
	}
	defer page.Close()
	page = page.Context(ctx)

	if err := page.Navigate(url); err != nil {
		return "", r.fail(ctx, "navigate", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return "", r.fail(ctx, "load", url, err)
	}
	if r.settle > 0 {
		// Pages that never go idle are rendered as they are.
		_ = page.WaitIdle(r.settle)
	}
	html, err := page.HTML()
	if err != nil {
		return "", r.fail(ctx, "read", url, err)
	}
	return html, nil
}

func (r *Renderer) fail(ctx context.Context, step, url string, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return dossier.Errorf(dossier.EFETCH, "render %s: %s: %v", url, step, err)
}

// acquire returns the current browser, relaunching it first when the page
// budget is spent. A failed relaunch keeps the old browser.
func (r *Renderer) acquire() (*rod.Browser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, dossier.Errorf(dossier.EINTERNAL, "renderer closed")
	}
	if r.pages >= r.maxPages {
		if browser, l, err := launch(); err == nil {
			_ = r.browser.Close()
			r.launcher.Kill()
			r.browser, r.launcher, r.pages = browser, l, 0
		}
	}
	r.pages++
	return r.browser, nil
}

// Close releases browser resources. Close is safe to call multiple times.
func (r *Renderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	err := r.browser.Close()
	r.launcher.Kill()
	return err
}

// LauncherPID returns the process ID of the browser launcher, for tests.
func (r *Renderer) LauncherPID() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.launcher.PID()
}

func launch() (*rod.Browser, *launcher.Launcher, error) {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Leakless(true).
		Headless(true)

	u, err := l.Launch()
	if err != nil {
		return nil, nil, fmt.Errorf("launching browser: %w", err)
	}
	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, nil, fmt.Errorf("connecting to browser: %w", err)
	}
	return browser, l, nil
}
