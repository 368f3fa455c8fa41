// Package ratelimit gates inbound scrape requests per client with token
// buckets from golang.org/x/time/rate.
package ratelimit

import (
	"math"
	"sync"
	"time"

	"github.com/fwojciec/dossier"
	"golang.org/x/time/rate"
)

// Defaults allow 10 requests per client per minute.
const (
	DefaultRequests = 10
	DefaultWindow   = time.Minute
)

var _ dossier.ClientLimiter = (*ClientLimiter)(nil)

// ClientLimiter keeps a separate token bucket per client identity. A full
// bucket holds Requests tokens and refills evenly over Window.
type ClientLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter

	requests int
	window   time.Duration
	now      func() time.Time
}

// Option configures a ClientLimiter.
type Option func(*ClientLimiter)

// WithLimit sets the number of requests allowed per window.
func WithLimit(requests int, window time.Duration) Option {
	return func(l *ClientLimiter) {
		if requests > 0 && window > 0 {
			l.requests = requests
			l.window = window
		}
	}
}

// WithClock replaces the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(l *ClientLimiter) {
		l.now = now
	}
}

// NewClientLimiter creates a new ClientLimiter.
func NewClientLimiter(opts ...Option) *ClientLimiter {
	l := &ClientLimiter{
		limiters: make(map[string]*rate.Limiter),
		requests: DefaultRequests,
		window:   DefaultWindow,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *ClientLimiter) limiter(client string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	limiter, ok := l.limiters[client]
	if !ok {
		limiter = rate.NewLimiter(rate.Every(l.interval()), l.requests)
		l.limiters[client] = limiter
	}
	return limiter
}

// interval is the time to refill a single token.
func (l *ClientLimiter) interval() time.Duration {
	return l.window / time.Duration(l.requests)
}

// Allow reports whether client may issue another request now and, if so,
// consumes a token.
func (l *ClientLimiter) Allow(client string) bool {
	return l.limiter(client).AllowN(l.now(), 1)
}

// Remaining returns the number of whole requests client may issue now.
func (l *ClientLimiter) Remaining(client string) int {
	tokens := l.limiter(client).TokensAt(l.now())
	return max(0, int(math.Floor(tokens)))
}

// ResetAfter returns how long until client's bucket is full again.
func (l *ClientLimiter) ResetAfter(client string) time.Duration {
	missing := float64(l.requests) - l.limiter(client).TokensAt(l.now())
	if missing <= 0 {
		return 0
	}
	return time.Duration(math.Ceil(missing * float64(l.interval())))
}

