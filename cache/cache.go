// Package cache provides an in-memory implementation of dossier.Cache keyed
// by xxhash digests of normalized URLs.
package cache

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/dossier"
)

// DefaultTTL is how long a scrape result is served from the cache.
const DefaultTTL = 24 * time.Hour

// Ensure Cache implements dossier.Cache at compile time.
var _ dossier.Cache = (*Cache)(nil)

// Cache memoizes scrape results in memory. Reads run concurrently; the last
// write for a URL wins.
type Cache struct {
	mu      sync.RWMutex
	entries map[uint64]*dossier.CacheEntry

	ttl time.Duration
	now func() time.Time

	hits   atomic.Int64
	misses atomic.Int64
}

// Option configures a Cache.
type Option func(*Cache)

// WithTTL sets how long entries stay live.
func WithTTL(d time.Duration) Option {
	return func(c *Cache) {
		if d > 0 {
			c.ttl = d
		}
	}
}

// WithClock replaces the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// New creates a new Cache.
func New(opts ...Option) *Cache {
	c := &Cache{
		entries: make(map[uint64]*dossier.CacheEntry),
		ttl:     DefaultTTL,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Key returns the cache key of url. URLs that normalize to the same form
// share a key.
func Key(url string) uint64 {
	if n, err := dossier.NormalizeURL(url); err == nil {
		url = n
	}
	return xxhash.Sum64String(strings.TrimSpace(url))
}

// Get returns a copy of the live entry for url, or nil on a miss.
func (c *Cache) Get(ctx context.Context, url string) (*dossier.CacheEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key := Key(url)
	now := c.now()

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		c.misses.Add(1)
		return nil, nil
	}
	if !entry.Live(now) {
		c.mu.Lock()
		if cur, ok := c.entries[key]; ok && !cur.Live(now) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		c.misses.Add(1)
		return nil, nil
	}
	c.hits.Add(1)
	return copyEntry(entry), nil
}

// Put stores a copy of profiles for url and purges expired entries.
func (c *Cache) Put(ctx context.Context, url string, profiles []*dossier.Profile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(url) == "" {
		return dossier.Errorf(dossier.EINVALID, "cache URL required")
	}
	now := c.now()
	entry := &dossier.CacheEntry{
		URL:       url,
		Profiles:  cloneProfiles(profiles),
		CachedAt:  now,
		ExpiresAt: now.Add(c.ttl),
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.sweep(now)
	c.entries[Key(url)] = entry
	return nil
}

// Sweep purges expired entries.
func (c *Cache) Sweep(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sweep(now), nil
}

// sweep deletes entries expired at now. The caller holds mu.
func (c *Cache) sweep(now time.Time) int {
	removed := 0
	for key, entry := range c.entries {
		if !entry.Live(now) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// Stats returns a snapshot of cache statistics.
func (c *Cache) Stats() dossier.CacheStats {
	c.mu.RLock()
	n := len(c.entries)
	c.mu.RUnlock()
	return dossier.CacheStats{
		Entries: n,
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
	}
}

func copyEntry(e *dossier.CacheEntry) *dossier.CacheEntry {
	cp := *e
	cp.Profiles = cloneProfiles(e.Profiles)
	return &cp
}

func cloneProfiles(profiles []*dossier.Profile) []*dossier.Profile {
	out := make([]*dossier.Profile, 0, len(profiles))
	for _, p := range profiles {
		if p != nil {
			out = append(out, p.Clone())
		}
	}
	return out
}
