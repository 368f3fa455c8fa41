package dossier

import (
	"context"
	"time"
)

// CacheEntry is a memoized scrape result for one normalized URL.
type CacheEntry struct {
	URL       string
	Profiles  []*Profile
	CachedAt  time.Time
	ExpiresAt time.Time
}

// Live reports whether the entry may still be served at now.
func (e *CacheEntry) Live(now time.Time) bool {
	return now.Before(e.ExpiresAt)
}

// CacheStats reports cache occupancy and effectiveness.
type CacheStats struct {
	Entries int
	Hits    int64
	Misses  int64
}

// Cache memoizes resolved profiles per normalized URL for a bounded time.
type Cache interface {
	// Get returns the live entry for url, or nil on a miss. Expired
	// entries are purged on access.
	Get(ctx context.Context, url string) (*CacheEntry, error)

	// Put stores profiles for url, replacing any existing entry. Expired
	// entries for other URLs are purged as a side effect.
	Put(ctx context.Context, url string, profiles []*Profile) error

	// Sweep purges every expired entry and returns how many were removed.
	Sweep(ctx context.Context) (int, error)

	// Stats returns a snapshot of cache statistics.
	Stats() CacheStats
}
