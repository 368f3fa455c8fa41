package mock

import (
	"context"

	"github.com/fwojciec/dossier"
)

var _ dossier.Cache = (*Cache)(nil)

// Cache is a mock implementation of dossier.Cache.
type Cache struct {
	GetFn   func(ctx context.Context, url string) (*dossier.CacheEntry, error)
	PutFn   func(ctx context.Context, url string, profiles []*dossier.Profile) error
	SweepFn func(ctx context.Context) (int, error)
	StatsFn func() dossier.CacheStats
}

func (c *Cache) Get(ctx context.Context, url string) (*dossier.CacheEntry, error) {
	return c.GetFn(ctx, url)
}

func (c *Cache) Put(ctx context.Context, url string, profiles []*dossier.Profile) error {
	return c.PutFn(ctx, url, profiles)
}

func (c *Cache) Sweep(ctx context.Context) (int, error) {
	return c.SweepFn(ctx)
}

func (c *Cache) Stats() dossier.CacheStats {
	return c.StatsFn()
}
