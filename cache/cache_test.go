package cache_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/dossier"
	"github.com/fwojciec/dossier/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a manually advanced clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func profiles() []*dossier.Profile {
	return []*dossier.Profile{{Name: "Jane Doe", Title: "CEO", SourceURL: "https://example.com/", Confidence: 0.9}}
}

func TestCache_GetPut(t *testing.T) {
	t.Parallel()

	t.Run("returns stored entry", func(t *testing.T) {
		t.Parallel()

		clock := newFakeClock()
		c := cache.New(cache.WithClock(clock.Now))
		ctx := context.Background()

		require.NoError(t, c.Put(ctx, "https://example.com/", profiles()))
		entry, err := c.Get(ctx, "https://example.com/")

		require.NoError(t, err)
		require.NotNil(t, entry)
		assert.Equal(t, "Jane Doe", entry.Profiles[0].Name)
		assert.Equal(t, clock.Now(), entry.CachedAt)
		assert.Equal(t, clock.Now().Add(cache.DefaultTTL), entry.ExpiresAt)
	})

	t.Run("returns nil on miss", func(t *testing.T) {
		t.Parallel()

		c := cache.New()

		entry, err := c.Get(context.Background(), "https://example.com/")

		require.NoError(t, err)
		assert.Nil(t, entry)
	})

	t.Run("shares entries between equivalent URLs", func(t *testing.T) {
		t.Parallel()

		c := cache.New()
		ctx := context.Background()

		require.NoError(t, c.Put(ctx, "https://Example.com/team/", profiles()))
		entry, err := c.Get(ctx, "example.com/team#people")

		require.NoError(t, err)
		assert.NotNil(t, entry)
	})

	t.Run("expires entries after TTL", func(t *testing.T) {
		t.Parallel()

		clock := newFakeClock()
		c := cache.New(cache.WithClock(clock.Now), cache.WithTTL(time.Hour))
		ctx := context.Background()
		require.NoError(t, c.Put(ctx, "https://example.com/", profiles()))

		clock.Advance(59 * time.Minute)
		entry, err := c.Get(ctx, "https://example.com/")
		require.NoError(t, err)
		assert.NotNil(t, entry, "entry is live before TTL")

		clock.Advance(time.Minute)
		entry, err = c.Get(ctx, "https://example.com/")
		require.NoError(t, err)
		assert.Nil(t, entry, "entry expires at TTL")
		assert.Equal(t, 0, c.Stats().Entries, "expired entry is purged on access")
	})

	t.Run("last write wins", func(t *testing.T) {
		t.Parallel()

		c := cache.New()
		ctx := context.Background()

		require.NoError(t, c.Put(ctx, "https://example.com/", profiles()))
		require.NoError(t, c.Put(ctx, "https://example.com/", nil))
		entry, err := c.Get(ctx, "https://example.com/")

		require.NoError(t, err)
		require.NotNil(t, entry)
		assert.Empty(t, entry.Profiles)
	})

	t.Run("isolates stored entries from callers", func(t *testing.T) {
		t.Parallel()

		c := cache.New()
		ctx := context.Background()
		in := profiles()

		require.NoError(t, c.Put(ctx, "https://example.com/", in))
		in[0].Name = "Mutated Input"
		first, err := c.Get(ctx, "https://example.com/")
		require.NoError(t, err)
		first.Profiles[0].Name = "Mutated Output"
		second, err := c.Get(ctx, "https://example.com/")
		require.NoError(t, err)

		assert.Equal(t, "Jane Doe", second.Profiles[0].Name)
	})

	t.Run("rejects empty URL", func(t *testing.T) {
		t.Parallel()

		err := cache.New().Put(context.Background(), " ", profiles())

		assert.Equal(t, dossier.EINVALID, dossier.ErrorCode(err))
	})
}

func TestCache_Sweep(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	c := cache.New(cache.WithClock(clock.Now), cache.WithTTL(time.Hour))
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, "https://a.example/", profiles()))
	clock.Advance(30 * time.Minute)
	require.NoError(t, c.Put(ctx, "https://b.example/", profiles()))
	clock.Advance(45 * time.Minute)

	removed, err := c.Sweep(ctx)

	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, c.Stats().Entries)
}

func TestCache_PutPurgesExpired(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	c := cache.New(cache.WithClock(clock.Now), cache.WithTTL(time.Hour))
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, "https://a.example/", profiles()))
	require.NoError(t, c.Put(ctx, "https://b.example/", profiles()))
	clock.Advance(2 * time.Hour)

	require.NoError(t, c.Put(ctx, "https://c.example/", profiles()))

	assert.Equal(t, 1, c.Stats().Entries)
	removed, err := c.Sweep(ctx)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestCache_Stats(t *testing.T) {
	t.Parallel()

	c := cache.New()
	ctx := context.Background()
	require.NoError(t, c.Put(ctx, "https://example.com/", profiles()))

	_, _ = c.Get(ctx, "https://example.com/")
	_, _ = c.Get(ctx, "https://example.com/")
	_, _ = c.Get(ctx, "https://other.example/")

	assert.Equal(t, dossier.CacheStats{Entries: 1, Hits: 2, Misses: 1}, c.Stats())
}

func TestCache_Concurrent(t *testing.T) {
	t.Parallel()

	c := cache.New()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			url := fmt.Sprintf("https://example.com/%d", i%5)
			_ = c.Put(ctx, url, profiles())
			_, _ = c.Get(ctx, url)
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, c.Stats().Entries)
}
