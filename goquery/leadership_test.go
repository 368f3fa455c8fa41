package goquery_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/dossier"
	"github.com/fwojciec/dossier/goquery"
	"github.com/fwojciec/dossier/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const leadershipPage = `<html><body>
<section>
  <h2>Leadership</h2>
  <div class="leader">
    <img src="/img/alan.jpg">
    <h3>Alan Turing</h3>
    <p>Chief Scientist</p>
    <a href="/bio/alan">Read more</a>
  </div>
  <div class="leader">
    <h3>Grace Hopper</h3>
    <a href="/bio/grace">Read more</a>
  </div>
</section>
</body></html>`

func TestLeadershipStrategy_Extract(t *testing.T) {
	t.Parallel()

	t.Run("reads leader cards and fetches bios", func(t *testing.T) {
		t.Parallel()

		bios := &mock.BioFetcher{
			FetchBioFn: func(ctx context.Context, url string) (string, error) {
				_, ok := ctx.Deadline()
				assert.True(t, ok, "bio fetch must carry a deadline")
				if url == "https://acme.example/bio/grace" {
					return "Grace Hopper was a pioneer of computer programming and compilers.", nil
				}
				return "", nil
			},
		}
		doc := parse(t, "https://acme.example/about", leadershipPage)

		profiles, err := goquery.NewLeadershipStrategy(goquery.WithBioFetcher(bios)).Extract(context.Background(), doc)

		require.NoError(t, err)
		require.Len(t, profiles, 2)

		alan := profiles[0]
		assert.Equal(t, "Alan Turing", alan.Name)
		assert.Equal(t, "Chief Scientist", alan.Title)
		assert.Equal(t, "https://acme.example/img/alan.jpg", alan.ImageURL)
		assert.Equal(t, dossier.StrategyLeadership, alan.Strategy)
		assert.InDelta(t, 0.9, alan.Confidence, 1e-9)

		grace := profiles[1]
		assert.Equal(t, "Grace Hopper", grace.Name)
		assert.Empty(t, grace.Title)
		assert.Contains(t, grace.Bio, "pioneer")
		assert.InDelta(t, 0.7, grace.Confidence, 1e-9)
	})

	t.Run("drops cards without title, image or bio", func(t *testing.T) {
		t.Parallel()

		doc := parse(t, "https://acme.example/about", leadershipPage)

		profiles, err := goquery.NewLeadershipStrategy().Extract(context.Background(), doc)

		require.NoError(t, err)
		require.Len(t, profiles, 1)
		assert.Equal(t, "Alan Turing", profiles[0].Name)
	})

	t.Run("requests each bio link once", func(t *testing.T) {
		t.Parallel()

		var mu sync.Mutex
		calls := map[string]int{}
		bios := &mock.BioFetcher{
			FetchBioFn: func(_ context.Context, url string) (string, error) {
				mu.Lock()
				defer mu.Unlock()
				calls[url]++
				return "", nil
			},
		}
		doc := parse(t, "https://acme.example/", `<html><body>
<section>
  <h2>Executive Team</h2>
  <div><h3>Ada Lovelace</h3><p>Chief Analyst</p><a href="/team">Read more</a></div>
  <div><h3>Alan Kay</h3><p>Chief Architect</p><a href="/team">Read more</a></div>
</section>
</body></html>`)

		profiles, err := goquery.NewLeadershipStrategy(goquery.WithBioFetcher(bios)).Extract(context.Background(), doc)

		require.NoError(t, err)
		assert.Len(t, profiles, 2)
		assert.Equal(t, map[string]int{"https://acme.example/team": 1}, calls)
	})

	t.Run("requests every distinct bio link", func(t *testing.T) {
		t.Parallel()

		var mu sync.Mutex
		calls := map[string]int{}
		bios := &mock.BioFetcher{
			FetchBioFn: func(_ context.Context, url string) (string, error) {
				mu.Lock()
				defer mu.Unlock()
				calls[url]++
				return "", nil
			},
		}
		first := []string{"Ada", "Alan", "Grace", "Edsger", "Barbara", "Donald", "Frances", "Ken"}
		last := []string{"Lovelace", "Turing", "Hopper", "Dijkstra", "Liskov", "Knuth", "Allen", "Thompson"}
		var b strings.Builder
		b.WriteString("<html><body><section><h2>Leadership</h2>")
		for i, f := range first {
			for j, l := range last {
				fmt.Fprintf(&b, `<div><h3>%s %s</h3><p>Chief Officer</p><a href="/bio/%d-%d">Read more</a></div>`, f, l, i, j)
			}
		}
		b.WriteString("</section></body></html>")
		doc := parse(t, "https://acme.example/", b.String())

		profiles, err := goquery.NewLeadershipStrategy(goquery.WithBioFetcher(bios)).Extract(context.Background(), doc)

		require.NoError(t, err)
		assert.Len(t, profiles, 64)
		assert.Len(t, calls, 64)
		for url, n := range calls {
			assert.Equal(t, 1, n, url)
		}
	})

	t.Run("treats fragment variants as the same bio link", func(t *testing.T) {
		t.Parallel()

		var mu sync.Mutex
		var calls int
		bios := &mock.BioFetcher{
			FetchBioFn: func(context.Context, string) (string, error) {
				mu.Lock()
				defer mu.Unlock()
				calls++
				return "", nil
			},
		}
		doc := parse(t, "https://acme.example/", `<html><body>
<section>
  <h2>Executive Team</h2>
  <div><h3>Ada Lovelace</h3><p>Chief Analyst</p><a href="/team#ada">Read more</a></div>
  <div><h3>Alan Kay</h3><p>Chief Architect</p><a href="/team#alan">Read more</a></div>
</section>
</body></html>`)

		_, err := goquery.NewLeadershipStrategy(goquery.WithBioFetcher(bios)).Extract(context.Background(), doc)

		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("ignores bio fetch failures", func(t *testing.T) {
		t.Parallel()

		bios := &mock.BioFetcher{
			FetchBioFn: func(ctx context.Context, _ string) (string, error) {
				<-ctx.Done()
				return "", ctx.Err()
			},
		}
		doc := parse(t, "https://acme.example/about", leadershipPage)

		s := goquery.NewLeadershipStrategy(goquery.WithBioFetcher(bios), goquery.WithBioTimeout(10*time.Millisecond))
		profiles, err := s.Extract(context.Background(), doc)

		require.NoError(t, err)
		require.Len(t, profiles, 1)
		assert.Empty(t, profiles[0].Bio)
	})

	t.Run("ignores pages without leadership headings", func(t *testing.T) {
		t.Parallel()

		doc := parse(t, "https://acme.example/", `<html><body>
<section><h2>Products</h2><div><h3>Widget Pro</h3><p>Our best widget</p></div></section>
</body></html>`)

		profiles, err := goquery.NewLeadershipStrategy().Extract(context.Background(), doc)

		require.NoError(t, err)
		assert.Empty(t, profiles)
	})
}
