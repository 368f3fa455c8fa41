package goquery_test

import (
	"context"
	"testing"

	"github.com/fwojciec/dossier"
	"github.com/fwojciec/dossier/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeadingStrategy_Extract(t *testing.T) {
	t.Parallel()

	t.Run("reads name heading with adjacent title and image", func(t *testing.T) {
		t.Parallel()

		doc := parse(t, "https://example.com/", `<html><body>
<div>
  <h2>Jane Doe</h2>
  <p>Chief Executive Officer</p>
  <img src="/jane.jpg" alt="Jane">
</div>
</body></html>`)

		profiles, err := goquery.NewHeadingStrategy().Extract(context.Background(), doc)

		require.NoError(t, err)
		require.Len(t, profiles, 1)
		p := profiles[0]
		assert.Equal(t, "Jane Doe", p.Name)
		assert.Equal(t, "Chief Executive Officer", p.Title)
		assert.Equal(t, "https://example.com/jane.jpg", p.ImageURL)
		assert.Equal(t, dossier.StrategyHeading, p.Strategy)
		assert.InDelta(t, 0.95, p.Confidence, 1e-9)
	})

	t.Run("reads bio, email and social links from container", func(t *testing.T) {
		t.Parallel()

		doc := parse(t, "https://example.com/", `<html><body>
<section>
  <h3>John Smith</h3>
  <p>Head of Design</p>
  <p>John has led product design for over a decade across three startups.</p>
  <p>Write to john@example.com</p>
  <a href="https://twitter.com/jsmith">Twitter</a>
</section>
</body></html>`)

		profiles, err := goquery.NewHeadingStrategy().Extract(context.Background(), doc)

		require.NoError(t, err)
		require.Len(t, profiles, 1)
		p := profiles[0]
		assert.Equal(t, "John Smith", p.Name)
		assert.Equal(t, "Head of Design", p.Title)
		assert.Equal(t, "john@example.com", p.Email)
		assert.Equal(t, "https://twitter.com/jsmith", p.SocialLinks.Twitter)
		assert.Contains(t, p.Bio, "product design")
	})

	t.Run("skips generic headings", func(t *testing.T) {
		t.Parallel()

		doc := parse(t, "https://example.com/", `<html><body>
<div><h2>Meet the Team</h2><p>We are a group of people.</p></div>
<div><h2>Contact Us</h2><p>Send a message.</p></div>
</body></html>`)

		profiles, err := goquery.NewHeadingStrategy().Extract(context.Background(), doc)

		require.NoError(t, err)
		assert.Empty(t, profiles)
	})

	t.Run("skips headings without supporting signals", func(t *testing.T) {
		t.Parallel()

		doc := parse(t, "https://example.com/", `<html><body><div><h2>Jane Doe</h2></div></body></html>`)

		profiles, err := goquery.NewHeadingStrategy().Extract(context.Background(), doc)

		require.NoError(t, err)
		assert.Empty(t, profiles)
	})
}
