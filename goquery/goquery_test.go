package goquery_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/dossier"
	"github.com/fwojciec/dossier/goquery"
	"github.com/fwojciec/dossier/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// parse builds a document from an HTML fixture served at rawURL.
func parse(t *testing.T, rawURL, body string) *dossier.Document {
	t.Helper()
	doc, err := goquery.NewParser().Parse(&dossier.Page{
		URL:        rawURL,
		StatusCode: 200,
		Status:     dossier.StatusSuccess,
		Body:       body,
	})
	require.NoError(t, err)
	return doc
}

func TestStrategies_ProfileInvariants(t *testing.T) {
	t.Parallel()

	fixtures := map[string]string{
		"https://example.com/": `<html><body>
<div><h2>Jane Doe</h2><p>Chief Executive Officer</p><img src="/jane.jpg"></div>
</body></html>`,
		"https://acme.example/team": `<html><head><title>Acme - Team</title></head><body>
<div class="team-member"><h3 class="name">Maria Garcia</h3><p class="title">Head of Engineering</p></div>
<div class="profile"><h2 class="profile-name">Alice Johnson</h2><p class="bio">Contact Alice by email about her experience.</p></div>
<section><h2>Leadership</h2><div><h3>Alan Turing</h3><p>Chief Scientist</p></div></section>
</body></html>`,
		"https://www.linkedin.com/in/janedoe": `<html><body>
<h1 class="text-heading-xlarge">Jane Doe</h1>
<div class="text-body-medium break-words">Founder at Acme</div>
</body></html>`,
		"https://example.com/login": `<html><body>
<div class="profile"><h2>Sign in to view profile</h2><p>Join now to see the full profile, contact and experience, email.</p></div>
</body></html>`,
	}

	strategies := []dossier.Strategy{
		goquery.NewStructuralStrategy(),
		goquery.NewDomainStrategy(goquery.NewDefaultSiteRegistry()),
		goquery.NewUniversalStrategy(),
		goquery.NewHeadingStrategy(),
		goquery.NewLeadershipStrategy(),
		goquery.NewModelStrategy(&mock.Oracle{
			CompleteFn: func(context.Context, string) (string, error) {
				return `{"profiles":[{"name":"Jane Doe","title":"CEO"},{"name":"","title":""}]}`, nil
			},
		}, goquery.WithDelay(func(int) time.Duration { return 0 })),
	}

	for rawURL, body := range fixtures {
		doc := parse(t, rawURL, body)
		for _, s := range strategies {
			profiles, err := s.Extract(context.Background(), doc)
			require.NoError(t, err)
			for _, p := range profiles {
				assert.GreaterOrEqual(t, p.Confidence, 0.0, "%s on %s", s.Name(), rawURL)
				assert.LessOrEqual(t, p.Confidence, 1.0, "%s on %s", s.Name(), rawURL)
				assert.True(t, p.Name != "" || p.Title != "", "%s on %s", s.Name(), rawURL)
				assert.Equal(t, s.Name(), p.Strategy)
				assert.False(t, dossier.IsNoise(p), "%s on %s: %q", s.Name(), rawURL, p.Name)
			}
		}
	}
}
