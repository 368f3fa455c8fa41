package goquery_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	pq "github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/dossier"
	"github.com/fwojciec/dossier/goquery"
	"github.com/fwojciec/dossier/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noDelay(int) time.Duration { return 0 }

const modelPage = `<html><body>
<nav><a href="/home">Home navigation link</a></nav>
<script>var tracking = "secret";</script>
<h1>Acme Leadership</h1>
<div class="bio">Jane Doe is the chief technology officer at Acme.</div>
<div class="cookie">We use cookies to improve your experience.</div>
<a href="https://www.linkedin.com/in/janedoe">Jane on LinkedIn</a>
</body></html>`

func TestModelStrategy_Extract(t *testing.T) {
	t.Parallel()

	t.Run("parses JSON answer with mixed key styles", func(t *testing.T) {
		t.Parallel()

		answer := "Here you go:\n" + `{"profiles":[
  {"name":"Jane Doe","title":"CTO","email":"jane@acme.com","socialLinks":{"linkedin":"https://linkedin.com/in/janedoe","twitter":null}},
  {"name":"null","title":null,"social_links":{"github":"https://github.com/bob"}},
  {"name":"Bob Stone","image_url":"/img/bob.png","social_links":{"github":"https://github.com/bob"}}
]}` + "\nThanks!"
		oracle := &mock.Oracle{
			CompleteFn: func(context.Context, string) (string, error) { return answer, nil },
		}
		doc := parse(t, "https://acme.example/team", modelPage)

		profiles, err := goquery.NewModelStrategy(oracle, goquery.WithDelay(noDelay)).Extract(context.Background(), doc)

		require.NoError(t, err)
		require.Len(t, profiles, 2)

		jane := profiles[0]
		assert.Equal(t, "Jane Doe", jane.Name)
		assert.Equal(t, "CTO", jane.Title)
		assert.Equal(t, "https://linkedin.com/in/janedoe", jane.SocialLinks.LinkedIn)
		assert.Empty(t, jane.SocialLinks.Twitter)
		assert.Equal(t, dossier.StrategyModel, jane.Strategy)
		assert.Equal(t, answer, jane.RawEvidence)
		assert.InDelta(t, 0.1*3+0.05+0.1, jane.Confidence, 1e-9)

		bob := profiles[1]
		assert.Equal(t, "https://acme.example/img/bob.png", bob.ImageURL)
		assert.Equal(t, "https://github.com/bob", bob.SocialLinks.GitHub)
		assert.InDelta(t, 0.1*2+0.05, bob.Confidence, 1e-9)
	})

	t.Run("falls back to key-value lines", func(t *testing.T) {
		t.Parallel()

		oracle := &mock.Oracle{
			CompleteFn: func(context.Context, string) (string, error) {
				return "Name: John Smith\nTitle: Engineer\nLinkedIn: https://linkedin.com/in/jsmith\nName: Ann Lee\nCompany: Acme\n\nunrelated: ignored", nil
			},
		}
		doc := parse(t, "https://acme.example/", modelPage)

		profiles, err := goquery.NewModelStrategy(oracle, goquery.WithDelay(noDelay)).Extract(context.Background(), doc)

		require.NoError(t, err)
		require.Len(t, profiles, 2)
		assert.Equal(t, "John Smith", profiles[0].Name)
		assert.Equal(t, "Engineer", profiles[0].Title)
		assert.Equal(t, "https://linkedin.com/in/jsmith", profiles[0].SocialLinks.LinkedIn)
		assert.Equal(t, "Ann Lee", profiles[1].Name)
		assert.Equal(t, "Acme", profiles[1].Company)
	})

	t.Run("retries failed and empty answers", func(t *testing.T) {
		t.Parallel()

		var delays []int
		calls := 0
		oracle := &mock.Oracle{
			CompleteFn: func(context.Context, string) (string, error) {
				calls++
				switch calls {
				case 1:
					return "", errors.New("quota exceeded")
				case 2:
					return "  ", nil
				default:
					return `{"profiles":[{"name":"Jane Doe","title":"CTO"}]}`, nil
				}
			},
		}
		delay := func(attempt int) time.Duration {
			delays = append(delays, attempt)
			return 0
		}
		doc := parse(t, "https://acme.example/", modelPage)

		profiles, err := goquery.NewModelStrategy(oracle, goquery.WithDelay(delay)).Extract(context.Background(), doc)

		require.NoError(t, err)
		assert.Len(t, profiles, 1)
		assert.Equal(t, 3, calls)
		assert.Equal(t, []int{0, 1, 2}, delays)
	})

	t.Run("returns nothing after exhausting attempts", func(t *testing.T) {
		t.Parallel()

		calls := 0
		oracle := &mock.Oracle{
			CompleteFn: func(context.Context, string) (string, error) {
				calls++
				return "", nil
			},
		}
		doc := parse(t, "https://acme.example/", modelPage)

		profiles, err := goquery.NewModelStrategy(oracle, goquery.WithDelay(noDelay)).Extract(context.Background(), doc)

		require.NoError(t, err)
		assert.Empty(t, profiles)
		assert.Equal(t, goquery.DefaultModelAttempts, calls)
	})

	t.Run("stops waiting when context is canceled", func(t *testing.T) {
		t.Parallel()

		oracle := &mock.Oracle{
			CompleteFn: func(context.Context, string) (string, error) {
				t.Fatal("oracle must not be called")
				return "", nil
			},
		}
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		doc := parse(t, "https://acme.example/", modelPage)

		_, err := goquery.NewModelStrategy(oracle).Extract(ctx, doc)

		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestDefaultModelDelay(t *testing.T) {
	t.Parallel()

	assert.Equal(t, time.Second, goquery.DefaultModelDelay(0))
	assert.Equal(t, 3*time.Second, goquery.DefaultModelDelay(1))
	assert.Equal(t, 4*time.Second, goquery.DefaultModelDelay(2))
}

func TestRenderText(t *testing.T) {
	t.Parallel()

	t.Run("renders headings, blocks and links without noise", func(t *testing.T) {
		t.Parallel()

		doc := parse(t, "https://acme.example/", modelPage)

		text := goquery.RenderText(doc)

		assert.Contains(t, text, "HEADING: Acme Leadership\n")
		assert.Contains(t, text, "Jane Doe is the chief technology officer at Acme.\n")
		assert.Contains(t, text, "LINK: Jane on LinkedIn -> https://www.linkedin.com/in/janedoe\n")
		assert.NotContains(t, text, "secret")
		assert.NotContains(t, text, "Home navigation link")
		assert.NotContains(t, text, "cookies")
	})

	t.Run("leaves the shared tree untouched", func(t *testing.T) {
		t.Parallel()

		doc := parse(t, "https://acme.example/", modelPage)

		goquery.RenderText(doc)

		assert.Equal(t, 1, pq.NewDocumentFromNode(doc.Root).Find("script").Length())
		assert.Equal(t, 1, pq.NewDocumentFromNode(doc.Root).Find("nav").Length())
	})

	t.Run("truncates long pages", func(t *testing.T) {
		t.Parallel()

		body := "<html><body>" + strings.Repeat("<p>"+strings.Repeat("word ", 40)+"</p>", 100) + "</body></html>"
		doc := parse(t, "https://acme.example/", body)

		text := goquery.RenderText(doc)

		assert.LessOrEqual(t, len(text), goquery.MaxModelInput)
		assert.Greater(t, len(text), goquery.MaxModelInput-300)
	})
}
