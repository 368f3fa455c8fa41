package readability_test

import (
	"testing"

	"github.com/fwojciec/dossier"
	"github.com/fwojciec/dossier/readability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Extractor implements dossier.Extractor at compile time.
var _ dossier.Extractor = (*readability.Extractor)(nil)

const bioPage = `<!DOCTYPE html>
<html>
<head><title>John Smith - Leadership</title></head>
<body>
<nav><a href="/home">Home Nav Link</a><a href="/about">About Nav Link</a></nav>
<article>
<h1>John Smith</h1>
<p>John Smith is the Chief Technology Officer and oversees the engineering organization, infrastructure and security programs of the company.</p>
<p>He previously co-founded two developer tooling startups and holds a degree in computer science from a large public university.</p>
<p><a href="/leadership">Back to leadership</a></p>
</article>
<aside class="sidebar"><p>Related Sidebar Links</p></aside>
<footer><p>Footer copyright text 2024</p></footer>
</body>
</html>`

func TestExtractor_RejectsEmptyInput(t *testing.T) {
	t.Parallel()

	_, err := readability.NewExtractor().Extract("")

	require.Error(t, err)
	assert.Equal(t, dossier.EINVALID, dossier.ErrorCode(err))
}

func TestExtractor_ExtractsBiography(t *testing.T) {
	t.Parallel()

	result, err := readability.NewExtractor().Extract(bioPage)

	require.NoError(t, err)
	assert.Equal(t, "John Smith - Leadership", result.Title)
	assert.Contains(t, result.ContentHTML, "Chief Technology Officer")
	assert.NotContains(t, result.ContentHTML, "Home Nav Link")
	assert.NotContains(t, result.ContentHTML, "Footer copyright text")
}

func TestExtractor_ResolvesLinksAgainstPageURL(t *testing.T) {
	t.Parallel()

	ext := readability.NewExtractor(readability.WithPageURL("https://example.com/leadership/john-smith"))
	result, err := ext.Extract(bioPage)

	require.NoError(t, err)
	assert.Contains(t, result.ContentHTML, "https://example.com/leadership")
}
