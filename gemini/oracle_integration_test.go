//go:build integration

package gemini_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/fwojciec/dossier"
	"github.com/fwojciec/dossier/gemini"
	"github.com/fwojciec/dossier/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestOracle_Integration_ExtractsProfiles(t *testing.T) {
	t.Parallel()

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		t.Skip("GEMINI_API_KEY not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	require.NoError(t, err)

	oracle := gemini.NewOracle(client)
	answer, err := oracle.Complete(ctx, "HEADING: Our Team\nHEADING: Jane Doe\nJane Doe is the Chief Executive Officer of Example Corp.")
	require.NoError(t, err)

	doc := &dossier.Document{URL: "https://example.com/team"}
	profiles := goquery.ParseModelAnswer(answer, doc)
	require.NotEmpty(t, profiles)
	assert.Equal(t, "Jane Doe", profiles[0].Name)
}
