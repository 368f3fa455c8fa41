// Package gemini answers profile extraction prompts with Google Gemini.
package gemini

import (
	"context"
	"strings"

	"github.com/fwojciec/dossier"
	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// Ensure Oracle implements dossier.Oracle at compile time.
var _ dossier.Oracle = (*Oracle)(nil)

const systemInstruction = `You extract information about people from the text of a web page.
Return only JSON of the form {"profiles": [...]} where each profile has the keys
name, title, email, phone, bio, company, location, image_url and social_links
(an object with linkedin, twitter, github, website, instagram and facebook).
Use null for anything the page does not state. Do not invent people or details.
Ignore login prompts, cookie banners and navigation.`

// Oracle implements dossier.Oracle using Google Gemini.
type Oracle struct {
	client *genai.Client
	model  string
}

// Option configures an Oracle.
type Option func(*Oracle)

// WithModel sets the Gemini model name.
func WithModel(model string) Option {
	return func(o *Oracle) {
		if model != "" {
			o.model = model
		}
	}
}

// NewOracle creates a new Oracle.
func NewOracle(client *genai.Client, opts ...Option) *Oracle {
	o := &Oracle{client: client, model: DefaultModel}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Model returns the configured model name.
func (o *Oracle) Model() string { return o.model }

// Complete asks the model for the profiles described by the page text.
func (o *Oracle) Complete(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", dossier.Errorf(dossier.EINVALID, "page text required")
	}
	if o.client == nil {
		return "", dossier.Errorf(dossier.EINTERNAL, "gemini client not configured")
	}

	result, err := o.client.Models.GenerateContent(ctx, o.model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: BuildUserPrompt(text)}},
		}},
		BuildConfig(),
	)
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", dossier.Errorf(dossier.EINTERNAL, "gemini returned nil result")
	}
	return result.Text(), nil
}

// BuildConfig returns the GenerateContentConfig for extraction calls.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0.1)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemInstruction}},
		},
		Temperature:      &temp,
		ResponseMIMEType: "application/json",
	}
}

// BuildUserPrompt wraps the page text in the user prompt.
func BuildUserPrompt(text string) string {
	var sb strings.Builder
	sb.WriteString("<page>\n")
	sb.WriteString(text)
	sb.WriteString("\n</page>\n\n")
	sb.WriteString("List every person described on this page.")
	return sb.String()
}
