package dossier

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms clean HTML content, such as the output of an
	// Extractor, into Markdown.
	Convert(html string) (string, error)
}
