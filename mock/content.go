package mock

import "github.com/fwojciec/dossier"

var _ dossier.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of dossier.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*dossier.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*dossier.ExtractResult, error) {
	return e.ExtractFn(html)
}

var _ dossier.Converter = (*Converter)(nil)

// Converter is a mock implementation of dossier.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
