package mock

import (
	"context"

	"github.com/fwojciec/dossier"
)

var _ dossier.Strategy = (*Strategy)(nil)

// Strategy is a mock implementation of dossier.Strategy.
type Strategy struct {
	NameFn    func() string
	ExtractFn func(ctx context.Context, doc *dossier.Document) ([]*dossier.Profile, error)
}

func (s *Strategy) Name() string {
	return s.NameFn()
}

func (s *Strategy) Extract(ctx context.Context, doc *dossier.Document) ([]*dossier.Profile, error) {
	return s.ExtractFn(ctx, doc)
}

var _ dossier.Parser = (*Parser)(nil)

// Parser is a mock implementation of dossier.Parser.
type Parser struct {
	ParseFn func(page *dossier.Page) (*dossier.Document, error)
}

func (p *Parser) Parse(page *dossier.Page) (*dossier.Document, error) {
	return p.ParseFn(page)
}

var _ dossier.Oracle = (*Oracle)(nil)

// Oracle is a mock implementation of dossier.Oracle.
type Oracle struct {
	CompleteFn func(ctx context.Context, text string) (string, error)
}

func (o *Oracle) Complete(ctx context.Context, text string) (string, error) {
	return o.CompleteFn(ctx, text)
}

var _ dossier.BioFetcher = (*BioFetcher)(nil)

// BioFetcher is a mock implementation of dossier.BioFetcher.
type BioFetcher struct {
	FetchBioFn func(ctx context.Context, url string) (string, error)
}

func (f *BioFetcher) FetchBio(ctx context.Context, url string) (string, error) {
	return f.FetchBioFn(ctx, url)
}
