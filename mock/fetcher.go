package mock

import (
	"context"

	"github.com/fwojciec/dossier"
)

var _ dossier.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of dossier.Fetcher.
type Fetcher struct {
	FetchPageFn func(ctx context.Context, url string) (*dossier.Page, error)
}

func (f *Fetcher) FetchPage(ctx context.Context, url string) (*dossier.Page, error) {
	return f.FetchPageFn(ctx, url)
}

var _ dossier.Renderer = (*Renderer)(nil)

// Renderer is a mock implementation of dossier.Renderer.
type Renderer struct {
	RenderFn func(ctx context.Context, url string) (string, error)
	CloseFn  func() error
}

func (r *Renderer) Render(ctx context.Context, url string) (string, error) {
	return r.RenderFn(ctx, url)
}

func (r *Renderer) Close() error {
	return r.CloseFn()
}
