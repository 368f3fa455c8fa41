// Package slog provides log/slog decorators for dossier services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/dossier"
)

// Ensure decorators implement their interfaces.
var (
	_ dossier.Fetcher  = (*LoggingFetcher)(nil)
	_ dossier.Renderer = (*LoggingRenderer)(nil)
)

// LoggingFetcher wraps a Fetcher with logging.
type LoggingFetcher struct {
	next   dossier.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next dossier.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// FetchPage logs the classified outcome of each fetch.
func (f *LoggingFetcher) FetchPage(ctx context.Context, url string) (page *dossier.Page, err error) {
	defer func(begin time.Time) {
		attrs := []any{"url", url, "duration", time.Since(begin)}
		if page != nil {
			attrs = append(attrs,
				"status", page.Status,
				"code", page.StatusCode,
				"bytes", len(page.Body),
				"protection", page.Protection,
			)
		}
		attrs = append(attrs, "err", err)
		f.logger.Info("fetch", attrs...)
	}(time.Now())
	return f.next.FetchPage(ctx, url)
}

// LoggingRenderer wraps a Renderer with logging.
type LoggingRenderer struct {
	next   dossier.Renderer
	logger *slog.Logger
}

// NewLoggingRenderer creates a new LoggingRenderer.
func NewLoggingRenderer(next dossier.Renderer, logger *slog.Logger) *LoggingRenderer {
	return &LoggingRenderer{next: next, logger: logger}
}

// Render logs the URL rendered and the size of the result.
func (r *LoggingRenderer) Render(ctx context.Context, url string) (html string, err error) {
	defer func(begin time.Time) {
		r.logger.Info("render",
			"url", url,
			"bytes", len(html),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.Render(ctx, url)
}

// Close delegates to the wrapped renderer.
func (r *LoggingRenderer) Close() error {
	return r.next.Close()
}
