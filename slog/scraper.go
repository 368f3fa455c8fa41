package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/dossier"
)

var _ dossier.Scraper = (*LoggingScraper)(nil)

// LoggingScraper wraps a Scraper with one summary line per request.
type LoggingScraper struct {
	next   dossier.Scraper
	logger *slog.Logger
}

// NewLoggingScraper creates a new LoggingScraper.
func NewLoggingScraper(next dossier.Scraper, logger *slog.Logger) *LoggingScraper {
	return &LoggingScraper{next: next, logger: logger}
}

// Scrape logs the outcome of each request. Unsuccessful results are logged
// at warn level.
func (s *LoggingScraper) Scrape(ctx context.Context, req dossier.ScrapeRequest) (result *dossier.ScrapeResult, err error) {
	defer func(begin time.Time) {
		level := slog.LevelInfo
		attrs := []any{"url", req.URL, "duration", time.Since(begin)}
		if result != nil {
			attrs = append(attrs,
				"success", result.Success,
				"profiles", len(result.Profiles),
				"cached", result.Diagnostics.Cached,
				"strategies", result.Diagnostics.StrategiesUsed,
			)
			if len(result.Diagnostics.StrategiesFailed) > 0 {
				attrs = append(attrs, "failed", result.Diagnostics.StrategiesFailed)
			}
			if !result.Success {
				level = slog.LevelWarn
				attrs = append(attrs, "errors", result.Diagnostics.Errors)
			}
		}
		if err != nil {
			level = slog.LevelWarn
		}
		attrs = append(attrs, "err", err)
		s.logger.Log(ctx, level, "scrape", attrs...)
	}(time.Now())
	return s.next.Scrape(ctx, req)
}
