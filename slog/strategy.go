package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/dossier"
)

var (
	_ dossier.Strategy   = (*LoggingStrategy)(nil)
	_ dossier.Oracle     = (*LoggingOracle)(nil)
	_ dossier.BioFetcher = (*LoggingBioFetcher)(nil)
)

// LoggingStrategy wraps a Strategy with debug logging.
type LoggingStrategy struct {
	next   dossier.Strategy
	logger *slog.Logger
}

// NewLoggingStrategy creates a new LoggingStrategy.
func NewLoggingStrategy(next dossier.Strategy, logger *slog.Logger) *LoggingStrategy {
	return &LoggingStrategy{next: next, logger: logger}
}

// Name delegates to the wrapped strategy.
func (s *LoggingStrategy) Name() string {
	return s.next.Name()
}

// Extract logs the number of candidates each strategy produced.
func (s *LoggingStrategy) Extract(ctx context.Context, doc *dossier.Document) (profiles []*dossier.Profile, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("extract",
			"strategy", s.next.Name(),
			"url", doc.URL,
			"candidates", len(profiles),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Extract(ctx, doc)
}

// WrapStrategies decorates every strategy with logging.
func WrapStrategies(strategies []dossier.Strategy, logger *slog.Logger) []dossier.Strategy {
	out := make([]dossier.Strategy, len(strategies))
	for i, s := range strategies {
		out[i] = NewLoggingStrategy(s, logger)
	}
	return out
}

// LoggingOracle wraps an Oracle with logging.
type LoggingOracle struct {
	next   dossier.Oracle
	logger *slog.Logger
}

// NewLoggingOracle creates a new LoggingOracle.
func NewLoggingOracle(next dossier.Oracle, logger *slog.Logger) *LoggingOracle {
	return &LoggingOracle{next: next, logger: logger}
}

// Complete logs prompt and answer sizes.
func (o *LoggingOracle) Complete(ctx context.Context, text string) (answer string, err error) {
	defer func(begin time.Time) {
		o.logger.Info("complete",
			"input_bytes", len(text),
			"answer_bytes", len(answer),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return o.next.Complete(ctx, text)
}

// LoggingBioFetcher wraps a BioFetcher with debug logging.
type LoggingBioFetcher struct {
	next   dossier.BioFetcher
	logger *slog.Logger
}

// NewLoggingBioFetcher creates a new LoggingBioFetcher.
func NewLoggingBioFetcher(next dossier.BioFetcher, logger *slog.Logger) *LoggingBioFetcher {
	return &LoggingBioFetcher{next: next, logger: logger}
}

// FetchBio logs each dereferenced "read more" link.
func (f *LoggingBioFetcher) FetchBio(ctx context.Context, url string) (bio string, err error) {
	defer func(begin time.Time) {
		f.logger.Debug("bio",
			"url", url,
			"chars", len(bio),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.FetchBio(ctx, url)
}
