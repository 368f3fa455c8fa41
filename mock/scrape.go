package mock

import (
	"context"
	"time"

	"github.com/fwojciec/dossier"
)

var _ dossier.Scraper = (*Scraper)(nil)

// Scraper is a mock implementation of dossier.Scraper.
type Scraper struct {
	ScrapeFn func(ctx context.Context, req dossier.ScrapeRequest) (*dossier.ScrapeResult, error)
}

func (s *Scraper) Scrape(ctx context.Context, req dossier.ScrapeRequest) (*dossier.ScrapeResult, error) {
	return s.ScrapeFn(ctx, req)
}

var _ dossier.ClientLimiter = (*ClientLimiter)(nil)

// ClientLimiter is a mock implementation of dossier.ClientLimiter.
type ClientLimiter struct {
	AllowFn      func(client string) bool
	RemainingFn  func(client string) int
	ResetAfterFn func(client string) time.Duration
}

func (l *ClientLimiter) Allow(client string) bool {
	return l.AllowFn(client)
}

func (l *ClientLimiter) Remaining(client string) int {
	return l.RemainingFn(client)
}

func (l *ClientLimiter) ResetAfter(client string) time.Duration {
	return l.ResetAfterFn(client)
}

var _ dossier.SessionService = (*SessionService)(nil)

// SessionService is a mock implementation of dossier.SessionService.
type SessionService struct {
	CreateSessionFn func(ctx context.Context, s *dossier.Session) error
	FindSessionsFn  func(ctx context.Context, filter dossier.SessionFilter) ([]*dossier.Session, error)

	DeleteSessionsBeforeFn func(ctx context.Context, t time.Time) (int, error)
}

func (s *SessionService) CreateSession(ctx context.Context, session *dossier.Session) error {
	return s.CreateSessionFn(ctx, session)
}

func (s *SessionService) FindSessions(ctx context.Context, filter dossier.SessionFilter) ([]*dossier.Session, error) {
	return s.FindSessionsFn(ctx, filter)
}

func (s *SessionService) DeleteSessionsBefore(ctx context.Context, t time.Time) (int, error) {
	return s.DeleteSessionsBeforeFn(ctx, t)
}

var _ dossier.ResultStore = (*ResultStore)(nil)

// ResultStore is a mock implementation of dossier.ResultStore.
type ResultStore struct {
	SaveFn   func(ctx context.Context, result *dossier.ScrapeResult) error
	CommitFn func() error
	AbortFn  func() error
}

func (s *ResultStore) Save(ctx context.Context, result *dossier.ScrapeResult) error {
	return s.SaveFn(ctx, result)
}

func (s *ResultStore) Commit() error {
	return s.CommitFn()
}

func (s *ResultStore) Abort() error {
	return s.AbortFn()
}
