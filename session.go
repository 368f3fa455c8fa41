package dossier

import (
	"context"
	"time"
)

// Session status values.
const (
	SessionSuccess = "success"
	SessionFailed  = "failed"
	SessionTimeout = "timeout"
)

// Session records one scrape request for later inspection.
type Session struct {
	ID            string
	URL           string
	ProfilesFound int
	Duration      time.Duration
	Strategies    []string
	Status        string
	Error         string
	CreatedAt     time.Time
}

// Validate returns an error if the session contains invalid fields.
func (s *Session) Validate() error {
	if s.URL == "" {
		return Errorf(EINVALID, "session URL required")
	}
	switch s.Status {
	case SessionSuccess, SessionFailed, SessionTimeout:
	default:
		return Errorf(EINVALID, "invalid session status %q", s.Status)
	}
	return nil
}

// SessionFilter represents a filter for FindSessions.
type SessionFilter struct {
	URL    *string
	Status *string
	Limit  int
}

// SessionService records scrape sessions.
type SessionService interface {
	// CreateSession assigns an ID and timestamp and stores the session.
	CreateSession(ctx context.Context, s *Session) error

	// FindSessions returns sessions matching filter, newest first.
	FindSessions(ctx context.Context, filter SessionFilter) ([]*Session, error)

	// DeleteSessionsBefore removes sessions created before t and returns
	// the number removed.
	DeleteSessionsBefore(ctx context.Context, t time.Time) (int, error)
}
