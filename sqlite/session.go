package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/fwojciec/dossier"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ dossier.SessionService = (*SessionService)(nil)

// SessionService implements dossier.SessionService using SQLite.
type SessionService struct {
	db *DB
}

// NewSessionService creates a new SessionService.
func NewSessionService(db *DB) *SessionService {
	return &SessionService{db: db}
}

const sessionColumns = "id, url, profiles_found, duration_ms, strategies, status, error, created_at"

// CreateSession assigns an ID and timestamp and stores the session.
func (s *SessionService) CreateSession(ctx context.Context, session *dossier.Session) error {
	if err := session.Validate(); err != nil {
		return err
	}

	session.ID = uuid.New().String()
	session.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (`+sessionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, session.ID, session.URL, session.ProfilesFound, session.Duration.Milliseconds(),
		joinList(session.Strategies), session.Status, session.Error, formatTime(session.CreatedAt))
	return err
}

// FindSessionByID retrieves a session by ID.
func (s *SessionService) FindSessionByID(ctx context.Context, id string) (*dossier.Session, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+sessionColumns+" FROM sessions WHERE id = ?", id)
	session, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, dossier.Errorf(dossier.ENOTFOUND, "session not found")
	}
	return session, err
}

// FindSessions returns sessions matching filter, newest first.
func (s *SessionService) FindSessions(ctx context.Context, filter dossier.SessionFilter) ([]*dossier.Session, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + sessionColumns + " FROM sessions WHERE 1=1")
	if filter.URL != nil {
		query.WriteString(" AND url = ?")
		args = append(args, *filter.URL)
	}
	if filter.Status != nil {
		query.WriteString(" AND status = ?")
		args = append(args, *filter.Status)
	}
	query.WriteString(" ORDER BY created_at DESC, rowid DESC")
	appendLimit(&query, &args, filter.Limit)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*dossier.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

// DeleteSessionsBefore removes sessions created before t and returns how
// many were removed.
func (s *SessionService) DeleteSessionsBefore(ctx context.Context, t time.Time) (int, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE created_at < ?", formatTime(t))
	if err != nil {
		return 0, err
	}
	n, err := result.RowsAffected()
	return int(n), err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (*dossier.Session, error) {
	var session dossier.Session
	var durationMS int64
	var strategies, createdAt string

	if err := row.Scan(&session.ID, &session.URL, &session.ProfilesFound, &durationMS,
		&strategies, &session.Status, &session.Error, &createdAt); err != nil {
		return nil, err
	}

	var err error
	if session.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
		return nil, err
	}
	session.Duration = time.Duration(durationMS) * time.Millisecond
	session.Strategies = splitList(strategies)
	return &session, nil
}
