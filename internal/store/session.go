package store

import (
	"database/sql"
	"errors"
	"time"
)

// Session is the journal entry for one run of the pointer loop.
type Session struct {
	ID        string     `json:"id"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
	FinalMode string     `json:"final_mode"`
	Frames    int        `json:"frames"`
	Clicks    int        `json:"clicks"`
	Scrolls   int        `json:"scrolls"`
	Segments  int        `json:"segments"`
}

// SessionRepository provides access to the session journal.
type SessionRepository struct {
	db *sql.DB
}

// Sessions returns the session repository for this store.
func (s *Store) Sessions() *SessionRepository {
	return &SessionRepository{db: s.db}
}

const sessionColumns = `id, started_at, ended_at, final_mode, frames, clicks, scrolls, segments`

// Create inserts a session that has just started.
func (r *SessionRepository) Create(sess *Session) error {
	if sess.StartedAt.IsZero() {
		sess.StartedAt = time.Now()
	}
	if sess.FinalMode == "" {
		sess.FinalMode = "pointer"
	}

	_, err := r.db.Exec(
		`INSERT INTO sessions (id, started_at, final_mode) VALUES (?, ?, ?)`,
		sess.ID, sess.StartedAt, sess.FinalMode,
	)
	return err
}

// Finish records the end time and the final counters of a session.
func (r *SessionRepository) Finish(sess *Session) error {
	if sess.EndedAt == nil {
		now := time.Now()
		sess.EndedAt = &now
	}

	result, err := r.db.Exec(
		`UPDATE sessions SET ended_at = ?, final_mode = ?, frames = ?, clicks = ?, scrolls = ?, segments = ?
		 WHERE id = ?`,
		*sess.EndedAt, sess.FinalMode, sess.Frames, sess.Clicks, sess.Scrolls, sess.Segments, sess.ID,
	)
	if err != nil {
		return err
	}
	return checkAffected(result)
}

// GetByID retrieves a session by its ID.
func (r *SessionRepository) GetByID(id string) (*Session, error) {
	row := r.db.QueryRow(`SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id)

	sess, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return sess, nil
}

// List returns the most recent sessions first. A limit <= 0 returns all.
func (r *SessionRepository) List(limit int) ([]*Session, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := r.db.Query(
		`SELECT `+sessionColumns+` FROM sessions ORDER BY started_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (*Session, error) {
	sess := &Session{}
	var ended sql.NullTime

	err := row.Scan(&sess.ID, &sess.StartedAt, &ended, &sess.FinalMode,
		&sess.Frames, &sess.Clicks, &sess.Scrolls, &sess.Segments)
	if err != nil {
		return nil, err
	}

	if ended.Valid {
		t := ended.Time
		sess.EndedAt = &t
	}
	return sess, nil
}
