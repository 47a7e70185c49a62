// ABOUTME: Session storage operations for SQLite
// ABOUTME: Sessions are created at capture start and ended after the reply turn persists
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/junwei/hometalk/internal/models"
)

// SessionStore handles session persistence
type SessionStore struct {
	db *DB
}

// NewSessionStore creates a new SessionStore
func NewSessionStore(db *DB) *SessionStore {
	return &SessionStore{db: db}
}

// Create inserts a new session row
func (s *SessionStore) Create(sess *models.Session) error {
	_, err := s.db.Exec(`
		INSERT INTO sessions (id, household_id, initiator_id, started_at, ended_at, note)
		VALUES (?, ?, ?, ?, ?, ?)
	`, sess.SessionID, sess.HouseholdID, sess.InitiatorID, sess.StartedAt, sess.EndedAt, sess.Note)
	return err
}

// Get retrieves a session by id
func (s *SessionStore) Get(sessionID string) (*models.Session, error) {
	var (
		sess    models.Session
		endedAt sql.NullTime
		note    sql.NullString
	)
	err := s.db.QueryRow(`
		SELECT id, household_id, initiator_id, started_at, ended_at, note
		FROM sessions WHERE id = ?
	`, sessionID).Scan(&sess.SessionID, &sess.HouseholdID, &sess.InitiatorID,
		&sess.StartedAt, &endedAt, &note)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("session %s not found", sessionID)
	}
	if err != nil {
		return nil, err
	}
	if endedAt.Valid {
		t := endedAt.Time
		sess.EndedAt = &t
	}
	if note.Valid {
		sess.Note = note.String
	}
	return &sess, nil
}

// SetEnded marks a session complete. Called only after the second turn's
// write succeeded.
func (s *SessionStore) SetEnded(sessionID string, endedAt time.Time) error {
	res, err := s.db.Exec(`UPDATE sessions SET ended_at = ? WHERE id = ?`, endedAt, sessionID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("session %s not found", sessionID)
	}
	return nil
}
