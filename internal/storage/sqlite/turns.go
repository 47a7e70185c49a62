// ABOUTME: Turn storage operations for SQLite
// ABOUTME: Plain INSERT so the unique (session, turn_index) constraint rejects duplicate slots
package sqlite

import (
	"database/sql"
	"time"

	"github.com/junwei/hometalk/internal/models"
)

// TurnStore handles turn persistence
type TurnStore struct {
	db *DB
}

// NewTurnStore creates a new TurnStore
func NewTurnStore(db *DB) *TurnStore {
	return &TurnStore{db: db}
}

// Insert saves a turn. Deliberately not an upsert: writing a second turn
// into an occupied (session, turn_index) slot must fail.
func (s *TurnStore) Insert(t *models.Turn) error {
	_, err := s.db.Exec(`
		INSERT INTO turns (id, session_id, household_id, role, turn_index, ended_at,
			source_lang, target_lang, source_text, translated_text,
			tag, tag_confidence, transcription_id, translation_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, t.TurnID, t.SessionID, t.HouseholdID, string(t.Role), t.TurnIndex, t.EndedAt,
		t.SourceLang, t.TargetLang, t.SourceText, t.TranslatedText,
		t.Tag, t.TagConfidence, t.TranscriptionID, t.TranslationID)
	return err
}

// GetBySession retrieves a session's turns ordered by slot
func (s *TurnStore) GetBySession(sessionID string) ([]models.Turn, error) {
	rows, err := s.db.Query(`
		SELECT id, session_id, household_id, role, turn_index, ended_at,
			source_lang, target_lang, source_text, translated_text,
			tag, tag_confidence, transcription_id, translation_id
		FROM turns
		WHERE session_id = ?
		ORDER BY turn_index ASC
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return scanTurns(rows)
}

// ListByEndedRange retrieves a household's turns whose end timestamp falls
// in [from, to), ordered by end time. Callers convert local dates to UTC
// bounds; this query stays timezone-agnostic.
func (s *TurnStore) ListByEndedRange(householdID string, from, to time.Time) ([]models.Turn, error) {
	rows, err := s.db.Query(`
		SELECT id, session_id, household_id, role, turn_index, ended_at,
			source_lang, target_lang, source_text, translated_text,
			tag, tag_confidence, transcription_id, translation_id
		FROM turns
		WHERE household_id = ? AND ended_at >= ? AND ended_at < ?
		ORDER BY ended_at ASC
	`, householdID, from, to)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return scanTurns(rows)
}

// UpdateSessionTag sets the situation tag on every turn of a session.
// This is the only post-creation mutation turns receive.
func (s *TurnStore) UpdateSessionTag(sessionID, tag string, confidence float64) error {
	_, err := s.db.Exec(`
		UPDATE turns SET tag = ?, tag_confidence = ? WHERE session_id = ?
	`, tag, confidence, sessionID)
	return err
}

func scanTurns(rows *sql.Rows) ([]models.Turn, error) {
	var turns []models.Turn
	for rows.Next() {
		var (
			t               models.Turn
			role            string
			tag             sql.NullString
			tagConfidence   sql.NullFloat64
			transcriptionID sql.NullString
			translationID   sql.NullString
		)
		err := rows.Scan(&t.TurnID, &t.SessionID, &t.HouseholdID, &role, &t.TurnIndex, &t.EndedAt,
			&t.SourceLang, &t.TargetLang, &t.SourceText, &t.TranslatedText,
			&tag, &tagConfidence, &transcriptionID, &translationID)
		if err != nil {
			return nil, err
		}
		t.Role = models.SpeakerRole(role)
		if tag.Valid {
			v := tag.String
			t.Tag = &v
		}
		if tagConfidence.Valid {
			v := tagConfidence.Float64
			t.TagConfidence = &v
		}
		if transcriptionID.Valid {
			t.TranscriptionID = transcriptionID.String
		}
		if translationID.Valid {
			t.TranslationID = translationID.String
		}
		turns = append(turns, t)
	}
	return turns, rows.Err()
}
