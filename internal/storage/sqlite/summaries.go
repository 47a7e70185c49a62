// ABOUTME: Daily summary and key phrase storage for SQLite
// ABOUTME: Summary upsert plus wholesale phrase replacement in one transaction
package sqlite

import (
	"database/sql"

	"github.com/junwei/hometalk/internal/models"
)

// SummaryStore handles daily summary and key phrase persistence
type SummaryStore struct {
	db *DB
}

// NewSummaryStore creates a new SummaryStore
func NewSummaryStore(db *DB) *SummaryStore {
	return &SummaryStore{db: db}
}

// ReplaceForDate atomically upserts the summary for (household, date) and
// replaces that date's phrase set. Either the new summary and all its
// phrases land together, or nothing changes: a summary must never
// reference a stale or partial phrase set.
func (s *SummaryStore) ReplaceForDate(summary *models.DailySummary, phrases []models.KeyPhrase) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.Exec(`
		INSERT INTO daily_summaries (id, household_id, summary_date,
			topic_summary_en, topic_summary_zh, whats_new_en, whats_new_zh, generated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(household_id, summary_date) DO UPDATE SET
			topic_summary_en = excluded.topic_summary_en,
			topic_summary_zh = excluded.topic_summary_zh,
			whats_new_en = excluded.whats_new_en,
			whats_new_zh = excluded.whats_new_zh,
			generated_at = excluded.generated_at
	`, summary.SummaryID, summary.HouseholdID, summary.Date,
		summary.TopicSummaryEN, summary.TopicSummaryZH,
		summary.WhatsNewEN, summary.WhatsNewZH, summary.GeneratedAt)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
		DELETE FROM key_phrases WHERE household_id = ? AND summary_date = ?
	`, summary.HouseholdID, summary.Date)
	if err != nil {
		return err
	}

	for _, p := range phrases {
		_, err = tx.Exec(`
			INSERT INTO key_phrases (id, household_id, summary_date, phrase_rank,
				english, chinese, explanation, example, new_today)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, p.PhraseID, p.HouseholdID, p.Date, p.Rank,
			p.English, p.Chinese, p.Explanation, p.Example, p.NewToday)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Get retrieves the summary for (household, date), or nil when none exists
func (s *SummaryStore) Get(householdID, date string) (*models.DailySummary, error) {
	var (
		sum        models.DailySummary
		whatsNewEN sql.NullString
		whatsNewZH sql.NullString
	)
	err := s.db.QueryRow(`
		SELECT id, household_id, summary_date, topic_summary_en, topic_summary_zh,
			whats_new_en, whats_new_zh, generated_at
		FROM daily_summaries
		WHERE household_id = ? AND summary_date = ?
	`, householdID, date).Scan(&sum.SummaryID, &sum.HouseholdID, &sum.Date,
		&sum.TopicSummaryEN, &sum.TopicSummaryZH, &whatsNewEN, &whatsNewZH, &sum.GeneratedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if whatsNewEN.Valid {
		sum.WhatsNewEN = whatsNewEN.String
	}
	if whatsNewZH.Valid {
		sum.WhatsNewZH = whatsNewZH.String
	}
	return &sum, nil
}

// GetPhrases retrieves a date's key phrases ordered by rank
func (s *SummaryStore) GetPhrases(householdID, date string) ([]models.KeyPhrase, error) {
	rows, err := s.db.Query(`
		SELECT id, household_id, summary_date, phrase_rank, english, chinese,
			explanation, example, new_today
		FROM key_phrases
		WHERE household_id = ? AND summary_date = ?
		ORDER BY phrase_rank ASC
	`, householdID, date)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var phrases []models.KeyPhrase
	for rows.Next() {
		var (
			p           models.KeyPhrase
			explanation sql.NullString
			example     sql.NullString
		)
		err := rows.Scan(&p.PhraseID, &p.HouseholdID, &p.Date, &p.Rank,
			&p.English, &p.Chinese, &explanation, &example, &p.NewToday)
		if err != nil {
			return nil, err
		}
		if explanation.Valid {
			p.Explanation = explanation.String
		}
		if example.Valid {
			p.Example = example.String
		}
		phrases = append(phrases, p)
	}
	return phrases, rows.Err()
}
