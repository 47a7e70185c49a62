// ABOUTME: Household storage operations for SQLite
// ABOUTME: The pipeline only reads; Upsert exists for the seeding CLI and tests
package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/junwei/hometalk/internal/models"
)

// HouseholdStore handles household persistence
type HouseholdStore struct {
	db *DB
}

// NewHouseholdStore creates a new HouseholdStore
func NewHouseholdStore(db *DB) *HouseholdStore {
	return &HouseholdStore{db: db}
}

// Upsert inserts or updates a household by id
func (s *HouseholdStore) Upsert(h *models.Household) error {
	_, err := s.db.Exec(`
		INSERT INTO households (id, name, lang_a, lang_b, timezone, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			lang_a = excluded.lang_a,
			lang_b = excluded.lang_b,
			timezone = excluded.timezone
	`, h.HouseholdID, h.Name, h.LangA, h.LangB, h.Timezone, h.CreatedAt)
	return err
}

// Get retrieves a household by id
func (s *HouseholdStore) Get(householdID string) (*models.Household, error) {
	var h models.Household
	err := s.db.QueryRow(`
		SELECT id, name, lang_a, lang_b, timezone, created_at
		FROM households WHERE id = ?
	`, householdID).Scan(&h.HouseholdID, &h.Name, &h.LangA, &h.LangB, &h.Timezone, &h.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("household %s not found", householdID)
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}
