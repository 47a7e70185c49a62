// ABOUTME: Session represents one bounded two-turn conversation exchange
// ABOUTME: Created when the first capture begins, ended when both turns complete
package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Session is a fixed two-turn exchange between an initiator and a reply party.
type Session struct {
	SessionID   string     `json:"session_id"`
	HouseholdID string     `json:"household_id"`
	InitiatorID string     `json:"initiator_id"`
	StartedAt   time.Time  `json:"started_at"`
	EndedAt     *time.Time `json:"ended_at,omitempty"`
	Note        string     `json:"note,omitempty"`
}

// NewSession creates a new Session with validation
func NewSession(householdID, initiatorID string) (*Session, error) {
	if householdID == "" {
		return nil, errors.New("household id cannot be empty")
	}
	if initiatorID == "" {
		return nil, errors.New("initiator id cannot be empty")
	}
	return &Session{
		SessionID:   generateID("sess"),
		HouseholdID: householdID,
		InitiatorID: initiatorID,
		StartedAt:   time.Now().UTC(),
	}, nil
}

// Completed reports whether both turns have been persisted
func (s *Session) Completed() bool {
	return s.EndedAt != nil
}

// generateID generates a prefixed, sortable-by-creation identifier
func generateID(prefix string) string {
	return fmt.Sprintf("%s_%s_%s", prefix, time.Now().Format("20060102_150405"), uuid.New().String()[:8])
}
