// ABOUTME: Turn represents one directional utterance and its translation within a session
// ABOUTME: Append-only; only the situation tag is mutated after creation
package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// SpeakerRole identifies which party of the exchange produced a turn.
type SpeakerRole string

const (
	// RoleInitiator is the party that started the session (speaks language A)
	RoleInitiator SpeakerRole = "initiator"
	// RoleReply is the answering party (speaks language B)
	RoleReply SpeakerRole = "reply"
)

// TurnsPerSession is fixed by design: one utterance each way.
const TurnsPerSession = 2

// Turn is a single directional utterance within a session.
// EndedAt is the authoritative ordering key because turns are saved
// asynchronously and row creation time is not meaningful.
type Turn struct {
	TurnID          string      `json:"turn_id"`
	SessionID       string      `json:"session_id"`
	HouseholdID     string      `json:"household_id"`
	Role            SpeakerRole `json:"role"`
	TurnIndex       int         `json:"turn_index"`
	EndedAt         time.Time   `json:"ended_at"`
	SourceLang      string      `json:"source_lang"`
	TargetLang      string      `json:"target_lang"`
	SourceText      string      `json:"source_text"`
	TranslatedText  string      `json:"translated_text"`
	Tag             *string     `json:"tag,omitempty"`
	TagConfidence   *float64    `json:"tag_confidence,omitempty"`
	TranscriptionID string      `json:"transcription_id,omitempty"`
	TranslationID   string      `json:"translation_id,omitempty"`
}

// NewTurn creates a Turn with validation. The turn is considered ended at
// creation time: a Turn only exists once its translation has succeeded.
func NewTurn(sessionID, householdID string, index int, role SpeakerRole, sourceLang, targetLang, sourceText, translatedText string) (*Turn, error) {
	if sessionID == "" || householdID == "" {
		return nil, errors.New("session and household ids are required")
	}
	if index < 0 || index >= TurnsPerSession {
		return nil, fmt.Errorf("turn index must be 0..%d, got %d", TurnsPerSession-1, index)
	}
	if strings.TrimSpace(sourceText) == "" {
		return nil, errors.New("source text cannot be empty")
	}
	if strings.TrimSpace(translatedText) == "" {
		return nil, errors.New("translated text cannot be empty")
	}
	return &Turn{
		TurnID:         generateID("turn"),
		SessionID:      sessionID,
		HouseholdID:    householdID,
		Role:           role,
		TurnIndex:      index,
		EndedAt:        time.Now().UTC(),
		SourceLang:     sourceLang,
		TargetLang:     targetLang,
		SourceText:     sourceText,
		TranslatedText: translatedText,
	}, nil
}
