// ABOUTME: DailySummary and KeyPhrase models for the daily bilingual digest
// ABOUTME: One summary per household per local date, with exactly five ranked phrases
package models

import "time"

// PhrasesPerSummary is the generation contract for key phrases per summary.
const PhrasesPerSummary = 5

// DailySummary is the bilingual digest of one household-local calendar date.
// Regeneration overwrites in place; there is no history.
type DailySummary struct {
	SummaryID      string    `json:"summary_id"`
	HouseholdID    string    `json:"household_id"`
	Date           string    `json:"date"` // local calendar date, YYYY-MM-DD
	TopicSummaryEN string    `json:"topic_summary_en"`
	TopicSummaryZH string    `json:"topic_summary_zh"`
	WhatsNewEN     string    `json:"whats_new_en,omitempty"`
	WhatsNewZH     string    `json:"whats_new_zh,omitempty"`
	GeneratedAt    time.Time `json:"generated_at"`
}

// NewDailySummary creates a DailySummary stamped with the generation time.
func NewDailySummary(householdID, date, summaryEN, summaryZH, newEN, newZH string) *DailySummary {
	return &DailySummary{
		SummaryID:      generateID("dsum"),
		HouseholdID:    householdID,
		Date:           date,
		TopicSummaryEN: summaryEN,
		TopicSummaryZH: summaryZH,
		WhatsNewEN:     newEN,
		WhatsNewZH:     newZH,
		GeneratedAt:    time.Now().UTC(),
	}
}

// KeyPhrase is one of the five daily-ranked bilingual vocabulary items.
// (household, date, english) is the natural key used for upserts.
type KeyPhrase struct {
	PhraseID    string `json:"phrase_id"`
	HouseholdID string `json:"household_id"`
	Date        string `json:"date"`
	Rank        int    `json:"rank"` // 1..5, defines display order
	English     string `json:"english"`
	Chinese     string `json:"chinese"`
	Explanation string `json:"explanation,omitempty"`
	Example     string `json:"example,omitempty"`
	NewToday    bool   `json:"new_today"`
}
