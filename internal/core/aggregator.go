// ABOUTME: Daily aggregation of a household's turns into a bilingual digest
// ABOUTME: Timezone-correct day windows, capped LLM calls, atomic persistence
package core

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/junwei/hometalk/internal/errs"
	"github.com/junwei/hometalk/internal/llm"
	"github.com/junwei/hometalk/internal/logger"
	"github.com/junwei/hometalk/internal/models"
	"github.com/junwei/hometalk/internal/storage/sqlite"
)

// maxUpstreamCalls caps the total LLM calls one logical summary or
// vocabulary request may make: generation, one JSON-recovery call, and
// one regeneration. Bounds worst-case cost and latency.
const maxUpstreamCalls = 3

// Aggregator distills one local calendar day of turns into a DailySummary
// with exactly five key phrases.
type Aggregator struct {
	llm   llm.Completer
	store *sqlite.Storage
	log   *logger.Logger
}

// NewAggregator creates an Aggregator.
func NewAggregator(completer llm.Completer, store *sqlite.Storage, log *logger.Logger) *Aggregator {
	return &Aggregator{llm: completer, store: store, log: log}
}

// SummaryResult is one generated digest.
type SummaryResult struct {
	Summary *models.DailySummary `json:"summary"`
	Phrases []models.KeyPhrase   `json:"phrases"`
}

// summaryPayload is the JSON shape the model must return.
type summaryPayload struct {
	TopicSummaryEN string `json:"topic_summary_en"`
	TopicSummaryZH string `json:"topic_summary_zh"`
	WhatsNewEN     string `json:"whats_new_en"`
	WhatsNewZH     string `json:"whats_new_zh"`
	Phrases        []struct {
		English     string `json:"english"`
		Chinese     string `json:"chinese"`
		Explanation string `json:"explanation"`
		Example     string `json:"example"`
	} `json:"phrases"`
}

// Generate builds and persists the digest for the household's local date
// (today in the household's timezone when date is empty). Regeneration is
// idempotent: the summary row is upserted and the date's phrase set is
// replaced wholesale in one transaction.
func (a *Aggregator) Generate(ctx context.Context, householdID, date string) (*SummaryResult, error) {
	hh, resolvedDate, turns, err := loadDayTurns(a.store, householdID, date)
	if err != nil {
		return nil, err
	}

	prevPhrases := a.previousPhrases(hh.HouseholdID, resolvedDate)

	payload, err := a.generatePayload(ctx, turns, prevPhrases, resolvedDate)
	if err != nil {
		return nil, err
	}

	if len(payload.Phrases) != models.PhrasesPerSummary {
		return nil, fmt.Errorf("%w: model returned %d phrases, want %d",
			errs.ErrInvalidSummaryStructure, len(payload.Phrases), models.PhrasesPerSummary)
	}

	summary := models.NewDailySummary(hh.HouseholdID, resolvedDate,
		strings.TrimSpace(payload.TopicSummaryEN), strings.TrimSpace(payload.TopicSummaryZH),
		strings.TrimSpace(payload.WhatsNewEN), strings.TrimSpace(payload.WhatsNewZH))

	phrases := make([]models.KeyPhrase, 0, len(payload.Phrases))
	for i, p := range payload.Phrases {
		english := strings.TrimSpace(p.English)
		if english == "" || strings.TrimSpace(p.Chinese) == "" {
			return nil, fmt.Errorf("%w: phrase %d missing a language side",
				errs.ErrInvalidSummaryStructure, i+1)
		}
		phrases = append(phrases, models.KeyPhrase{
			PhraseID:    fmt.Sprintf("kp_%s_%d", summary.SummaryID, i+1),
			HouseholdID: hh.HouseholdID,
			Date:        resolvedDate,
			Rank:        i + 1,
			English:     english,
			Chinese:     strings.TrimSpace(p.Chinese),
			Explanation: strings.TrimSpace(p.Explanation),
			Example:     strings.TrimSpace(p.Example),
			// Computed here rather than trusted from the model: a phrase
			// is new if yesterday's set didn't contain it.
			NewToday: !prevPhrases[strings.ToLower(english)],
		})
	}

	if err := a.store.Summaries.ReplaceForDate(summary, phrases); err != nil {
		return nil, fmt.Errorf("persisting summary: %w", err)
	}

	a.log.Info("daily summary generated", "household", hh.HouseholdID,
		"date", resolvedDate, "turns", len(turns))
	return &SummaryResult{Summary: summary, Phrases: phrases}, nil
}

// generatePayload runs the generation call with the capped recovery chain:
// generate, recover JSON via one dedicated extraction call, regenerate once.
func (a *Aggregator) generatePayload(ctx context.Context, turns []models.Turn, prevPhrases map[string]bool, date string) (*summaryPayload, error) {
	user := a.buildUserPrompt(turns, date)
	calls := 0

	complete := func() (string, error) {
		calls++
		comp, err := a.llm.Complete(ctx, llm.CompletionRequest{
			System:      summaryPrompt(models.PhrasesPerSummary),
			User:        user,
			Temperature: 0.4,
			MaxTokens:   1200,
			Timeout:     60 * time.Second,
		})
		if err != nil {
			return "", err
		}
		return comp.Text, nil
	}

	text, err := complete()
	if err != nil {
		return nil, fmt.Errorf("summary generation: %w", err)
	}

	raw, extractErr := llm.ExtractJSONObject(text)
	if extractErr != nil && calls < maxUpstreamCalls {
		calls++
		raw, extractErr = llm.RecoverJSONObject(ctx, a.llm, text)
	}
	if extractErr != nil && calls < maxUpstreamCalls {
		if text, err = complete(); err == nil {
			raw, extractErr = llm.ExtractJSONObject(text)
		}
	}
	if extractErr != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrInvalidSummaryStructure, extractErr)
	}

	var payload summaryPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrInvalidSummaryStructure, err)
	}
	return &payload, nil
}

func (a *Aggregator) buildUserPrompt(turns []models.Turn, date string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Conversations on %s:\n\n", date)
	for _, t := range turns {
		fmt.Fprintf(&b, "[%s, %s] %s\n", t.Role, t.SourceLang, t.SourceText)
		fmt.Fprintf(&b, "[translation, %s] %s\n", t.TargetLang, t.TranslatedText)
	}

	if prev := a.previousSummaryText(turns, date); prev != "" {
		fmt.Fprintf(&b, "\nYesterday's summary:\n%s\n", prev)
	}
	return b.String()
}

// previousSummaryText fetches yesterday's English summary for the
// what's-new delta, or "" when none exists.
func (a *Aggregator) previousSummaryText(turns []models.Turn, date string) string {
	if len(turns) == 0 {
		return ""
	}
	prevDate, err := previousDate(date)
	if err != nil {
		return ""
	}
	prev, err := a.store.Summaries.Get(turns[0].HouseholdID, prevDate)
	if err != nil || prev == nil {
		return ""
	}
	return prev.TopicSummaryEN
}

// previousPhrases returns yesterday's phrase set (lowercased english) for
// computing new-today flags. Missing data just means everything is new.
func (a *Aggregator) previousPhrases(householdID, date string) map[string]bool {
	set := map[string]bool{}
	prevDate, err := previousDate(date)
	if err != nil {
		return set
	}
	phrases, err := a.store.Summaries.GetPhrases(householdID, prevDate)
	if err != nil {
		return set
	}
	for _, p := range phrases {
		set[strings.ToLower(p.English)] = true
	}
	return set
}

func previousDate(date string) (string, error) {
	d, err := time.Parse(dateLayout, date)
	if err != nil {
		return "", err
	}
	return d.AddDate(0, 0, -1).Format(dateLayout), nil
}

// loadDayTurns resolves the household, the requested local date (today in
// the household's timezone when empty), and that date's turns ordered by
// end time. Shared by the aggregator and the vocabulary extractor.
func loadDayTurns(store *sqlite.Storage, householdID, date string) (*models.Household, string, []models.Turn, error) {
	hh, err := store.Households.Get(householdID)
	if err != nil {
		return nil, "", nil, err
	}
	loc, err := hh.Location()
	if err != nil {
		return nil, "", nil, fmt.Errorf("household %s timezone: %w", householdID, err)
	}
	if date == "" {
		date = LocalDate(time.Now(), loc)
	}

	from, to, err := DayWindowUTC(date, loc)
	if err != nil {
		return nil, "", nil, err
	}

	turns, err := store.Turns.ListByEndedRange(householdID, from, to)
	if err != nil {
		return nil, "", nil, fmt.Errorf("loading turns: %w", err)
	}
	if len(turns) == 0 {
		return nil, "", nil, fmt.Errorf("%w: %s on %s", errs.ErrNoConversations, householdID, date)
	}
	return hh, date, turns, nil
}
