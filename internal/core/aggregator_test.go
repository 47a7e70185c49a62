// ABOUTME: Tests for daily summary generation: structure validation, day windows, idempotency
// ABOUTME: Scripted completer plus in-memory storage; no network calls

package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/junwei/hometalk/internal/errs"
	"github.com/junwei/hometalk/internal/llm"
	"github.com/junwei/hometalk/internal/logger"
	"github.com/junwei/hometalk/internal/models"
)

func summaryJSONWithPhrases(phrases ...string) string {
	items := make([]string, 0, len(phrases))
	for _, p := range phrases {
		items = append(items, fmt.Sprintf(
			`{"english": "%s", "chinese": "中文", "explanation": "e", "example": "x"}`, p))
	}
	return fmt.Sprintf(`{"topic_summary_en": "talked about travel", "topic_summary_zh": "聊了旅行",
		"whats_new_en": "flight plans", "whats_new_zh": "航班计划", "phrases": [%s]}`,
		strings.Join(items, ","))
}

func fixedResponder(text string) func(llm.CompletionRequest) (*llm.Completion, error) {
	return func(llm.CompletionRequest) (*llm.Completion, error) {
		return &llm.Completion{Text: text, FinishReason: "stop"}, nil
	}
}

func TestAggregator_GeneratePersistsSummaryAndPhrases(t *testing.T) {
	store := newTestStorage(t)
	hh := seedHousehold(t, store, "UTC")
	seedTurn(t, store, hh, "I missed my flight", "我错过了航班",
		time.Date(2024, 12, 2, 10, 0, 0, 0, time.UTC))

	fake := &fakeCompleter{respond: fixedResponder(
		summaryJSONWithPhrases("missed my flight", "boarding pass", "rebook", "gate", "luggage"))}
	agg := NewAggregator(fake, store, logger.NewNop())

	got, err := agg.Generate(context.Background(), hh.HouseholdID, "2024-12-02")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if got.Summary.TopicSummaryEN != "talked about travel" {
		t.Errorf("TopicSummaryEN = %q", got.Summary.TopicSummaryEN)
	}
	if len(got.Phrases) != models.PhrasesPerSummary {
		t.Fatalf("returned %d phrases, want %d", len(got.Phrases), models.PhrasesPerSummary)
	}

	phrases, err := store.Summaries.GetPhrases(hh.HouseholdID, "2024-12-02")
	if err != nil {
		t.Fatalf("GetPhrases() error = %v", err)
	}
	if len(phrases) != models.PhrasesPerSummary {
		t.Fatalf("persisted %d phrases, want %d", len(phrases), models.PhrasesPerSummary)
	}
	for i, p := range phrases {
		if p.Rank != i+1 {
			t.Errorf("phrase %d rank = %d, want %d", i, p.Rank, i+1)
		}
		// No previous day's phrases: everything counts as new.
		if !p.NewToday {
			t.Errorf("phrase %q NewToday = false, want true", p.English)
		}
	}
}

func TestAggregator_WrongPhraseCountRejected(t *testing.T) {
	store := newTestStorage(t)
	hh := seedHousehold(t, store, "UTC")
	seedTurn(t, store, hh, "hello", "你好", time.Date(2024, 12, 2, 10, 0, 0, 0, time.UTC))

	fake := &fakeCompleter{respond: fixedResponder(summaryJSONWithPhrases("only", "three", "phrases"))}
	agg := NewAggregator(fake, store, logger.NewNop())

	_, err := agg.Generate(context.Background(), hh.HouseholdID, "2024-12-02")
	if !errors.Is(err, errs.ErrInvalidSummaryStructure) {
		t.Fatalf("error = %v, want ErrInvalidSummaryStructure", err)
	}

	summary, err := store.Summaries.Get(hh.HouseholdID, "2024-12-02")
	if err != nil {
		t.Fatalf("Summaries.Get() error = %v", err)
	}
	if summary != nil {
		t.Error("invalid payload must not be persisted")
	}
}

func TestAggregator_NoConversations(t *testing.T) {
	store := newTestStorage(t)
	hh := seedHousehold(t, store, "UTC")

	agg := NewAggregator(&fakeCompleter{}, store, logger.NewNop())
	_, err := agg.Generate(context.Background(), hh.HouseholdID, "2024-12-02")
	if !errors.Is(err, errs.ErrNoConversations) {
		t.Fatalf("error = %v, want ErrNoConversations", err)
	}
}

func TestAggregator_DayWindowUsesHouseholdTimezone(t *testing.T) {
	store := newTestStorage(t)
	hh := seedHousehold(t, store, "America/New_York")

	// 2024-12-02 04:30 UTC is 23:30 on 2024-12-01 in New York.
	seedTurn(t, store, hh, "late night chat", "深夜聊天",
		time.Date(2024, 12, 2, 4, 30, 0, 0, time.UTC))

	fake := &fakeCompleter{respond: fixedResponder(
		summaryJSONWithPhrases("a", "b", "c", "d", "e"))}
	agg := NewAggregator(fake, store, logger.NewNop())

	if _, err := agg.Generate(context.Background(), hh.HouseholdID, "2024-12-01"); err != nil {
		t.Fatalf("Generate(2024-12-01) error = %v", err)
	}

	_, err := agg.Generate(context.Background(), hh.HouseholdID, "2024-12-02")
	if !errors.Is(err, errs.ErrNoConversations) {
		t.Fatalf("Generate(2024-12-02) error = %v, want ErrNoConversations", err)
	}
}

func TestAggregator_NewTodayComputedAgainstPreviousDay(t *testing.T) {
	store := newTestStorage(t)
	hh := seedHousehold(t, store, "UTC")
	seedTurn(t, store, hh, "boarding pass again", "又是登机牌",
		time.Date(2024, 12, 2, 10, 0, 0, 0, time.UTC))

	// Seed yesterday's digest containing "boarding pass".
	prev := models.NewDailySummary(hh.HouseholdID, "2024-12-01", "travel", "旅行", "", "")
	prevPhrases := []models.KeyPhrase{{
		PhraseID: "kp_prev_1", HouseholdID: hh.HouseholdID, Date: "2024-12-01",
		Rank: 1, English: "Boarding Pass", Chinese: "登机牌", NewToday: true,
	}}
	if err := store.Summaries.ReplaceForDate(prev, prevPhrases); err != nil {
		t.Fatalf("ReplaceForDate() error = %v", err)
	}

	fake := &fakeCompleter{respond: fixedResponder(
		summaryJSONWithPhrases("boarding pass", "gate change", "carry-on", "delay", "refund"))}
	agg := NewAggregator(fake, store, logger.NewNop())

	got, err := agg.Generate(context.Background(), hh.HouseholdID, "2024-12-02")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	// Comparison is case-insensitive: yesterday had "Boarding Pass".
	if got.Phrases[0].NewToday {
		t.Error("repeated phrase flagged NewToday")
	}
	for _, p := range got.Phrases[1:] {
		if !p.NewToday {
			t.Errorf("phrase %q NewToday = false, want true", p.English)
		}
	}
}

func TestAggregator_RegenerationReplacesPhrases(t *testing.T) {
	store := newTestStorage(t)
	hh := seedHousehold(t, store, "UTC")
	seedTurn(t, store, hh, "hello", "你好", time.Date(2024, 12, 2, 10, 0, 0, 0, time.UTC))

	fake := &fakeCompleter{respond: fixedResponder(
		summaryJSONWithPhrases("one", "two", "three", "four", "five"))}
	agg := NewAggregator(fake, store, logger.NewNop())

	if _, err := agg.Generate(context.Background(), hh.HouseholdID, "2024-12-02"); err != nil {
		t.Fatalf("first Generate() error = %v", err)
	}

	fake.respond = fixedResponder(summaryJSONWithPhrases("six", "seven", "eight", "nine", "ten"))
	if _, err := agg.Generate(context.Background(), hh.HouseholdID, "2024-12-02"); err != nil {
		t.Fatalf("second Generate() error = %v", err)
	}

	phrases, err := store.Summaries.GetPhrases(hh.HouseholdID, "2024-12-02")
	if err != nil {
		t.Fatalf("GetPhrases() error = %v", err)
	}
	if len(phrases) != models.PhrasesPerSummary {
		t.Fatalf("after regeneration %d phrases, want %d (no orphans)", len(phrases), models.PhrasesPerSummary)
	}
	if phrases[0].English != "six" {
		t.Errorf("top phrase = %q, want the regenerated set", phrases[0].English)
	}
}

func TestAggregator_UpstreamCallsCapped(t *testing.T) {
	store := newTestStorage(t)
	hh := seedHousehold(t, store, "UTC")
	seedTurn(t, store, hh, "hello", "你好", time.Date(2024, 12, 2, 10, 0, 0, 0, time.UTC))

	fake := &fakeCompleter{respond: fixedResponder("no json here at all")}
	agg := NewAggregator(fake, store, logger.NewNop())

	_, err := agg.Generate(context.Background(), hh.HouseholdID, "2024-12-02")
	if !errors.Is(err, errs.ErrInvalidSummaryStructure) {
		t.Fatalf("error = %v, want ErrInvalidSummaryStructure", err)
	}
	// Generation, one recovery call, one regeneration. Never more.
	if fake.callCount() != maxUpstreamCalls {
		t.Errorf("made %d upstream calls, want %d", fake.callCount(), maxUpstreamCalls)
	}
}
