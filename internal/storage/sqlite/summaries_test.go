// ABOUTME: Tests for daily summary and key phrase storage
// ABOUTME: Verifies regeneration idempotence and wholesale phrase replacement

package sqlite

import (
	"fmt"
	"testing"

	"github.com/junwei/hometalk/internal/models"
)

func makePhrases(householdID, date string, words ...string) []models.KeyPhrase {
	phrases := make([]models.KeyPhrase, len(words))
	for i, w := range words {
		phrases[i] = models.KeyPhrase{
			PhraseID:    fmt.Sprintf("kp_%s_%d", w, i),
			HouseholdID: householdID,
			Date:        date,
			Rank:        i + 1,
			English:     w,
			Chinese:     "中文:" + w,
			Example:     "example with " + w,
			NewToday:    i == 0,
		}
	}
	return phrases
}

func TestSummaryStore_ReplaceForDate(t *testing.T) {
	store, err := NewStorageInMemory()
	if err != nil {
		t.Fatalf("NewStorageInMemory() error = %v", err)
	}
	defer func() { _ = store.Close() }()

	hh := seedHousehold(t, store)
	date := "2024-12-01"

	summary := models.NewDailySummary(hh.HouseholdID, date, "Talked about travel.", "聊了旅行。", "", "")
	phrases := makePhrases(hh.HouseholdID, date, "flight", "luggage", "boarding pass", "delay", "gate")

	if err := store.Summaries.ReplaceForDate(summary, phrases); err != nil {
		t.Fatalf("ReplaceForDate() error = %v", err)
	}

	got, err := store.Summaries.Get(hh.HouseholdID, date)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got == nil {
		t.Fatal("Get() returned nil after write")
	}
	if got.TopicSummaryEN != "Talked about travel." {
		t.Errorf("TopicSummaryEN = %q", got.TopicSummaryEN)
	}

	gotPhrases, err := store.Summaries.GetPhrases(hh.HouseholdID, date)
	if err != nil {
		t.Fatalf("GetPhrases() error = %v", err)
	}
	if len(gotPhrases) != 5 {
		t.Fatalf("GetPhrases() returned %d, want 5", len(gotPhrases))
	}
	if gotPhrases[0].Rank != 1 || gotPhrases[4].Rank != 5 {
		t.Error("phrases not ordered by rank")
	}
}

func TestSummaryStore_RegenerationLeavesNoOrphans(t *testing.T) {
	store, err := NewStorageInMemory()
	if err != nil {
		t.Fatalf("NewStorageInMemory() error = %v", err)
	}
	defer func() { _ = store.Close() }()

	hh := seedHousehold(t, store)
	date := "2024-12-01"

	first := models.NewDailySummary(hh.HouseholdID, date, "First pass.", "第一版。", "", "")
	if err := store.Summaries.ReplaceForDate(first,
		makePhrases(hh.HouseholdID, date, "flight", "luggage", "boarding pass", "delay", "gate")); err != nil {
		t.Fatalf("ReplaceForDate(first) error = %v", err)
	}

	second := models.NewDailySummary(hh.HouseholdID, date, "Second pass.", "第二版。", "New phrases today.", "今天有新短语。")
	if err := store.Summaries.ReplaceForDate(second,
		makePhrases(hh.HouseholdID, date, "stroller", "nap", "bottle", "diaper", "lullaby")); err != nil {
		t.Fatalf("ReplaceForDate(second) error = %v", err)
	}

	got, err := store.Summaries.Get(hh.HouseholdID, date)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.TopicSummaryEN != "Second pass." {
		t.Errorf("TopicSummaryEN = %q, want overwrite from second generation", got.TopicSummaryEN)
	}
	if got.WhatsNewEN != "New phrases today." {
		t.Errorf("WhatsNewEN = %q", got.WhatsNewEN)
	}

	phrases, err := store.Summaries.GetPhrases(hh.HouseholdID, date)
	if err != nil {
		t.Fatalf("GetPhrases() error = %v", err)
	}
	if len(phrases) != 5 {
		t.Fatalf("GetPhrases() returned %d, want exactly the 5 from regeneration", len(phrases))
	}
	for _, p := range phrases {
		if p.English == "flight" || p.English == "gate" {
			t.Errorf("stale phrase %q survived regeneration", p.English)
		}
	}
}

func TestSummaryStore_Get_Missing(t *testing.T) {
	store, err := NewStorageInMemory()
	if err != nil {
		t.Fatalf("NewStorageInMemory() error = %v", err)
	}
	defer func() { _ = store.Close() }()

	got, err := store.Summaries.Get("hh_none", "2024-01-01")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != nil {
		t.Error("Get() for missing summary should return nil")
	}
}
