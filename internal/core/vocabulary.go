// ABOUTME: Two-stage vocabulary extraction: one ranked-extraction LLM call, then sequential translation
// ABOUTME: Sequential-with-delay keeps bursts under the provider's rate limiter
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
	"github.com/junwei/hometalk/internal/translate"
	"github.com/junwei/hometalk/internal/util"
)

// Per-list limits for surfaced vocabulary.
const (
	MaxNouns   = 5
	MaxVerbs   = 5
	MaxPhrases = 3
)

// VocabularyItem is one extracted word or phrase with its usage count and
// (after the translation pass) its translation.
type VocabularyItem struct {
	Word        string `json:"word"`
	Count       int    `json:"count"`
	Translation string `json:"translation,omitempty"`
}

// VocabularyResult is a day's extracted vocabulary.
type VocabularyResult struct {
	Date    string           `json:"date"`
	Nouns   []VocabularyItem `json:"nouns"`
	Verbs   []VocabularyItem `json:"verbs"`
	Phrases []VocabularyItem `json:"phrases"`
}

// VocabularyExtractor pulls ranked study vocabulary out of a day's turns.
type VocabularyExtractor struct {
	llm        llm.Completer
	store      *sqlite.Storage
	translator translate.Translator
	log        *logger.Logger

	charBudget int           // transcript truncation to respect model limits
	itemDelay  time.Duration // inter-item pause for the sequential translations
	maxRetries int
	retryDelay time.Duration
}

// NewVocabularyExtractor creates a VocabularyExtractor.
func NewVocabularyExtractor(completer llm.Completer, store *sqlite.Storage, translator translate.Translator,
	charBudget int, itemDelay time.Duration, maxRetries int, retryDelay time.Duration, log *logger.Logger) *VocabularyExtractor {
	if charBudget <= 0 {
		charBudget = 6000
	}
	if retryDelay <= 0 {
		retryDelay = time.Second
	}
	return &VocabularyExtractor{
		llm:        completer,
		store:      store,
		translator: translator,
		log:        log,
		charBudget: charBudget,
		itemDelay:  itemDelay,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
	}
}

// vocabularyPayload is the JSON shape the extraction call must return.
type vocabularyPayload struct {
	Nouns   []VocabularyItem `json:"nouns"`
	Verbs   []VocabularyItem `json:"verbs"`
	Phrases []VocabularyItem `json:"phrases"`
}

// Extract returns the household's vocabulary for a local date: one LLM
// extraction call over the truncated day transcript (with the capped JSON
// recovery chain), elementary-word filtering, then sequential per-item
// translation. Partial vocabulary beats total failure: an item whose
// translation retries are exhausted falls back to the word itself.
func (v *VocabularyExtractor) Extract(ctx context.Context, householdID, date string) (*VocabularyResult, error) {
	hh, resolvedDate, turns, err := loadDayTurns(v.store, householdID, date)
	if err != nil {
		return nil, err
	}

	text := truncate(englishText(turns, hh.LangA), v.charBudget)

	payload, err := v.extractPayload(ctx, text)
	if err != nil {
		return nil, err
	}

	result := &VocabularyResult{
		Date:    resolvedDate,
		Nouns:   clampItems(filterElementary(payload.Nouns), MaxNouns),
		Verbs:   clampItems(filterElementary(payload.Verbs), MaxVerbs),
		Phrases: clampItems(payload.Phrases, MaxPhrases),
	}

	v.translateItems(ctx, result.Nouns, hh)
	v.translateItems(ctx, result.Verbs, hh)
	v.translateItems(ctx, result.Phrases, hh)

	v.log.Info("vocabulary extracted", "household", householdID, "date", resolvedDate,
		"nouns", len(result.Nouns), "verbs", len(result.Verbs), "phrases", len(result.Phrases))
	return result, nil
}

// extractPayload runs the extraction call under the same call cap as the
// aggregator: generate, recover JSON once, regenerate once.
func (v *VocabularyExtractor) extractPayload(ctx context.Context, text string) (*vocabularyPayload, error) {
	calls := 0
	complete := func() (string, error) {
		calls++
		comp, err := v.llm.Complete(ctx, llm.CompletionRequest{
			System:      vocabularyPrompt,
			User:        text,
			Temperature: 0.2,
			MaxTokens:   700,
			Timeout:     45 * time.Second,
		})
		if err != nil {
			return "", err
		}
		return comp.Text, nil
	}

	out, err := complete()
	if err != nil {
		return nil, fmt.Errorf("vocabulary extraction: %w", err)
	}

	raw, extractErr := llm.ExtractJSONObject(out)
	if extractErr != nil && calls < maxUpstreamCalls {
		calls++
		raw, extractErr = llm.RecoverJSONObject(ctx, v.llm, out)
	}
	if extractErr != nil && calls < maxUpstreamCalls {
		if out, err = complete(); err == nil {
			raw, extractErr = llm.ExtractJSONObject(out)
		}
	}
	if extractErr != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrInvalidSummaryStructure, extractErr)
	}

	var payload vocabularyPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrInvalidSummaryStructure, err)
	}
	return &payload, nil
}

// translateItems fills in translations sequentially with a small delay
// between items. Parallel calls would trip the provider's burst limiter;
// a dozen cascading 429s cost more than the pause.
func (v *VocabularyExtractor) translateItems(ctx context.Context, items []VocabularyItem, hh *models.Household) {
	prompt := wordTranslationPrompt("en", hh.LangB)
	for i := range items {
		if i > 0 && v.itemDelay > 0 {
			time.Sleep(v.itemDelay)
		}
		items[i].Translation = v.translateWord(ctx, items[i].Word, hh.LangB, prompt)
	}
}

func (v *VocabularyExtractor) translateWord(ctx context.Context, word, targetLang, prompt string) string {
	var lastErr error
	for attempt := 0; attempt <= v.maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(util.CalculateBackoff(v.retryDelay, attempt))
		}
		res, err := v.translator.Translate(ctx, word, "en", targetLang, prompt)
		if err != nil {
			lastErr = err
			continue
		}
		return res.Text
	}
	// Fallback: surface the word untranslated rather than failing the batch.
	v.log.Warn("vocabulary item translation exhausted retries", "word", word, "error", lastErr)
	return word
}

// englishText concatenates the English side of each turn for extraction.
func englishText(turns []models.Turn, langA string) string {
	var b strings.Builder
	for _, t := range turns {
		switch {
		case strings.HasPrefix(t.SourceLang, "en"):
			b.WriteString(t.SourceText)
		case strings.HasPrefix(t.TargetLang, "en"):
			b.WriteString(t.TranslatedText)
		case t.SourceLang == langA:
			// No English side at all: fall back to the initiator's language.
			b.WriteString(t.SourceText)
		default:
			b.WriteString(t.TranslatedText)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func truncate(s string, maxChars int) string {
	runes := []rune(s)
	if len(runes) <= maxChars {
		return s
	}
	return string(runes[:maxChars])
}

func filterElementary(items []VocabularyItem) []VocabularyItem {
	out := items[:0:0]
	for _, it := range items {
		if !IsElementary(it.Word) {
			out = append(out, it)
		}
	}
	return out
}

func clampItems(items []VocabularyItem, limit int) []VocabularyItem {
	if len(items) > limit {
		return items[:limit]
	}
	return items
}
