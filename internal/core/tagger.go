// ABOUTME: Post-session situation tagging over both turns of a conversation
// ABOUTME: One low-budget LLM call; failures are invisible to the end user
package core

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/junwei/hometalk/internal/llm"
	"github.com/junwei/hometalk/internal/logger"
	"github.com/junwei/hometalk/internal/storage/sqlite"
)

// Tagger classifies completed sessions into a single topical label.
type Tagger struct {
	llm   llm.Completer
	store *sqlite.Storage
	log   *logger.Logger
}

// NewTagger creates a Tagger.
func NewTagger(completer llm.Completer, store *sqlite.Storage, log *logger.Logger) *Tagger {
	return &Tagger{llm: completer, store: store, log: log}
}

// TagSession classifies the session's two turns and writes the tag back
// onto both turn rows. Runs in the background; the caller logs and
// swallows any error.
func (t *Tagger) TagSession(ctx context.Context, sessionID string) error {
	turns, err := t.store.Turns.GetBySession(sessionID)
	if err != nil {
		return fmt.Errorf("loading turns: %w", err)
	}
	if len(turns) == 0 {
		return fmt.Errorf("session %s has no turns to tag", sessionID)
	}

	comp, err := t.llm.Complete(ctx, llm.CompletionRequest{
		System:      taggingPrompt,
		User:        sessionTranscript(turns),
		Temperature: 0.1,
		MaxTokens:   120,
		Timeout:     20 * time.Second,
	})
	if err != nil {
		return fmt.Errorf("tagging call: %w", err)
	}

	raw, err := llm.ExtractJSONObject(comp.Text)
	if err != nil {
		return fmt.Errorf("tagging output: %w", err)
	}

	var parsed struct {
		Tag        string  `json:"tag"`
		Confidence float64 `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return fmt.Errorf("tagging output: %w", err)
	}

	tag := strings.ToLower(strings.TrimSpace(parsed.Tag))
	if tag == "" {
		return fmt.Errorf("tagging returned empty label")
	}

	if err := t.store.Turns.UpdateSessionTag(sessionID, tag, parsed.Confidence); err != nil {
		return fmt.Errorf("writing tag: %w", err)
	}

	t.log.Debug("session tagged", "session", sessionID, "tag", tag, "confidence", parsed.Confidence)
	return nil
}
