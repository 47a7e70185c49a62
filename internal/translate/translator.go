// ABOUTME: Translation client over chat completions with bounded retry
// ABOUTME: Distinguishes cut-off-by-length from the provider returning nothing
package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/junwei/hometalk/internal/errs"
	"github.com/junwei/hometalk/internal/llm"
	"github.com/junwei/hometalk/internal/logger"
	"github.com/junwei/hometalk/internal/util"
)

// Result is one successful translation with its provenance id.
type Result struct {
	Text      string
	RequestID string
}

// Translator is the interface the orchestrator and vocabulary extractor
// consume; tests substitute fakes.
type Translator interface {
	Translate(ctx context.Context, text, sourceLang, targetLang, systemPrompt string) (*Result, error)
}

// Client translates text through a chat-completion model. It sits on the
// user-facing path, so retries are bounded (default 2) and reserved for
// transient failures; a definitively empty result is surfaced, not retried
// past the bound.
type Client struct {
	llm        llm.Completer
	maxRetries int
	retryDelay time.Duration
	log        *logger.Logger
}

// NewClient creates a translation client.
func NewClient(completer llm.Completer, maxRetries int, retryDelay time.Duration, log *logger.Logger) *Client {
	if maxRetries < 0 {
		maxRetries = 0
	}
	if retryDelay <= 0 {
		retryDelay = time.Second
	}
	return &Client{llm: completer, maxRetries: maxRetries, retryDelay: retryDelay, log: log}
}

// Translate renders text from sourceLang into targetLang under the given
// direction-specific system prompt. The output-token budget and request
// timeout both scale with input length. An empty response with
// finish_reason "length" grows the budget and retries; only after the
// ceiling is exhausted does it surface ErrTranslationCutOff.
func (c *Client) Translate(ctx context.Context, text, sourceLang, targetLang, systemPrompt string) (*Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("nothing to translate")
	}

	budget := TokenBudget(len(text))
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(util.CalculateBackoff(c.retryDelay, attempt))
		}

		comp, err := c.llm.Complete(ctx, llm.CompletionRequest{
			System:      systemPrompt,
			User:        text,
			Temperature: 0.3,
			MaxTokens:   budget,
			Timeout:     CallTimeout(len(text)),
		})
		if err != nil {
			// Timeouts and provider failures are handled identically here;
			// the distinction only matters for the user-facing message.
			c.log.Warn("translation call failed", "attempt", attempt+1,
				"source", sourceLang, "target", targetLang, "error", err)
			lastErr = err
			continue
		}

		out := strings.TrimSpace(comp.Text)
		if out == "" {
			if comp.FinishReason == "length" {
				if budget < maxTokenBudget {
					budget = min(budget*2, maxTokenBudget)
					c.log.Warn("translation cut off, growing budget",
						"attempt", attempt+1, "budget", budget)
					lastErr = errs.ErrTranslationCutOff
					continue
				}
				return nil, errs.ErrTranslationCutOff
			}
			lastErr = errs.ErrTranslationEmpty
			continue
		}

		return &Result{Text: out, RequestID: comp.ID}, nil
	}

	if lastErr == nil {
		lastErr = errs.ErrTranslationEmpty
	}
	return nil, fmt.Errorf("translation failed after %d attempts: %w", c.maxRetries+1, lastErr)
}
