// ABOUTME: Layered JSON extraction for LLM output that may wrap JSON in prose
// ABOUTME: Direct parse, then brace-matched substring, then regex, then a fallback LLM call
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrNoJSON means no layer of the pure extraction chain found valid JSON.
var ErrNoJSON = errors.New("no JSON found in model output")

var (
	objectPattern = regexp.MustCompile(`(?s)\{.*\}`)
	arrayPattern  = regexp.MustCompile(`(?s)\[.*\]`)
)

// ExtractJSONObject pulls the first JSON object out of raw model output.
// Models sometimes wrap structured output in explanatory prose despite
// instructions, and phrase content may itself contain braces, so the
// substring search is brace-matched with string/escape awareness rather
// than a naive regex. The regex is kept as a last, looser layer.
func ExtractJSONObject(raw string) (string, error) {
	return extractJSON(raw, '{', '}', objectPattern)
}

// ExtractJSONArray pulls the first JSON array out of raw model output.
func ExtractJSONArray(raw string) (string, error) {
	return extractJSON(raw, '[', ']', arrayPattern)
}

func extractJSON(raw string, open, close byte, loose *regexp.Regexp) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrNoJSON
	}

	// Layer 1: the whole output is already valid JSON of the right shape.
	if trimmed[0] == open && json.Valid([]byte(trimmed)) {
		return trimmed, nil
	}

	// Layer 2: brace-matched substring extraction.
	if candidate, ok := extractBalanced(trimmed, open, close); ok && json.Valid([]byte(candidate)) {
		return candidate, nil
	}

	// Layer 3: loose regex over the full text.
	if m := loose.FindString(trimmed); m != "" && json.Valid([]byte(m)) {
		return m, nil
	}

	return "", ErrNoJSON
}

// extractBalanced scans for the first balanced open..close span, skipping
// brackets that appear inside JSON string literals or behind escapes.
func extractBalanced(s string, open, close byte) (string, bool) {
	start := strings.IndexByte(s, open)
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			continue
		}
		switch {
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
			// brackets inside strings don't count
		case c == open:
			depth++
		case c == close:
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

// recoverySystemPrompt drives the dedicated "re-extract the JSON" call.
const recoverySystemPrompt = `You are a JSON extraction tool. The user gives you text that contains a JSON document wrapped in other content. Respond with ONLY that JSON document, nothing else. Do not modify the JSON content.`

// RecoverJSONObject makes one fallback LLM call whose sole job is pulling
// the JSON object out of messy text, then runs the pure chain over the
// result. Callers are responsible for capping their total upstream calls.
func RecoverJSONObject(ctx context.Context, c Completer, raw string) (string, error) {
	comp, err := c.Complete(ctx, CompletionRequest{
		System:      recoverySystemPrompt,
		User:        raw,
		Temperature: 0,
		MaxTokens:   1500,
	})
	if err != nil {
		return "", fmt.Errorf("recovery call failed: %w", err)
	}
	return ExtractJSONObject(comp.Text)
}
