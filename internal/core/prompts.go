// ABOUTME: System prompts for translation, tagging, summarization, and vocabulary
// ABOUTME: Direction-specific registers: natural spoken outbound, learner-simple inbound
package core

import (
	"fmt"
	"strings"

	"github.com/junwei/hometalk/internal/models"
)

// langName maps short language codes to display names for prompts.
func langName(code string) string {
	switch strings.ToLower(code) {
	case "en":
		return "English"
	case "zh":
		return "Chinese (Simplified)"
	case "ja":
		return "Japanese"
	case "ko":
		return "Korean"
	case "es":
		return "Spanish"
	case "fr":
		return "French"
	case "de":
		return "German"
	default:
		return code
	}
}

// translationPrompt returns the direction-specific system prompt. The
// initiator's utterance (turn 0) is rendered in a natural spoken register
// for the fluent listener; the reply (turn 1) comes back in simple
// vocabulary appropriate for a learner.
func translationPrompt(turnIndex int, sourceLang, targetLang string) string {
	src, dst := langName(sourceLang), langName(targetLang)
	if turnIndex == 0 {
		return fmt.Sprintf(`You are a household interpreter. Translate the user's spoken %s into natural, concise spoken %s - the way a native speaker would actually say it at home. Keep the tone casual and warm. Respond with ONLY the translation, no explanations.`, src, dst)
	}
	return fmt.Sprintf(`You are a household interpreter helping a %s learner. Translate the user's spoken %s into %s using simple, common vocabulary a learner would understand. Prefer short sentences. Respond with ONLY the translation, no explanations.`, dst, src, dst)
}

// wordTranslationPrompt is used for single vocabulary items.
func wordTranslationPrompt(sourceLang, targetLang string) string {
	return fmt.Sprintf(`Translate the given %s word or phrase into %s. Respond with ONLY the translation.`,
		langName(sourceLang), langName(targetLang))
}

// taggingPrompt classifies a completed session into one topical label.
const taggingPrompt = `You classify short household conversations into a single topical label.
Pick one short lowercase label that best describes the situation. Examples: kitchen, baby, food, health, school, shopping, travel, chores, plans.
You may use a different label if none of the examples fit.

Return ONLY a JSON object: {"tag": "<label>", "confidence": <0.0-1.0>}`

// summaryPrompt drives the daily bilingual digest generation.
func summaryPrompt(phraseCount int) string {
	return fmt.Sprintf(`You create a daily digest of a bilingual household's conversations for an English speaker learning Chinese.

Given today's conversation turns (and yesterday's summary, when provided), produce:
1. topic_summary_en / topic_summary_zh: a short bilingual summary of what was discussed today.
2. whats_new_en / whats_new_zh: what is new compared to yesterday's summary; empty strings if nothing or no previous summary.
3. phrases: EXACTLY %d useful key phrases from today's conversations, most useful first. For each: english, chinese, explanation (one short sentence), example (one short example sentence in English).

Return ONLY a JSON object:
{"topic_summary_en": "...", "topic_summary_zh": "...", "whats_new_en": "...", "whats_new_zh": "...", "phrases": [{"english": "...", "chinese": "...", "explanation": "...", "example": "..."}]}`, phraseCount)
}

// vocabularyPrompt drives ranked noun/verb/phrase extraction.
const vocabularyPrompt = `You extract study vocabulary from a day of household conversation transcripts.

From the given English text, extract:
- nouns: up to 5 most frequent meaningful nouns
- verbs: up to 5 most frequent meaningful verbs (base form)
- phrases: up to 3 useful multi-word expressions

Rank each list by how often the item occurs, most frequent first, and include the count.

Return ONLY a JSON object:
{"nouns": [{"word": "...", "count": 1}], "verbs": [{"word": "...", "count": 1}], "phrases": [{"word": "...", "count": 1}]}`

// sessionTranscript renders both turns of a session for the tagging call.
func sessionTranscript(turns []models.Turn) string {
	var b strings.Builder
	for _, t := range turns {
		fmt.Fprintf(&b, "[%s, %s] %s\n", t.Role, t.SourceLang, t.SourceText)
		fmt.Fprintf(&b, "[translation, %s] %s\n", t.TargetLang, t.TranslatedText)
	}
	return b.String()
}
