// ABOUTME: Elementary-vocabulary exclusion list for extracted words
// ABOUTME: Beginner-level English is filtered so surfaced vocabulary stays useful
package core

import "strings"

// elementaryWords holds beginner-level English that would make the daily
// vocabulary list trivial: pronouns, auxiliaries, and the most basic
// everyday nouns and verbs.
var elementaryWords = map[string]struct{}{
	// pronouns and determiners
	"i": {}, "you": {}, "he": {}, "she": {}, "it": {}, "we": {}, "they": {},
	"me": {}, "him": {}, "her": {}, "us": {}, "them": {},
	"my": {}, "your": {}, "his": {}, "its": {}, "our": {}, "their": {},
	"this": {}, "that": {}, "these": {}, "those": {},
	"who": {}, "what": {}, "which": {}, "where": {}, "when": {}, "why": {}, "how": {},
	"someone": {}, "something": {}, "anything": {}, "everything": {}, "nothing": {},

	// be / have / do and the most common verbs
	"be": {}, "am": {}, "is": {}, "are": {}, "was": {}, "were": {}, "been": {},
	"have": {}, "has": {}, "had": {},
	"do": {}, "does": {}, "did": {}, "done": {},
	"go": {}, "going": {}, "went": {}, "gone": {},
	"get": {}, "got": {}, "make": {}, "made": {},
	"say": {}, "said": {}, "tell": {}, "told": {},
	"come": {}, "came": {}, "see": {}, "saw": {}, "look": {},
	"want": {}, "need": {}, "like": {}, "know": {}, "think": {},
	"take": {}, "took": {}, "give": {}, "gave": {}, "put": {},
	"can": {}, "could": {}, "will": {}, "would": {}, "should": {}, "must": {}, "may": {},
	"eat": {}, "drink": {}, "sleep": {}, "play": {},

	// basic everyday nouns
	"time": {}, "day": {}, "night": {}, "morning": {}, "week": {}, "year": {},
	"today": {}, "tomorrow": {}, "yesterday": {},
	"house": {}, "home": {}, "room": {}, "door": {}, "table": {},
	"thing": {}, "stuff": {}, "way": {}, "place": {},
	"man": {}, "woman": {}, "boy": {}, "girl": {}, "baby": {}, "kid": {}, "child": {},
	"mom": {}, "dad": {}, "mother": {}, "father": {},
	"people": {}, "person": {}, "friend": {}, "family": {},
	"food": {}, "water": {}, "milk": {},
	"hand": {}, "head": {}, "eye": {},
	"one": {}, "two": {}, "three": {},
	"yes": {}, "no": {}, "okay": {}, "ok": {},
	"good": {}, "bad": {}, "big": {}, "small": {}, "new": {}, "old": {},
}

// IsElementary reports whether a word is on the beginner-level exclusion
// list. Matching is case-insensitive and trims surrounding whitespace.
func IsElementary(word string) bool {
	_, ok := elementaryWords[strings.ToLower(strings.TrimSpace(word))]
	return ok
}
