// ABOUTME: Error taxonomy shared by the conversation pipeline
// ABOUTME: Sentinel errors plus kind/user-message mapping for the API boundary
package errs

import "errors"

// Sentinel errors for the synchronous conversation path and the batch
// readers. Callers match with errors.Is; wrapping with %w is expected.
var (
	// ErrEmptyAudio means the capture produced no audio bytes at all.
	ErrEmptyAudio = errors.New("recording contained no audio")
	// ErrEmptySpeech means transcription succeeded but returned no words,
	// which usually means silence was recorded. Terminal, never retried.
	ErrEmptySpeech = errors.New("no speech detected in recording")
	// ErrTranscriptionUnavailable covers timeouts and transport failures
	// talking to the transcription provider. Retry-worthy.
	ErrTranscriptionUnavailable = errors.New("transcription service unavailable")
	// ErrTranslationEmpty means the provider returned nothing for a
	// non-empty input after the client's own bounded retries.
	ErrTranslationEmpty = errors.New("translation returned no text")
	// ErrTranslationCutOff means the provider stopped at the token limit
	// with empty content. Distinct from ErrTranslationEmpty so callers can
	// tell truncation from a provider returning nothing.
	ErrTranslationCutOff = errors.New("translation cut off by output length limit")
	// ErrNoConversations means zero turns fell on the requested local date.
	ErrNoConversations = errors.New("no conversations recorded for the requested date")
	// ErrInvalidSummaryStructure means the summary model violated its
	// structural contract (unparseable output or not exactly five phrases).
	ErrInvalidSummaryStructure = errors.New("summary generation returned an invalid structure")
)

// Kind returns a stable machine-readable label for a pipeline error,
// or "internal" for anything outside the taxonomy.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrEmptyAudio):
		return "empty_audio"
	case errors.Is(err, ErrEmptySpeech):
		return "empty_speech"
	case errors.Is(err, ErrTranscriptionUnavailable):
		return "transcription_unavailable"
	case errors.Is(err, ErrTranslationCutOff):
		return "translation_cut_off"
	case errors.Is(err, ErrTranslationEmpty):
		return "translation_empty"
	case errors.Is(err, ErrNoConversations):
		return "no_conversations"
	case errors.Is(err, ErrInvalidSummaryStructure):
		return "invalid_summary_structure"
	default:
		return "internal"
	}
}

// UserMessage returns the actionable message shown to the end user.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrEmptyAudio):
		return "No audio was recorded. Check the microphone and try again."
	case errors.Is(err, ErrEmptySpeech):
		return "We couldn't hear anything. Please speak again, a little closer to the device."
	case errors.Is(err, ErrTranscriptionUnavailable):
		return "Speech recognition is temporarily unavailable. Please try again in a moment."
	case errors.Is(err, ErrTranslationCutOff):
		return "That was a long one - the translation was cut short. Try a shorter sentence."
	case errors.Is(err, ErrTranslationEmpty):
		return "Translation failed this time. Please try again."
	case errors.Is(err, ErrNoConversations):
		return "No conversations were recorded on that day."
	case errors.Is(err, ErrInvalidSummaryStructure):
		return "The daily summary could not be generated. Please try again."
	default:
		return "Something went wrong. Please try again."
	}
}
