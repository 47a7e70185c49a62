// ABOUTME: Whisper-backed transcription client with bounded timeout
// ABOUTME: Separates transient provider failure from the terminal empty-speech case
package speech

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/junwei/hometalk/internal/errs"
	"github.com/junwei/hometalk/internal/logger"
)

// DefaultTranscribeModel is the default ASR model
const DefaultTranscribeModel = "whisper-1"

// WhisperTranscriber transcribes audio through the OpenAI audio API.
type WhisperTranscriber struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	log     *logger.Logger
}

// NewWhisperTranscriber creates a transcriber. The timeout must stay well
// under a user's patience threshold; it defaults to 30s.
func NewWhisperTranscriber(client *openai.Client, model string, timeout time.Duration, log *logger.Logger) *WhisperTranscriber {
	if model == "" {
		model = DefaultTranscribeModel
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &WhisperTranscriber{client: client, model: model, timeout: timeout, log: log}
}

// Transcribe sends audio with a language hint and returns the transcript.
// Transport errors and timeouts surface as ErrTranscriptionUnavailable
// (retry-worthy); a successful call with an empty transcript surfaces as
// ErrEmptySpeech (terminal - silence was recorded, not a transient fault).
func (t *WhisperTranscriber) Transcribe(ctx context.Context, audio []byte, mimeType, langHint string) (*Transcript, error) {
	if len(audio) == 0 {
		return nil, errs.ErrEmptyAudio
	}

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	resp, err := t.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    t.model,
		Reader:   bytes.NewReader(audio),
		FilePath: fileNameForMime(mimeType),
		Language: NormalizeLang(langHint),
	})
	if err != nil {
		t.log.Warn("transcription call failed", "error", err)
		return nil, fmt.Errorf("%w: %v", errs.ErrTranscriptionUnavailable, err)
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return nil, errs.ErrEmptySpeech
	}

	return &Transcript{
		Text:             text,
		RequestID:        resp.Header().Get("X-Request-Id"),
		DetectedLanguage: resp.Language,
	}, nil
}

// NormalizeLang converts BCP-47-ish tags to the provider's short codes
// ("en-US" -> "en").
func NormalizeLang(lang string) string {
	lang = strings.TrimSpace(strings.ToLower(lang))
	if i := strings.IndexAny(lang, "-_"); i > 0 {
		lang = lang[:i]
	}
	return lang
}

// fileNameForMime gives the provider a filename hint for format sniffing.
func fileNameForMime(mimeType string) string {
	switch strings.ToLower(strings.TrimSpace(mimeType)) {
	case "audio/wav", "audio/x-wav", "audio/wave":
		return "audio.wav"
	case "audio/mpeg", "audio/mp3":
		return "audio.mp3"
	case "audio/mp4", "audio/m4a", "audio/x-m4a":
		return "audio.m4a"
	case "audio/ogg", "application/ogg":
		return "audio.ogg"
	case "audio/flac":
		return "audio.flac"
	default:
		return "audio.webm"
	}
}
