// ABOUTME: Device-side capture and playback ports consumed by the orchestrator
// ABOUTME: Implementations live at the edge (browser bridge, smart speaker, tests)
package speech

import (
	"context"
	"time"
)

// Recorder captures one bounded utterance from the household device.
// Prepare acquires the device/channel ahead of time so the orchestrator
// can overlap it with playback of the previous translation.
type Recorder interface {
	// Prepare acquires the capture device. Safe to call once per recording.
	Prepare(ctx context.Context) error
	// Record captures audio until the caller-triggered stop (maxDuration 0)
	// or the safety cutoff elapses. Returns audio bytes and their mime type.
	Record(ctx context.Context, maxDuration time.Duration) ([]byte, string, error)
}

// Speaker plays synthesized speech on the household device.
type Speaker interface {
	Speak(ctx context.Context, text, lang string) error
}

// Transcript is the result of one transcription call.
type Transcript struct {
	Text             string
	RequestID        string
	DetectedLanguage string
}

// Transcriber converts captured audio into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, mimeType, langHint string) (*Transcript, error)
}
