// ABOUTME: OpenAI TTS synthesis for translation playback
// ABOUTME: Produces audio bytes; actual playback belongs to the device adapter
package speech

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/junwei/hometalk/internal/logger"
)

// Synthesizer converts translated text to speech audio (mp3).
type Synthesizer struct {
	client  *openai.Client
	model   openai.SpeechModel
	voice   openai.SpeechVoice
	timeout time.Duration
	log     *logger.Logger
}

// NewSynthesizer creates a TTS client.
func NewSynthesizer(client *openai.Client, model, voice string, log *logger.Logger) *Synthesizer {
	if model == "" {
		model = string(openai.TTSModel1)
	}
	if voice == "" {
		voice = string(openai.VoiceAlloy)
	}
	return &Synthesizer{
		client:  client,
		model:   openai.SpeechModel(model),
		voice:   openai.SpeechVoice(voice),
		timeout: 30 * time.Second,
		log:     log,
	}
}

// Synthesize renders text to mp3 bytes.
func (s *Synthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("nothing to synthesize")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          s.model,
		Input:          text,
		Voice:          s.voice,
		ResponseFormat: openai.SpeechResponseFormatMp3,
	})
	if err != nil {
		return nil, fmt.Errorf("speech synthesis failed: %w", err)
	}
	defer func() { _ = resp.Close() }()

	audio, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("reading synthesized audio: %w", err)
	}
	return audio, nil
}
