// ABOUTME: Shared fakes and fixtures for core pipeline tests
// ABOUTME: In-memory storage, scripted completer, canned transcriber/translator

package core

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/junwei/hometalk/internal/llm"
	"github.com/junwei/hometalk/internal/models"
	"github.com/junwei/hometalk/internal/speech"
	"github.com/junwei/hometalk/internal/storage/sqlite"
	"github.com/junwei/hometalk/internal/translate"
)

// fakeCompleter dispatches through a respond function. Background
// enrichment calls it from multiple goroutines, hence the mutex.
type fakeCompleter struct {
	mu       sync.Mutex
	respond  func(req llm.CompletionRequest) (*llm.Completion, error)
	calls    int
	requests []llm.CompletionRequest
}

func (f *fakeCompleter) Complete(_ context.Context, req llm.CompletionRequest) (*llm.Completion, error) {
	f.mu.Lock()
	f.calls++
	f.requests = append(f.requests, req)
	respond := f.respond
	f.mu.Unlock()
	if respond == nil {
		return nil, errors.New("fakeCompleter: no respond function configured")
	}
	return respond(req)
}

func (f *fakeCompleter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeTranscriber struct {
	transcripts []speech.Transcript
	errs        []error
	calls       int
}

func (f *fakeTranscriber) Transcribe(_ context.Context, _ []byte, _, _ string) (*speech.Transcript, error) {
	i := f.calls
	f.calls++
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	if i >= len(f.transcripts) {
		return nil, errors.New("fakeTranscriber: no transcript configured")
	}
	tr := f.transcripts[i]
	return &tr, nil
}

type fakeTranslator struct {
	err   error
	calls int
}

func (f *fakeTranslator) Translate(_ context.Context, text, _, _, _ string) (*translate.Result, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &translate.Result{Text: "译: " + text, RequestID: "cmpl_fake"}, nil
}

type fakeRecorder struct {
	audio    [][]byte
	prepares int
	records  int
	cutoffs  []time.Duration
}

func (f *fakeRecorder) Prepare(context.Context) error {
	f.prepares++
	return nil
}

func (f *fakeRecorder) Record(_ context.Context, maxDuration time.Duration) ([]byte, string, error) {
	i := f.records
	f.records++
	f.cutoffs = append(f.cutoffs, maxDuration)
	if i >= len(f.audio) {
		return nil, "", errors.New("fakeRecorder: no audio configured")
	}
	return f.audio[i], "audio/webm", nil
}

type fakeSpeaker struct {
	texts []string
	langs []string
}

func (f *fakeSpeaker) Speak(_ context.Context, text, lang string) error {
	f.texts = append(f.texts, text)
	f.langs = append(f.langs, lang)
	return nil
}

func newTestStorage(t *testing.T) *sqlite.Storage {
	t.Helper()
	store, err := sqlite.NewStorageInMemory()
	if err != nil {
		t.Fatalf("NewStorageInMemory() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func seedHousehold(t *testing.T, store *sqlite.Storage, timezone string) *models.Household {
	t.Helper()
	hh, err := models.NewHousehold("testers", "en", "zh", timezone)
	if err != nil {
		t.Fatalf("NewHousehold() error = %v", err)
	}
	if err := store.Households.Upsert(hh); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	return hh
}

// seedTurn persists one turn with a controlled end time, creating a fresh
// session for it.
func seedTurn(t *testing.T, store *sqlite.Storage, hh *models.Household, src, translated string, endedAt time.Time) *models.Turn {
	t.Helper()
	sess, err := models.NewSession(hh.HouseholdID, "user_a")
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	if err := store.Sessions.Create(sess); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	turn, err := models.NewTurn(sess.SessionID, hh.HouseholdID, 0, models.RoleInitiator, "en", "zh", src, translated)
	if err != nil {
		t.Fatalf("NewTurn() error = %v", err)
	}
	turn.EndedAt = endedAt
	if err := store.Turns.Insert(turn); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	return turn
}
