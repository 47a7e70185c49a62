// ABOUTME: Tests for the session orchestrator's pipeline, persistence, and overlap
// ABOUTME: In-memory storage and fake ports; no network calls

package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/junwei/hometalk/internal/errs"
	"github.com/junwei/hometalk/internal/llm"
	"github.com/junwei/hometalk/internal/logger"
	"github.com/junwei/hometalk/internal/speech"
	"github.com/junwei/hometalk/internal/storage/sqlite"
)

// enrichmentResponder answers tagging calls with a fixed label and
// everything else with a well-formed five-phrase summary.
func enrichmentResponder(req llm.CompletionRequest) (*llm.Completion, error) {
	if req.System == taggingPrompt {
		return &llm.Completion{Text: `{"tag": "kitchen", "confidence": 0.9}`, FinishReason: "stop"}, nil
	}
	return &llm.Completion{Text: validSummaryJSON(), FinishReason: "stop"}, nil
}

func validSummaryJSON() string {
	var phrases []string
	for i := 1; i <= 5; i++ {
		phrases = append(phrases, fmt.Sprintf(
			`{"english": "phrase %d", "chinese": "短语%d", "explanation": "e", "example": "x"}`, i, i))
	}
	return fmt.Sprintf(`{"topic_summary_en": "keys", "topic_summary_zh": "钥匙",
		"whats_new_en": "", "whats_new_zh": "", "phrases": [%s]}`, strings.Join(phrases, ","))
}

func newTestOrchestrator(t *testing.T, store *sqlite.Storage, transcriber speech.Transcriber, translator *fakeTranslator, completer llm.Completer) *Orchestrator {
	t.Helper()
	log := logger.NewNop()
	tagger := NewTagger(completer, store, log)
	aggregator := NewAggregator(completer, store, log)
	return NewOrchestrator(store, transcriber, translator, tagger, aggregator, 20*time.Second, log)
}

func TestOrchestrator_FullSessionPersistsAndEnriches(t *testing.T) {
	store := newTestStorage(t)
	hh := seedHousehold(t, store, "UTC")

	transcriber := &fakeTranscriber{transcripts: []speech.Transcript{
		{Text: "where are my keys", RequestID: "tr_1"},
		{Text: "在厨房", RequestID: "tr_2"},
	}}
	completer := &fakeCompleter{respond: enrichmentResponder}
	orch := newTestOrchestrator(t, store, transcriber, &fakeTranslator{}, completer)

	sess, err := orch.StartSession(context.Background(), hh.HouseholdID, "user_a")
	if err != nil {
		t.Fatalf("StartSession() error = %v", err)
	}

	first, err := orch.SubmitFirstTurn(context.Background(), sess.SessionID, []byte("audio"), "audio/webm")
	if err != nil {
		t.Fatalf("SubmitFirstTurn() error = %v", err)
	}
	if first.SourceLang != "en" || first.TargetLang != "zh" {
		t.Errorf("first turn direction = %s->%s, want en->zh", first.SourceLang, first.TargetLang)
	}
	if first.TranslatedText != "译: where are my keys" {
		t.Errorf("TranslatedText = %q", first.TranslatedText)
	}

	reply, err := orch.SubmitReplyTurn(context.Background(), sess.SessionID, []byte("audio"), "audio/webm")
	if err != nil {
		t.Fatalf("SubmitReplyTurn() error = %v", err)
	}
	if reply.SourceLang != "zh" || reply.TargetLang != "en" {
		t.Errorf("reply direction = %s->%s, want zh->en", reply.SourceLang, reply.TargetLang)
	}

	orch.Wait()

	turns, err := store.Turns.GetBySession(sess.SessionID)
	if err != nil {
		t.Fatalf("GetBySession() error = %v", err)
	}
	if len(turns) != 2 {
		t.Fatalf("persisted %d turns, want 2", len(turns))
	}
	if turns[0].TranscriptionID != "tr_1" {
		t.Errorf("TranscriptionID = %q, want tr_1", turns[0].TranscriptionID)
	}
	for _, turn := range turns {
		if turn.Tag == nil || *turn.Tag != "kitchen" {
			t.Errorf("turn %d tag = %v, want kitchen", turn.TurnIndex, turn.Tag)
		}
	}

	got, err := store.Sessions.Get(sess.SessionID)
	if err != nil {
		t.Fatalf("Sessions.Get() error = %v", err)
	}
	if !got.Completed() {
		t.Error("session not marked ended after both turns persisted")
	}

	today := LocalDate(time.Now(), time.UTC)
	summary, err := store.Summaries.Get(hh.HouseholdID, today)
	if err != nil {
		t.Fatalf("Summaries.Get() error = %v", err)
	}
	if summary == nil {
		t.Fatal("enrichment did not produce a daily summary")
	}
}

func TestOrchestrator_EmptyAudioRejected(t *testing.T) {
	store := newTestStorage(t)
	hh := seedHousehold(t, store, "UTC")
	orch := newTestOrchestrator(t, store, &fakeTranscriber{}, &fakeTranslator{}, &fakeCompleter{})

	sess, err := orch.StartSession(context.Background(), hh.HouseholdID, "user_a")
	if err != nil {
		t.Fatalf("StartSession() error = %v", err)
	}

	_, err = orch.SubmitFirstTurn(context.Background(), sess.SessionID, nil, "audio/webm")
	if !errors.Is(err, errs.ErrEmptyAudio) {
		t.Fatalf("error = %v, want ErrEmptyAudio", err)
	}
}

func TestOrchestrator_EmptySpeechLeavesNoTurnRow(t *testing.T) {
	store := newTestStorage(t)
	hh := seedHousehold(t, store, "UTC")
	transcriber := &fakeTranscriber{errs: []error{errs.ErrEmptySpeech}}
	orch := newTestOrchestrator(t, store, transcriber, &fakeTranslator{}, &fakeCompleter{})

	sess, err := orch.StartSession(context.Background(), hh.HouseholdID, "user_a")
	if err != nil {
		t.Fatalf("StartSession() error = %v", err)
	}

	if _, err := orch.SubmitFirstTurn(context.Background(), sess.SessionID, []byte("silence"), "audio/webm"); !errors.Is(err, errs.ErrEmptySpeech) {
		t.Fatalf("error = %v, want ErrEmptySpeech", err)
	}

	orch.Wait()
	turns, err := store.Turns.GetBySession(sess.SessionID)
	if err != nil {
		t.Fatalf("GetBySession() error = %v", err)
	}
	if len(turns) != 0 {
		t.Errorf("failed turn left %d rows, want 0", len(turns))
	}
}

func TestOrchestrator_TranslationFailureIsTerminal(t *testing.T) {
	store := newTestStorage(t)
	hh := seedHousehold(t, store, "UTC")

	transcriber := &fakeTranscriber{transcripts: []speech.Transcript{
		{Text: "hello"}, {Text: "回复"},
	}}
	translator := &fakeTranslator{}
	orch := newTestOrchestrator(t, store, transcriber, translator, &fakeCompleter{respond: enrichmentResponder})

	sess, err := orch.StartSession(context.Background(), hh.HouseholdID, "user_a")
	if err != nil {
		t.Fatalf("StartSession() error = %v", err)
	}
	if _, err := orch.SubmitFirstTurn(context.Background(), sess.SessionID, []byte("a"), "audio/webm"); err != nil {
		t.Fatalf("SubmitFirstTurn() error = %v", err)
	}

	translator.err = errors.New("upstream down")
	if _, err := orch.SubmitReplyTurn(context.Background(), sess.SessionID, []byte("a"), "audio/webm"); err == nil {
		t.Fatal("SubmitReplyTurn() expected error")
	}

	orch.Wait()

	got, err := store.Sessions.Get(sess.SessionID)
	if err != nil {
		t.Fatalf("Sessions.Get() error = %v", err)
	}
	if got.Completed() {
		t.Error("session marked ended despite failed reply turn")
	}
	turns, err := store.Turns.GetBySession(sess.SessionID)
	if err != nil {
		t.Fatalf("GetBySession() error = %v", err)
	}
	if len(turns) != 1 {
		t.Errorf("persisted %d turns, want 1 (the successful first turn)", len(turns))
	}
}

func TestOrchestrator_RunSessionStateOrderAndOverlap(t *testing.T) {
	store := newTestStorage(t)
	hh := seedHousehold(t, store, "UTC")

	transcriber := &fakeTranscriber{transcripts: []speech.Transcript{
		{Text: "dinner is ready"}, {Text: "马上来"},
	}}
	orch := newTestOrchestrator(t, store, transcriber, &fakeTranslator{}, &fakeCompleter{respond: enrichmentResponder})

	var states []State
	orch.SetStateHook(func(s State) { states = append(states, s) })

	rec := &fakeRecorder{audio: [][]byte{[]byte("audio-a"), []byte("audio-b")}}
	spk := &fakeSpeaker{}

	if err := orch.RunSession(context.Background(), hh.HouseholdID, "user_a", rec, spk); err != nil {
		t.Fatalf("RunSession() error = %v", err)
	}
	orch.Wait()

	want := []State{StateCapturingA, StateProcessingA, StatePlayingA,
		StateCapturingB, StateProcessingB, StatePlayingB, StateCompleted}
	if len(states) != len(want) {
		t.Fatalf("saw %d states %v, want %d", len(states), states, len(want))
	}
	for i := range want {
		if states[i] != want[i] {
			t.Errorf("state[%d] = %s, want %s", i, states[i], want[i])
		}
	}

	// The reply channel is prepared during playback: two prepares total.
	if rec.prepares != 2 {
		t.Errorf("recorder prepares = %d, want 2", rec.prepares)
	}
	// First capture is open-ended, the reply is bounded by the cutoff.
	if rec.cutoffs[0] != 0 || rec.cutoffs[1] != 20*time.Second {
		t.Errorf("cutoffs = %v, want [0 20s]", rec.cutoffs)
	}
	if len(spk.langs) != 2 || spk.langs[0] != "zh" || spk.langs[1] != "en" {
		t.Errorf("spoken languages = %v, want [zh en]", spk.langs)
	}
}

func TestOrchestrator_RunSessionRecordFailureEndsInErrorState(t *testing.T) {
	store := newTestStorage(t)
	hh := seedHousehold(t, store, "UTC")
	orch := newTestOrchestrator(t, store, &fakeTranscriber{}, &fakeTranslator{}, &fakeCompleter{})

	var last State
	orch.SetStateHook(func(s State) { last = s })

	rec := &fakeRecorder{} // no audio configured: Record fails
	if err := orch.RunSession(context.Background(), hh.HouseholdID, "user_a", rec, &fakeSpeaker{}); err == nil {
		t.Fatal("RunSession() expected error")
	}
	if last != StateIdleOnError {
		t.Errorf("final state = %s, want %s", last, StateIdleOnError)
	}
}
