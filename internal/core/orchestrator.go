// ABOUTME: Turn orchestrator: the eight-state session pipeline with latency-hiding overlap
// ABOUTME: Synchronous-path failures are terminal; persistence and enrichment never block the caller
package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/junwei/hometalk/internal/errs"
	"github.com/junwei/hometalk/internal/logger"
	"github.com/junwei/hometalk/internal/models"
	"github.com/junwei/hometalk/internal/speech"
	"github.com/junwei/hometalk/internal/storage/sqlite"
	"github.com/junwei/hometalk/internal/translate"
)

// State names the steps of the per-session lifecycle.
type State string

const (
	StateIdle        State = "idle"
	StateCapturingA  State = "capturing_a"
	StateProcessingA State = "processing_a"
	StatePlayingA    State = "playing_translation_a"
	StateCapturingB  State = "capturing_b"
	StateProcessingB State = "processing_b"
	StatePlayingB    State = "playing_translation_b"
	StateCompleted   State = "completed"
	StateIdleOnError State = "idle_error"
)

// TurnResult is the payload handed back to the caller as soon as the
// translation succeeds; persistence continues in the background.
type TurnResult struct {
	SessionID      string `json:"session_id"`
	TurnIndex      int    `json:"turn_index"`
	SourceLang     string `json:"source_lang"`
	TargetLang     string `json:"target_lang"`
	SourceText     string `json:"source_text"`
	TranslatedText string `json:"translated_text"`
}

// Orchestrator drives sessions through capture, transcription, translation,
// playback overlap, persistence, and background enrichment.
type Orchestrator struct {
	store       *sqlite.Storage
	transcriber speech.Transcriber
	translator  translate.Translator
	tagger      *Tagger
	aggregator  *Aggregator
	log         *logger.Logger

	replyCutoff time.Duration // safety cutoff for the reply recording

	// onState observes lifecycle transitions (device runner only); tests
	// and UIs hook it, nil otherwise.
	onState func(State)

	bg sync.WaitGroup // pending background persistence/enrichment

	// firstDone tracks the first turn's in-flight write per session, so the
	// final turn's enrichment never runs before both rows are visible.
	firstDone sync.Map // sessionID -> chan struct{}
}

// NewOrchestrator wires the pipeline.
func NewOrchestrator(store *sqlite.Storage, transcriber speech.Transcriber, translator translate.Translator,
	tagger *Tagger, aggregator *Aggregator, replyCutoff time.Duration, log *logger.Logger) *Orchestrator {
	if replyCutoff <= 0 {
		replyCutoff = 20 * time.Second
	}
	return &Orchestrator{
		store:       store,
		transcriber: transcriber,
		translator:  translator,
		tagger:      tagger,
		aggregator:  aggregator,
		replyCutoff: replyCutoff,
		log:         log,
	}
}

// SetStateHook registers an observer for lifecycle transitions.
func (o *Orchestrator) SetStateHook(hook func(State)) {
	o.onState = hook
}

// Wait blocks until all background persistence and enrichment settles.
// Used by graceful shutdown and tests.
func (o *Orchestrator) Wait() {
	o.bg.Wait()
}

func (o *Orchestrator) setState(s State) {
	if o.onState != nil {
		o.onState(s)
	}
	o.log.Debug("session state", "state", string(s))
}

// StartSession creates a new session for the household. Any failure later
// in the pipeline discards the session; the next attempt starts fresh.
func (o *Orchestrator) StartSession(ctx context.Context, householdID, initiatorID string) (*models.Session, error) {
	if _, err := o.store.Households.Get(householdID); err != nil {
		return nil, err
	}
	sess, err := models.NewSession(householdID, initiatorID)
	if err != nil {
		return nil, err
	}
	if err := o.store.Sessions.Create(sess); err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}
	return sess, nil
}

// SubmitFirstTurn processes the initiator's utterance (turn 0, language A
// into language B).
func (o *Orchestrator) SubmitFirstTurn(ctx context.Context, sessionID string, audio []byte, mimeType string) (*TurnResult, error) {
	return o.processTurn(ctx, sessionID, 0, audio, mimeType)
}

// SubmitReplyTurn processes the reply (turn 1, language B into language A).
func (o *Orchestrator) SubmitReplyTurn(ctx context.Context, sessionID string, audio []byte, mimeType string) (*TurnResult, error) {
	return o.processTurn(ctx, sessionID, 1, audio, mimeType)
}

// processTurn runs the synchronous path for one turn: validate audio,
// transcribe, translate. The result is returned to the caller before the
// turn row is confirmed written - an availability-over-durability tradeoff:
// a storage hiccup must not degrade the live conversation.
func (o *Orchestrator) processTurn(ctx context.Context, sessionID string, index int, audio []byte, mimeType string) (*TurnResult, error) {
	sess, err := o.store.Sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	hh, err := o.store.Households.Get(sess.HouseholdID)
	if err != nil {
		return nil, err
	}

	role, sourceLang, targetLang := turnDirection(hh, index)

	if len(audio) == 0 {
		return nil, errs.ErrEmptyAudio
	}

	transcript, err := o.transcriber.Transcribe(ctx, audio, mimeType, sourceLang)
	if err != nil {
		return nil, err
	}

	translation, err := o.translator.Translate(ctx, transcript.Text, sourceLang, targetLang,
		translationPrompt(index, sourceLang, targetLang))
	if err != nil {
		return nil, err
	}

	turn, err := models.NewTurn(sess.SessionID, hh.HouseholdID, index, role,
		sourceLang, targetLang, transcript.Text, translation.Text)
	if err != nil {
		return nil, err
	}
	turn.TranscriptionID = transcript.RequestID
	turn.TranslationID = translation.RequestID

	final := index == models.TurnsPerSession-1
	if !final {
		done := make(chan struct{})
		o.firstDone.Store(sess.SessionID, done)
		o.bg.Add(1)
		go func() {
			defer close(done)
			o.persistTurn(turn, false)
		}()
	} else {
		o.bg.Add(1)
		go o.persistTurn(turn, true)
	}

	return &TurnResult{
		SessionID:      sess.SessionID,
		TurnIndex:      index,
		SourceLang:     sourceLang,
		TargetLang:     targetLang,
		SourceText:     transcript.Text,
		TranslatedText: translation.Text,
	}, nil
}

// persistTurn writes the turn row in the background. Failures are logged,
// never retried, never surfaced. Enrichment fires only after the final
// turn's write succeeded, so taggers and aggregators always see both turns.
func (o *Orchestrator) persistTurn(turn *models.Turn, final bool) {
	defer o.bg.Done()

	if err := o.store.Turns.Insert(turn); err != nil {
		o.log.Error("turn persistence failed", "session", turn.SessionID,
			"turn_index", turn.TurnIndex, "error", err)
		return
	}

	if !final {
		return
	}

	// Let the first turn's write settle so enrichment sees both rows.
	if done, ok := o.firstDone.LoadAndDelete(turn.SessionID); ok {
		<-done.(chan struct{})
	}

	if err := o.store.Sessions.SetEnded(turn.SessionID, turn.EndedAt); err != nil {
		o.log.Error("session end update failed", "session", turn.SessionID, "error", err)
	}

	o.enrich(turn.SessionID, turn.HouseholdID)
}

// enrich triggers tagging and daily aggregation as independent detached
// tasks. Both are best-effort: failures are logged and otherwise invisible.
func (o *Orchestrator) enrich(sessionID, householdID string) {
	o.bg.Add(2)

	go func() {
		defer o.bg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := o.tagger.TagSession(ctx, sessionID); err != nil {
			o.log.Warn("session tagging failed", "session", sessionID, "error", err)
		}
	}()

	go func() {
		defer o.bg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
		defer cancel()
		if _, err := o.aggregator.Generate(ctx, householdID, ""); err != nil {
			o.log.Warn("daily aggregation failed", "household", householdID, "error", err)
		}
	}()
}

// RunSession drives a full two-turn exchange against device ports (smart
// speaker deployments; HTTP callers use the Submit entry points instead).
// While a translation plays, the next capture is prepared concurrently:
// playback seconds are used to hide device-acquisition latency. The next
// recording starts once BOTH finish - a join, not a sequence.
func (o *Orchestrator) RunSession(ctx context.Context, householdID, initiatorID string,
	rec speech.Recorder, spk speech.Speaker) error {

	sess, err := o.StartSession(ctx, householdID, initiatorID)
	if err != nil {
		return err
	}
	hh, err := o.store.Households.Get(householdID)
	if err != nil {
		return err
	}

	fail := func(err error) error {
		o.setState(StateIdleOnError)
		return err
	}

	// Turn A: capture until the caller triggers stop.
	o.setState(StateCapturingA)
	if err := rec.Prepare(ctx); err != nil {
		return fail(fmt.Errorf("preparing capture: %w", err))
	}
	audio, mime, err := rec.Record(ctx, 0)
	if err != nil {
		return fail(fmt.Errorf("recording: %w", err))
	}

	o.setState(StateProcessingA)
	first, err := o.SubmitFirstTurn(ctx, sess.SessionID, audio, mime)
	if err != nil {
		return fail(err)
	}

	// Speak the translation while acquiring the reply channel.
	o.setState(StatePlayingA)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return spk.Speak(gctx, first.TranslatedText, hh.LangB) })
	g.Go(func() error { return rec.Prepare(gctx) })
	if err := g.Wait(); err != nil {
		return fail(err)
	}

	// Turn B: bounded by the safety cutoff.
	o.setState(StateCapturingB)
	audio, mime, err = rec.Record(ctx, o.replyCutoff)
	if err != nil {
		return fail(fmt.Errorf("recording reply: %w", err))
	}

	o.setState(StateProcessingB)
	reply, err := o.SubmitReplyTurn(ctx, sess.SessionID, audio, mime)
	if err != nil {
		return fail(err)
	}

	o.setState(StatePlayingB)
	if err := spk.Speak(ctx, reply.TranslatedText, hh.LangA); err != nil {
		return fail(err)
	}

	o.setState(StateCompleted)
	return nil
}

// turnDirection maps a turn slot to its speaker role and language pair.
func turnDirection(hh *models.Household, index int) (models.SpeakerRole, string, string) {
	if index == 0 {
		return models.RoleInitiator, hh.LangA, hh.LangB
	}
	return models.RoleReply, hh.LangB, hh.LangA
}
