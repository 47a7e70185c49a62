// ABOUTME: Shared pipeline wiring for CLI commands
// ABOUTME: One place that turns configuration into connected components
package commands

import (
	"errors"
	"fmt"

	"github.com/joho/godotenv"

	"github.com/junwei/hometalk/internal/config"
	"github.com/junwei/hometalk/internal/core"
	"github.com/junwei/hometalk/internal/llm"
	"github.com/junwei/hometalk/internal/logger"
	"github.com/junwei/hometalk/internal/speech"
	"github.com/junwei/hometalk/internal/storage/sqlite"
	"github.com/junwei/hometalk/internal/translate"
)

// pipeline bundles the wired components a command may need.
type pipeline struct {
	cfg   *config.Config
	log   *logger.Logger
	store *sqlite.Storage

	orch  *core.Orchestrator
	agg   *core.Aggregator
	vocab *core.VocabularyExtractor
	synth *speech.Synthesizer
}

// buildPipeline loads configuration and wires the full pipeline. Commands
// that only read the database still get the whole thing; the provider
// clients are lazy and cost nothing until called.
func buildPipeline() (*pipeline, error) {
	// Load .env if present (API keys in development).
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	if verbose {
		cfg.LogMode = "dev"
	}
	if quiet {
		cfg.LogMode = "quiet"
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}

	if cfg.OpenAIKey == "" {
		return nil, errors.New("OPENAI_API_KEY is required (set it in the environment or a .env file)")
	}

	store, err := sqlite.NewStorage(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("initializing storage: %w", err)
	}

	llmClient, err := llm.NewClient(cfg.OpenAIKey, cfg.ChatModel)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("initializing LLM client: %w", err)
	}

	transcriber := speech.NewWhisperTranscriber(llmClient.GetClient(), cfg.TranscribeModel, cfg.TranscribeTimeout, log)
	synth := speech.NewSynthesizer(llmClient.GetClient(), cfg.SpeechModel, cfg.SpeechVoice, log)
	translator := translate.NewClient(llmClient, cfg.MaxRetries, cfg.RetryDelay, log)

	tagger := core.NewTagger(llmClient, store, log)
	agg := core.NewAggregator(llmClient, store, log)
	vocab := core.NewVocabularyExtractor(llmClient, store, translator,
		cfg.VocabCharBudget, cfg.VocabItemDelay, cfg.MaxRetries, cfg.RetryDelay, log)
	orch := core.NewOrchestrator(store, transcriber, translator, tagger, agg, cfg.ReplyCutoff, log)

	return &pipeline{
		cfg:   cfg,
		log:   log,
		store: store,
		orch:  orch,
		agg:   agg,
		vocab: vocab,
		synth: synth,
	}, nil
}

// Close drains background work and releases resources.
func (p *pipeline) Close() {
	p.orch.Wait()
	if err := p.store.Close(); err != nil {
		p.log.Warn("closing storage", "error", err)
	}
	p.log.Sync()
}
