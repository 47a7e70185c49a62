// ABOUTME: Centralized configuration for the hometalk bridge
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the bridge.
type Config struct {
	// Storage settings
	DBPath string

	// OpenAI settings
	OpenAIKey       string
	ChatModel       string
	TranscribeModel string
	SpeechModel     string
	SpeechVoice     string

	// Pipeline tuning
	TranscribeTimeout time.Duration
	MaxRetries        int
	RetryDelay        time.Duration
	ReplyCutoff       time.Duration // safety cutoff for the reply-turn recording
	VocabCharBudget   int           // max chars of transcript fed to vocabulary extraction
	VocabItemDelay    time.Duration // inter-item delay for sequential translations

	// HTTP / rate limiting
	HTTPAddr           string
	RedisURL           string // empty = in-memory limiter
	RateLimitPerMinute int

	// Logging
	LogMode string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		DBPath:             getEnv("HOMETALK_DB", ""),
		OpenAIKey:          os.Getenv("OPENAI_API_KEY"),
		ChatModel:          getEnv("HOMETALK_CHAT_MODEL", "gpt-4o-mini"),
		TranscribeModel:    getEnv("HOMETALK_TRANSCRIBE_MODEL", "whisper-1"),
		SpeechModel:        getEnv("HOMETALK_SPEECH_MODEL", "tts-1"),
		SpeechVoice:        getEnv("HOMETALK_SPEECH_VOICE", "alloy"),
		TranscribeTimeout:  getEnvDuration("HOMETALK_TRANSCRIBE_TIMEOUT", 30*time.Second),
		MaxRetries:         getEnvInt("HOMETALK_MAX_RETRIES", 2),
		RetryDelay:         getEnvDuration("HOMETALK_RETRY_DELAY", time.Second),
		ReplyCutoff:        getEnvDuration("HOMETALK_REPLY_CUTOFF", 20*time.Second),
		VocabCharBudget:    getEnvInt("HOMETALK_VOCAB_CHAR_BUDGET", 6000),
		VocabItemDelay:     getEnvDuration("HOMETALK_VOCAB_ITEM_DELAY", 300*time.Millisecond),
		HTTPAddr:           getEnv("HOMETALK_HTTP_ADDR", ":8080"),
		RedisURL:           getEnv("HOMETALK_REDIS_URL", ""),
		RateLimitPerMinute: getEnvInt("HOMETALK_RATE_LIMIT_PER_MINUTE", 30),
		LogMode:            getEnv("HOMETALK_LOG_MODE", "dev"),
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.MaxRetries < 0 || c.MaxRetries > 5 {
		return fmt.Errorf("HOMETALK_MAX_RETRIES must be 0-5, got %d", c.MaxRetries)
	}
	if c.ReplyCutoff < time.Second {
		return fmt.Errorf("HOMETALK_REPLY_CUTOFF must be at least 1s, got %s", c.ReplyCutoff)
	}
	if c.VocabCharBudget < 500 {
		return fmt.Errorf("HOMETALK_VOCAB_CHAR_BUDGET must be at least 500, got %d", c.VocabCharBudget)
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("HOMETALK_RATE_LIMIT_PER_MINUTE must be positive, got %d", c.RateLimitPerMinute)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
