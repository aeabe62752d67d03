// Package config loads the process configuration from the environment,
// honoring a local .env file.
package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration for the hint server.
type Config struct {
	// Server configuration
	Host string `envconfig:"HOST" default:"0.0.0.0"`
	Port string `envconfig:"PORT" default:"10000"`

	// BodyLimit bounds request bodies; base64 audio payloads run to
	// several megabytes.
	BodyLimit string `envconfig:"BODY_LIMIT" default:"25M"`

	// ClientDir serves the static classroom UI when set.
	ClientDir string `envconfig:"CLIENT_DIR" default:""`

	// Gemini API configuration; one credential covers analysis and the
	// primary transcription model.
	GeminiAPIKey string `envconfig:"GEMINI_API_KEY" required:"true"`
	HintModel    string `envconfig:"HINT_MODEL" default:"gemini-2.0-flash"`
	STTModel     string `envconfig:"STT_MODEL" default:"gemini-2.0-flash"`

	// STTLanguage is the transcription language hint; empty means
	// auto-detect.
	STTLanguage string `envconfig:"STT_LANGUAGE" default:"en"`

	// Pipeline tunables
	FocusWindowWords int  `envconfig:"FOCUS_WINDOW_WORDS" default:"25"`
	HistoryCapacity  int  `envconfig:"HISTORY_CAPACITY" default:"20"`
	KeepEmptyCards   bool `envconfig:"KEEP_EMPTY_CARDS" default:"false"`

	// Timeouts, in seconds, for the two external capabilities.
	AnalyzeTimeoutSeconds int `envconfig:"ANALYZE_TIMEOUT_SECONDS" default:"20"`
	STTTimeoutSeconds     int `envconfig:"STT_TIMEOUT_SECONDS" default:"30"`
}

// Load reads configuration from a .env file (when present) and the
// environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints that envconfig tags cannot.
func (c *Config) Validate() error {
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required")
	}
	if c.FocusWindowWords < 1 {
		return fmt.Errorf("FOCUS_WINDOW_WORDS must be at least 1, got %d", c.FocusWindowWords)
	}
	if c.HistoryCapacity < 1 {
		return fmt.Errorf("HISTORY_CAPACITY must be at least 1, got %d", c.HistoryCapacity)
	}
	if c.AnalyzeTimeoutSeconds < 1 || c.STTTimeoutSeconds < 1 {
		return fmt.Errorf("timeouts must be at least 1 second")
	}
	return nil
}
