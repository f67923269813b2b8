// Package config provides environment-driven configuration for the pipeline
// and its external providers.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Provider names used in configuration errors and logs.
const (
	ProviderSearch              = "index_search"
	ProviderFeedDirectory       = "feed_directory"
	ProviderTranscribePrimary   = "transcribe_primary"
	ProviderTranscribeSecondary = "transcribe_secondary"
	ProviderGeneration          = "generation"
	ProviderBlobStore           = "blob_store"
)

// ErrProviderUnavailable indicates a provider cannot be used because its
// credential or endpoint is missing. Components treat it as a degrade
// signal: the affected provider is skipped, the run continues.
type ErrProviderUnavailable struct {
	Provider string
	Missing  string
}

func (e *ErrProviderUnavailable) Error() string {
	return fmt.Sprintf("provider %s unavailable: %s is not set", e.Provider, e.Missing)
}

// Defaults for provider endpoints and limits.
const (
	DefaultSearchBaseURL = "https://itunes.apple.com/search"
	DefaultLookupBaseURL = "https://itunes.apple.com/lookup"

	DefaultPrimaryTranscribeBaseURL = "https://api.groq.com/openai/v1"
	DefaultPrimaryTranscribeModel   = "whisper-large-v3"
	DefaultSecondaryTranscribeModel = "whisper-1"

	// DefaultMaxAudioBytes is the hard acquisition ceiling. Oversized input
	// is a terminal input error, not a transcription failure.
	DefaultMaxAudioBytes = 150 << 20
)

// Config holds all runtime configuration. Fields are populated from the
// environment by Load; zero values fall back to defaults where one exists.
type Config struct {
	Port int

	SearchBaseURL string
	LookupBaseURL string

	PrimaryTranscribeKey     string
	PrimaryTranscribeBaseURL string
	PrimaryTranscribeModel   string

	SecondaryTranscribeKey     string
	SecondaryTranscribeBaseURL string
	SecondaryTranscribeModel   string

	GenerationAPIKey string

	SupabaseURL    string
	SupabaseKey    string
	SupabaseBucket string

	StagingDir    string
	MaxAudioBytes int64

	RateLimitPerMinute int
}

// Load reads configuration from the environment.
func Load() *Config {
	return &Config{
		Port: envInt("PORT", 8080),

		SearchBaseURL: envOr("SEARCH_BASE_URL", DefaultSearchBaseURL),
		LookupBaseURL: envOr("LOOKUP_BASE_URL", DefaultLookupBaseURL),

		PrimaryTranscribeKey:     os.Getenv("GROQ_API_KEY"),
		PrimaryTranscribeBaseURL: envOr("GROQ_BASE_URL", DefaultPrimaryTranscribeBaseURL),
		PrimaryTranscribeModel:   envOr("GROQ_WHISPER_MODEL", DefaultPrimaryTranscribeModel),

		SecondaryTranscribeKey:     os.Getenv("OPENAI_API_KEY"),
		SecondaryTranscribeBaseURL: os.Getenv("OPENAI_BASE_URL"),
		SecondaryTranscribeModel:   envOr("OPENAI_WHISPER_MODEL", DefaultSecondaryTranscribeModel),

		GenerationAPIKey: os.Getenv("GEMINI_API_KEY"),

		SupabaseURL:    os.Getenv("SUPABASE_URL"),
		SupabaseKey:    os.Getenv("SUPABASE_SERVICE_KEY"),
		SupabaseBucket: envOr("SUPABASE_AUDIO_BUCKET", "episode-audio"),

		StagingDir:    envOr("AUDIO_STAGING_DIR", os.TempDir()),
		MaxAudioBytes: int64(envInt("MAX_AUDIO_BYTES", DefaultMaxAudioBytes)),

		RateLimitPerMinute: envInt("RATE_LIMIT_PER_MINUTE", 10),
	}
}

// CheckProvider reports whether the named provider is usable with the
// current configuration. A non-nil error is always *ErrProviderUnavailable.
func (c *Config) CheckProvider(provider string) error {
	switch provider {
	case ProviderTranscribePrimary:
		if c.PrimaryTranscribeKey == "" {
			return &ErrProviderUnavailable{Provider: provider, Missing: "GROQ_API_KEY"}
		}
	case ProviderTranscribeSecondary:
		if c.SecondaryTranscribeKey == "" {
			return &ErrProviderUnavailable{Provider: provider, Missing: "OPENAI_API_KEY"}
		}
	case ProviderGeneration:
		if c.GenerationAPIKey == "" {
			return &ErrProviderUnavailable{Provider: provider, Missing: "GEMINI_API_KEY"}
		}
	case ProviderBlobStore:
		if c.SupabaseURL == "" || c.SupabaseKey == "" {
			return &ErrProviderUnavailable{Provider: provider, Missing: "SUPABASE_URL/SUPABASE_SERVICE_KEY"}
		}
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
