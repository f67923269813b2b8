package pipeline

import (
	"context"
	"fmt"

	"github.com/jonathan/podcast-growth/internal/analysis"
	"github.com/jonathan/podcast-growth/internal/config"
	"github.com/jonathan/podcast-growth/internal/fetch"
	"github.com/jonathan/podcast-growth/internal/llm"
	"github.com/jonathan/podcast-growth/internal/logger"
	"github.com/jonathan/podcast-growth/internal/metadata"
	"github.com/jonathan/podcast-growth/internal/transcription"
)

// Build constructs the full orchestrator graph from configuration.
// Providers with missing credentials are skipped with a warning and their
// stages degrade at run time. The returned client is non-nil only when the
// generation provider is configured; the caller owns closing it.
func Build(cfg *config.Config, log *logger.Logger) (*Orchestrator, llm.Client, error) {
	var providers []transcription.Provider

	if err := cfg.CheckProvider(config.ProviderTranscribePrimary); err != nil {
		log.WithError(err).Warn("primary transcription disabled")
	} else {
		p, err := transcription.NewWhisperProvider(
			"primary", cfg.PrimaryTranscribeKey, cfg.PrimaryTranscribeBaseURL,
			cfg.PrimaryTranscribeModel, transcription.PrimaryMaxBytes, transcription.PrimaryTimeout,
		)
		if err != nil {
			return nil, nil, fmt.Errorf("primary transcription setup failed: %w", err)
		}
		providers = append(providers, p)
	}

	if err := cfg.CheckProvider(config.ProviderTranscribeSecondary); err != nil {
		log.WithError(err).Warn("secondary transcription disabled")
	} else {
		p, err := transcription.NewWhisperProvider(
			"secondary", cfg.SecondaryTranscribeKey, cfg.SecondaryTranscribeBaseURL,
			cfg.SecondaryTranscribeModel, transcription.SecondaryMaxBytes, transcription.SecondaryTimeout,
		)
		if err != nil {
			return nil, nil, fmt.Errorf("secondary transcription setup failed: %w", err)
		}
		providers = append(providers, p)
	}

	var client llm.Client
	if err := cfg.CheckProvider(config.ProviderGeneration); err != nil {
		log.WithError(err).Warn("generation disabled, analysis degrades to static fallback")
	} else {
		gemini, err := llm.NewGeminiClient(context.Background(), llm.DefaultConfig(), cfg.GenerationAPIKey)
		if err != nil {
			return nil, nil, fmt.Errorf("generation client setup failed: %w", err)
		}
		client = gemini
	}

	orch := &Orchestrator{
		Metadata: metadata.NewResolver(
			metadata.NewSearchClient(cfg.SearchBaseURL),
			metadata.NewFeedResolver(cfg.LookupBaseURL),
			log.WithComponent("metadata"),
		),
		Audio:       fetch.NewAcquirer(cfg.StagingDir, cfg.MaxAudioBytes),
		Transcriber: transcription.NewChain(log.WithComponent("transcription"), providers...),
		Analyzer:    analysis.NewEngine(client, log.WithComponent("analysis")),
		Log:         log.WithComponent("pipeline"),
	}
	return orch, client, nil
}
