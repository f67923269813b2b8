// Package analysis drives the schema-constrained growth analysis: a direct
// generation attempt with retry, a distilled second attempt, and a static
// deterministic fallback. Analyze never fails: it always returns a
// well-formed artifact.
package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"github.com/jonathan/podcast-growth/internal/compress"
	"github.com/jonathan/podcast-growth/internal/llm"
	"github.com/jonathan/podcast-growth/internal/prompts"
	"github.com/jonathan/podcast-growth/internal/schemas"
	"github.com/jonathan/podcast-growth/internal/types"
)

// Engine timeouts and budgets.
const (
	// GenerationTimeout bounds one analysis call.
	GenerationTimeout = 60 * time.Second
	// DistillTimeout bounds the cheaper distillation sub-call.
	DistillTimeout = 25 * time.Second

	// PromptBudget is the transcript length above which input is compressed
	// before the first attempt.
	PromptBudget = 24000

	// DistillFallbackChars is the raw-truncation length used when the
	// distillation sub-call itself fails.
	DistillFallbackChars = 6000

	// retryDelay is the fixed pause before the single transport retry.
	retryDelay = 2 * time.Second
)

// Engine produces growth artifacts from transcripts through the generation
// provider.
type Engine struct {
	Client llm.Client
	Log    *logrus.Entry
}

// NewEngine builds an analysis engine. A nil client (generation provider
// unavailable) is legal: every call then degrades to the static fallback.
func NewEngine(client llm.Client, log *logrus.Entry) *Engine {
	return &Engine{Client: client, Log: log}
}

// Analyze derives a growth artifact from the transcript. It returns the
// artifact plus warnings describing any degradation that occurred. The
// artifact is always well-formed: when every generation attempt fails the
// deterministic static fallback is returned.
func (e *Engine) Analyze(ctx context.Context, transcript, episodeTitle, podcastTitle string) (types.AnalysisArtifact, []string) {
	var warnings []string

	if e.Client == nil {
		e.Log.Warn("generation provider unavailable, returning static fallback")
		return StaticFallback(episodeTitle), append(warnings, "analysis degraded: generation provider unavailable")
	}

	text := transcript
	if len(text) > PromptBudget {
		text = compress.Compress(text, PromptBudget)
		e.Log.WithFields(logrus.Fields{
			"original_chars":   len(transcript),
			"compressed_chars": len(text),
		}).Info("transcript compressed to fit prompt budget")
	}

	// Attempt 1: full (or budget-compressed) transcript, one transport
	// retry after a fixed delay.
	raw, err := e.generateWithRetry(ctx, text, episodeTitle, podcastTitle)
	if err == nil {
		artifact, parseErr := parseArtifact(raw)
		if parseErr == nil {
			return artifact, warnings
		}
		e.Log.WithError(parseErr).Warn("analysis response failed schema check, retrying with distilled transcript")
		warnings = append(warnings, "first analysis attempt produced malformed output")
	} else {
		e.Log.WithError(err).Warn("analysis call failed, retrying with distilled transcript")
		warnings = append(warnings, "first analysis attempt failed")
	}

	// Attempt 2: distill the transcript into key facts, then one more
	// generation attempt. If distillation itself fails, fall back to a raw
	// character truncation.
	distilled, distillErr := e.distill(ctx, text)
	if distillErr != nil {
		e.Log.WithError(distillErr).Warn("distillation failed, using truncated transcript")
		warnings = append(warnings, "distillation failed, used truncated transcript")
		distilled = truncate(transcript, DistillFallbackChars)
	}

	raw, err = e.generate(ctx, distilled, episodeTitle, podcastTitle)
	if err == nil {
		artifact, parseErr := parseArtifact(raw)
		if parseErr == nil {
			return artifact, warnings
		}
		e.Log.WithError(parseErr).Warn("distilled analysis response failed schema check")
	} else {
		e.Log.WithError(err).Warn("distilled analysis call failed")
	}

	e.Log.Warn("all analysis attempts exhausted, returning static fallback")
	warnings = append(warnings, "analysis degraded to static fallback")
	return StaticFallback(episodeTitle), warnings
}

// generate makes a single schema-constrained generation call.
func (e *Engine) generate(ctx context.Context, transcript, episodeTitle, podcastTitle string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, GenerationTimeout)
	defer cancel()

	system := prompts.MustGet("analysis.json", "analysis_system")
	user := prompts.Format(prompts.MustGet("analysis.json", "analysis_user"), map[string]string{
		"PodcastTitle": podcastTitle,
		"EpisodeTitle": episodeTitle,
		"Transcript":   transcript,
	})

	return e.Client.GenerateJSON(ctx, system, user, llm.TierStandard)
}

// generateWithRetry wraps generate with exactly one retry after a fixed
// delay. Transcription of long audio is expensive; generation is not, so a
// transient transport failure earns a second chance before degrading.
func (e *Engine) generateWithRetry(ctx context.Context, transcript, episodeTitle, podcastTitle string) (string, error) {
	var raw string

	operation := func() error {
		var err error
		raw, err = e.generate(ctx, transcript, episodeTitle, podcastTitle)
		return err
	}

	bo := backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(retryDelay), 1), ctx)
	if err := backoff.Retry(operation, bo); err != nil {
		return "", err
	}
	return raw, nil
}

// distill asks the generation provider for a compact structured summary of
// the transcript, used as the input for the second analysis attempt.
func (e *Engine) distill(ctx context.Context, transcript string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, DistillTimeout)
	defer cancel()

	system := prompts.MustGet("analysis.json", "distill_system")
	user := prompts.Format(prompts.MustGet("analysis.json", "distill_user"), map[string]string{
		"Transcript": transcript,
	})

	return e.Client.GenerateText(ctx, system, user, llm.TierLite)
}

// parseArtifact decodes and validates a generation response. When the body
// is not directly parseable it recovers the largest brace-delimited
// substring before giving up, since commentary around the object may contain
// unbalanced braces.
func parseArtifact(raw string) (types.AnalysisArtifact, error) {
	candidate := raw

	var artifact types.AnalysisArtifact
	if err := json.Unmarshal([]byte(candidate), &artifact); err != nil {
		candidate = llm.ExtractJSONObject(raw)
		if candidate == "" {
			return types.AnalysisArtifact{}, fmt.Errorf("response contains no JSON object")
		}
		if err := json.Unmarshal([]byte(candidate), &artifact); err != nil {
			return types.AnalysisArtifact{}, fmt.Errorf("response is not valid JSON: %w", err)
		}
	}

	if err := schemas.ValidateGrowthArtifact(candidate); err != nil {
		return types.AnalysisArtifact{}, err
	}
	if err := artifact.Validate(); err != nil {
		return types.AnalysisArtifact{}, err
	}
	return artifact, nil
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
