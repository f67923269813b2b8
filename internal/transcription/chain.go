package transcription

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/jonathan/podcast-growth/internal/types"
)

// CharsPerSecond converts transcript length to a duration estimate. It is an
// empirically chosen average speech rate, not a measured value; override it
// on the chain when better data exists.
const CharsPerSecond = 8

// Chain tries transcription providers in priority order, routing by input
// size, and degrades to a placeholder transcript when every provider is
// skipped or fails. Transcribe never returns an error.
type Chain struct {
	Providers []Provider

	// CharsPerSecond overrides the duration heuristic when non-zero.
	CharsPerSecond int

	Log *logrus.Entry
}

// NewChain builds a chain over providers in priority order. Nil providers
// (unavailable due to missing credentials) are dropped.
func NewChain(log *logrus.Entry, providers ...Provider) *Chain {
	kept := make([]Provider, 0, len(providers))
	for _, p := range providers {
		if p != nil {
			kept = append(kept, p)
		}
	}
	return &Chain{Providers: kept, CharsPerSecond: CharsPerSecond, Log: log}
}

// providerTag maps chain position to the result's provider label.
func providerTag(position int) types.TranscriptProvider {
	if position == 0 {
		return types.ProviderPrimary
	}
	return types.ProviderSecondary
}

// Transcribe produces a transcript for the asset. Providers whose ceiling is
// below the asset size are skipped; each remaining provider is attempted
// exactly once. When all fail, the result is a placeholder built from the
// episode's metadata, so the pipeline always moves forward.
func (c *Chain) Transcribe(ctx context.Context, asset types.AudioAsset, meta types.EpisodeMetadata) types.TranscriptionResult {
	for i, p := range c.Providers {
		if asset.ByteSize > p.MaxBytes() {
			c.Log.WithFields(logrus.Fields{
				"provider":   p.Name(),
				"byte_size":  asset.ByteSize,
				"size_limit": p.MaxBytes(),
			}).Info("audio exceeds provider ceiling, skipping")
			continue
		}

		text, err := p.Transcribe(ctx, asset.LocalPath, meta.Title)
		if err != nil {
			c.Log.WithError(err).WithField("provider", p.Name()).Warn("transcription attempt failed, failing over")
			continue
		}

		return types.TranscriptionResult{
			Text:                     text,
			EstimatedDurationSeconds: c.estimateDuration(text, meta),
			Confidence:               types.ConfidenceMeasured,
			Provider:                 providerTag(i),
		}
	}

	return c.placeholder(meta)
}

// placeholder synthesizes a transcript substitute from metadata so analysis
// still has something meaningful to work with.
func (c *Chain) placeholder(meta types.EpisodeMetadata) types.TranscriptionResult {
	c.Log.WithField("episode", meta.Title).Warn("all transcription providers exhausted, using degraded placeholder")

	text := meta.FeedTranscript
	if text == "" {
		var sb strings.Builder
		if meta.Title != "" {
			sb.WriteString(fmt.Sprintf("Episode: %s.", meta.Title))
		}
		if meta.PodcastTitle != "" {
			sb.WriteString(fmt.Sprintf(" From the podcast %s.", meta.PodcastTitle))
		}
		if meta.Description != "" {
			sb.WriteString(" ")
			sb.WriteString(meta.Description)
		}
		text = strings.TrimSpace(sb.String())
	}
	if text == "" {
		text = "No transcript or episode description is available for this episode."
	}

	return types.TranscriptionResult{
		Text:                     text,
		EstimatedDurationSeconds: c.estimateDuration(text, meta),
		Confidence:               types.ConfidenceEstimated,
		Provider:                 types.ProviderDegradedPlaceholder,
	}
}

// estimateDuration prefers the metadata duration hint and otherwise applies
// the chars-per-second heuristic to the transcript length.
func (c *Chain) estimateDuration(text string, meta types.EpisodeMetadata) int {
	if meta.DurationHint > 0 {
		return meta.DurationHint
	}
	rate := c.CharsPerSecond
	if rate <= 0 {
		rate = CharsPerSecond
	}
	return len(text) / rate
}
