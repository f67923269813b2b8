// Package pipeline provides the high-level orchestration for episode
// processing: metadata resolution, audio acquisition, transcription and
// growth analysis, with incremental progress reporting.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jonathan/podcast-growth/internal/fetch"
	"github.com/jonathan/podcast-growth/internal/types"
)

// Progress percentages per stage. Events within one run are strictly
// increasing; the terminal success object carries 100.
const (
	percentResolving    = 5
	percentAcquiring    = 20
	percentTranscribing = 45
	percentAnalyzing    = 75
	percentFinalizing   = 95
)

// InputError is a terminal, caller-caused failure: malformed source
// reference, unresolvable audio, oversized input. It maps to a 4xx response
// and is never retried.
type InputError struct {
	Message     string
	Suggestions []string
}

func (e *InputError) Error() string { return e.Message }

// MetadataResolver resolves an episode reference into metadata.
type MetadataResolver interface {
	Resolve(ctx context.Context, ref types.EpisodeReference) (types.EpisodeMetadata, error)
}

// AudioAcquirer downloads and stages episode audio. The release function
// must be called on every exit path.
type AudioAcquirer interface {
	Acquire(ctx context.Context, audioURL string) (types.AudioAsset, func(), error)
}

// Transcriber converts staged audio into text. It never fails; degradation
// is expressed through the result's provider tag.
type Transcriber interface {
	Transcribe(ctx context.Context, asset types.AudioAsset, meta types.EpisodeMetadata) types.TranscriptionResult
}

// Analyzer derives the growth artifact from a transcript. It never fails;
// degradation is expressed through warnings and the static fallback.
type Analyzer interface {
	Analyze(ctx context.Context, transcript, episodeTitle, podcastTitle string) (types.AnalysisArtifact, []string)
}

// ProgressCallback receives progress events as the run advances.
type ProgressCallback func(event types.ProgressEvent)

// Options configures one pipeline run.
type Options struct {
	OnProgress ProgressCallback
}

// Orchestrator sequences the pipeline stages. Stages run strictly in order;
// many orchestrator runs may execute concurrently, sharing no mutable state.
type Orchestrator struct {
	Metadata    MetadataResolver
	Audio       AudioAcquirer
	Transcriber Transcriber
	Analyzer    Analyzer
	Log         *logrus.Entry
}

// Run executes the full pipeline for an episode reference. It returns
// exactly one result on success; on unrecoverable failure it returns an
// error and no result. Transcription and analysis cannot fail by contract,
// so the only terminal failures are input and acquisition errors.
func (o *Orchestrator) Run(ctx context.Context, ref types.EpisodeReference, opts Options) (*types.PipelineResult, error) {
	start := time.Now()

	o.emit(opts, types.StageResolvingMetadata, percentResolving, "Resolving episode metadata", nil)

	meta, err := o.Metadata.Resolve(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("metadata resolution failed: %w", err)
	}
	if meta.AudioURL == "" {
		return nil, &InputError{
			Message: fmt.Sprintf("could not locate audio for %q", ref.SourceURL),
			Suggestions: []string{
				"Check that the URL points to a specific episode, not a show page",
				"Supply the episode title in the request to improve matching",
				"Upload the audio file directly instead",
			},
		}
	}

	o.emit(opts, types.StageAcquiringAudio, percentAcquiring, "Downloading episode audio", map[string]any{
		"title":      meta.Title,
		"provenance": meta.Provenance,
	})

	asset, release, err := o.Audio.Acquire(ctx, meta.AudioURL)
	if err != nil {
		var tooLarge *fetch.ErrAudioTooLarge
		if errors.As(err, &tooLarge) {
			return nil, &InputError{
				Message: fmt.Sprintf("episode audio exceeds the %d MB limit", tooLarge.Limit>>20),
				Suggestions: []string{
					"Trim or re-encode the audio below the size limit",
					"Submit a shorter episode",
				},
			}
		}
		return nil, fmt.Errorf("audio acquisition failed: %w", err)
	}
	defer release()

	result, err := o.finish(ctx, start, meta, asset, opts)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RunPrepared executes the pipeline for already-staged audio (direct
// upload). The caller supplies the metadata and owns scheduling of release
// handoff; release is still invoked on every exit path here.
func (o *Orchestrator) RunPrepared(ctx context.Context, meta types.EpisodeMetadata, asset types.AudioAsset, release func(), opts Options) (*types.PipelineResult, error) {
	start := time.Now()
	defer release()

	o.emit(opts, types.StageResolvingMetadata, percentResolving, "Using uploaded audio", map[string]any{
		"title": meta.Title,
	})
	o.emit(opts, types.StageAcquiringAudio, percentAcquiring, "Audio already staged", map[string]any{
		"byte_size": asset.ByteSize,
	})

	return o.finish(ctx, start, meta, asset, opts)
}

// finish runs the never-failing tail of the pipeline: transcription,
// analysis, assembly.
func (o *Orchestrator) finish(ctx context.Context, start time.Time, meta types.EpisodeMetadata, asset types.AudioAsset, opts Options) (*types.PipelineResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("run canceled: %w", err)
	}

	var warnings []string

	o.emit(opts, types.StageTranscribing, percentTranscribing, "Transcribing audio", map[string]any{
		"byte_size": asset.ByteSize,
	})

	transcription := o.Transcriber.Transcribe(ctx, asset, meta)
	if transcription.IsDegraded() {
		warnings = append(warnings, "transcription unavailable: analysis based on episode metadata only")
	}

	o.emit(opts, types.StageAnalyzing, percentAnalyzing, "Generating growth strategy", map[string]any{
		"transcript_chars": len(transcription.Text),
	})

	artifact, analysisWarnings := o.Analyzer.Analyze(ctx, transcription.Text, meta.Title, meta.PodcastTitle)
	warnings = append(warnings, analysisWarnings...)

	o.emit(opts, types.StageFinalizing, percentFinalizing, "Assembling results", nil)

	return &types.PipelineResult{
		Metadata:      meta,
		Transcription: transcription,
		Analysis:      artifact,
		TimingMs:      time.Since(start).Milliseconds(),
		Warnings:      warnings,
	}, nil
}

func (o *Orchestrator) emit(opts Options, stage types.Stage, percent int, message string, data map[string]any) {
	o.Log.WithFields(logrus.Fields{
		"stage":    stage,
		"progress": percent,
	}).Info(message)

	if opts.OnProgress != nil {
		opts.OnProgress(types.ProgressEvent{
			Stage:   stage,
			Percent: percent,
			Message: message,
			Data:    data,
		})
	}
}
