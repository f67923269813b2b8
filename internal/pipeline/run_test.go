package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/podcast-growth/internal/analysis"
	"github.com/jonathan/podcast-growth/internal/fetch"
	"github.com/jonathan/podcast-growth/internal/types"
)

type fakeResolver struct {
	meta types.EpisodeMetadata
	err  error
}

func (f *fakeResolver) Resolve(_ context.Context, _ types.EpisodeReference) (types.EpisodeMetadata, error) {
	return f.meta, f.err
}

type fakeAcquirer struct {
	asset    types.AudioAsset
	err      error
	released bool
}

func (f *fakeAcquirer) Acquire(_ context.Context, _ string) (types.AudioAsset, func(), error) {
	if f.err != nil {
		return types.AudioAsset{}, func() {}, f.err
	}
	return f.asset, func() { f.released = true }, nil
}

type fakeTranscriber struct {
	result types.TranscriptionResult
}

func (f *fakeTranscriber) Transcribe(_ context.Context, _ types.AudioAsset, _ types.EpisodeMetadata) types.TranscriptionResult {
	return f.result
}

type fakeAnalyzer struct {
	artifact types.AnalysisArtifact
	warnings []string
}

func (f *fakeAnalyzer) Analyze(_ context.Context, _, _, _ string) (types.AnalysisArtifact, []string) {
	return f.artifact, f.warnings
}

func testLog() *logrus.Entry {
	base := logrus.New()
	base.SetLevel(logrus.PanicLevel)
	return logrus.NewEntry(base)
}

func testOrchestrator() (*Orchestrator, *fakeAcquirer) {
	acquirer := &fakeAcquirer{asset: types.AudioAsset{ByteSize: 1024, LocalPath: "/tmp/x.mp3"}}
	orch := &Orchestrator{
		Metadata: &fakeResolver{meta: types.EpisodeMetadata{
			Title:        "Ep",
			PodcastTitle: "Show",
			AudioURL:     "https://cdn.example.com/ep.mp3",
			Provenance:   types.ProvenanceIndex,
		}},
		Audio: acquirer,
		Transcriber: &fakeTranscriber{result: types.TranscriptionResult{
			Text:       "a transcript",
			Confidence: types.ConfidenceMeasured,
			Provider:   types.ProviderPrimary,
		}},
		Analyzer: &fakeAnalyzer{artifact: analysis.StaticFallback("Ep")},
		Log:      testLog(),
	}
	return orch, acquirer
}

func TestRunSuccessEmitsOrderedProgress(t *testing.T) {
	orch, acquirer := testOrchestrator()

	var events []types.ProgressEvent
	result, err := orch.Run(context.Background(), types.EpisodeReference{SourceURL: "https://x"}, Options{
		OnProgress: func(e types.ProgressEvent) { events = append(events, e) },
	})
	require.NoError(t, err)
	require.NotNil(t, result)

	require.GreaterOrEqual(t, len(events), 4)
	for i := 1; i < len(events); i++ {
		assert.Greater(t, events[i].Percent, events[i-1].Percent)
	}
	assert.Equal(t, types.StageResolvingMetadata, events[0].Stage)
	assert.Equal(t, types.StageFinalizing, events[len(events)-1].Stage)
	assert.Less(t, events[len(events)-1].Percent, 100)

	assert.True(t, acquirer.released)
	assert.Equal(t, "a transcript", result.Transcription.Text)
	assert.Equal(t, "Ep", result.Metadata.Title)
	assert.GreaterOrEqual(t, result.TimingMs, int64(0))
}

func TestRunEmptyAudioURLIsInputError(t *testing.T) {
	orch, _ := testOrchestrator()
	orch.Metadata = &fakeResolver{meta: types.EpisodeMetadata{
		Title:      "Ep",
		Provenance: types.ProvenanceURLHeuristic,
	}}

	result, err := orch.Run(context.Background(), types.EpisodeReference{SourceURL: "https://x"}, Options{})
	assert.Nil(t, result)

	var inputErr *InputError
	require.ErrorAs(t, err, &inputErr)
	assert.NotEmpty(t, inputErr.Suggestions)
}

func TestRunOversizedAudioIsInputError(t *testing.T) {
	orch, _ := testOrchestrator()
	orch.Audio = &fakeAcquirer{err: &fetch.ErrAudioTooLarge{URL: "https://x", Limit: 150 << 20, Observed: 200 << 20}}

	result, err := orch.Run(context.Background(), types.EpisodeReference{SourceURL: "https://x"}, Options{})
	assert.Nil(t, result)

	var inputErr *InputError
	require.ErrorAs(t, err, &inputErr)
	assert.Contains(t, inputErr.Message, "limit")
}

func TestRunAcquisitionFailurePropagates(t *testing.T) {
	orch, _ := testOrchestrator()
	orch.Audio = &fakeAcquirer{err: errors.New("network down")}

	result, err := orch.Run(context.Background(), types.EpisodeReference{SourceURL: "https://x"}, Options{})
	assert.Nil(t, result)
	require.Error(t, err)

	var inputErr *InputError
	assert.False(t, errors.As(err, &inputErr))
}

func TestRunResolverFailurePropagates(t *testing.T) {
	orch, _ := testOrchestrator()
	orch.Metadata = &fakeResolver{err: errors.New("resolver exploded")}

	result, err := orch.Run(context.Background(), types.EpisodeReference{SourceURL: "https://x"}, Options{})
	assert.Nil(t, result)
	assert.Error(t, err)
}

func TestRunAggregatesWarnings(t *testing.T) {
	orch, _ := testOrchestrator()
	orch.Transcriber = &fakeTranscriber{result: types.TranscriptionResult{
		Text:       "placeholder",
		Confidence: types.ConfidenceEstimated,
		Provider:   types.ProviderDegradedPlaceholder,
	}}
	orch.Analyzer = &fakeAnalyzer{
		artifact: analysis.StaticFallback("Ep"),
		warnings: []string{"analysis degraded to static fallback"},
	}

	result, err := orch.Run(context.Background(), types.EpisodeReference{SourceURL: "https://x"}, Options{})
	require.NoError(t, err)
	require.Len(t, result.Warnings, 2)
	assert.Contains(t, result.Warnings[0], "transcription unavailable")
	assert.Contains(t, result.Warnings[1], "static fallback")
}

func TestRunCanceledContext(t *testing.T) {
	orch, acquirer := testOrchestrator()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := orch.Run(ctx, types.EpisodeReference{SourceURL: "https://x"}, Options{})
	assert.Nil(t, result)
	assert.Error(t, err)
	assert.True(t, acquirer.released)
}

func TestRunPreparedReleasesAndCompletes(t *testing.T) {
	orch, _ := testOrchestrator()

	released := false
	meta := types.EpisodeMetadata{Title: "Uploaded", Provenance: types.ProvenanceURLHeuristic, AudioURL: "file:///x"}
	asset := types.AudioAsset{ByteSize: 2048, LocalPath: "/tmp/y.mp3"}

	var events []types.ProgressEvent
	result, err := orch.RunPrepared(context.Background(), meta, asset, func() { released = true }, Options{
		OnProgress: func(e types.ProgressEvent) { events = append(events, e) },
	})
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.True(t, released)
	assert.GreaterOrEqual(t, len(events), 4)
	assert.Equal(t, "Uploaded", result.Metadata.Title)
}

func TestRunNoProgressCallbackIsSafe(t *testing.T) {
	orch, _ := testOrchestrator()
	_, err := orch.Run(context.Background(), types.EpisodeReference{SourceURL: "https://x"}, Options{})
	assert.NoError(t, err)
}
