package types

// Stage names the ordered phases of one pipeline run.
type Stage string

// Pipeline stages, in execution order.
const (
	StageResolvingMetadata Stage = "resolving_metadata"
	StageAcquiringAudio    Stage = "acquiring_audio"
	StageTranscribing      Stage = "transcribing"
	StageAnalyzing         Stage = "analyzing"
	StageFinalizing        Stage = "finalizing"
)

// ProgressEvent is a one-way progress update emitted during a pipeline run.
// Within one run events are strictly increasing in Percent.
type ProgressEvent struct {
	Stage   Stage          `json:"stage"`
	Percent int            `json:"progress"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data,omitempty"`
}

// PipelineResult is the terminal aggregate of a successful run. Exactly one
// is produced per run; on unrecoverable failure none is produced at all.
type PipelineResult struct {
	Metadata      EpisodeMetadata     `json:"metadata"`
	Transcription TranscriptionResult `json:"transcription"`
	Analysis      AnalysisArtifact    `json:"analysis"`
	TimingMs      int64               `json:"timing_ms"`
	Warnings      []string            `json:"warnings,omitempty"`
}
