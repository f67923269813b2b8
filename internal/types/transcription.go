package types

// TranscriptConfidence indicates whether the transcript text was produced by
// a real speech-recognition provider or reconstructed from other signals.
type TranscriptConfidence string

// TranscriptConfidence values.
const (
	ConfidenceMeasured  TranscriptConfidence = "measured"
	ConfidenceEstimated TranscriptConfidence = "estimated"
)

// TranscriptProvider identifies which rung of the transcription chain
// produced a result.
type TranscriptProvider string

// TranscriptProvider values.
const (
	ProviderPrimary             TranscriptProvider = "primary"
	ProviderSecondary           TranscriptProvider = "secondary"
	ProviderDegradedPlaceholder TranscriptProvider = "degraded_placeholder"
)

// TranscriptionResult is the outcome of the transcription chain. Text is
// always non-empty: when every provider fails the chain substitutes a
// placeholder built from already-known metadata.
type TranscriptionResult struct {
	Text                     string               `json:"text"`
	EstimatedDurationSeconds int                  `json:"estimated_duration_seconds"`
	Confidence               TranscriptConfidence `json:"confidence"`
	Provider                 TranscriptProvider   `json:"provider"`
}

// IsDegraded reports whether the result is a placeholder rather than a real
// transcript.
func (r TranscriptionResult) IsDegraded() bool {
	return r.Provider == ProviderDegradedPlaceholder
}
