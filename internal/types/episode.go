// Package types defines the shared data model for the episode processing pipeline.
package types

// Provenance identifies which resolution strategy produced an episode's metadata.
type Provenance string

// Provenance values, in preference order.
const (
	// ProvenanceIndex means metadata came from the episode index search provider.
	ProvenanceIndex Provenance = "index"
	// ProvenanceFeed means metadata came from parsing the publisher's feed.
	ProvenanceFeed Provenance = "feed"
	// ProvenanceURLHeuristic means metadata was synthesized from the URL slug alone.
	ProvenanceURLHeuristic Provenance = "url_heuristic"
)

// EpisodeReference is the caller-supplied identity of an episode to process.
type EpisodeReference struct {
	SourceURL     string `json:"source_url"`
	SuppliedTitle string `json:"supplied_title,omitempty"`
}

// EpisodeMetadata is the resolved description of an episode. It is produced
// once by the metadata resolver and read-only afterwards.
type EpisodeMetadata struct {
	Title        string     `json:"title"`
	PodcastTitle string     `json:"podcast_title"`
	Description  string     `json:"description"`
	AudioURL     string     `json:"audio_url"`
	DurationHint int        `json:"duration_hint_seconds,omitempty"`
	Provenance   Provenance `json:"provenance"`

	// FeedTranscript holds transcript-like text found directly in the feed
	// item (show notes content), when present. It lets the pipeline fall
	// back to publisher-provided text when every transcription provider
	// is unusable.
	FeedTranscript string `json:"-"`
}

// AudioAsset represents acquired audio bytes, either staged on local disk or
// addressed remotely through a blob store. The pipeline run that created the
// asset owns it and must release LocalPath on every exit path.
type AudioAsset struct {
	ByteSize      int64  `json:"byte_size"`
	ContentType   string `json:"content_type"`
	StorageHandle string `json:"storage_handle"`

	// LocalPath is the staged file on disk, empty when the asset is
	// remote-only.
	LocalPath string `json:"-"`
}
