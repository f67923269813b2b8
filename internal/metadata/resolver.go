package metadata

import (
	"context"
	"net/url"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/jonathan/podcast-growth/internal/types"
)

// Resolver turns an episode reference into resolved metadata. Strategies run
// at most once each: index search, then feed fallback, then a bare URL
// heuristic whose empty audio location the orchestrator treats as terminal.
type Resolver struct {
	Search *SearchClient
	Feed   *FeedResolver
	Log    *logrus.Entry
}

// NewResolver wires a resolver from its strategy clients.
func NewResolver(search *SearchClient, feed *FeedResolver, log *logrus.Entry) *Resolver {
	return &Resolver{Search: search, Feed: feed, Log: log}
}

// Resolve produces episode metadata for ref. It never returns an error for
// strategy failures alone: the UrlHeuristic result is the last rung, and its
// missing audio location is what makes the run terminal.
func (r *Resolver) Resolve(ctx context.Context, ref types.EpisodeReference) (types.EpisodeMetadata, error) {
	phrase := ref.SuppliedTitle
	if phrase == "" {
		phrase = SlugPhrase(ref.SourceURL)
	}

	if meta, ok := r.tryIndex(ctx, phrase); ok {
		return meta, nil
	}

	if meta, ok := r.tryFeed(ctx, ref.SourceURL, phrase); ok {
		return meta, nil
	}

	// Last resort: synthesize from the slug alone. AudioURL stays empty,
	// which the orchestrator reports as a terminal input error.
	r.Log.WithField("source_url", ref.SourceURL).Warn("metadata degraded to URL heuristic")
	return types.EpisodeMetadata{
		Title:      phrase,
		Provenance: types.ProvenanceURLHeuristic,
	}, nil
}

func (r *Resolver) tryIndex(ctx context.Context, phrase string) (types.EpisodeMetadata, bool) {
	if r.Search == nil || phrase == "" {
		return types.EpisodeMetadata{}, false
	}

	results, err := r.Search.Search(ctx, phrase)
	if err != nil {
		r.Log.WithError(err).Warn("index search failed, falling back to feed")
		return types.EpisodeMetadata{}, false
	}
	if len(results) == 0 {
		r.Log.WithField("query", phrase).Info("index search returned no matches")
		return types.EpisodeMetadata{}, false
	}

	top := results[0]
	return types.EpisodeMetadata{
		Title:        top.Title,
		PodcastTitle: top.ShowTitle,
		Description:  top.Description,
		AudioURL:     top.AudioURL,
		DurationHint: top.DurationSec,
		Provenance:   types.ProvenanceIndex,
	}, true
}

func (r *Resolver) tryFeed(ctx context.Context, sourceURL, phrase string) (types.EpisodeMetadata, bool) {
	if r.Feed == nil {
		return types.EpisodeMetadata{}, false
	}

	showID := NumericID(sourceURL)
	if showID == "" {
		r.Log.WithField("source_url", sourceURL).Info("no numeric id in URL, skipping feed fallback")
		return types.EpisodeMetadata{}, false
	}

	meta, err := r.Feed.Resolve(ctx, showID, phrase)
	if err != nil {
		r.Log.WithError(err).Warn("feed fallback failed")
		return types.EpisodeMetadata{}, false
	}
	return meta, true
}

var idPattern = regexp.MustCompile(`id(\d+)`)

// NumericID extracts the numeric show id embedded in a source URL,
// recognizing the "id12345" convention used by podcast directories and
// falling back to the last all-digit path segment.
func NumericID(sourceURL string) string {
	if m := idPattern.FindStringSubmatch(sourceURL); m != nil {
		return m[1]
	}

	parsed, err := url.Parse(sourceURL)
	if err != nil {
		return ""
	}
	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i] != "" && isDigits(segments[i]) {
			return segments[i]
		}
	}
	return ""
}

// SlugPhrase derives a human-readable search phrase from the last meaningful
// path segment of the source URL: slug separators become spaces and words are
// title-cased.
func SlugPhrase(sourceURL string) string {
	parsed, err := url.Parse(sourceURL)
	if err != nil {
		return ""
	}

	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	slug := ""
	for i := len(segments) - 1; i >= 0; i-- {
		seg := segments[i]
		// Skip pure-id segments; the slug is the human part of the path.
		if seg == "" || isDigits(seg) || idPattern.MatchString(seg) {
			continue
		}
		slug = seg
		break
	}
	if slug == "" {
		return ""
	}

	if idx := strings.LastIndex(slug, "."); idx > 0 {
		slug = slug[:idx]
	}

	slug = strings.NewReplacer("-", " ", "_", " ", "+", " ").Replace(slug)
	words := strings.Fields(slug)
	for i, w := range words {
		words[i] = titleCase(w)
	}
	return strings.Join(words, " ")
}

func titleCase(w string) string {
	r := []rune(w)
	if len(r) == 0 {
		return w
	}
	first := strings.ToUpper(string(r[0]))
	return first + string(r[1:])
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
