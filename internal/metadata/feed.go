package metadata

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/jonathan/podcast-growth/internal/fetch"
	"github.com/jonathan/podcast-growth/internal/types"
)

// FeedTimeout bounds the directory lookup plus the feed fetch/parse.
const FeedTimeout = 15 * time.Second

type lookupResponse struct {
	Results []struct {
		FeedURL string `json:"feedUrl"`
	} `json:"results"`
}

// FeedResolver locates an episode through the publisher's feed: a directory
// lookup maps the numeric show id embedded in the source URL to a feed URL,
// then the feed is parsed and scanned for a title match.
type FeedResolver struct {
	LookupBaseURL string
	Timeout       time.Duration

	parser *gofeed.Parser
}

// NewFeedResolver builds a feed resolver against the given directory
// endpoint.
func NewFeedResolver(lookupBaseURL string) *FeedResolver {
	return &FeedResolver{
		LookupBaseURL: lookupBaseURL,
		Timeout:       FeedTimeout,
		parser:        gofeed.NewParser(),
	}
}

// Resolve looks up the feed for showID and returns metadata for the item
// whose title matches phrase. Ties break in feed document order: the first
// match wins.
func (f *FeedResolver) Resolve(ctx context.Context, showID, phrase string) (types.EpisodeMetadata, error) {
	ctx, cancel := context.WithTimeout(ctx, f.Timeout)
	defer cancel()

	feedURL, err := f.lookupFeedURL(ctx, showID)
	if err != nil {
		return types.EpisodeMetadata{}, err
	}

	feed, err := f.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return types.EpisodeMetadata{}, fmt.Errorf("failed to parse feed %s: %w", feedURL, err)
	}
	if feed == nil || len(feed.Items) == 0 {
		return types.EpisodeMetadata{}, fmt.Errorf("feed %s contains no items", feedURL)
	}

	item := matchItem(feed.Items, phrase)
	if item == nil {
		return types.EpisodeMetadata{}, fmt.Errorf("no feed item matches %q", phrase)
	}

	meta := types.EpisodeMetadata{
		Title:          item.Title,
		PodcastTitle:   feed.Title,
		Description:    HTMLToText(item.Description),
		AudioURL:       enclosureURL(item),
		DurationHint:   itemDuration(item),
		Provenance:     types.ProvenanceFeed,
		FeedTranscript: feedTranscript(item),
	}
	return meta, nil
}

func (f *FeedResolver) lookupFeedURL(ctx context.Context, showID string) (string, error) {
	endpoint := f.LookupBaseURL + "?id=" + url.QueryEscape(showID)

	var resp lookupResponse
	opts := fetch.DefaultOptions()
	opts.Timeout = f.Timeout
	if err := fetch.GetJSON(ctx, endpoint, opts, &resp); err != nil {
		return "", err
	}
	if len(resp.Results) == 0 || resp.Results[0].FeedURL == "" {
		return "", fmt.Errorf("directory has no feed for id %s", showID)
	}
	return resp.Results[0].FeedURL, nil
}

// matchItem finds the first item whose title matches the phrase, trying a
// case-insensitive substring match first and a token-overlap match second.
func matchItem(items []*gofeed.Item, phrase string) *gofeed.Item {
	lowered := strings.ToLower(phrase)

	for _, item := range items {
		if strings.Contains(strings.ToLower(item.Title), lowered) {
			return item
		}
	}

	tokens := strings.Fields(lowered)
	if len(tokens) == 0 {
		return nil
	}
	for _, item := range items {
		title := strings.ToLower(item.Title)
		matched := 0
		for _, tok := range tokens {
			if strings.Contains(title, tok) {
				matched++
			}
		}
		// Majority token overlap counts as a match.
		if matched*2 > len(tokens) {
			return item
		}
	}
	return nil
}

func enclosureURL(item *gofeed.Item) string {
	for _, enc := range item.Enclosures {
		if enc.URL != "" {
			return enc.URL
		}
	}
	return ""
}

func itemDuration(item *gofeed.Item) int {
	if item.ITunesExt == nil || item.ITunesExt.Duration == "" {
		return 0
	}
	return parseDuration(item.ITunesExt.Duration)
}

// parseDuration handles the duration formats feeds use in the wild: plain
// seconds, MM:SS and HH:MM:SS.
func parseDuration(raw string) int {
	parts := strings.Split(strings.TrimSpace(raw), ":")
	total := 0
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return 0
		}
		total = total*60 + n
	}
	return total
}

// feedTranscript returns transcript-like text published in the feed item
// itself. Some publishers ship full transcripts as item content.
func feedTranscript(item *gofeed.Item) string {
	text := HTMLToText(item.Content)
	if len(text) > 500 {
		return text
	}
	return ""
}

// HTMLToText strips markup from feed-provided HTML, returning readable text.
func HTMLToText(html string) string {
	if html == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return strings.TrimSpace(html)
	}
	return strings.TrimSpace(strings.Join(strings.Fields(doc.Text()), " "))
}
