// Package metadata resolves episode title and audio location from a source
// URL, trying an index search first and a publisher-feed fallback second.
package metadata

import (
	"context"
	"net/url"
	"time"

	"github.com/jonathan/podcast-growth/internal/fetch"
)

// SearchTimeout bounds one index search call.
const SearchTimeout = 10 * time.Second

// SearchResult is one episode match from the index search provider.
type SearchResult struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	AudioURL    string `json:"audioUrl"`
	DurationSec int    `json:"durationSec"`
	ShowTitle   string `json:"showTitle"`
	ID          string `json:"id"`
}

type searchResponse struct {
	Results []SearchResult `json:"results"`
}

// SearchClient queries the episode index search provider.
type SearchClient struct {
	BaseURL string
	Timeout time.Duration
}

// NewSearchClient builds a search client for the given endpoint.
func NewSearchClient(baseURL string) *SearchClient {
	return &SearchClient{BaseURL: baseURL, Timeout: SearchTimeout}
}

// Search returns episode matches for the query, ranked by the provider.
// A zero-match response is (nil, nil): the caller decides whether that
// triggers a fallback.
func (c *SearchClient) Search(ctx context.Context, query string) ([]SearchResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	endpoint := c.BaseURL + "?media=podcast&entity=podcastEpisode&query=" + url.QueryEscape(query)

	var resp searchResponse
	opts := fetch.DefaultOptions()
	opts.Timeout = c.Timeout
	if err := fetch.GetJSON(ctx, endpoint, opts, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}
