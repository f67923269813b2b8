// Package fetch provides HTTP fetching for provider endpoints and audio
// acquisition with local staging.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 15 * time.Second

// DefaultUserAgent is the user agent string for outbound requests.
const DefaultUserAgent = "Mozilla/5.0 (compatible; PodcastGrowthAgent/1.0)"

// Error represents an error during URL fetching.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures fetch behavior.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	Headers   map[string]string
}

// DefaultOptions returns sensible defaults for provider calls.
func DefaultOptions() *Options {
	return &Options{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
	}
}

// Get retrieves the body of a URL. Non-2xx statuses are reported as errors.
func Get(ctx context.Context, urlStr string, opts *Options) ([]byte, string, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	parsed, err := url.Parse(urlStr)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, "", &Error{URL: urlStr, Message: "invalid URL", Cause: err}
	}

	client := &http.Client{Timeout: opts.Timeout}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, "", &Error{URL: urlStr, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", opts.UserAgent)
	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, "", &Error{URL: urlStr, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", &Error{URL: urlStr, Message: "failed to read response body", Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return body, resp.Header.Get("Content-Type"), &Error{
			URL:     urlStr,
			Message: fmt.Sprintf("unexpected status %d", resp.StatusCode),
		}
	}

	return body, resp.Header.Get("Content-Type"), nil
}

// GetJSON retrieves a URL and decodes its JSON body into target.
func GetJSON(ctx context.Context, urlStr string, opts *Options, target any) error {
	body, _, err := Get(ctx, urlStr, opts)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, target); err != nil {
		return &Error{URL: urlStr, Message: "failed to decode JSON response", Cause: err}
	}
	return nil
}
