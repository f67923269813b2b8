package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/podcast-growth/internal/config"
	"github.com/jonathan/podcast-growth/internal/fetch"
	"github.com/jonathan/podcast-growth/internal/pipeline"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{
			name:     "validation",
			err:      &ErrValidation{Field: "source_url", Message: "required"},
			expected: http.StatusBadRequest,
		},
		{
			name:     "audio too large",
			err:      &fetch.ErrAudioTooLarge{URL: "https://x", Limit: 10, Observed: 20},
			expected: http.StatusRequestEntityTooLarge,
		},
		{
			name:     "input error",
			err:      &pipeline.InputError{Message: "no audio"},
			expected: http.StatusUnprocessableEntity,
		},
		{
			name:     "provider unavailable",
			err:      &config.ErrProviderUnavailable{Provider: "generation", Missing: "GEMINI_API_KEY"},
			expected: http.StatusServiceUnavailable,
		},
		{
			name:     "deadline exceeded",
			err:      fmt.Errorf("call failed: %w", context.DeadlineExceeded),
			expected: http.StatusGatewayTimeout,
		},
		{
			name:     "unknown",
			err:      errors.New("boom"),
			expected: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HTTPStatus(tt.err))
		})
	}
}

func TestHTTPStatusUnwrapsCauses(t *testing.T) {
	wrapped := fmt.Errorf("audio acquisition failed: %w", &fetch.ErrAudioTooLarge{Limit: 1, Observed: 2})
	assert.Equal(t, http.StatusRequestEntityTooLarge, HTTPStatus(wrapped))
}

func TestSuggestions(t *testing.T) {
	inputErr := &pipeline.InputError{
		Message:     "no audio",
		Suggestions: []string{"upload the file instead"},
	}
	assert.Equal(t, []string{"upload the file instead"}, Suggestions(inputErr))

	assert.NotEmpty(t, Suggestions(&fetch.ErrAudioTooLarge{Limit: 1, Observed: 2}))
	assert.NotEmpty(t, Suggestions(&config.ErrProviderUnavailable{Provider: "generation", Missing: "GEMINI_API_KEY"}))
	assert.Nil(t, Suggestions(errors.New("boom")))
}
