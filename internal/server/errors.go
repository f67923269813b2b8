// Package server provides the HTTP API for the podcast growth agent.
package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/jonathan/podcast-growth/internal/config"
	"github.com/jonathan/podcast-growth/internal/fetch"
	"github.com/jonathan/podcast-growth/internal/pipeline"
)

// ErrValidation indicates a malformed request body.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return "validation error: " + e.Field + " - " + e.Message
}

// HTTPStatus returns the appropriate HTTP status code for an error.
func HTTPStatus(err error) int {
	var inputErr *pipeline.InputError
	var tooLarge *fetch.ErrAudioTooLarge
	var unavailable *config.ErrProviderUnavailable
	var validation *ErrValidation

	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &inputErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &unavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// Suggestions returns remediation hints for an error, when any apply.
func Suggestions(err error) []string {
	var inputErr *pipeline.InputError
	if errors.As(err, &inputErr) {
		return inputErr.Suggestions
	}

	var tooLarge *fetch.ErrAudioTooLarge
	if errors.As(err, &tooLarge) {
		return []string{
			"Re-encode the audio at a lower bitrate",
			"Submit a shorter episode",
		}
	}

	var unavailable *config.ErrProviderUnavailable
	if errors.As(err, &unavailable) {
		return []string{
			"Check the server's provider credentials",
			"Retry once the provider is configured",
		}
	}

	return nil
}
