package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/jonathan/podcast-growth/internal/types"
)

// NDJSONWriter streams newline-delimited JSON progress objects. Each call
// writes exactly one object followed by a newline and flushes immediately.
type NDJSONWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewNDJSONWriter prepares the response for NDJSON streaming.
func NewNDJSONWriter(w http.ResponseWriter) (*NDJSONWriter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("streaming not supported")
	}

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")

	return &NDJSONWriter{w: w, flusher: flusher}, nil
}

type processingLine struct {
	Status   string         `json:"status"`
	Progress int            `json:"progress"`
	Message  string         `json:"message"`
	Data     map[string]any `json:"data,omitempty"`
}

type successLine struct {
	Status   string `json:"status"`
	Progress int    `json:"progress"`
	*types.PipelineResult
}

type errorLine struct {
	Status      string   `json:"status"`
	Error       string   `json:"error"`
	Suggestions []string `json:"suggestions,omitempty"`
}

func (n *NDJSONWriter) writeLine(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := n.w.Write(append(data, '\n')); err != nil {
		return err
	}
	n.flusher.Flush()
	return nil
}

// WriteProcessing streams one intermediate progress object.
func (n *NDJSONWriter) WriteProcessing(event types.ProgressEvent) error {
	return n.writeLine(processingLine{
		Status:   "processing",
		Progress: event.Percent,
		Message:  event.Message,
		Data:     event.Data,
	})
}

// WriteSuccess streams the single terminal success object.
func (n *NDJSONWriter) WriteSuccess(result *types.PipelineResult) error {
	return n.writeLine(successLine{
		Status:         "success",
		Progress:       100,
		PipelineResult: result,
	})
}

// WriteError streams the single terminal error object.
func (n *NDJSONWriter) WriteError(message string, suggestions []string) error {
	return n.writeLine(errorLine{
		Status:      "error",
		Error:       message,
		Suggestions: suggestions,
	})
}
