package server

import (
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/jonathan/podcast-growth/internal/fetch"
	"github.com/jonathan/podcast-growth/internal/pipeline"
	"github.com/jonathan/podcast-growth/internal/types"
)

// AnalyzeRequest is the request body for POST /analyze.
type AnalyzeRequest struct {
	SourceURL string `json:"source_url" validate:"required,url"`
	Title     string `json:"title,omitempty" validate:"omitempty,max=300"`
}

// HealthResponse is the response for GET /health.
type HealthResponse struct {
	Status    string          `json:"status"`
	Providers map[string]bool `json:"providers"`
	Time      string          `json:"time"`
}

// handleAnalyze runs the full pipeline for an episode reference, streaming
// NDJSON progress lines followed by exactly one terminal line.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error(), nil)
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request: "+err.Error(), nil)
		return
	}

	if !s.runSlots.TryAcquire(1) {
		s.errorResponse(w, http.StatusServiceUnavailable, "Server is at capacity, try again shortly", []string{
			"Retry in a few minutes",
		})
		return
	}
	defer s.runSlots.Release(1)

	stream, err := NewNDJSONWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error(), nil)
		return
	}

	ref := types.EpisodeReference{
		SourceURL:     req.SourceURL,
		SuppliedTitle: req.Title,
	}

	result, err := s.runner.Run(r.Context(), ref, pipeline.Options{
		OnProgress: func(event types.ProgressEvent) {
			_ = stream.WriteProcessing(event)
		},
	})
	if err != nil {
		s.log.WithError(err).Warn("analyze run failed")
		_ = stream.WriteError(err.Error(), Suggestions(err))
		return
	}

	_ = stream.WriteSuccess(result)
}

// handleAnalyzeUpload accepts a direct audio upload plus optional titles,
// persists the audio to the blob store, and runs the pipeline tail over it.
// The response protocol matches /analyze.
func (s *Server) handleAnalyzeUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes())

	file, header, err := r.FormFile("audio")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Missing audio file: "+err.Error(), []string{
			"Send the audio as a multipart form field named \"audio\"",
		})
		return
	}
	defer func() { _ = file.Close() }()

	title := r.FormValue("title")
	podcastTitle := r.FormValue("podcast_title")

	if !s.runSlots.TryAcquire(1) {
		s.errorResponse(w, http.StatusServiceUnavailable, "Server is at capacity, try again shortly", []string{
			"Retry in a few minutes",
		})
		return
	}
	defer s.runSlots.Release(1)

	contentType := header.Header.Get("Content-Type")
	asset, release, err := s.acquirer.StageUpload(file, contentType)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error(), Suggestions(err))
		return
	}

	stream, err := NewNDJSONWriter(w)
	if err != nil {
		release()
		s.errorResponse(w, http.StatusInternalServerError, err.Error(), nil)
		return
	}

	// Persist the upload so transcription providers that need a URL can
	// address it. A missing store degrades to local-only staging.
	if s.store != nil {
		name := fetch.UploadName(title)
		if staged, openErr := os.Open(asset.LocalPath); openErr == nil {
			put, putErr := s.store.Put(r.Context(), name, staged, asset.ContentType)
			_ = staged.Close()
			if putErr != nil {
				s.log.WithError(putErr).Warn("blob upload failed, continuing with local staging")
			} else {
				asset.StorageHandle = put.URL
			}
		}
	}

	if title == "" {
		title = header.Filename
	}
	meta := types.EpisodeMetadata{
		Title:        title,
		PodcastTitle: podcastTitle,
		AudioURL:     asset.StorageHandle,
		Provenance:   types.ProvenanceURLHeuristic,
	}

	result, err := s.runner.RunPrepared(r.Context(), meta, asset, release, pipeline.Options{
		OnProgress: func(event types.ProgressEvent) {
			_ = stream.WriteProcessing(event)
		},
	})
	if err != nil {
		s.log.WithError(err).Warn("upload run failed")
		_ = stream.WriteError(err.Error(), Suggestions(err))
		return
	}

	_ = stream.WriteSuccess(result)
}

// handleHealth reports liveness and which providers are configured.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Providers: s.providerStatus(),
		Time:      time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) jsonResponse(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (s *Server) errorResponse(w http.ResponseWriter, status int, message string, suggestions []string) {
	s.jsonResponse(w, status, map[string]any{
		"status":      "error",
		"error":       message,
		"suggestions": suggestions,
	})
}
