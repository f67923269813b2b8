package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/semaphore"

	"github.com/jonathan/podcast-growth/internal/blob"
	"github.com/jonathan/podcast-growth/internal/config"
	"github.com/jonathan/podcast-growth/internal/fetch"
	"github.com/jonathan/podcast-growth/internal/llm"
	"github.com/jonathan/podcast-growth/internal/logger"
	"github.com/jonathan/podcast-growth/internal/pipeline"
	"github.com/jonathan/podcast-growth/internal/server/ratelimit"
	"github.com/jonathan/podcast-growth/internal/types"
)

// maxConcurrentRuns caps in-flight pipeline runs; each holds staged audio on
// disk and an open provider call.
const maxConcurrentRuns = 4

// Runner abstracts the pipeline orchestrator for the handlers.
type Runner interface {
	Run(ctx context.Context, ref types.EpisodeReference, opts pipeline.Options) (*types.PipelineResult, error)
	RunPrepared(ctx context.Context, meta types.EpisodeMetadata, asset types.AudioAsset, release func(), opts pipeline.Options) (*types.PipelineResult, error)
}

// Server is the HTTP front end of the growth agent.
type Server struct {
	cfg        *config.Config
	log        *logger.Logger
	runner     Runner
	acquirer   *fetch.Acquirer
	store      blob.Store
	limiter    *ratelimit.Limiter
	runSlots   *semaphore.Weighted
	validate   *validator.Validate
	llmClient  llm.Client
	httpServer *http.Server
}

// New wires the full component graph from configuration. Providers with
// missing credentials are skipped with a warning; the server still starts
// and degrades the affected stages at run time.
func New(cfg *config.Config, log *logger.Logger) (*Server, error) {
	s := &Server{
		cfg:      cfg,
		log:      log,
		acquirer: fetch.NewAcquirer(cfg.StagingDir, cfg.MaxAudioBytes),
		limiter:  ratelimit.NewLimiter(cfg.RateLimitPerMinute, time.Minute),
		runSlots: semaphore.NewWeighted(maxConcurrentRuns),
		validate: validator.New(),
	}

	orch, llmClient, err := pipeline.Build(cfg, log)
	if err != nil {
		return nil, err
	}
	orch.Audio = s.acquirer
	s.runner = orch
	s.llmClient = llmClient

	if err := cfg.CheckProvider(config.ProviderBlobStore); err != nil {
		log.WithError(err).Warn("blob store disabled, uploads stay in local staging")
	} else {
		s.store = blob.NewSupabaseStore(cfg.SupabaseURL, cfg.SupabaseKey, cfg.SupabaseBucket)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /analyze", s.handleAnalyze)
	mux.HandleFunc("POST /analyze/upload", s.handleAnalyzeUpload)
	mux.HandleFunc("GET /health", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRateLimit(s.withLogging(mux)),
		ReadTimeout:  10 * time.Minute, // uploads can be large
		WriteTimeout: 15 * time.Minute, // pipeline runs stream for minutes
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Start listens until an interrupt, then drains in-flight runs.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", s.httpServer.Addr).Info("server starting")
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-stop:
	}

	s.log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.limiter.Stop()
	if s.llmClient != nil {
		s.llmClient.Close()
	}

	s.log.Info("server stopped")
	return nil
}

// withRateLimit rejects clients over their per-minute budget. Health checks
// are exempt.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		info := s.limiter.Allow(clientID(r))
		if !info.Allowed {
			w.Header().Set("Retry-After", strconv.Itoa(int(info.RetryAfter.Seconds())+1))
			s.errorResponse(w, http.StatusTooManyRequests, "Rate limit exceeded", []string{
				fmt.Sprintf("Retry after %s", info.RetryAfter.Round(time.Second)),
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging logs each request with timing.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		entry := s.log.WithRequest(r)
		entry.Info("request started")
		next.ServeHTTP(w, r)
		entry.WithField("duration_ms", time.Since(start).Milliseconds()).Info("request completed")
	})
}

// clientID identifies a client by IP, preferring the forwarded address set
// by a fronting proxy.
func clientID(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// maxUploadBytes bounds the multipart request body: the audio ceiling plus
// slack for the form envelope.
func (s *Server) maxUploadBytes() int64 {
	return s.cfg.MaxAudioBytes + 1<<20
}

// providerStatus reports which optional providers are currently usable.
func (s *Server) providerStatus() map[string]bool {
	out := make(map[string]bool, 4)
	for _, name := range []string{
		config.ProviderTranscribePrimary,
		config.ProviderTranscribeSecondary,
		config.ProviderGeneration,
		config.ProviderBlobStore,
	} {
		out[name] = s.cfg.CheckProvider(name) == nil
	}
	return out
}
