package telemetry

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Tracker holds the state of the active run for the status endpoint.
type Tracker struct {
	mu        sync.RWMutex
	runID     string
	state     string
	releaseAt time.Time
	remaining time.Duration
}

// NewTracker returns an idle tracker.
func NewTracker() *Tracker {
	return &Tracker{state: "idle"}
}

// SetRun records the active run and its release instant.
func (t *Tracker) SetRun(runID string, releaseAt time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.runID = runID
	t.releaseAt = releaseAt
}

// SetState records the current run phase.
func (t *Tracker) SetState(state string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = state
}

// SetRemaining records the countdown observed by the release scheduler.
func (t *Tracker) SetRemaining(remaining time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.remaining = remaining
}

type statusResponse struct {
	RunID            string    `json:"run_id,omitempty"`
	State            string    `json:"state"`
	ReleaseAt        time.Time `json:"release_at,omitempty"`
	RemainingSeconds float64   `json:"remaining_seconds"`
}

func (t *Tracker) snapshot() statusResponse {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return statusResponse{
		RunID:            t.runID,
		State:            t.state,
		ReleaseAt:        t.releaseAt,
		RemainingSeconds: t.remaining.Seconds(),
	}
}

// Routes mounts the status endpoints on r.
func (t *Tracker) Routes(r chi.Router) {
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/status", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(t.snapshot())
	})
	r.Handle("/metrics", promhttp.Handler())
}

// Server exposes the tracker and prometheus metrics over HTTP while a run is
// active.
type Server struct {
	http   *http.Server
	logger zerolog.Logger
}

// NewServer builds the status server bound to bind.
func NewServer(bind string, tracker *Tracker, logger zerolog.Logger) *Server {
	r := chi.NewRouter()
	tracker.Routes(r)
	return &Server{
		http:   &http.Server{Addr: bind, Handler: r},
		logger: logger.With().Str("component", "status_server").Logger(),
	}
}

// Start serves in the background. Listen errors other than a clean shutdown
// are logged, not fatal: losing the status page must not kill a run.
func (s *Server) Start() {
	go func() {
		s.logger.Info().Str("addr", s.http.Addr).Msg("status endpoint listening")
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error().Err(err).Msg("status server error")
		}
	}()
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
