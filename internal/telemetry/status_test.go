package telemetry

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

func newStatusServer(t *testing.T, tracker *Tracker) *httptest.Server {
	t.Helper()
	r := chi.NewRouter()
	tracker.Routes(r)
	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return server
}

func TestHealthz(t *testing.T) {
	server := newStatusServer(t, NewTracker())

	resp, err := http.Get(server.URL + "/healthz")
	if err != nil {
		t.Fatalf("get healthz: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("healthz status = %d", resp.StatusCode)
	}
}

func TestStatusReportsRunState(t *testing.T) {
	tracker := NewTracker()
	server := newStatusServer(t, tracker)

	releaseAt := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	tracker.SetRun("run-123", releaseAt)
	tracker.SetState("waiting")
	tracker.SetRemaining(90 * time.Second)

	resp, err := http.Get(server.URL + "/status")
	if err != nil {
		t.Fatalf("get status: %v", err)
	}
	defer resp.Body.Close()

	var body struct {
		RunID            string    `json:"run_id"`
		State            string    `json:"state"`
		ReleaseAt        time.Time `json:"release_at"`
		RemainingSeconds float64   `json:"remaining_seconds"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode status: %v", err)
	}

	if body.RunID != "run-123" {
		t.Fatalf("run_id = %q", body.RunID)
	}
	if body.State != "waiting" {
		t.Fatalf("state = %q", body.State)
	}
	if !body.ReleaseAt.Equal(releaseAt) {
		t.Fatalf("release_at = %v, want %v", body.ReleaseAt, releaseAt)
	}
	if body.RemainingSeconds != 90 {
		t.Fatalf("remaining_seconds = %v", body.RemainingSeconds)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	server := newStatusServer(t, NewTracker())

	resp, err := http.Get(server.URL + "/metrics")
	if err != nil {
		t.Fatalf("get metrics: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("metrics status = %d", resp.StatusCode)
	}
}
