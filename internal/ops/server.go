// Package ops provides the operational HTTP surface of the scorer: liveness,
// readiness and run-progress endpoints for container platforms and operators
// watching a long batch.
package ops

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Status is a snapshot of the current scoring run.
type Status struct {
	RunID     string    `json:"runId,omitempty"`
	State     string    `json:"state"`
	Percent   int       `json:"percent"`
	Message   string    `json:"message,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// Run states reported by the status endpoint.
const (
	StateIdle    = "idle"
	StateRunning = "running"
	StateDone    = "done"
	StateFailed  = "failed"
)

// StatusTracker records run progress for the status endpoint. Its Update
// method satisfies the runner's progress callback.
type StatusTracker struct {
	mu     sync.RWMutex
	status Status
}

// NewStatusTracker creates an idle tracker.
func NewStatusTracker() *StatusTracker {
	return &StatusTracker{status: Status{State: StateIdle}}
}

// StartRun marks a run as in flight.
func (t *StatusTracker) StartRun(runID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status = Status{RunID: runID, State: StateRunning, UpdatedAt: time.Now()}
}

// Update records progress; wire it as the runner's Progress callback.
func (t *StatusTracker) Update(percent int, message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status.Percent = percent
	t.status.Message = message
	t.status.UpdatedAt = time.Now()
}

// FinishRun marks the run done or failed.
func (t *StatusTracker) FinishRun(failed bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status.State = StateDone
	if failed {
		t.status.State = StateFailed
	}
	t.status.UpdatedAt = time.Now()
}

// Snapshot returns the current status.
func (t *StatusTracker) Snapshot() Status {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.status
}

// RouterConfig holds configuration for the ops router.
type RouterConfig struct {
	Version   string
	BuildTime string
	Logger    zerolog.Logger
	Tracker   *StatusTracker
	// Ready reports whether dependencies (database, cache dir) are usable.
	// nil means always ready.
	Ready func() error
}

// NewRouter creates the ops router.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(RequestID)
	r.Use(Logger(cfg.Logger))
	r.Use(Recovery(cfg.Logger))
	r.Use(chimiddleware.RealIP)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":    "ok",
			"version":   cfg.Version,
			"buildTime": cfg.BuildTime,
		})
	})

	r.Get("/ready", func(w http.ResponseWriter, _ *http.Request) {
		if cfg.Ready != nil {
			if err := cfg.Ready(); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{
					"status": "unavailable",
					"error":  err.Error(),
				})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/status", func(w http.ResponseWriter, _ *http.Request) {
		status := Status{State: StateIdle}
		if cfg.Tracker != nil {
			status = cfg.Tracker.Snapshot()
		}
		writeJSON(w, http.StatusOK, status)
	})

	return r
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
