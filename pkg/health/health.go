package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// Checker reports whether a dependency is usable.
type Checker func(ctx context.Context) error

// Status is the health of a component or of the whole process.
type Status string

const (
	StatusUp       Status = "up"
	StatusDegraded Status = "degraded"
	StatusDown     Status = "down"
)

// Response is the JSON body returned by the health endpoints.
type Response struct {
	Status    Status                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckResult `json:"checks,omitempty"`
}

// CheckResult is the result of a single check.
type CheckResult struct {
	Status   Status `json:"status"`
	Optional bool   `json:"optional,omitempty"`
	Error    string `json:"error,omitempty"`
}

type check struct {
	fn       Checker
	optional bool
}

// Handler serves liveness and readiness endpoints.
type Handler struct {
	mu      sync.RWMutex
	checks  map[string]check
	timeout time.Duration
	now     func() time.Time
}

// NewHandler creates a health handler with a 5 second readiness budget.
func NewHandler() *Handler {
	return &Handler{
		checks:  make(map[string]check),
		timeout: 5 * time.Second,
		now:     time.Now,
	}
}

// Register adds a check that must pass for the process to be ready.
func (h *Handler) Register(name string, fn Checker) {
	h.register(name, fn, false)
}

// RegisterOptional adds a check whose failure marks the process degraded
// but still ready. The session store is required; the event bus and the
// assistant upstream are optional.
func (h *Handler) RegisterOptional(name string, fn Checker) {
	h.register(name, fn, true)
}

func (h *Handler) register(name string, fn Checker, optional bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks[name] = check{fn: fn, optional: optional}
}

// LivenessHandler returns 200 while the process is running.
func (h *Handler) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, Response{Status: StatusUp, Timestamp: h.now().UTC()})
	}
}

// ReadinessHandler runs every registered check concurrently and returns 503
// if any required check fails.
func (h *Handler) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := h.Check(r.Context())
		status := http.StatusOK
		if resp.Status == StatusDown {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, resp)
	}
}

// Check runs all registered checks and aggregates them.
func (h *Handler) Check(ctx context.Context) Response {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	h.mu.RLock()
	checks := make(map[string]check, len(h.checks))
	for k, v := range h.checks {
		checks[k] = v
	}
	h.mu.RUnlock()

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make(map[string]CheckResult, len(checks))
	)
	for name, c := range checks {
		wg.Add(1)
		go func(name string, c check) {
			defer wg.Done()
			res := CheckResult{Status: StatusUp, Optional: c.optional}
			if err := c.fn(ctx); err != nil {
				res.Status = StatusDown
				res.Error = err.Error()
			}
			mu.Lock()
			results[name] = res
			mu.Unlock()
		}(name, c)
	}
	wg.Wait()

	overall := StatusUp
	for _, res := range results {
		if res.Status != StatusDown {
			continue
		}
		if !res.Optional {
			overall = StatusDown
			break
		}
		overall = StatusDegraded
	}

	return Response{Status: overall, Timestamp: h.now().UTC(), Checks: results}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
