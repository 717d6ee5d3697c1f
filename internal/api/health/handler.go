package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"strategist/internal/domain/signal"
	"strategist/pkg/logger"
)

// AgentProber reports reachability of every configured specialist agent.
type AgentProber interface {
	CheckAgents(ctx context.Context) map[signal.AgentKey]error
}

// Handler provides health check endpoints
type Handler struct {
	log         *logger.Logger
	prober      AgentProber
	startTime   time.Time
	serviceName string
	version     string
}

// New creates a new health check handler
func New(log *logger.Logger, prober AgentProber, serviceName, version string) *Handler {
	return &Handler{
		log:         log,
		prober:      prober,
		startTime:   time.Now(),
		serviceName: serviceName,
		version:     version,
	}
}

// HealthStatus represents the overall health status
type HealthStatus struct {
	Status    string                     `json:"status"` // "healthy", "degraded", "unhealthy"
	Service   string                     `json:"service"`
	Version   string                     `json:"version"`
	Uptime    string                     `json:"uptime"`
	Timestamp string                     `json:"timestamp"`
	Checks    map[string]ComponentHealth `json:"checks"`
}

// ComponentHealth represents health of a single component
type ComponentHealth struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// HandleLiveness returns 200 OK if service is running
// Used by Kubernetes liveness probe
func (h *Handler) HandleLiveness(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status": "alive",
	})
}

// HandleReadiness checks that every specialist agent answers its card
// endpoint. Used by Kubernetes readiness probe.
func (h *Handler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks, healthy, total := h.probeAgents(ctx)

	status := HealthStatus{
		Status:    "healthy",
		Service:   h.serviceName,
		Version:   h.version,
		Uptime:    time.Since(h.startTime).String(),
		Timestamp: time.Now().Format(time.RFC3339),
		Checks:    checks,
	}

	statusCode := http.StatusOK
	if healthy < total {
		status.Status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
		h.log.Warnf("readiness check failed: %d/%d agents reachable", healthy, total)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(status)
}

// HandleHealth returns detailed health status. Unlike readiness, a subset of
// reachable agents reports degraded rather than unhealthy, since synthesis
// tolerates missing specialists.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	checks, healthy, total := h.probeAgents(ctx)

	status := HealthStatus{
		Status:    "healthy",
		Service:   h.serviceName,
		Version:   h.version,
		Uptime:    time.Since(h.startTime).String(),
		Timestamp: time.Now().Format(time.RFC3339),
		Checks:    checks,
	}

	statusCode := http.StatusOK
	if healthy == 0 && total > 0 {
		status.Status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	} else if healthy < total {
		status.Status = "degraded"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(status)
}

func (h *Handler) probeAgents(ctx context.Context) (map[string]ComponentHealth, int, int) {
	results := h.prober.CheckAgents(ctx)

	checks := make(map[string]ComponentHealth, len(results))
	healthy := 0
	for key, err := range results {
		if err != nil {
			h.log.Warnf("%s agent health check failed: %v", key, err)
			checks[key.String()] = ComponentHealth{Status: "unhealthy", Error: err.Error()}
			continue
		}
		checks[key.String()] = ComponentHealth{Status: "healthy"}
		healthy++
	}
	return checks, healthy, len(results)
}
