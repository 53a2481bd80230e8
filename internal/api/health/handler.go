package health

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"sentinel/pkg/logger"

	redisadapter "sentinel/internal/adapters/redis"
)

// Handler provides health check endpoints
type Handler struct {
	log         *logger.Logger
	storagePath string
	recordStore string // "airtable" or "mock"
	model       string // model name or "mock"
	redis       *redisadapter.Client
	startTime   time.Time
	serviceName string
	version     string
}

// New creates a new health check handler. redis may be nil when the
// distributed rate limiter is disabled.
func New(
	log *logger.Logger,
	storagePath string,
	recordStore string,
	model string,
	redis *redisadapter.Client,
	serviceName string,
	version string,
) *Handler {
	return &Handler{
		log:         log,
		storagePath: storagePath,
		recordStore: recordStore,
		model:       model,
		redis:       redis,
		startTime:   time.Now(),
		serviceName: serviceName,
		version:     version,
	}
}

// HealthStatus represents the overall health status
type HealthStatus struct {
	Status      string                     `json:"status"` // "healthy", "degraded", "unhealthy"
	Service     string                     `json:"service"`
	Version     string                     `json:"version"`
	Uptime      string                     `json:"uptime"`
	Timestamp   string                     `json:"timestamp"`
	RecordStore string                     `json:"record_store"`
	Model       string                     `json:"model"`
	Checks      map[string]ComponentHealth `json:"checks"`
}

// ComponentHealth represents health of a single component
type ComponentHealth struct {
	Status       string `json:"status"`
	ResponseTime string `json:"response_time,omitempty"`
	Error        string `json:"error,omitempty"`
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

// HandleReadiness checks if service is ready to accept traffic
// Used by Kubernetes readiness probe
func (h *Handler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks, allHealthy := h.runChecks(ctx)

	status := h.buildStatus(checks)
	statusCode := http.StatusOK
	if !allHealthy {
		status.Status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
		h.log.Warnw("Readiness check failed", "checks", checks)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(status)
}

// HandleHealth returns detailed health status (includes all checks)
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	checks, allHealthy := h.runChecks(ctx)

	status := h.buildStatus(checks)
	statusCode := http.StatusOK
	if !allHealthy {
		status.Status = "degraded"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(status)
}

func (h *Handler) buildStatus(checks map[string]ComponentHealth) HealthStatus {
	return HealthStatus{
		Status:      "healthy",
		Service:     h.serviceName,
		Version:     h.version,
		Uptime:      time.Since(h.startTime).String(),
		Timestamp:   time.Now().Format(time.RFC3339),
		RecordStore: h.recordStore,
		Model:       h.model,
		Checks:      checks,
	}
}

func (h *Handler) runChecks(ctx context.Context) (map[string]ComponentHealth, bool) {
	checks := make(map[string]ComponentHealth)
	allHealthy := true

	storageHealth := h.checkStorage()
	checks["storage"] = storageHealth
	if storageHealth.Status != "healthy" {
		allHealthy = false
	}

	if h.redis != nil {
		redisHealth := h.checkRedis(ctx)
		checks["redis"] = redisHealth
		if redisHealth.Status != "healthy" {
			allHealthy = false
		}
	}

	return checks, allHealthy
}

// checkStorage verifies the upload directory is writable.
func (h *Handler) checkStorage() ComponentHealth {
	start := time.Now()
	probe := filepath.Join(h.storagePath, ".healthcheck")

	err := os.WriteFile(probe, []byte("ok"), 0o644)
	if err == nil {
		err = os.Remove(probe)
	}
	elapsed := time.Since(start)

	if err != nil {
		h.log.Errorw("Storage health check failed", "error", err, "elapsed", elapsed)
		return ComponentHealth{
			Status:       "unhealthy",
			ResponseTime: elapsed.String(),
			Error:        err.Error(),
		}
	}

	return ComponentHealth{
		Status:       "healthy",
		ResponseTime: elapsed.String(),
	}
}

// checkRedis verifies Redis connectivity
func (h *Handler) checkRedis(ctx context.Context) ComponentHealth {
	start := time.Now()
	err := h.redis.Health(ctx)
	elapsed := time.Since(start)

	if err != nil {
		h.log.Errorw("Redis health check failed", "error", err, "elapsed", elapsed)
		return ComponentHealth{
			Status:       "unhealthy",
			ResponseTime: elapsed.String(),
			Error:        err.Error(),
		}
	}

	return ComponentHealth{
		Status:       "healthy",
		ResponseTime: elapsed.String(),
	}
}
