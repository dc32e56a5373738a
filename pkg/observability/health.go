package observability

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
)

// RecordCounter reports the number of records held by the analytics engine.
// It is satisfied by the engine without this package importing it.
type RecordCounter interface {
	Counts() (sales, users, events int)
}

// HealthChecker provides health check functionality
type HealthChecker struct {
	engine  RecordCounter
	redis   *redis.Client
	version string
}

// NewHealthChecker creates a new health checker. The Redis client is
// optional; pass nil when report publishing is disabled.
func NewHealthChecker(engine RecordCounter, redisClient *redis.Client, version string) *HealthChecker {
	return &HealthChecker{
		engine:  engine,
		redis:   redisClient,
		version: version,
	}
}

// HealthStatus represents the overall health status
type HealthStatus struct {
	Status       string                      `json:"status"`
	Timestamp    time.Time                   `json:"timestamp"`
	Version      string                      `json:"version,omitempty"`
	Dependencies map[string]DependencyStatus `json:"dependencies,omitempty"`
}

// DependencyStatus represents the health of a single dependency
type DependencyStatus struct {
	Status    string  `json:"status"`
	Message   string  `json:"message,omitempty"`
	LatencyMS float64 `json:"latency_ms,omitempty"`
}

const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// Liveness returns a simple liveness probe (always returns 200 if server is running)
func (h *HealthChecker) Liveness(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    StatusHealthy,
		"timestamp": time.Now(),
	})
}

// Readiness returns a readiness probe (checks all dependencies)
func (h *HealthChecker) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := h.Check(ctx)

	w.Header().Set("Content-Type", "application/json")

	// Return 503 if unhealthy, 200 if healthy or degraded
	if status.Status == StatusUnhealthy {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}

	json.NewEncoder(w).Encode(status)
}

// Check performs a comprehensive health check
func (h *HealthChecker) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:       StatusHealthy,
		Timestamp:    time.Now(),
		Version:      h.version,
		Dependencies: make(map[string]DependencyStatus),
	}

	// Check the analytics engine
	if h.engine != nil {
		status.Dependencies["engine"] = h.checkEngine()
	}

	// Check Redis
	if h.redis != nil {
		redisStatus := h.checkRedis(ctx)
		status.Dependencies["redis"] = redisStatus
		if redisStatus.Status == StatusUnhealthy {
			// Redis only carries published reports - degraded if it is down
			status.Status = StatusDegraded
		}
	}

	return status
}

// checkEngine reports the engine's record log sizes. The engine is
// in-process, so it is healthy whenever the server is.
func (h *HealthChecker) checkEngine() DependencyStatus {
	start := time.Now()
	sales, users, events := h.engine.Counts()

	return DependencyStatus{
		Status:    StatusHealthy,
		Message:   fmt.Sprintf("%d sales, %d users, %d events", sales, users, events),
		LatencyMS: float64(time.Since(start).Microseconds()) / 1000,
	}
}

// checkRedis checks Redis health
func (h *HealthChecker) checkRedis(ctx context.Context) DependencyStatus {
	start := time.Now()
	status := DependencyStatus{
		Status: StatusHealthy,
	}

	// Ping Redis
	err := h.redis.Ping(ctx).Err()
	status.LatencyMS = float64(time.Since(start).Microseconds()) / 1000

	if err != nil {
		status.Status = StatusUnhealthy
		status.Message = err.Error()
	}

	return status
}

// RegisterHealthRoutes registers health check endpoints
func RegisterHealthRoutes(mux *http.ServeMux, checker *HealthChecker) {
	mux.HandleFunc("/health", checker.Readiness)
	mux.HandleFunc("/health/live", checker.Liveness)
	mux.HandleFunc("/health/ready", checker.Readiness)
}
