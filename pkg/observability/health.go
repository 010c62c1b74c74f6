package observability

import (
	"encoding/json"
	"net/http"
	"time"
)

// PluginSet is a named group of registered plugins, e.g. a registry
type PluginSet interface {
	Name() string
	Len() int
	IDs() []string
}

// HealthChecker reports liveness and readiness from the registered plugin sets
type HealthChecker struct {
	sets    []PluginSet
	version string
}

// NewHealthChecker creates a new health checker
func NewHealthChecker(version string, sets ...PluginSet) *HealthChecker {
	return &HealthChecker{
		sets:    sets,
		version: version,
	}
}

// HealthStatus represents the overall health status
type HealthStatus struct {
	Status    string                  `json:"status"`
	Timestamp time.Time               `json:"timestamp"`
	Version   string                  `json:"version,omitempty"`
	Plugins   map[string]PluginStatus `json:"plugins,omitempty"`
}

// PluginStatus describes one plugin set
type PluginStatus struct {
	Status string   `json:"status"`
	Count  int      `json:"count"`
	IDs    []string `json:"ids,omitempty"`
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

// Readiness returns 503 when no plugin set has any plugins registered
func (h *HealthChecker) Readiness(w http.ResponseWriter, r *http.Request) {
	status := h.Check()

	w.Header().Set("Content-Type", "application/json")
	if status.Status == StatusUnhealthy {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}

	json.NewEncoder(w).Encode(status)
}

// Check builds the current health status. A set with no plugins is
// degraded; the whole is unhealthy only when every set is empty.
func (h *HealthChecker) Check() HealthStatus {
	status := HealthStatus{
		Status:    StatusHealthy,
		Timestamp: time.Now(),
		Version:   h.version,
		Plugins:   make(map[string]PluginStatus, len(h.sets)),
	}

	empty := 0
	for _, set := range h.sets {
		ps := PluginStatus{Status: StatusHealthy, Count: set.Len(), IDs: set.IDs()}
		if ps.Count == 0 {
			ps.Status = StatusDegraded
			empty++
		}
		status.Plugins[set.Name()] = ps
	}

	switch {
	case len(h.sets) > 0 && empty == len(h.sets):
		status.Status = StatusUnhealthy
	case empty > 0:
		status.Status = StatusDegraded
	}

	return status
}
