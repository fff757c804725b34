// Package http serves the MarketPulse JSON API: feed URLs, headlines,
// dashboard reports and exports, plus health and metrics endpoints.
package http

import (
	"context"
	"net/http"
	"time"

	"marketpulse/internal/handler/http/respond"
)

// Health states.
const (
	statusHealthy   = "healthy"
	statusDegraded  = "degraded"
	statusUnhealthy = "unhealthy"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// BreakerReporter reports whether an upstream circuit breaker is open.
type BreakerReporter interface {
	BreakerOpen() bool
}

// HealthResponse is the body of /health.
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp string                 `json:"timestamp"`
	Checks    map[string]CheckStatus `json:"checks"`
	Version   string                 `json:"version"`
}

// CheckStatus is the result of one health check.
type CheckStatus struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// HealthHandler reports cache reachability and the feed circuit breaker.
// An open breaker degrades the service but does not make it unhealthy:
// requests still answer, with empty article lists.
type HealthHandler struct {
	Version string
	// Cache is optional; nil means caching is disabled.
	Cache Pinger
	// Feed is optional.
	Feed BreakerReporter
}

// ServeHTTP answers 200 unless a required dependency is down.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	checks := make(map[string]CheckStatus)
	status := statusHealthy

	if h.Cache == nil {
		checks["cache"] = CheckStatus{Status: statusHealthy, Message: "disabled"}
	} else if err := h.Cache.Ping(ctx); err != nil {
		checks["cache"] = CheckStatus{Status: statusUnhealthy, Message: "cache unreachable"}
		status = statusUnhealthy
	} else {
		checks["cache"] = CheckStatus{Status: statusHealthy}
	}

	if h.Feed != nil {
		if h.Feed.BreakerOpen() {
			checks["feed"] = CheckStatus{Status: statusDegraded, Message: "circuit breaker open"}
			if status == statusHealthy {
				status = statusDegraded
			}
		} else {
			checks["feed"] = CheckStatus{Status: statusHealthy}
		}
	}

	code := http.StatusOK
	if status == statusUnhealthy {
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	respond.JSON(w, code, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Version:   h.Version,
	})
}

// ReadyHandler is the readiness probe: ready once the cache answers.
type ReadyHandler struct {
	Cache Pinger
}

// ServeHTTP answers 200 "ready" or 503.
func (h *ReadyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if h.Cache != nil {
		if err := h.Cache.Ping(ctx); err != nil {
			http.Error(w, "cache not ready", http.StatusServiceUnavailable)
			return
		}
	}
	writeText(w, "ready")
}

// LiveHandler is the liveness probe.
type LiveHandler struct{}

// ServeHTTP always answers 200 "alive".
func (h *LiveHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	writeText(w, "alive")
}

func writeText(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}
