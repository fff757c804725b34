package http

import "net/http"

// Routes holds the handlers mounted by Register.
type Routes struct {
	API    *APIHandler
	Health *HealthHandler
	Ready  *ReadyHandler
}

// Register mounts every endpoint on mux.
func Register(mux *http.ServeMux, routes Routes) {
	mux.HandleFunc("GET /api/feed-url", routes.API.FeedURL)
	mux.HandleFunc("GET /api/headlines", routes.API.Headlines)
	mux.HandleFunc("GET /api/dashboard", routes.API.DashboardReport)
	mux.HandleFunc("GET /api/export", routes.API.Export)
	mux.HandleFunc("GET /api/presets", routes.API.PresetsHandler)

	mux.Handle("GET /health", routes.Health)
	mux.Handle("GET /ready", routes.Ready)
	mux.Handle("GET /live", &LiveHandler{})
	mux.Handle("GET /metrics", MetricsHandler())
}
