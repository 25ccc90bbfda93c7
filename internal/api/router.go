package api

import (
	"ae-dashboard-service/internal/api/handlers"
	"ae-dashboard-service/internal/dashboard"
	"ae-dashboard-service/internal/services"
	"ae-dashboard-service/internal/web"
	"net/http"
	"time"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
// Only /api/ routes carry a dashboard session.
func NewRouter(dash *services.Dashboard, store *dashboard.Store, sessionTTL time.Duration) http.Handler {
	health := &handlers.HealthHandler{Catalog: dash.Catalog}
	hospitals := &handlers.HospitalHandler{Catalog: dash.Catalog}
	waits := &handlers.WaitTimeHandler{Dashboard: dash}
	selection := &handlers.SelectionHandler{Dashboard: dash}
	routes := &handlers.RouteHandler{Dashboard: dash}
	nearby := &handlers.NearbyHandler{Dashboard: dash}

	apiMux := http.NewServeMux()
	apiMux.HandleFunc("/api/hospitals", hospitals.Search)
	apiMux.HandleFunc("/api/hospitals/{id}", hospitals.Detail)
	apiMux.HandleFunc("/api/waittimes", waits.List)
	apiMux.HandleFunc("/api/refresh", waits.Refresh)
	apiMux.HandleFunc("/api/export.csv", waits.Export)
	apiMux.HandleFunc("/api/select", selection.Select)
	apiMux.HandleFunc("/api/state", selection.State)
	apiMux.HandleFunc("/api/route", routes.Route)
	apiMux.HandleFunc("/api/nearby", nearby.Nearest)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", health.Health)
	mux.Handle("/api/", sessionMiddleware(store, sessionTTL, apiMux))
	mux.Handle("/", web.Handler())

	return requestIDMiddleware(loggingMiddleware(mux))
}
