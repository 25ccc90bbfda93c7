package handlers

import (
	"ae-dashboard-service/internal/catalog"
	"net/http"
)

type HealthHandler struct {
	Catalog *catalog.Catalog
}

// Health provides a minimal liveness check endpoint.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	res := map[string]any{"status": "ok", "hospitals": h.Catalog.Len()}
	writeJSON(w, r, http.StatusOK, res)
}
