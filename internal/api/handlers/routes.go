package handlers

import (
	"ae-dashboard-service/internal/api/dto"
	"ae-dashboard-service/internal/services"
	"net/http"
)

type RouteHandler struct {
	Dashboard *services.Dashboard
}

// Route plans a trip from the given origin to a hospital. An empty
// hospital_id routes to the session's selected hospital.
func (h *RouteHandler) Route(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	st, ok := session(w, r)
	if !ok {
		return
	}

	var req dto.RouteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.Dashboard.PlanRoute(r.Context(), st, req.Origin, req.HospitalID, req.Mode)
	if err != nil {
		writeDomainError(w, r, err, "route unavailable")
		return
	}

	name := ""
	if hosp, ok := h.Dashboard.Catalog.Get(res.HospitalID); ok {
		name = hosp.Name
	}

	writeJSON(w, r, http.StatusOK, routeResponse(res, name))
}
