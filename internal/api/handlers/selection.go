package handlers

import (
	"ae-dashboard-service/internal/api/dto"
	"ae-dashboard-service/internal/dashboard"
	"ae-dashboard-service/internal/services"
	"net/http"
	"strings"
	"time"
)

type SelectionHandler struct {
	Dashboard *services.Dashboard
}

// Select records the hospital the user is looking at.
func (h *SelectionHandler) Select(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	st, ok := session(w, r)
	if !ok {
		return
	}

	var req dto.SelectRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if strings.TrimSpace(req.HospitalID) == "" {
		writeError(w, r, http.StatusBadRequest, "hospital_id is required")
		return
	}

	if _, err := h.Dashboard.SelectHospital(st, req.HospitalID); err != nil {
		writeDomainError(w, r, err, "selection unavailable")
		return
	}

	h.writeState(w, r, st)
}

// State reports the session: selection, last refresh and current route.
func (h *SelectionHandler) State(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	st, ok := session(w, r)
	if !ok {
		return
	}

	h.writeState(w, r, st)
}

func (h *SelectionHandler) writeState(w http.ResponseWriter, r *http.Request, st *dashboard.State) {
	v := st.View()
	res := dto.StateResponse{
		Freshness: services.Freshness(v.LastRefreshedAt, time.Now()),
		Source:    string(v.Snapshot.Source()),
	}

	if hosp, ok := h.Dashboard.Catalog.Get(v.SelectedHospitalID); ok {
		hr := hospitalResponse(hosp)
		res.SelectedHospital = &hr
	}

	if !v.LastRefreshedAt.IsZero() {
		at := v.LastRefreshedAt
		res.LastRefreshedAt = &at
	}

	if v.Route != nil {
		name := ""
		if hosp, ok := h.Dashboard.Catalog.Get(v.Route.HospitalID); ok {
			name = hosp.Name
		}
		rr := routeResponse(v.Route, name)
		res.Route = &rr
	}

	writeJSON(w, r, http.StatusOK, res)
}
