package handlers

import (
	"ae-dashboard-service/internal/api/dto"
	"ae-dashboard-service/internal/services"
	"net/http"
	"strconv"
	"strings"
)

const (
	defaultNearbyLimit = 5
	maxNearbyLimit     = 20
)

type NearbyHandler struct {
	Dashboard *services.Dashboard
}

// Nearest lists the hospitals closest to ?origin= in straight-line
// distance, with their current wait times.
func (h *NearbyHandler) Nearest(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	st, ok := session(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	limit := defaultNearbyLimit
	if v := strings.TrimSpace(q.Get("limit")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxNearbyLimit {
			writeError(w, r, http.StatusBadRequest, "limit must be between 1 and 20")
			return
		}
		limit = n
	}

	origin := strings.TrimSpace(q.Get("origin"))
	from, near, err := h.Dashboard.Nearest(r.Context(), st, origin, limit)
	if err != nil {
		writeDomainError(w, r, err, "location lookup unavailable")
		return
	}

	res := dto.NearbyResponse{
		Origin:    origin,
		OriginLat: from.Lat,
		OriginLon: from.Lon,
		Hospitals: make([]dto.NearbyHospitalResponse, 0, len(near)),
	}
	for _, n := range near {
		item := dto.NearbyHospitalResponse{
			Hospital:       hospitalResponse(n.Hospital),
			DistanceMeters: n.DistanceMeters,
		}
		if n.Record != nil {
			wt := waitTimeResponse(services.Entry{Hospital: n.Hospital, Record: *n.Record})
			item.WaitTime = &wt
		}
		res.Hospitals = append(res.Hospitals, item)
	}

	writeJSON(w, r, http.StatusOK, res)
}
