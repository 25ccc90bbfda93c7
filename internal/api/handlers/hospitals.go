package handlers

import (
	"ae-dashboard-service/internal/api/dto"
	"ae-dashboard-service/internal/catalog"
	"ae-dashboard-service/internal/services"
	"net/http"
	"strings"
)

type HospitalHandler struct {
	Catalog *catalog.Catalog
}

// Search lists catalog hospitals matching ?q=; no term lists them all.
func (h *HospitalHandler) Search(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	q := strings.TrimSpace(r.URL.Query().Get("q"))
	found := h.Catalog.Search(q)

	res := dto.ListHospitalResponse{
		Query:     q,
		Hospitals: make([]dto.HospitalResponse, 0, len(found)),
	}
	for _, hosp := range found {
		res.Hospitals = append(res.Hospitals, hospitalResponse(hosp))
	}

	writeJSON(w, r, http.StatusOK, res)
}

// Detail returns one hospital with its wait time from the session's
// current snapshot. It never triggers a refresh.
func (h *HospitalHandler) Detail(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	st, ok := session(w, r)
	if !ok {
		return
	}

	hosp, ok := h.Catalog.Get(r.PathValue("id"))
	if !ok {
		writeError(w, r, http.StatusNotFound, "unknown hospital")
		return
	}

	v := st.View()
	res := dto.HospitalDetailResponse{
		Hospital: hospitalResponse(hosp),
		Selected: v.SelectedHospitalID == hosp.ID,
	}
	if rec, ok := v.Snapshot.Record(hosp.ID); ok {
		wt := waitTimeResponse(services.Entry{Hospital: hosp, Record: rec})
		res.WaitTime = &wt
	}

	writeJSON(w, r, http.StatusOK, res)
}
