package handlers

import (
	"ae-dashboard-service/internal/api/dto"
	"ae-dashboard-service/internal/dashboard"
	"ae-dashboard-service/internal/domain"
	"ae-dashboard-service/internal/platform/obs"
	"ae-dashboard-service/internal/services"
	"log"
	"net/http"
	"time"
)

const defaultBestCount = 3

type WaitTimeHandler struct {
	Dashboard *services.Dashboard
	BestCount int
}

// List serves the session's wait times, refreshing them when stale, with
// ranking, statistics and the best options.
func (h *WaitTimeHandler) List(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	st, ok := session(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	opts, err := services.ParseRankOptions(q.Get("sort"), q.Get("district"), q.Get("wait"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	snap := h.Dashboard.WaitTimes(r.Context(), st)
	writeJSON(w, r, http.StatusOK, h.buildResponse(st, snap, opts))
}

// Refresh forces a new fetch. It always succeeds: an unusable feed yields
// the fallback dataset, reported through the source field.
func (h *WaitTimeHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	st, ok := session(w, r)
	if !ok {
		return
	}

	snap := h.Dashboard.Refresh(r.Context(), st)
	writeJSON(w, r, http.StatusOK, h.buildResponse(st, snap, services.RankOptions{Sort: services.SortShortest}))
}

// Export writes the current ranking as CSV.
func (h *WaitTimeHandler) Export(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	st, ok := session(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	opts, err := services.ParseRankOptions(q.Get("sort"), q.Get("district"), q.Get("wait"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	snap := h.Dashboard.WaitTimes(r.Context(), st)
	ranked := services.Rank(services.Entries(h.Dashboard.Catalog, snap), opts)

	now := time.Now()
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="ae_wait_times_`+now.Format("20060102_1504")+`.csv"`)
	if err := services.WriteCSV(w, ranked, snap.UpdatedAt(), now); err != nil {
		log.Printf("req_id=%s export csv failed: %v", obs.RequestID(r.Context()), err)
	}
}

func (h *WaitTimeHandler) buildResponse(st *dashboard.State, snap domain.Snapshot, opts services.RankOptions) dto.WaitTimesResponse {
	entries := services.Entries(h.Dashboard.Catalog, snap)
	ranked := services.Rank(entries, opts)

	best := h.BestCount
	if best <= 0 {
		best = defaultBestCount
	}

	dropped := snap.Dropped()
	if dropped == nil {
		dropped = []string{}
	}

	return dto.WaitTimesResponse{
		Source:    string(snap.Source()),
		FetchedAt: snap.FetchedAt(),
		UpdatedAt: snap.UpdatedAt(),
		Freshness: services.Freshness(st.View().LastRefreshedAt, time.Now()),
		Sort:      string(opts.Sort),
		Entries:   waitTimeResponses(ranked),
		Best:      waitTimeResponses(services.BestOptions(entries, best)),
		Stats:     statsResponse(services.Summarize(ranked)),
		Dropped:   dropped,
	}
}
