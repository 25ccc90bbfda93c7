package handlers

import (
	"ae-dashboard-service/internal/dashboard"
	"ae-dashboard-service/internal/domain"
	"ae-dashboard-service/internal/platform/obs"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode failed: req_id=%s method=%s path=%s err=%v", obs.RequestID(r.Context()), r.Method, r.URL.Path, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// allowMethod writes a 405 and reports false when r uses another method.
func allowMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	return false
}

// decodeJSON reads exactly one JSON object from the body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return false
	}
	return true
}

func session(w http.ResponseWriter, r *http.Request) (*dashboard.State, bool) {
	st, ok := dashboard.FromContext(r.Context())
	if !ok {
		log.Printf("req_id=%s no session on request path=%s", obs.RequestID(r.Context()), r.URL.Path)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return nil, false
	}
	return st, true
}

// writeDomainError maps the shared error categories to HTTP statuses.
// Upstream failures are logged and reported as unavailable without detail.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error, unavailable string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "unknown hospital")
	case errors.Is(err, domain.ErrInput):
		writeError(w, r, http.StatusBadRequest, err.Error())
	default:
		log.Printf("req_id=%s %s: %v", obs.RequestID(r.Context()), unavailable, err)
		writeError(w, r, http.StatusBadGateway, unavailable)
	}
}
