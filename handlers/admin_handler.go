// handlers/admin_handler.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gewnthar/airtraffic/models"
)

// Refresher re-extracts the configured pairs on demand.
type Refresher interface {
	RefreshNow(ctx context.Context) (int, error)
}

// Helper to respond with JSON
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Error marshalling JSON response: %v", err)
		http.Error(w, `{"error":"Failed to marshal JSON response"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// Helper to respond with an error
func respondWithError(w http.ResponseWriter, code int, message string) {
	log.Printf("API Error %d: %s", code, message)
	respondWithJSON(w, code, map[string]string{"error": message})
}

// statusForError maps extraction faults to HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrNoData):
		return http.StatusNotFound
	case errors.Is(err, models.ErrProtocol),
		errors.Is(err, models.ErrMalformedRow),
		errors.Is(err, models.ErrAlignment):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// ListRunsHandler serves GET /api/admin/runs?airline=DL&airport=ATL&limit=20.
func (a *API) ListRunsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondWithError(w, http.StatusMethodNotAllowed, "Only GET method is allowed")
		return
	}
	if a.store == nil {
		respondWithError(w, http.StatusServiceUnavailable, "Database is not enabled")
		return
	}

	q := r.URL.Query()
	limit := 0
	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid limit '%s'", s))
			return
		}
		limit = n
	}

	runs, err := a.store.ListRuns(r.Context(), q.Get("airline"), q.Get("airport"), limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to list extraction runs: %v", err))
		return
	}
	if runs == nil {
		runs = []models.ExtractionRun{}
	}
	respondWithJSON(w, http.StatusOK, runs)
}

// ForceRefreshHandler serves POST /api/admin/refresh: re-extracts the scheduled pairs now.
func (a *API) ForceRefreshHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondWithError(w, http.StatusMethodNotAllowed, "Only POST method is allowed")
		return
	}
	if a.refresher == nil {
		respondWithError(w, http.StatusServiceUnavailable, "No refresh schedule is configured")
		return
	}

	failed, err := a.refresher.RefreshNow(r.Context())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Refresh finished with errors: %v", err))
		return
	}
	a.cache.Flush()
	respondWithJSON(w, http.StatusOK, map[string]interface{}{"message": "Refresh completed", "failed": failed})
}
