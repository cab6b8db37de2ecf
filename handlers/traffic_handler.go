// handlers/traffic_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/gewnthar/airtraffic/database"
	"github.com/gewnthar/airtraffic/export"
	"github.com/gewnthar/airtraffic/models"
	"github.com/gewnthar/airtraffic/services"
	gocache "github.com/patrickmn/go-cache"
)

// TrafficHandler handles live extraction requests.
// Expects POST to /api/traffic
// with JSON body: {"airline": "DL", "airport": "ATL", "international": true, "metrics": ["Flights"]}
func (a *API) TrafficHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondWithError(w, http.StatusMethodNotAllowed, "Only POST method is allowed")
		return
	}

	var body models.TrafficRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	defer r.Body.Close()

	req, metrics, err := a.extractor.Validate(services.ExtractionRequest{
		Airline:       body.Airline,
		Airport:       body.Airport,
		International: body.International,
		Metrics:       body.Metrics,
	})
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	key := cacheKey(req, metrics)
	if cached, found := a.cache.Get(key); found {
		log.Printf("Handler: Serving %s from cache\n", key)
		respondWithJSON(w, http.StatusOK, cached)
		return
	}

	log.Printf("Handler: Received traffic request for %s-%s\n", req.Airline, req.Airport)
	dataset, err := a.extractor.Extract(r.Context(), req)
	if err != nil {
		respondWithError(w, statusForError(err), fmt.Sprintf("Failed to extract traffic: %v", err))
		return
	}

	records := export.BuildJSONRecords(dataset)
	a.cache.Set(key, records, gocache.DefaultExpiration)
	respondWithJSON(w, http.StatusOK, records)
}

// StoredTrafficHandler serves GET /api/traffic/{airline}/{airport} from the database.
func (a *API) StoredTrafficHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondWithError(w, http.StatusMethodNotAllowed, "Only GET method is allowed")
		return
	}
	if a.store == nil {
		respondWithError(w, http.StatusServiceUnavailable, "Database is not enabled")
		return
	}

	pathParts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	// pathParts: ["api", "traffic", "{airline}", "{airport}"]
	if len(pathParts) != 4 {
		respondWithError(w, http.StatusBadRequest, "Invalid path. Expected /api/traffic/{airline}/{airport}")
		return
	}

	req, _, err := a.extractor.Validate(services.ExtractionRequest{Airline: pathParts[2], Airport: pathParts[3]})
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	dataset, err := a.store.LoadDataset(r.Context(), req.Airline, req.Airport)
	if errors.Is(err, database.ErrNotStored) {
		respondWithError(w, http.StatusNotFound, fmt.Sprintf("No stored traffic for %s-%s", req.Airline, req.Airport))
		return
	}
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load traffic: %v", err))
		return
	}
	respondWithJSON(w, http.StatusOK, export.BuildJSONRecords(dataset))
}

func cacheKey(req services.ExtractionRequest, metrics []models.Metric) string {
	names := make([]string, len(metrics))
	for i, m := range metrics {
		names[i] = string(m)
	}
	return fmt.Sprintf("%s|%s|%t|%s", req.Airline, req.Airport, req.International, strings.Join(names, ","))
}
