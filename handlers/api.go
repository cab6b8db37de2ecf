// handlers/api.go
package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gewnthar/airtraffic/config"
	"github.com/gewnthar/airtraffic/models"
	"github.com/gewnthar/airtraffic/services"
	gocache "github.com/patrickmn/go-cache"
)

// Extractor runs one extraction.
type Extractor interface {
	Validate(req services.ExtractionRequest) (services.ExtractionRequest, []models.Metric, error)
	Extract(ctx context.Context, req services.ExtractionRequest) (*models.MergedDataset, error)
}

// DatasetReader is the read side of the database store.
type DatasetReader interface {
	Ping(ctx context.Context) error
	LoadDataset(ctx context.Context, airline, airport string) (*models.MergedDataset, error)
	ListRuns(ctx context.Context, airline, airport string, limit int) ([]models.ExtractionRun, error)
}

// API holds the dependencies of the HTTP handlers.
type API struct {
	extractor Extractor
	codes     config.CodeTables
	store     DatasetReader // nil when the database is disabled
	refresher Refresher     // nil without a refresh schedule
	cache     *gocache.Cache
}

// NewAPI builds the handlers. Extraction responses are cached for ttl.
func NewAPI(extractor Extractor, codes config.CodeTables, store DatasetReader, refresher Refresher, ttl time.Duration) *API {
	return &API{
		extractor: extractor,
		codes:     codes,
		store:     store,
		refresher: refresher,
		cache:     gocache.New(ttl, 2*ttl),
	}
}

// Routes registers every endpoint on mux.
func (a *API) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/api/health", a.HealthHandler)
	mux.HandleFunc("/api/codes", a.CodesHandler)
	mux.HandleFunc("/api/traffic", a.TrafficHandler)
	mux.HandleFunc("/api/traffic/", a.StoredTrafficHandler) // Path ends with / to catch sub-paths
	mux.HandleFunc("/api/admin/runs", a.ListRunsHandler)
	mux.HandleFunc("/api/admin/refresh", a.ForceRefreshHandler)
}

// HealthHandler serves GET /api/health.
func (a *API) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if a.store != nil {
		if err := a.store.Ping(r.Context()); err != nil {
			respondWithJSON(w, http.StatusInternalServerError, map[string]string{
				"status":  "error",
				"message": fmt.Sprintf("database connection error: %v", err),
			})
			return
		}
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok", "message": "airtraffic is healthy"})
}
