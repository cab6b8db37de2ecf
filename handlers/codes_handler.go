// handlers/codes_handler.go
package handlers

import (
	"net/http"

	"github.com/gewnthar/airtraffic/models"
	"github.com/gewnthar/airtraffic/utils"
)

// CodesHandler serves GET /api/codes: the airline and airport codes the portal accepts.
func (a *API) CodesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondWithError(w, http.StatusMethodNotAllowed, "Only GET method is allowed")
		return
	}

	airlines := make(map[string]string, len(a.codes.Airlines))
	for code, name := range a.codes.Airlines {
		airlines[code] = utils.DisplayName(name)
	}
	respondWithJSON(w, http.StatusOK, models.CodesResponse{
		Airlines:          airlines,
		Airports:          a.codes.Airports,
		AdditionalMetrics: models.AdditionalMetrics,
	})
}
