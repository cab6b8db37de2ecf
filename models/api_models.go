// models/api_models.go
package models

// TrafficRequest is the JSON body for POST /api/traffic.
type TrafficRequest struct {
	Airline       string   `json:"airline"`       // e.g. "DL"
	Airport       string   `json:"airport"`       // e.g. "ATL" or "KATL"
	International bool     `json:"international"` // include international columns
	Metrics       []string `json:"metrics"`       // additional metrics: "Flights", "RPM", "ASM"
}

// CodesResponse is returned by GET /api/codes.
type CodesResponse struct {
	Airlines          map[string]string `json:"airlines"` // code -> display name
	Airports          []string          `json:"airports"`
	AdditionalMetrics []Metric          `json:"additional_metrics"`
}
