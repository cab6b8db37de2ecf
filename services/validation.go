// services/validation.go
package services

import (
	"github.com/antzucaro/matchr"
	"github.com/gewnthar/airtraffic/config"
	"github.com/gewnthar/airtraffic/models"
	"github.com/gewnthar/airtraffic/utils"
)

// suggestionThreshold is the minimum Jaro-Winkler similarity for a "did you mean" hint.
const suggestionThreshold = 0.7

// Validator checks request codes against the configured code tables.
type Validator struct {
	codes config.CodeTables
}

func NewValidator(codes config.CodeTables) *Validator {
	return &Validator{codes: codes}
}

// Codes exposes the tables the validator was built with.
func (v *Validator) Codes() config.CodeTables {
	return v.codes
}

// Airline normalizes and checks an airline code.
func (v *Validator) Airline(code string) (string, error) {
	normalized := utils.NormalizeAirlineCode(code)
	if _, ok := v.codes.AirlineName(normalized); ok {
		return normalized, nil
	}
	return "", &models.ValidationError{
		Field:      "airline",
		Value:      code,
		Suggestion: closest(normalized, v.codes.AirlineCodes()),
	}
}

// Airport normalizes (including ICAO "K" prefixes) and checks an airport code.
func (v *Validator) Airport(code string) (string, error) {
	normalized := utils.NormalizeAirportCode(code)
	if v.codes.HasAirport(normalized) {
		return normalized, nil
	}
	return "", &models.ValidationError{
		Field:      "airport",
		Value:      code,
		Suggestion: closest(normalized, v.codes.Airports),
	}
}

// Metrics checks the additional metric names. Order is preserved and each metric
// may appear once; Passengers is implicit and rejected here.
func (v *Validator) Metrics(names []string) ([]models.Metric, error) {
	allowed := make([]string, len(models.AdditionalMetrics))
	for i, m := range models.AdditionalMetrics {
		allowed[i] = string(m)
	}

	seen := make(map[models.Metric]bool)
	metrics := make([]models.Metric, 0, len(names))
	for _, name := range names {
		metric := models.Metric(name)
		known := false
		for _, m := range models.AdditionalMetrics {
			if metric == m {
				known = true
				break
			}
		}
		if !known {
			return nil, &models.ValidationError{
				Field:      "metric",
				Value:      name,
				Suggestion: closest(name, allowed),
			}
		}
		if seen[metric] {
			return nil, &models.ValidationError{Field: "metric", Value: name + " (duplicate)"}
		}
		seen[metric] = true
		metrics = append(metrics, metric)
	}
	return metrics, nil
}

// closest returns the candidate most similar to value, or "" when nothing is close.
func closest(value string, candidates []string) string {
	best := ""
	var similarity float64
	for _, c := range candidates {
		sim := matchr.JaroWinkler(value, c, false)
		if sim > similarity {
			similarity = sim
			best = c
		}
	}
	if similarity < suggestionThreshold {
		return ""
	}
	return best
}
