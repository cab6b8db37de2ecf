// export/json.go
package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/gewnthar/airtraffic/models"
)

// BuildJSONRecords flattens a dataset into one record per month. The passenger
// series fills "flights"; additional metrics, if any, go under "metrics".
func BuildJSONRecords(dataset *models.MergedDataset) []models.JSONRecord {
	records := make([]models.JSONRecord, len(dataset.Months))
	for i, month := range dataset.Months {
		rec := models.JSONRecord{
			Airport: dataset.Airport,
			Courier: dataset.Airline,
			Year:    month.Year,
			Month:   int(month.Month),
		}
		for c, col := range dataset.Columns {
			values := models.MonthlyFlights{Domestic: col.Domestic[i]}
			if dataset.International {
				intl := col.International[i]
				values.International = &intl
			}
			if c == 0 {
				rec.Flights = values
				continue
			}
			if rec.Metrics == nil {
				rec.Metrics = make(map[models.Metric]models.MonthlyFlights)
			}
			rec.Metrics[col.Metric] = values
		}
		records[i] = rec
	}
	return records
}

// WriteJSON writes the records of a dataset as an indented JSON array.
func WriteJSON(w io.Writer, dataset *models.MergedDataset) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(BuildJSONRecords(dataset)); err != nil {
		return fmt.Errorf("failed to encode JSON records: %w", err)
	}
	return nil
}
