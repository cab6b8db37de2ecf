// export/csv.go
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/gewnthar/airtraffic/models"
	"github.com/jszwec/csvutil"
)

const dateColumn = "Date"

// WriteCSV writes one row per month: a Date index column (first of month) then the
// dataset's {Metric}_Domestic / {Metric}_International columns. Missing values are
// written as empty cells.
func WriteCSV(w io.Writer, dataset *models.MergedDataset) error {
	cw := csv.NewWriter(w)

	header := append([]string{dateColumn}, dataset.Headers()...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	record := make([]string, len(header))
	for i, month := range dataset.Months {
		record = record[:0]
		record = append(record, month.Date())
		for _, v := range dataset.Row(i) {
			cell, err := v.MarshalCSV()
			if err != nil {
				return fmt.Errorf("failed to encode %s value: %w", month, err)
			}
			record = append(record, string(cell))
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row %s: %w", month, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a file written by WriteCSV back into a dataset. The metric
// columns present in the header decide which metrics the dataset carries.
func ReadCSV(r io.Reader, airline, airport string) (*models.MergedDataset, error) {
	decoder, err := csvutil.NewDecoder(csv.NewReader(r))
	if err != nil {
		return nil, fmt.Errorf("failed to create CSV decoder: %w", err)
	}

	present := make(map[string]bool)
	for _, h := range decoder.Header() {
		present[h] = true
	}
	if !present[dateColumn] {
		return nil, fmt.Errorf("CSV has no %s column", dateColumn)
	}

	dataset := &models.MergedDataset{Airline: airline, Airport: airport}
	var metrics []models.Metric
	for _, m := range append([]models.Metric{models.MetricPassengers}, models.AdditionalMetrics...) {
		if present[m.DomesticColumn()] {
			metrics = append(metrics, m)
			if present[m.InternationalColumn()] {
				dataset.International = true
			}
		}
	}
	if len(metrics) == 0 || metrics[0] != models.MetricPassengers {
		return nil, fmt.Errorf("CSV has no %s column", models.MetricPassengers.DomesticColumn())
	}

	var rows []models.CSVRow
	if err := decoder.Decode(&rows); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to decode CSV data: %w", err)
	}

	for _, m := range metrics {
		dataset.Columns = append(dataset.Columns, models.MetricColumn{Metric: m})
	}
	for i, row := range rows {
		t, err := time.Parse("2006-01-02", row.Date)
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid date %q: %w", i, row.Date, err)
		}
		dataset.Months = append(dataset.Months, models.MonthKey{Year: t.Year(), Month: t.Month()})
		for c := range dataset.Columns {
			dom, intl := row.Values(dataset.Columns[c].Metric)
			dataset.Columns[c].Domestic = append(dataset.Columns[c].Domestic, dom)
			if dataset.International {
				dataset.Columns[c].International = append(dataset.Columns[c].International, intl)
			}
		}
	}
	return dataset, nil
}
