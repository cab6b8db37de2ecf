// services/normalizer.go
package services

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/gewnthar/airtraffic/models"
	"github.com/gewnthar/airtraffic/scraper"
)

// ParseCount converts a table cell such as "400,231" to a Count. Anything that
// is not an integer once thousands separators are removed (the portal uses "-"
// for missing figures) becomes the missing marker.
func ParseCount(text string) models.Count {
	cleaned := strings.ReplaceAll(strings.TrimSpace(text), ",", "")
	v, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil {
		return models.Missing
	}
	return models.Known(v)
}

// BuildMonthIndex turns each row's year and month fields into a MonthKey.
func BuildMonthIndex(metric models.Metric, rows []models.RowRecord) ([]models.MonthKey, error) {
	index := make([]models.MonthKey, 0, len(rows))
	for i, row := range rows {
		key, err := models.ParseMonthKey(row.Year, row.Month)
		if err != nil {
			return nil, &models.MalformedRowError{Metric: metric, Row: i, Reason: err.Error()}
		}
		index = append(index, key)
	}
	return index, nil
}

// BuildSeries normalizes the filtered rows of one metric. International values are
// read only when requested; the total column is never read.
func BuildSeries(metric models.Metric, rows []models.RowRecord, international bool) (models.MetricSeries, error) {
	index, err := BuildMonthIndex(metric, rows)
	if err != nil {
		return models.MetricSeries{}, err
	}

	series := models.MetricSeries{
		Metric:           metric,
		HasInternational: international,
		Points:           make([]models.SeriesPoint, len(rows)),
	}
	missing := 0
	for i, row := range rows {
		point := models.SeriesPoint{
			Month:    index[i],
			Domestic: ParseCount(row.Domestic),
		}
		if !point.Domestic.Valid {
			missing++
		}
		if international {
			point.International = ParseCount(row.International)
			if !point.International.Valid {
				missing++
			}
		}
		series.Points[i] = point
	}

	if missing > 0 {
		log.Printf("Service: %s series has %d missing values across %d months\n", metric, missing, len(rows))
	}
	return series, nil
}

// NormalizeDocument parses one raw response all the way to a MetricSeries.
func NormalizeDocument(raw models.RawDocument, international bool) (models.MetricSeries, error) {
	rows, err := scraper.ParseTable(raw)
	if err != nil {
		return models.MetricSeries{}, err
	}
	series, err := BuildSeries(raw.Metric, rows, international)
	if err != nil {
		return models.MetricSeries{}, fmt.Errorf("failed to normalize %s table: %w", raw.Metric, err)
	}
	return series, nil
}
