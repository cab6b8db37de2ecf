// services/merge.go
package services

import (
	"fmt"
	"log"
	"sort"

	"github.com/gewnthar/airtraffic/models"
)

// MergeSeries aligns every additional metric on the primary metric's months.
//
// The join is on the calendar month, not on row position. An additional series
// with a different number of months, or with any month the primary series lacks,
// is an *models.AlignmentError; nothing is null-filled. Months come out in
// increasing order and a month repeated within one series is a malformed table.
func MergeSeries(airline, airport string, international bool, primary models.MetricSeries, additional ...models.MetricSeries) (*models.MergedDataset, error) {
	if !primary.Metric.IsPrimary() {
		return nil, fmt.Errorf("merge needs the %s series first, got %s", models.MetricPassengers, primary.Metric)
	}

	points, err := sortedPoints(primary)
	if err != nil {
		return nil, err
	}

	dataset := &models.MergedDataset{
		Airline:       airline,
		Airport:       airport,
		International: international,
		Months:        make([]models.MonthKey, len(points)),
	}
	for i, p := range points {
		dataset.Months[i] = p.Month
	}
	dataset.Columns = append(dataset.Columns, column(primary.Metric, points, international))

	for _, series := range additional {
		byMonth := make(map[models.MonthKey]models.SeriesPoint, len(series.Points))
		for _, p := range series.Points {
			byMonth[p.Month] = p
		}
		if len(series.Points) != len(points) || len(byMonth) != len(series.Points) {
			return nil, &models.AlignmentError{
				Metric: series.Metric,
				Reason: fmt.Sprintf("%d rows (%d distinct months) against %d", len(series.Points), len(byMonth), len(points)),
			}
		}

		aligned := make([]models.SeriesPoint, len(points))
		for i, month := range dataset.Months {
			p, ok := byMonth[month]
			if !ok {
				return nil, &models.AlignmentError{
					Metric: series.Metric,
					Reason: fmt.Sprintf("no row for %s", month),
				}
			}
			aligned[i] = p
		}
		dataset.Columns = append(dataset.Columns, column(series.Metric, aligned, international))
	}

	log.Printf("Service: Merged %d metric(s) for %s-%s over %d months\n", len(dataset.Columns), airline, airport, len(dataset.Months))
	return dataset, nil
}

// sortedPoints copies the series points ordered by month and rejects repeats.
func sortedPoints(series models.MetricSeries) ([]models.SeriesPoint, error) {
	points := make([]models.SeriesPoint, len(series.Points))
	copy(points, series.Points)
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Month.Before(points[j].Month)
	})
	for i := 1; i < len(points); i++ {
		if points[i].Month == points[i-1].Month {
			return nil, &models.MalformedRowError{
				Metric: series.Metric,
				Row:    i,
				Reason: fmt.Sprintf("month %s appears more than once", points[i].Month),
			}
		}
	}
	return points, nil
}

func column(metric models.Metric, points []models.SeriesPoint, international bool) models.MetricColumn {
	col := models.MetricColumn{
		Metric:   metric,
		Domestic: make([]models.Count, len(points)),
	}
	if international {
		col.International = make([]models.Count, len(points))
	}
	for i, p := range points {
		col.Domestic[i] = p.Domestic
		if international {
			col.International[i] = p.International
		}
	}
	return col
}
