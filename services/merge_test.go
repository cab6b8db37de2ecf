package services

import (
	"testing"
	"time"

	"github.com/gewnthar/airtraffic/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func month(year int, m time.Month) models.MonthKey {
	return models.MonthKey{Year: year, Month: m}
}

func series(metric models.Metric, points ...models.SeriesPoint) models.MetricSeries {
	return models.MetricSeries{Metric: metric, HasInternational: true, Points: points}
}

func point(k models.MonthKey, dom, intl int64) models.SeriesPoint {
	return models.SeriesPoint{Month: k, Domestic: models.Known(dom), International: models.Known(intl)}
}

func TestMergeSeriesSortsMonths(t *testing.T) {
	primary := series(models.MetricPassengers,
		point(month(2017, time.February), 20, 2),
		point(month(2016, time.December), 10, 1),
		point(month(2017, time.January), 15, 1),
	)
	flights := series(models.MetricFlights,
		point(month(2017, time.January), 150, 11),
		point(month(2017, time.February), 200, 12),
		point(month(2016, time.December), 100, 10),
	)

	ds, err := MergeSeries("DL", "ATL", true, primary, flights)
	require.NoError(t, err)

	require.Len(t, ds.Months, 3)
	for i := 1; i < len(ds.Months); i++ {
		assert.True(t, ds.Months[i-1].Before(ds.Months[i]), "months not strictly increasing at %d", i)
	}
	assert.Equal(t, []models.Metric{models.MetricPassengers, models.MetricFlights}, ds.Metrics())

	col, ok := ds.Column(models.MetricFlights)
	require.True(t, ok)
	assert.Equal(t, []models.Count{models.Known(100), models.Known(150), models.Known(200)}, col.Domestic)
	assert.Equal(t, []models.Count{models.Known(10), models.Known(11), models.Known(12)}, col.International)

	assert.Equal(t, []string{
		"Passengers_Domestic", "Passengers_International",
		"Flights_Domestic", "Flights_International",
	}, ds.Headers())
}

func TestMergeSeriesDomesticOnly(t *testing.T) {
	primary := series(models.MetricPassengers, point(month(2017, time.January), 1, 2))
	ds, err := MergeSeries("DL", "ATL", false, primary)
	require.NoError(t, err)
	assert.Equal(t, []string{"Passengers_Domestic"}, ds.Headers())
	assert.Nil(t, ds.Columns[0].International)
}

func TestMergeSeriesLengthMismatch(t *testing.T) {
	primary := series(models.MetricPassengers,
		point(month(2017, time.January), 1, 0),
		point(month(2017, time.February), 2, 0),
	)
	short := series(models.MetricRPM, point(month(2017, time.January), 9, 0))

	_, err := MergeSeries("DL", "ATL", false, primary, short)
	require.ErrorIs(t, err, models.ErrAlignment)

	var aerr *models.AlignmentError
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, models.MetricRPM, aerr.Metric)
}

func TestMergeSeriesMonthMismatch(t *testing.T) {
	primary := series(models.MetricPassengers,
		point(month(2017, time.January), 1, 0),
		point(month(2017, time.February), 2, 0),
	)
	shifted := series(models.MetricASM,
		point(month(2017, time.February), 1, 0),
		point(month(2017, time.March), 2, 0),
	)
	_, err := MergeSeries("DL", "ATL", false, primary, shifted)
	require.ErrorIs(t, err, models.ErrAlignment)
	assert.Contains(t, err.Error(), "2017-01")
}

func TestMergeSeriesDuplicateMonth(t *testing.T) {
	primary := series(models.MetricPassengers,
		point(month(2017, time.January), 1, 0),
		point(month(2017, time.January), 2, 0),
	)
	_, err := MergeSeries("DL", "ATL", false, primary)
	require.ErrorIs(t, err, models.ErrMalformedRow)
}

func TestMergeSeriesDuplicateInAdditional(t *testing.T) {
	primary := series(models.MetricPassengers,
		point(month(2017, time.January), 1, 0),
		point(month(2017, time.February), 2, 0),
	)
	dup := series(models.MetricFlights,
		point(month(2017, time.January), 1, 0),
		point(month(2017, time.January), 2, 0),
	)
	_, err := MergeSeries("DL", "ATL", false, primary, dup)
	require.ErrorIs(t, err, models.ErrAlignment)
}

func TestMergeSeriesRequiresPrimaryFirst(t *testing.T) {
	_, err := MergeSeries("DL", "ATL", false, series(models.MetricFlights))
	require.Error(t, err)
}
