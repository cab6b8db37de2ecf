package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/gewnthar/airtraffic/config"
	"github.com/gewnthar/airtraffic/models"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	cfg := config.DatabaseConfig{
		Enabled: true,
		Driver:  config.DriverSQLite,
		Path:    filepath.Join(t.TempDir(), "nested", "traffic.db"),
	}
	db, err := Open(cfg)
	require.NoError(t, err)

	store := NewStore(db, cfg.Driver)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.EnsureSchema(context.Background()))
	return store
}

func testDataset(airline string, international bool) *models.MergedDataset {
	ds := &models.MergedDataset{
		Airline:       airline,
		Airport:       "ATL",
		International: international,
		Months: []models.MonthKey{
			{Year: 2016, Month: time.December},
			{Year: 2017, Month: time.January},
			{Year: 2017, Month: time.February},
		},
		Columns: []models.MetricColumn{
			{Metric: models.MetricPassengers, Domestic: []models.Count{models.Known(400231), models.Missing, models.Known(410950)}},
			{Metric: models.MetricASM, Domestic: []models.Count{models.Known(9), models.Known(8), models.Known(7)}},
		},
	}
	if international {
		ds.Columns[0].International = []models.Count{models.Known(1), models.Known(2), models.Missing}
		ds.Columns[1].International = []models.Count{models.Missing, models.Known(5), models.Known(6)}
	}
	return ds
}

func TestOpenUnsupportedDriver(t *testing.T) {
	_, err := Open(config.DatabaseConfig{Driver: "postgres"})
	assert.Error(t, err)
}

func TestEnsureSchemaIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.EnsureSchema(context.Background()))
	require.NoError(t, store.Ping(context.Background()))
}

func TestSaveAndLoadDataset(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, international := range []bool{false, true} {
		original := testDataset("DL", international)
		require.NoError(t, store.SaveDataset(ctx, original))

		loaded, err := store.LoadDataset(ctx, "DL", "ATL")
		require.NoError(t, err)
		if diff := cmp.Diff(original, loaded); diff != "" {
			t.Fatalf("loaded dataset mismatch, international=%t (-want +got):\n%s", international, diff)
		}
	}
}

func TestSaveDatasetReplacesPair(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveDataset(ctx, testDataset("DL", true)))
	require.NoError(t, store.SaveDataset(ctx, testDataset("AA", false)))

	smaller := testDataset("DL", false)
	smaller.Months = smaller.Months[:1]
	smaller.Columns = []models.MetricColumn{{Metric: models.MetricPassengers, Domestic: []models.Count{models.Known(1)}}}
	require.NoError(t, store.SaveDataset(ctx, smaller))

	loaded, err := store.LoadDataset(ctx, "DL", "ATL")
	require.NoError(t, err)
	assert.Len(t, loaded.Months, 1)
	assert.Equal(t, []models.Metric{models.MetricPassengers}, loaded.Metrics())

	other, err := store.LoadDataset(ctx, "AA", "ATL")
	require.NoError(t, err)
	assert.Len(t, other.Months, 3)
}

func TestLoadDatasetNotStored(t *testing.T) {
	store := newTestStore(t)
	_, err := store.LoadDataset(context.Background(), "UA", "SFO")
	assert.True(t, errors.Is(err, ErrNotStored))
}

func TestLogAndListRuns(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	started := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	finished := started.Add(1500 * time.Millisecond)
	require.NoError(t, store.LogRun(ctx, models.ExtractionRun{
		Airline: "DL", Airport: "ATL", Metrics: "Passengers,Flights", International: true,
		Status: models.RunStatusOK, MonthCount: 3, FirstMonth: "2016-12", LastMonth: "2017-02",
		DurationMS: 1500, StartedAt: started, FinishedAt: &finished,
	}))
	require.NoError(t, store.LogRun(ctx, models.ExtractionRun{
		Airline: "VX", Airport: "MDW", Metrics: "Passengers",
		Status: models.RunStatusNoData, Message: "no Passengers data exists", StartedAt: started,
	}))

	runs, err := store.ListRuns(ctx, "", "", 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "VX", runs[0].Airline)
	assert.Equal(t, models.RunStatusNoData, runs[0].Status)
	assert.Nil(t, runs[0].FinishedAt)

	first := runs[1]
	assert.Equal(t, "Passengers,Flights", first.Metrics)
	assert.True(t, first.International)
	assert.Equal(t, "2016-12", first.FirstMonth)
	assert.True(t, started.Equal(first.StartedAt), "started_at %s", first.StartedAt)
	require.NotNil(t, first.FinishedAt)
	assert.True(t, finished.Truncate(time.Second).Equal(*first.FinishedAt))

	filtered, err := store.ListRuns(ctx, "DL", "ATL", 10)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, models.RunStatusOK, filtered[0].Status)

	limited, err := store.ListRuns(ctx, "", "", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}
