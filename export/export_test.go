package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gewnthar/airtraffic/config"
	"github.com/gewnthar/airtraffic/models"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset(international bool) *models.MergedDataset {
	ds := &models.MergedDataset{
		Airline:       "DL",
		Airport:       "ATL",
		International: international,
		Months: []models.MonthKey{
			{Year: 2016, Month: time.December},
			{Year: 2017, Month: time.January},
		},
		Columns: []models.MetricColumn{
			{Metric: models.MetricPassengers, Domestic: []models.Count{models.Known(400231), models.Known(380100)}},
			{Metric: models.MetricFlights, Domestic: []models.Count{models.Known(3201), models.Missing}},
		},
	}
	if international {
		ds.Columns[0].International = []models.Count{models.Missing, models.Known(12004)}
		ds.Columns[1].International = []models.Count{models.Known(101), models.Known(99)}
	}
	return ds
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleDataset(false)))

	expected := "Date,Passengers_Domestic,Flights_Domestic\n" +
		"2016-12-01,400231,3201\n" +
		"2017-01-01,380100,\n"
	assert.Equal(t, expected, buf.String())
}

func TestCSVRoundTrip(t *testing.T) {
	for _, international := range []bool{false, true} {
		original := sampleDataset(international)

		var buf bytes.Buffer
		require.NoError(t, WriteCSV(&buf, original))

		parsed, err := ReadCSV(&buf, "DL", "ATL")
		require.NoError(t, err)
		if diff := cmp.Diff(original, parsed); diff != "" {
			t.Fatalf("round trip mismatch, international=%t (-want +got):\n%s", international, diff)
		}
	}
}

func TestReadCSVAcceptsNaN(t *testing.T) {
	in := "Date,Passengers_Domestic\n2017-01-01,NaN\n2017-02-01,17\n"
	ds, err := ReadCSV(strings.NewReader(in), "DL", "ATL")
	require.NoError(t, err)
	assert.Equal(t, []models.Count{models.Missing, models.Known(17)}, ds.Columns[0].Domestic)
	assert.False(t, ds.International)
}

func TestReadCSVRejectsForeignFiles(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("Month,Passengers_Domestic\nx,1\n"), "DL", "ATL")
	assert.Error(t, err)

	_, err = ReadCSV(strings.NewReader("Date,Flights_Domestic\n2017-01-01,1\n"), "DL", "ATL")
	assert.Error(t, err)

	_, err = ReadCSV(strings.NewReader("Date,Passengers_Domestic\nJanuary,1\n"), "DL", "ATL")
	assert.Error(t, err)
}

func TestBuildJSONRecordsDomesticOnly(t *testing.T) {
	ds := sampleDataset(false)
	ds.Columns = ds.Columns[:1]

	data, err := json.Marshal(BuildJSONRecords(ds))
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"airport":"ATL","courier":"DL","year":2016,"month":12,"flights":{"domestic":400231}},
		{"airport":"ATL","courier":"DL","year":2017,"month":1,"flights":{"domestic":380100}}
	]`, string(data))
}

func TestBuildJSONRecordsWithMetrics(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleDataset(true)))

	assert.JSONEq(t, `[
		{"airport":"ATL","courier":"DL","year":2016,"month":12,
		 "flights":{"domestic":400231,"international":null},
		 "metrics":{"Flights":{"domestic":3201,"international":101}}},
		{"airport":"ATL","courier":"DL","year":2017,"month":1,
		 "flights":{"domestic":380100,"international":12004},
		 "metrics":{"Flights":{"domestic":null,"international":99}}}
	]`, buf.String())
}

func TestOutputPath(t *testing.T) {
	codes := config.DefaultCodeTables()

	path, err := OutputPath("aviation_data", codes, "B6", "JFK", FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("aviation_data", "JetBlue_Airways", "B6-JFK.csv"), path)

	_, err = OutputPath("aviation_data", codes, "ZZ", "JFK", FormatCSV)
	assert.Error(t, err)
}

func TestWriteDatasetFileOverwrites(t *testing.T) {
	dir := t.TempDir()
	cfg := config.OutputConfig{DataDir: dir, Format: FormatCSV}
	codes := config.DefaultCodeTables()

	stale := filepath.Join(dir, "Delta_Airlines", "DL-ATL.csv")
	require.NoError(t, os.MkdirAll(filepath.Dir(stale), 0755))
	require.NoError(t, os.WriteFile(stale, []byte("old contents that are longer than the new file will be......................................................"), 0644))

	path, err := WriteDatasetFile(cfg, codes, sampleDataset(false))
	require.NoError(t, err)
	assert.Equal(t, stale, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "Date,Passengers_Domestic"))
	assert.NotContains(t, string(data), "old contents")
}

func TestWriteDatasetFileUnknownFormat(t *testing.T) {
	dir := t.TempDir()
	_, err := WriteDatasetFile(config.OutputConfig{DataDir: dir, Format: "xml"}, config.DefaultCodeTables(), sampleDataset(false))
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	RenderTable(&buf, sampleDataset(true))

	out := buf.String()
	assert.Contains(t, out, "DL-ATL")
	assert.Contains(t, out, "Passengers_International")
	assert.Contains(t, out, "Date")
	assert.NotContains(t, out, "PASSENGERS_DOMESTIC")
	assert.Contains(t, out, "2017-01")
	assert.Contains(t, out, "400231")
}
