// models/traffic.go
package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Metric names one data series offered by the TranStats Data Elements page.
type Metric string

const (
	MetricPassengers Metric = "Passengers" // primary metric, always requested first
	MetricFlights    Metric = "Flights"
	MetricRPM        Metric = "RPM"
	MetricASM        Metric = "ASM"
)

// AdditionalMetrics lists the linked metrics that may follow the primary submission.
var AdditionalMetrics = []Metric{MetricFlights, MetricRPM, MetricASM}

// IsPrimary reports whether m is the passenger series.
func (m Metric) IsPrimary() bool {
	return m == MetricPassengers
}

// DomesticColumn is the CSV column label for the domestic values of m.
func (m Metric) DomesticColumn() string {
	return string(m) + "_Domestic"
}

// InternationalColumn is the CSV column label for the international values of m.
func (m Metric) InternationalColumn() string {
	return string(m) + "_International"
}

// TokenSet holds the hidden ASP.NET form fields captured from the landing page.
// It is created once per session and reused unchanged for every submission.
type TokenSet struct {
	EventValidation    string
	ViewState          string
	ViewStateGenerator string
}

// RawDocument is the markup returned by one form submission.
type RawDocument struct {
	Airline string
	Airport string
	Metric  Metric
	HTML    string
}

// RowRecord is one row of the DataGrid1 table, kept as text until normalized.
// Total is carried only because it is part of the row shape; it is never used.
type RowRecord struct {
	Year          string
	Month         string
	Domestic      string
	International string
	Total         string
}

// IsSummary reports whether the row is an annual TOTAL line.
func (r RowRecord) IsSummary() bool {
	return strings.TrimSpace(r.Month) == "TOTAL"
}

// MonthKey identifies a calendar month.
type MonthKey struct {
	Year  int
	Month time.Month
}

// ParseMonthKey builds a MonthKey from the table's separate year and month fields.
func ParseMonthKey(year, month string) (MonthKey, error) {
	t, err := time.Parse("2006-1", strings.TrimSpace(year)+"-"+strings.TrimSpace(month))
	if err != nil {
		return MonthKey{}, fmt.Errorf("invalid year-month %q-%q: %w", year, month, err)
	}
	return MonthKey{Year: t.Year(), Month: t.Month()}, nil
}

// Time returns the first instant of the month in UTC.
func (k MonthKey) Time() time.Time {
	return time.Date(k.Year, k.Month, 1, 0, 0, 0, 0, time.UTC)
}

// Before reports whether k is an earlier month than other.
func (k MonthKey) Before(other MonthKey) bool {
	if k.Year != other.Year {
		return k.Year < other.Year
	}
	return k.Month < other.Month
}

// String formats the key as YYYY-MM.
func (k MonthKey) String() string {
	return fmt.Sprintf("%04d-%02d", k.Year, int(k.Month))
}

// Date formats the key the way the CSV index column stores it (first of month).
func (k MonthKey) Date() string {
	return k.Time().Format("2006-01-02")
}

// Count is a nullable integer. Valid=false is the missing-value marker.
type Count struct {
	Value int64
	Valid bool
}

// Missing is the zero Count.
var Missing = Count{}

// Known wraps a present value.
func Known(v int64) Count {
	return Count{Value: v, Valid: true}
}

func (c Count) String() string {
	if !c.Valid {
		return ""
	}
	return strconv.FormatInt(c.Value, 10)
}

// MarshalJSON writes null for missing values.
func (c Count) MarshalJSON() ([]byte, error) {
	if !c.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatInt(c.Value, 10)), nil
}

func (c *Count) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*c = Missing
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid count %s: %w", s, err)
	}
	*c = Known(v)
	return nil
}

// MarshalCSV writes an empty cell for missing values.
func (c Count) MarshalCSV() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalCSV accepts integers and the empty / NaN missing markers.
func (c *Count) UnmarshalCSV(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "" || strings.EqualFold(s, "nan") {
		*c = Missing
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid count %q: %w", s, err)
	}
	*c = Known(v)
	return nil
}

// SeriesPoint is one month of one metric.
type SeriesPoint struct {
	Month         MonthKey
	Domestic      Count
	International Count
}

// MetricSeries is the normalized time series of a single metric.
// International values are meaningful only when HasInternational is set.
type MetricSeries struct {
	Metric           Metric
	HasInternational bool
	Points           []SeriesPoint
}

// MetricColumn holds one metric's values aligned on MergedDataset.Months.
type MetricColumn struct {
	Metric        Metric
	Domestic      []Count
	International []Count // nil unless the dataset includes international data
}

// MergedDataset is every requested metric aligned on the primary metric's months.
type MergedDataset struct {
	Airline       string
	Airport       string
	International bool
	Months        []MonthKey
	Columns       []MetricColumn // Columns[0] is always the primary metric
}

// Metrics returns the metric order of the dataset.
func (d *MergedDataset) Metrics() []Metric {
	out := make([]Metric, len(d.Columns))
	for i, c := range d.Columns {
		out[i] = c.Metric
	}
	return out
}

// Column looks up the values of one metric.
func (d *MergedDataset) Column(m Metric) (MetricColumn, bool) {
	for _, c := range d.Columns {
		if c.Metric == m {
			return c, true
		}
	}
	return MetricColumn{}, false
}

// Headers lists the value column labels in output order, without the Date index.
func (d *MergedDataset) Headers() []string {
	var headers []string
	for _, c := range d.Columns {
		headers = append(headers, c.Metric.DomesticColumn())
		if d.International {
			headers = append(headers, c.Metric.InternationalColumn())
		}
	}
	return headers
}

// Row returns the values of month index i in Headers order.
func (d *MergedDataset) Row(i int) []Count {
	var row []Count
	for _, c := range d.Columns {
		row = append(row, c.Domestic[i])
		if d.International {
			row = append(row, c.International[i])
		}
	}
	return row
}
