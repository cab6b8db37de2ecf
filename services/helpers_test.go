package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/gewnthar/airtraffic/config"
	"github.com/gewnthar/airtraffic/models"
)

// gridHTML renders a DataGrid1 page with a header row followed by the given
// year, month, domestic, international and total cells.
func gridHTML(rows ...[5]string) string {
	var b strings.Builder
	b.WriteString(`<html><body><table id="DataGrid1">`)
	b.WriteString(`<tr><td>Year</td><td>Month</td><td>DOMESTIC</td><td>INTERNATIONAL</td><td>TOTAL</td></tr>`)
	for _, r := range rows {
		b.WriteString("<tr>")
		for _, cell := range r {
			fmt.Fprintf(&b, "<td>%s</td>", cell)
		}
		b.WriteString("</tr>")
	}
	b.WriteString(`</table></body></html>`)
	return b.String()
}

const noDataHTML = `<html><body><p>No data available</p></body></html>`

// fakeFetcher serves canned pages keyed by "AIRLINE-AIRPORT-Metric".
type fakeFetcher struct {
	mu    sync.Mutex
	pages map[string]string
	err   error
	calls int
}

func (f *fakeFetcher) FetchDocuments(ctx context.Context, airline, airport string, additional []models.Metric) ([]models.RawDocument, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}

	metrics := append([]models.Metric{models.MetricPassengers}, additional...)
	docs := make([]models.RawDocument, 0, len(metrics))
	for _, m := range metrics {
		html, ok := f.pages[fmt.Sprintf("%s-%s-%s", airline, airport, m)]
		if !ok {
			html = noDataHTML
		}
		docs = append(docs, models.RawDocument{Airline: airline, Airport: airport, Metric: m, HTML: html})
	}
	return docs, nil
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// memoryStore records what the service persists.
type memoryStore struct {
	mu       sync.Mutex
	datasets []*models.MergedDataset
	runs     []models.ExtractionRun
}

func (s *memoryStore) SaveDataset(ctx context.Context, dataset *models.MergedDataset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.datasets = append(s.datasets, dataset)
	return nil
}

func (s *memoryStore) LogRun(ctx context.Context, run models.ExtractionRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs = append(s.runs, run)
	return nil
}

func testValidator() *Validator {
	return NewValidator(config.DefaultCodeTables())
}

var passengerRows = [][5]string{
	{"2017", "1", "400,231", "12,004", "412,235"},
	{"2017", "2", "380,100", "-", "380,100"},
	{"2017", "3", "410,950", "13,120", "424,070"},
	{"", "TOTAL", "1,191,281", "25,124", "1,216,405"},
}

var flightRows = [][5]string{
	{"2017", "1", "3,201", "101", "3,302"},
	{"2017", "2", "3,050", "99", "3,149"},
	{"2017", "3", "3,330", "104", "3,434"},
	{"", "TOTAL", "9,581", "304", "9,885"},
}
