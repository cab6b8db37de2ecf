// scraper/table_parser.go
package scraper

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gewnthar/airtraffic/models"
)

const (
	dataGridSelector = "#DataGrid1"
	rowFieldCount    = 5 // year, month, domestic, international, total
)

// ParseTable extracts the data rows of the DataGrid1 table from one submission response.
// The header row and annual TOTAL rows are removed. A response without the table is a
// *models.NoDataError: the portal has nothing for that airline/airport combination.
func ParseTable(raw models.RawDocument) ([]models.RowRecord, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw.HTML))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s response HTML: %w", raw.Metric, err)
	}

	grid := doc.Find(dataGridSelector).First()
	if grid.Length() == 0 {
		return nil, &models.NoDataError{Airline: raw.Airline, Airport: raw.Airport, Metric: raw.Metric}
	}

	var cells [][]string
	grid.Find("tr").Each(func(i int, tr *goquery.Selection) {
		var fields []string
		tr.Find("td").Each(func(j int, td *goquery.Selection) {
			fields = append(fields, strings.TrimSpace(td.Text()))
		})
		cells = append(cells, fields)
	})
	if len(cells) == 0 {
		return nil, nil
	}

	// First row is the column header.
	var rows []models.RowRecord
	kept := 0
	for _, fields := range cells[1:] {
		if len(fields) < rowFieldCount {
			return nil, &models.MalformedRowError{
				Metric: raw.Metric,
				Row:    kept,
				Reason: fmt.Sprintf("expected %d fields, got %d", rowFieldCount, len(fields)),
			}
		}
		row := models.RowRecord{
			Year:          fields[0],
			Month:         fields[1],
			Domestic:      fields[2],
			International: fields[3],
			Total:         fields[4],
		}
		if !row.IsSummary() {
			kept++
		}
		rows = append(rows, row)
	}

	return FilterSummaryRows(rows), nil
}

// FilterSummaryRows returns a new slice without the annual TOTAL rows.
func FilterSummaryRows(rows []models.RowRecord) []models.RowRecord {
	kept := make([]models.RowRecord, 0, len(rows))
	for _, row := range rows {
		if row.IsSummary() {
			continue
		}
		kept = append(kept, row)
	}
	return kept
}
