// export/table.go
package export

import (
	"io"

	"github.com/gewnthar/airtraffic/models"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// NewTable returns a rounded-style table writer that renders to w. Headers keep their case.
func NewTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	t.SetOutputMirror(w)
	return t
}

// RenderTable prints the merged dataset, one row per month. Missing values show as "-".
func RenderTable(w io.Writer, dataset *models.MergedDataset) {
	t := NewTable(w)
	t.SetTitle(dataset.Airline + "-" + dataset.Airport)

	header := table.Row{dateColumn}
	configs := []table.ColumnConfig{}
	for i, h := range dataset.Headers() {
		header = append(header, h)
		configs = append(configs, table.ColumnConfig{Number: i + 2, Align: text.AlignRight})
	}
	t.AppendHeader(header)
	t.SetColumnConfigs(configs)

	for i, month := range dataset.Months {
		row := table.Row{month.String()}
		for _, v := range dataset.Row(i) {
			if !v.Valid {
				row = append(row, "-")
				continue
			}
			row = append(row, v.Value)
		}
		t.AppendRow(row)
	}
	t.Render()
}
