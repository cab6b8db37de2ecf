// cli/runs.go
package cli

import (
	"os"
	"strings"

	"github.com/gewnthar/airtraffic/export"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var runsLimit int

// runsCmd represents the runs command
var runsCmd = &cobra.Command{
	Use:   "runs [airline] [airport]",
	Short: "Show the extraction run log stored in the database",
	Args:  cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx, true)
		if err != nil {
			return err
		}
		defer a.Close()

		var airline, airport string
		if len(args) > 0 {
			airline = strings.ToUpper(args[0])
		}
		if len(args) > 1 {
			airport = strings.ToUpper(args[1])
		}

		runs, err := a.store.ListRuns(ctx, airline, airport, runsLimit)
		if err != nil {
			return err
		}

		t := export.NewTable(os.Stdout)
		t.AppendHeader(table.Row{"ID", "Pair", "Metrics", "Intl", "Status", "Months", "Range", "Seconds", "Started"})
		for _, r := range runs {
			span := ""
			if r.FirstMonth != "" {
				span = r.FirstMonth + ".." + r.LastMonth
			}
			t.AppendRow(table.Row{
				r.ID, r.Airline + "-" + r.Airport, r.Metrics, r.International, r.Status,
				r.MonthCount, span, float64(r.DurationMS) / 1000, r.StartedAt.Format("2006-01-02 15:04"),
			})
		}
		t.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "number of runs to show")
}
