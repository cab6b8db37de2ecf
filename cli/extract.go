// cli/extract.go
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/gewnthar/airtraffic/export"
	"github.com/gewnthar/airtraffic/services"
	"github.com/spf13/cobra"
)

var (
	international bool
	metricNames   []string
	outputFormat  string
	noFile        bool
	useStore      bool
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract <airline> <airport>",
	Short: "Extract monthly traffic for one airline at one airport",
	Long: `Extract opens a form session on the portal, requests passenger counts and any
additional metrics, merges them by month and writes
<data_dir>/<Airline_Name>/<AIRLINE>-<AIRPORT>.<format>, replacing any earlier file.

Airport codes may be given in ICAO form (KATL). "All" selects every carrier or airport.

Example:
  airtraffic extract DL ATL
  airtraffic extract B6 JFK -i --metrics Flights,ASM --format json
  airtraffic extract UA SFO --no-file`,
	Args: cobra.ExactArgs(2),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	addExtractionFlags(extractCmd)
	extractCmd.Flags().BoolVar(&noFile, "no-file", false, "print the merged table instead of writing a file")
}

// addExtractionFlags registers the flags extract and batch share.
func addExtractionFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&international, "international", "i", false, "include international columns")
	cmd.Flags().StringSliceVar(&metricNames, "metrics", nil, "additional metrics: Flights, RPM, ASM (comma separated)")
	cmd.Flags().StringVar(&outputFormat, "format", "", "output format: csv or json (default from config)")
	cmd.Flags().BoolVar(&useStore, "store", false, "also save results to the database")
}

func runExtract(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := newApp(ctx, useStore)
	if err != nil {
		return err
	}
	defer a.Close()
	if err := applyFormatFlag(a); err != nil {
		return err
	}

	dataset, err := a.service.Extract(ctx, services.ExtractionRequest{
		Airline:       args[0],
		Airport:       args[1],
		International: international,
		Metrics:       metricNames,
	})
	if err != nil {
		return err
	}

	if noFile {
		export.RenderTable(os.Stdout, dataset)
		return nil
	}

	path, err := export.WriteDatasetFile(a.cfg.Output, a.cfg.Codes, dataset)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "✓ Wrote %d months to %s\n", len(dataset.Months), path)
	return nil
}

func applyFormatFlag(a *app) error {
	switch outputFormat {
	case "":
	case export.FormatCSV, export.FormatJSON:
		a.cfg.Output.Format = outputFormat
	default:
		return fmt.Errorf("unknown output format %q, use csv or json", outputFormat)
	}
	return nil
}
