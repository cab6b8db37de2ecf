// cli/batch.go
package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gewnthar/airtraffic/export"
	"github.com/gewnthar/airtraffic/services"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	concurrency  int
	pairsFile    string
	allPairs     bool
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch [AIRLINE-AIRPORT ...]",
	Short: "Extract many airline/airport pairs in parallel",
	Long: `Batch extracts several pairs concurrently, one portal session per pair, and
writes one file per pair. Pairs without data are reported and skipped.

Example:
  airtraffic batch DL-ATL AA-DFW UA-ORD
  airtraffic batch --file pairs.txt --concurrency 4 -i --metrics Flights
  airtraffic batch --all --timeout 2h`,
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	addExtractionFlags(batchCmd)
	batchCmd.Flags().IntVar(&concurrency, "concurrency", 2, "number of concurrent workers")
	batchCmd.Flags().StringVar(&pairsFile, "file", "", "read AIRLINE-AIRPORT pairs from a file, one per line")
	batchCmd.Flags().BoolVar(&allPairs, "all", false, "every airline/airport combination in the code tables")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", time.Hour, "total timeout for batch processing")
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	a, err := newApp(ctx, useStore)
	if err != nil {
		return err
	}
	defer a.Close()
	if err := applyFormatFlag(a); err != nil {
		return err
	}

	pairs, err := collectPairs(a, args)
	if err != nil {
		return err
	}
	if len(pairs) == 0 {
		return fmt.Errorf("no pairs given: pass AIRLINE-AIRPORT arguments, --file or --all")
	}

	fmt.Fprintf(os.Stderr, "  Pairs:        %d\n", len(pairs))
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", concurrency)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", a.cfg.Output.DataDir)

	results := services.RunBatch(ctx, a.service, pairs, services.BatchOptions{
		International: international,
		Metrics:       metricNames,
		Concurrency:   concurrency,
	}, a.writeFile)

	t := export.NewTable(os.Stdout)
	t.AppendHeader(table.Row{"Pair", "Status", "Months", "Detail"})
	failed := 0
	for _, r := range results {
		switch {
		case r.Err == nil:
			t.AppendRow(table.Row{r.Pair, "ok", len(r.Dataset.Months), ""})
		case r.NoData():
			t.AppendRow(table.Row{r.Pair, "no data", 0, ""})
		default:
			failed++
			t.AppendRow(table.Row{r.Pair, "failed", 0, r.Err.Error()})
		}
	}
	t.Render()

	if failed > 0 {
		return fmt.Errorf("%d of %d pair(s) failed", failed, len(results))
	}
	return nil
}

func collectPairs(a *app, args []string) ([]services.Pair, error) {
	if allPairs {
		return services.AllPairs(a.service.Validator()), nil
	}

	values := append([]string{}, args...)
	if pairsFile != "" {
		f, err := os.Open(pairsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to open pairs file: %w", err)
		}
		defer f.Close()

		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			values = append(values, line)
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("failed to read pairs file: %w", err)
		}
	}
	return services.ParsePairs(values)
}
