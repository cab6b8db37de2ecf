// services/batch.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/gewnthar/airtraffic/models"
)

// Pair is one airline/airport combination.
type Pair struct {
	Airline string
	Airport string
}

func (p Pair) String() string {
	return p.Airline + "-" + p.Airport
}

// ParsePair reads "DL-ATL" style pairs.
func ParsePair(s string) (Pair, error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Pair{}, fmt.Errorf("invalid pair %q, expected AIRLINE-AIRPORT", s)
	}
	return Pair{Airline: parts[0], Airport: parts[1]}, nil
}

// ParsePairs parses a list of pairs, failing on the first bad entry.
func ParsePairs(values []string) ([]Pair, error) {
	pairs := make([]Pair, 0, len(values))
	for _, v := range values {
		p, err := ParsePair(v)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, p)
	}
	return pairs, nil
}

// AllPairs returns every airline/airport combination of the code tables,
// skipping the "All" rows.
func AllPairs(v *Validator) []Pair {
	codes := v.Codes()
	var pairs []Pair
	for _, airline := range codes.AirlineCodes() {
		if airline == "All" {
			continue
		}
		for _, airport := range codes.Airports {
			if airport == "All" {
				continue
			}
			pairs = append(pairs, Pair{Airline: airline, Airport: airport})
		}
	}
	return pairs
}

// BatchOptions apply to every pair of a batch.
type BatchOptions struct {
	International bool
	Metrics       []string
	Concurrency   int
}

// BatchResult is the outcome of one pair.
type BatchResult struct {
	Pair    Pair
	Dataset *models.MergedDataset
	Err     error
}

// NoData reports whether the pair simply has no data on the portal.
func (r BatchResult) NoData() bool {
	return errors.Is(r.Err, models.ErrNoData)
}

// DatasetSink receives each successfully extracted dataset, e.g. to write a file.
type DatasetSink func(*models.MergedDataset) error

// RunBatch extracts many pairs with a bounded number of workers. Each extraction
// opens its own portal session, so runs share no state. A failing pair never stops
// the others; results come back in input order.
func RunBatch(ctx context.Context, svc *ExtractionService, pairs []Pair, opts BatchOptions, sink DatasetSink) []BatchResult {
	workers := opts.Concurrency
	if workers <= 0 {
		workers = 1
	}

	results := make([]BatchResult, len(pairs))
	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = runPair(ctx, svc, pairs[i], opts, sink)
			}
		}()
	}

	for i := range pairs {
		select {
		case <-ctx.Done():
			results[i] = BatchResult{Pair: pairs[i], Err: ctx.Err()}
			continue
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	ok, noData, failed := 0, 0, 0
	for _, r := range results {
		switch {
		case r.Err == nil:
			ok++
		case r.NoData():
			noData++
		default:
			failed++
		}
	}
	log.Printf("Service: Batch finished: %d ok, %d without data, %d failed\n", ok, noData, failed)
	return results
}

func runPair(ctx context.Context, svc *ExtractionService, pair Pair, opts BatchOptions, sink DatasetSink) BatchResult {
	result := BatchResult{Pair: pair}
	if err := ctx.Err(); err != nil {
		result.Err = err
		return result
	}

	dataset, err := svc.Extract(ctx, ExtractionRequest{
		Airline:       pair.Airline,
		Airport:       pair.Airport,
		International: opts.International,
		Metrics:       opts.Metrics,
	})
	if err != nil {
		if errors.Is(err, models.ErrNoData) {
			log.Printf("WARN Service: %s has no data, skipping\n", pair)
		} else {
			log.Printf("ERROR Service: %s failed: %v\n", pair, err)
		}
		result.Err = err
		return result
	}

	result.Dataset = dataset
	if sink != nil {
		if err := sink(dataset); err != nil {
			result.Err = fmt.Errorf("failed to write %s: %w", pair, err)
		}
	}
	return result
}
