// services/extraction_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gewnthar/airtraffic/models"
)

// DocumentFetcher retrieves the raw responses for one airline/airport pair:
// the passenger response first, then one per additional metric in order.
type DocumentFetcher interface {
	FetchDocuments(ctx context.Context, airline, airport string, additional []models.Metric) ([]models.RawDocument, error)
}

// DatasetStore persists merged datasets and the run log.
type DatasetStore interface {
	SaveDataset(ctx context.Context, dataset *models.MergedDataset) error
	LogRun(ctx context.Context, run models.ExtractionRun) error
}

// ExtractionRequest is one airline/airport query.
type ExtractionRequest struct {
	Airline       string
	Airport       string
	International bool
	Metrics       []string // additional metrics: "Flights", "RPM", "ASM"
}

// ExtractionService runs validate -> fetch -> normalize -> merge for one pair.
type ExtractionService struct {
	validator *Validator
	fetcher   DocumentFetcher
	store     DatasetStore // optional
}

// NewExtractionService wires the pipeline. store may be nil.
func NewExtractionService(validator *Validator, fetcher DocumentFetcher, store DatasetStore) *ExtractionService {
	return &ExtractionService{
		validator: validator,
		fetcher:   fetcher,
		store:     store,
	}
}

// Validator returns the code validator used by the service.
func (s *ExtractionService) Validator() *Validator {
	return s.validator
}

// Validate normalizes the request codes without touching the network.
func (s *ExtractionService) Validate(req ExtractionRequest) (ExtractionRequest, []models.Metric, error) {
	airline, err := s.validator.Airline(req.Airline)
	if err != nil {
		return req, nil, err
	}
	airport, err := s.validator.Airport(req.Airport)
	if err != nil {
		return req, nil, err
	}
	metrics, err := s.validator.Metrics(req.Metrics)
	if err != nil {
		return req, nil, err
	}
	req.Airline, req.Airport = airline, airport
	return req, metrics, nil
}

// Extract returns the merged monthly dataset for the request. Validation faults are
// returned before any request is sent; no-data, protocol, malformed-row and
// alignment faults abort the whole extraction.
func (s *ExtractionService) Extract(ctx context.Context, req ExtractionRequest) (*models.MergedDataset, error) {
	req, metrics, err := s.Validate(req)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	log.Printf("Service: Extracting %s for %s-%s (international: %t)\n",
		metricList(metrics), req.Airline, req.Airport, req.International)

	dataset, err := s.extract(ctx, req, metrics)
	elapsed := time.Since(start)

	if err != nil {
		s.logRun(ctx, req, metrics, nil, err, start, elapsed)
		return nil, fmt.Errorf("extraction for %s-%s failed: %w", req.Airline, req.Airport, err)
	}

	log.Printf("Service: Requests completed in %.2f seconds\n", elapsed.Seconds())

	if s.store != nil {
		if err := s.store.SaveDataset(ctx, dataset); err != nil {
			err = fmt.Errorf("failed to store dataset for %s-%s: %w", req.Airline, req.Airport, err)
			s.logRun(ctx, req, metrics, nil, err, start, elapsed)
			return nil, err
		}
	}
	s.logRun(ctx, req, metrics, dataset, nil, start, elapsed)
	return dataset, nil
}

func (s *ExtractionService) extract(ctx context.Context, req ExtractionRequest, metrics []models.Metric) (*models.MergedDataset, error) {
	docs, err := s.fetcher.FetchDocuments(ctx, req.Airline, req.Airport, metrics)
	if err != nil {
		return nil, err
	}
	if len(docs) != len(metrics)+1 {
		return nil, fmt.Errorf("expected %d responses, got %d", len(metrics)+1, len(docs))
	}

	expected := append([]models.Metric{models.MetricPassengers}, metrics...)
	all := make([]models.MetricSeries, len(docs))
	for i, doc := range docs {
		if doc.Metric == "" {
			doc.Metric = expected[i]
		}
		if doc.Metric != expected[i] {
			return nil, fmt.Errorf("response %d is %s, expected %s", i, doc.Metric, expected[i])
		}
		if doc.Airline == "" {
			doc.Airline, doc.Airport = req.Airline, req.Airport
		}
		series, err := NormalizeDocument(doc, req.International)
		if err != nil {
			return nil, err
		}
		all[i] = series
	}

	return MergeSeries(req.Airline, req.Airport, req.International, all[0], all[1:]...)
}

func (s *ExtractionService) logRun(ctx context.Context, req ExtractionRequest, metrics []models.Metric, dataset *models.MergedDataset, runErr error, start time.Time, elapsed time.Duration) {
	if s.store == nil {
		return
	}

	finished := start.Add(elapsed).UTC()
	run := models.ExtractionRun{
		Airline:       req.Airline,
		Airport:       req.Airport,
		Metrics:       metricList(metrics),
		International: req.International,
		Status:        models.RunStatusOK,
		DurationMS:    elapsed.Milliseconds(),
		StartedAt:     start.UTC(),
		FinishedAt:    &finished,
	}
	switch {
	case errors.Is(runErr, models.ErrNoData):
		run.Status = models.RunStatusNoData
		run.Message = runErr.Error()
	case runErr != nil:
		run.Status = models.RunStatusFailed
		run.Message = runErr.Error()
	case dataset != nil:
		run.MonthCount = len(dataset.Months)
		if n := len(dataset.Months); n > 0 {
			run.FirstMonth = dataset.Months[0].String()
			run.LastMonth = dataset.Months[n-1].String()
		}
	}

	if err := s.store.LogRun(ctx, run); err != nil {
		log.Printf("ERROR Service: Failed to record extraction run for %s-%s: %v\n", req.Airline, req.Airport, err)
	}
}

// metricList renders the metrics of a run, primary first: "Passengers,Flights".
func metricList(additional []models.Metric) string {
	names := []string{string(models.MetricPassengers)}
	for _, m := range additional {
		names = append(names, string(m))
	}
	return strings.Join(names, ",")
}
