// services/scheduler.go
package services

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/robfig/cron/v3"
)

// RefreshScheduler re-extracts a fixed list of pairs on a cron schedule so the
// store keeps the latest monthly figures.
type RefreshScheduler struct {
	svc   *ExtractionService
	pairs []Pair
	opts  BatchOptions
	sink  DatasetSink

	cron *cron.Cron
	mu   sync.Mutex // one refresh at a time
}

// NewRefreshScheduler registers spec (standard 5-field cron syntax) for the pairs.
func NewRefreshScheduler(svc *ExtractionService, spec string, pairs []Pair, opts BatchOptions, sink DatasetSink) (*RefreshScheduler, error) {
	if len(pairs) == 0 {
		return nil, fmt.Errorf("refresh schedule %q has no pairs", spec)
	}

	s := &RefreshScheduler{
		svc:   svc,
		pairs: pairs,
		opts:  opts,
		sink:  sink,
		cron: cron.New(
			cron.WithLogger(cron.PrintfLogger(log.New(os.Stdout, "Scheduler: ", log.LstdFlags))),
		),
	}
	if _, err := s.cron.AddFunc(spec, func() {
		if _, err := s.RefreshNow(context.Background()); err != nil {
			log.Printf("ERROR Service: Scheduled refresh failed: %v\n", err)
		}
	}); err != nil {
		return nil, fmt.Errorf("invalid refresh schedule %q: %w", spec, err)
	}
	return s, nil
}

// Start runs the schedule in the background.
func (s *RefreshScheduler) Start() {
	log.Printf("Service: Refresh of %d pair(s) scheduled\n", len(s.pairs))
	s.cron.Start()
}

// Stop halts the schedule and waits for a running refresh to finish.
func (s *RefreshScheduler) Stop() {
	<-s.cron.Stop().Done()
}

// RefreshNow runs one refresh immediately. It returns the number of pairs that
// failed for a reason other than missing data.
func (s *RefreshScheduler) RefreshNow(ctx context.Context) (int, error) {
	if !s.mu.TryLock() {
		log.Println("WARN Service: Refresh already running, skipping this tick")
		return 0, nil
	}
	defer s.mu.Unlock()

	log.Printf("Service: Refreshing %d pair(s)...\n", len(s.pairs))
	results := RunBatch(ctx, s.svc, s.pairs, s.opts, s.sink)

	failed := 0
	for _, r := range results {
		if r.Err != nil && !r.NoData() {
			failed++
		}
	}
	if failed > 0 {
		return failed, fmt.Errorf("%d of %d pair(s) failed to refresh", failed, len(s.pairs))
	}
	return 0, nil
}
