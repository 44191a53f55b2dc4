// Package dispatch runs one collector task per hymnal on a bounded worker pool.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/CadenFinley/web-scraper/internal/metrics"
	"github.com/CadenFinley/web-scraper/internal/models"
	"github.com/CadenFinley/web-scraper/internal/storage"
	"golang.org/x/sync/errgroup"
)

// ErrNoSources is returned when a run is started without any hymnal codes.
var ErrNoSources = errors.New("no hymnal codes to collect")

// Collector harvests a single hymnal.
type Collector interface {
	Collect(ctx context.Context, code string) ([]models.Hymn, error)
}

// Outcome is what one hymnal task contributed to the run.
type Outcome struct {
	Code     string
	Hymns    int
	Duration time.Duration
	Err      error
}

// Failed reports whether the task ended in an error.
func (o Outcome) Failed() bool { return o.Err != nil }

// Result is the merged output of a run.
type Result struct {
	// Hymns are in hymnal completion order; within a hymnal, page-then-row order.
	Hymns []models.Hymn
	// Outcomes are in completion order.
	Outcomes []Outcome
	Workers  int
}

// Failed returns the outcomes of hymnals that contributed nothing because they failed.
func (r *Result) Failed() []Outcome {
	var failed []Outcome
	for _, o := range r.Outcomes {
		if o.Failed() {
			failed = append(failed, o)
		}
	}
	return failed
}

// Dispatcher fans hymnal codes out to a collector.
type Dispatcher struct {
	collector Collector
	workers   int
	recorder  *metrics.Recorder
}

// New creates a dispatcher with a pool of at most workers goroutines.
func New(collector Collector, workers int, recorder *metrics.Recorder) *Dispatcher {
	return &Dispatcher{
		collector: collector,
		workers:   workers,
		recorder:  recorder,
	}
}

// PoolSize is the number of workers a run over n hymnals uses: the configured size,
// capped at n, and never below one.
func PoolSize(workers, n int) int {
	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}
	return workers
}

// Run collects every code and merges the batches as tasks finish. A failing or
// panicking task is logged and recorded in its Outcome; it never stops sibling tasks.
// The pool lives only for the duration of the call.
func (d *Dispatcher) Run(ctx context.Context, codes []string) (*Result, error) {
	if len(codes) == 0 {
		return nil, ErrNoSources
	}

	workers := PoolSize(d.workers, len(codes))
	slog.Info("Dispatching hymnals", "hymnals", len(codes), "workers", workers)

	store := storage.New()
	outcomes := make(chan Outcome, len(codes))

	var g errgroup.Group
	g.SetLimit(workers)

	for _, code := range codes {
		g.Go(func() error {
			start := time.Now()
			hymns, err := d.collect(ctx, code)
			if err != nil {
				slog.Error("Hymnal generated an exception", "hymnal", code, "error", err)
				hymns = nil
			} else {
				store.Append(code, hymns)
			}
			d.recorder.ObserveHymnal(code, len(hymns), err)
			outcomes <- Outcome{Code: code, Hymns: len(hymns), Duration: time.Since(start), Err: err}
			return nil
		})
	}

	// Tasks never return errors; Wait is the join point.
	_ = g.Wait()
	close(outcomes)

	result := &Result{
		Hymns:   store.All(),
		Workers: workers,
	}
	for o := range outcomes {
		result.Outcomes = append(result.Outcomes, o)
	}

	slog.Info("Total hymns collected", "hymns", len(result.Hymns), "hymnals", len(codes), "failed", len(result.Failed()))
	return result, nil
}

// collect runs one task and turns a panic into an error.
func (d *Dispatcher) collect(ctx context.Context, code string) (hymns []models.Hymn, err error) {
	defer func() {
		if r := recover(); r != nil {
			hymns = nil
			err = fmt.Errorf("panic collecting hymnal %s: %v", code, r)
		}
	}()
	return d.collector.Collect(ctx, code)
}
