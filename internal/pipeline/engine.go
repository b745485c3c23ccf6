// Package pipeline drives every sitemap URL through the worker pool and
// assembles the ordered result of the run.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/JakeFAU/store-locations/internal/clock/system"
	"github.com/JakeFAU/store-locations/internal/crawler"
	"github.com/JakeFAU/store-locations/internal/dispatcher"
	"github.com/JakeFAU/store-locations/internal/queue/memory"
	"github.com/JakeFAU/store-locations/internal/store"
	"github.com/JakeFAU/store-locations/internal/worker"
)

// DefaultWorkers is the pool size used when Config.Workers is not positive.
const DefaultWorkers = 8

// ErrNoURLs is returned when there is nothing to process.
var ErrNoURLs = errors.New("no store urls to process")

// Config controls the engine.
type Config struct {
	Workers int
	Verbose bool
}

// Failure is a URL that produced no record, with its 1-based sitemap position.
type Failure struct {
	Ordinal int
	URL     string
	Err     error
}

// Result is the outcome of a run. Records are sorted by ref and each record's
// opening hours run Monday to Sunday; Failures are sorted by ordinal.
type Result struct {
	Records  []store.Record
	Failures []Failure
	Elapsed  time.Duration
}

// Engine fans URLs out to a fixed pool of workers.
type Engine struct {
	cfg     Config
	pages   worker.PageSource
	metrics worker.Metrics
	clock   crawler.Clock
	logger  *zap.Logger
}

// New constructs an Engine. metrics may be nil.
func New(cfg Config, pages worker.PageSource, m worker.Metrics, logger *zap.Logger) *Engine {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		cfg:     cfg,
		pages:   pages,
		metrics: m,
		clock:   system.New(),
		logger:  logger,
	}
}

// Run processes urls and returns once every one of them has an outcome. Per-URL
// failures never abort the run; they are collected in Result.Failures.
func (e *Engine) Run(ctx context.Context, urls []string) (Result, error) {
	if len(urls) == 0 {
		return Result{}, ErrNoURLs
	}
	start := e.clock.Now()

	q := memory.NewQueue(len(urls))
	workers := make([]*worker.Worker, 0, e.cfg.Workers)
	for i := 0; i < e.cfg.Workers; i++ {
		workers = append(workers, worker.New(q, e.pages, e.metrics, e.logger.With(zap.Int("worker", i))))
	}
	dispatch := dispatcher.New(q, workers)

	tasks := make([]crawler.Task, len(urls))
	for i, url := range urls {
		tasks[i] = crawler.Task{Ordinal: i + 1, URL: url}
		if err := dispatch.Enqueue(ctx, tasks[i]); err != nil {
			q.Close()
			return Result{}, fmt.Errorf("enqueue %s: %w", url, err)
		}
	}
	q.Close()

	result := Result{Records: []store.Record{}, Failures: []Failure{}}
	seen := make(map[int]bool, len(tasks))
	for outcome := range dispatch.Run(ctx) {
		seen[outcome.Task.Ordinal] = true
		e.collect(&result, outcome, len(tasks))
	}
	// Tasks never dequeued because the context ended still get an outcome.
	for _, task := range tasks {
		if !seen[task.Ordinal] {
			e.collect(&result, crawler.Outcome{Task: task, Err: fmt.Errorf("not processed: %w", ctx.Err())}, len(tasks))
		}
	}

	for i := range result.Records {
		store.SortOpeningHours(result.Records[i].OpeningHours)
	}
	store.SortRecords(result.Records)
	sort.SliceStable(result.Failures, func(i, j int) bool {
		return result.Failures[i].Ordinal < result.Failures[j].Ordinal
	})
	result.Elapsed = e.clock.Since(start)
	return result, nil
}

func (e *Engine) collect(result *Result, outcome crawler.Outcome, total int) {
	task := outcome.Task
	if outcome.Succeeded() {
		result.Records = append(result.Records, outcome.Record)
		if e.cfg.Verbose {
			e.logger.Info("store extracted",
				zap.String("progress", progress(task.Ordinal, total)),
				zap.String("name", outcome.Record.DisplayName()),
			)
		}
		return
	}
	result.Failures = append(result.Failures, Failure{Ordinal: task.Ordinal, URL: task.URL, Err: outcome.Err})
	if e.cfg.Verbose {
		e.logger.Info("store extraction failed",
			zap.String("progress", progress(task.Ordinal, total)),
			zap.String("url", task.URL),
			zap.Error(outcome.Err),
		)
	}
}

func progress(ordinal, total int) string {
	return fmt.Sprintf("%d/%d", ordinal, total)
}
