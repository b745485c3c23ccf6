// Package worker runs the fetch, extract and build steps for one sitemap task at a time.
package worker

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/JakeFAU/store-locations/internal/crawler"
	"github.com/JakeFAU/store-locations/internal/jsonld"
	"github.com/JakeFAU/store-locations/internal/metrics"
	"github.com/JakeFAU/store-locations/internal/store"
)

// PageSource returns the HTML of a store page.
type PageSource interface {
	FetchPage(ctx context.Context, url string) (string, error)
}

// Metrics receives per-page signals. Nil disables them.
type Metrics interface {
	ObservePage(status string)
	IncActiveWorkers()
	DecActiveWorkers()
}

// ErrPanic wraps a panic recovered while processing a task.
var ErrPanic = errors.New("unexpected error")

// Worker consumes queue tasks and emits one Outcome per task.
type Worker struct {
	queue   crawler.Queue
	pages   PageSource
	metrics Metrics
	logger  *zap.Logger
}

// New constructs a Worker.
func New(queue crawler.Queue, pages PageSource, m Metrics, logger *zap.Logger) *Worker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Worker{
		queue:   queue,
		pages:   pages,
		metrics: m,
		logger:  logger,
	}
}

// Run blocks, consuming tasks until the queue is closed and drained or the
// context finishes. Every dequeued task yields exactly one outcome on out.
func (w *Worker) Run(ctx context.Context, out chan<- crawler.Outcome) {
	for {
		task, err := w.queue.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, crawler.ErrQueueClosed) {
				return
			}
			w.logger.Error("queue dequeue failed", zap.Error(err))
			continue
		}
		w.logger.Debug("dequeued task", zap.Int("ordinal", task.Ordinal), zap.String("url", task.URL))
		out <- w.Process(ctx, task)
	}
}

// Process runs one task. Panics are recovered and reported as a failed outcome.
func (w *Worker) Process(ctx context.Context, task crawler.Task) (outcome crawler.Outcome) {
	outcome.Task = task
	if w.metrics != nil {
		w.metrics.IncActiveWorkers()
		defer w.metrics.DecActiveWorkers()
	}
	defer func() {
		if r := recover(); r != nil {
			outcome.Record = store.Record{}
			outcome.Err = fmt.Errorf("%w: %v", ErrPanic, r)
			w.logger.Error("unexpected error", zap.String("url", task.URL), zap.Any("panic", r))
		}
		if w.metrics != nil {
			w.metrics.ObservePage(pageStatus(outcome))
		}
	}()

	outcome.Record, outcome.Err = w.extract(ctx, task.URL)
	return outcome
}

func (w *Worker) extract(ctx context.Context, url string) (store.Record, error) {
	if w.pages == nil {
		return store.Record{}, errors.New("no page source configured")
	}
	html, err := w.pages.FetchPage(ctx, url)
	if err != nil {
		return store.Record{}, fmt.Errorf("fetch page: %w", err)
	}

	items, err := jsonld.Extract(html)
	switch {
	case errors.Is(err, jsonld.ErrNoBlock):
		w.logger.Debug("page has no json-ld block", zap.String("url", url))
		return store.Record{}, err
	case err != nil:
		w.logger.Warn("json-ld decode failed", zap.String("url", url), zap.Error(err))
		return store.Record{}, err
	}

	record, ok := store.Build(items)
	if !ok {
		w.logger.Debug("page has no business entity", zap.String("url", url), zap.Int("items", len(items)))
		return store.Record{}, store.ErrNoBusiness
	}
	return record, nil
}

func pageStatus(o crawler.Outcome) string {
	if o.Succeeded() {
		return metrics.StatusSucceeded
	}
	return metrics.StatusFailed
}
