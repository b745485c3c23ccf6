// Package dispatcher manages worker fan-out over the task queue.
package dispatcher

import (
	"context"
	"fmt"
	"sync"

	"github.com/JakeFAU/store-locations/internal/crawler"
	"github.com/JakeFAU/store-locations/internal/worker"
)

// Dispatcher fans out queue work to a pool of workers.
type Dispatcher struct {
	queue   crawler.Queue
	workers []*worker.Worker
}

// New creates a Dispatcher.
func New(queue crawler.Queue, workers []*worker.Worker) *Dispatcher {
	return &Dispatcher{
		queue:   queue,
		workers: workers,
	}
}

// Run starts all workers and returns the channel their outcomes arrive on, in
// completion order. The channel is closed once every worker has exited, so the
// caller must drain it.
func (d *Dispatcher) Run(ctx context.Context) <-chan crawler.Outcome {
	out := make(chan crawler.Outcome, len(d.workers))
	var wg sync.WaitGroup
	for _, w := range d.workers {
		wg.Add(1)
		go func(wk *worker.Worker) {
			defer wg.Done()
			wk.Run(ctx, out)
		}(w)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// Enqueue proxies to the underlying queue.
func (d *Dispatcher) Enqueue(ctx context.Context, task crawler.Task) error {
	if err := d.queue.Enqueue(ctx, task); err != nil {
		return fmt.Errorf("queue enqueue: %w", err)
	}
	return nil
}
