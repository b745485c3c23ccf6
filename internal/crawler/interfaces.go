package crawler

import (
	"context"
	"time"
)

// Fetcher fetches a URL and returns the body plus metadata.
type Fetcher interface {
	Fetch(ctx context.Context, request FetchRequest) (FetchResponse, error)
}

// Limiter throttles outbound requests before each attempt.
type Limiter interface {
	Wait(ctx context.Context, url string) error
}

// RetryPolicy decides whether a failed attempt is retried and how long to wait first.
type RetryPolicy interface {
	ShouldRetry(err error, attempt int) bool
	Backoff(attempt int) time.Duration
	MaxAttempts() int
}

// Observer receives fetch lifecycle signals, typically for metrics.
type Observer interface {
	ObserveAttempt()
	ObserveRetry(delay time.Duration)
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
	Since(t time.Time) time.Duration
}

// Queue hands tasks from the orchestrator to workers.
type Queue interface {
	Enqueue(ctx context.Context, task Task) error
	Dequeue(ctx context.Context) (Task, error)
}
