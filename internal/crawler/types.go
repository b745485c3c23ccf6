package crawler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/JakeFAU/store-locations/internal/store"
)

var (
	// ErrRetriesExhausted marks a URL that kept answering 429 until the attempt budget ran out.
	ErrRetriesExhausted = errors.New("rate limit retries exhausted")
	// ErrQueueClosed is returned by Queue.Dequeue once the queue is closed and drained.
	ErrQueueClosed = errors.New("queue closed")
)

// FetchRequest captures everything needed to fetch a URL.
type FetchRequest struct {
	URL     string
	Attempt int
	Headers http.Header
}

// FetchResponse is the result returned by a Fetcher implementation.
type FetchResponse struct {
	URL        string
	StatusCode int
	Headers    http.Header
	Body       []byte
	Duration   time.Duration
}

// StatusError reports an HTTP response whose status the fetcher treats as a failure.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http %d %s for %s", e.StatusCode, http.StatusText(e.StatusCode), e.URL)
}

// RateLimited reports whether the server asked the client to slow down.
func (e *StatusError) RateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

// Task is one sitemap URL together with its 1-based position in the sitemap.
type Task struct {
	Ordinal int
	URL     string
}

// Outcome is the single result produced for a Task. Exactly one of Record or
// Err is meaningful: Err == nil means Record holds the extracted store.
type Outcome struct {
	Task   Task
	Record store.Record
	Err    error
}

// Succeeded reports whether the task produced a record.
func (o Outcome) Succeeded() bool {
	return o.Err == nil
}
