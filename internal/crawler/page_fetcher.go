package crawler

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
)

// ErrInvalidEncoding marks a page body that is not valid UTF-8.
var ErrInvalidEncoding = errors.New("page body is not valid utf-8")

// PageFetcher retrieves the HTML of one store page, retrying rate-limited
// responses according to its RetryPolicy. It is safe for concurrent use as long
// as its collaborators are.
type PageFetcher struct {
	fetcher  Fetcher
	policy   RetryPolicy
	limiter  Limiter
	observer Observer
	verbose  bool
	logger   *zap.Logger
}

// PageFetcherOption customizes a PageFetcher.
type PageFetcherOption func(*PageFetcher)

// WithLimiter throttles every attempt through limiter.
func WithLimiter(limiter Limiter) PageFetcherOption {
	return func(p *PageFetcher) {
		p.limiter = limiter
	}
}

// WithObserver reports attempts and retries to observer.
func WithObserver(observer Observer) PageFetcherOption {
	return func(p *PageFetcher) {
		p.observer = observer
	}
}

// WithVerbose enables per-attempt progress logging.
func WithVerbose(verbose bool) PageFetcherOption {
	return func(p *PageFetcher) {
		p.verbose = verbose
	}
}

// NewPageFetcher builds a PageFetcher. A nil policy uses the default rate-limit policy.
func NewPageFetcher(fetcher Fetcher, policy RetryPolicy, logger *zap.Logger, opts ...PageFetcherOption) *PageFetcher {
	if policy == nil {
		policy = NewRateLimitRetryPolicy(DefaultMaxAttempts, DefaultInitialDelay, DefaultJitter)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &PageFetcher{
		fetcher: fetcher,
		policy:  policy,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// FetchPage returns the decoded HTML of url. Only 429 responses are retried;
// every other failure is returned on first occurrence.
func (p *PageFetcher) FetchPage(ctx context.Context, url string) (string, error) {
	maxAttempts := p.policy.MaxAttempts()
	for attempt := 1; ; attempt++ {
		if attempt > 1 && p.verbose {
			p.logger.Info("retrying",
				zap.String("url", url),
				zap.Int("attempt", attempt),
				zap.Int("max_attempts", maxAttempts),
			)
		}

		body, err := p.attempt(ctx, url, attempt)
		if err == nil {
			return body, nil
		}

		if !p.policy.ShouldRetry(err, attempt) {
			var statusErr *StatusError
			if errors.As(err, &statusErr) && statusErr.RateLimited() {
				err = fmt.Errorf("%w after %d attempts: %w", ErrRetriesExhausted, attempt, err)
			}
			p.logger.Warn("fetch failed", zap.String("url", url), zap.Int("attempt", attempt), zap.Error(err))
			return "", err
		}

		delay := p.policy.Backoff(attempt)
		if p.verbose {
			p.logger.Info("rate limited",
				zap.String("url", url),
				zap.Duration("retry_in", delay),
			)
		}
		if p.observer != nil {
			p.observer.ObserveRetry(delay)
		}
		if err := sleep(ctx, delay); err != nil {
			return "", fmt.Errorf("backoff for %s: %w", url, err)
		}
	}
}

func (p *PageFetcher) attempt(ctx context.Context, url string, attempt int) (string, error) {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx, url); err != nil {
			return "", err
		}
	}
	if p.observer != nil {
		p.observer.ObserveAttempt()
	}
	resp, err := p.fetcher.Fetch(ctx, FetchRequest{URL: url, Attempt: attempt})
	if err != nil {
		return "", err
	}
	if !utf8.Valid(resp.Body) {
		return "", fmt.Errorf("decode %s: %w", url, ErrInvalidEncoding)
	}
	return string(resp.Body), nil
}

// sleep waits for d on a timer owned by the calling goroutine.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
