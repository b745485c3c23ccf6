package crawler

import (
	"crypto/rand"
	"errors"
	"math/big"
	"time"
)

// Defaults for the rate-limit retry policy.
const (
	DefaultMaxAttempts  = 5
	DefaultInitialDelay = 2 * time.Second
	DefaultJitter       = time.Second
)

// RateLimitRetryPolicy retries only HTTP 429 responses, waiting an exponentially
// growing delay plus a uniform jitter before each new attempt.
type RateLimitRetryPolicy struct {
	maxAttempts  int
	initialDelay time.Duration
	jitter       time.Duration
}

// NewRateLimitRetryPolicy builds a policy. Non-positive values fall back to the defaults,
// except jitter, where zero disables the random offset.
func NewRateLimitRetryPolicy(maxAttempts int, initialDelay, jitter time.Duration) *RateLimitRetryPolicy {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if initialDelay <= 0 {
		initialDelay = DefaultInitialDelay
	}
	if jitter < 0 {
		jitter = DefaultJitter
	}
	return &RateLimitRetryPolicy{
		maxAttempts:  maxAttempts,
		initialDelay: initialDelay,
		jitter:       jitter,
	}
}

// MaxAttempts is the total number of attempts, the first one included.
func (p *RateLimitRetryPolicy) MaxAttempts() int {
	return p.maxAttempts
}

// ShouldRetry reports whether attempt (1-based, already made) may be followed by another.
func (p *RateLimitRetryPolicy) ShouldRetry(err error, attempt int) bool {
	if err == nil || attempt >= p.maxAttempts {
		return false
	}
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		return false
	}
	return statusErr.RateLimited()
}

// Backoff returns the wait before the attempt following attempt (1-based):
// initialDelay * 2^(attempt-1) plus a jitter in [0, jitter).
func (p *RateLimitRetryPolicy) Backoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	delay := p.initialDelay << uint(attempt-1)
	return delay + p.randomJitter()
}

func (p *RateLimitRetryPolicy) randomJitter() time.Duration {
	if p.jitter <= 0 {
		return 0
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(p.jitter)))
	if err != nil {
		return p.jitter / 2
	}
	return time.Duration(n.Int64())
}
