package ai

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultRetryConfig allows three retries after the initial call,
// keeping the worst-case budget small so the request-level timeout can
// stay above it. Three consecutive transient failures followed by a
// healthy response still succeed.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 4,
		InitialWait: 500 * time.Millisecond,
		MaxWait:     8 * time.Second,
		Multiplier:  2.0,
	}
}

// WorstCase returns the maximum time the retry loop can spend waiting
// between attempts, excluding the calls themselves.
func (c RetryConfig) WorstCase() time.Duration {
	var total float64
	for attempt := 0; attempt < c.MaxAttempts-1; attempt++ {
		wait := float64(c.InitialWait) * math.Pow(c.Multiplier, float64(attempt))
		if wait > float64(c.MaxWait) {
			wait = float64(c.MaxWait)
		}
		total += wait * 1.2 // jitter upper bound
	}
	return time.Duration(total)
}

// retryService is a decorator that retries transient failures with
// exponential backoff and jitter.
type retryService struct {
	inner  Service
	config RetryConfig
}

// WithRetry wraps a Service with the retry policy. Non-transient
// failures (validation, auth, malformed request) fail on the first
// attempt; everything the decorator gives up on is surfaced as a
// *ServiceError carrying the last cause.
func WithRetry(s Service, cfg RetryConfig) Service {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &retryService{inner: s, config: cfg}
}

func (r *retryService) Name() string {
	return r.inner.Name()
}

func (r *retryService) Analyze(ctx context.Context, input Input) (*Result, error) {
	var lastErr error
	invalidRetried := false

	for attempt := 0; attempt < r.config.MaxAttempts; attempt++ {
		result, err := r.inner.Analyze(ctx, input)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !r.shouldRetry(err, &invalidRetried) {
			// Pre-call validation failures pass through untouched so
			// callers can distinguish them from provider failures.
			if IsInvalidInput(err) {
				return nil, err
			}
			return nil, &ServiceError{Provider: r.inner.Name(), Attempts: attempt + 1, Err: err}
		}

		if attempt == r.config.MaxAttempts-1 {
			break
		}

		wait := r.backoff(attempt, err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}

	return nil, &ServiceError{Provider: r.inner.Name(), Attempts: r.config.MaxAttempts, Err: lastErr}
}

// shouldRetry determines if an error is retryable.
func (r *retryService) shouldRetry(err error, invalidRetried *bool) bool {
	// Context errors are never retried.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	// Input validation, auth and malformed-request failures are
	// deterministic; retrying cannot help.
	if IsInvalidInput(err) {
		return false
	}
	var auth *ErrAuth
	if errors.As(err, &auth) {
		return false
	}
	var bad *ErrBadRequest
	if errors.As(err, &bad) {
		return false
	}

	// Unparseable output gets one retry.
	var invResp *ErrInvalidResponse
	if errors.As(err, &invResp) {
		if *invalidRetried {
			return false
		}
		*invalidRetried = true
		return true
	}

	// Rate limits, 5xx and plain network errors are transient.
	return true
}

// backoff computes the wait duration for the given attempt.
func (r *retryService) backoff(attempt int, err error) time.Duration {
	// Respect RetryAfter for rate limits.
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	wait := float64(r.config.InitialWait) * math.Pow(r.config.Multiplier, float64(attempt))
	if wait > float64(r.config.MaxWait) {
		wait = float64(r.config.MaxWait)
	}

	// ±20% jitter.
	jitter := wait * 0.2 * (2*rand.Float64() - 1)
	wait += jitter

	if wait < 0 {
		wait = 0
	}
	return time.Duration(wait)
}
