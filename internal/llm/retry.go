package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// RetryProvider is a decorator that retries transient errors, optionally
// with exponential backoff and jitter.
type RetryProvider struct {
	inner  Provider
	config RetryConfig
}

// WithRetry wraps a Provider with retry logic. MaxAttempts below 1 is
// treated as a single attempt.
func WithRetry(p Provider, cfg RetryConfig) Provider {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &RetryProvider{inner: p, config: cfg}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	var lastErr error
	invalidRetried := false
	attempts := 0

	for attempt := range r.config.MaxAttempts {
		attempts++
		resp, err := r.inner.Generate(withAttempt(ctx, attempt+1), req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if isPermanent(err) {
			return nil, err
		}
		if !r.allowRetry(err, &invalidRetried) || attempt == r.config.MaxAttempts-1 {
			break
		}

		wait := r.backoff(attempt, err)
		if wait <= 0 {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}

	return nil, &ErrRetriesExhausted{Attempts: attempts, Err: lastErr}
}

func (r *RetryProvider) ModelID() string {
	return r.inner.ModelID()
}

// isPermanent reports errors that are returned as-is without retrying.
func isPermanent(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	// Max tokens and missing credentials are configuration issues.
	var maxTok *ErrMaxTokensExceeded
	if errors.As(err, &maxTok) {
		return true
	}
	var missing *ErrMissingCredential
	return errors.As(err, &missing)
}

// allowRetry determines if another attempt may follow a transient error.
func (r *RetryProvider) allowRetry(err error, invalidRetried *bool) bool {
	// Invalid response gets one retry.
	var invResp *ErrInvalidResponse
	if errors.As(err, &invResp) {
		if *invalidRetried {
			return false
		}
		*invalidRetried = true
		return true
	}

	// Rate limits, outages and network errors are transient.
	return true
}

// backoff computes the wait duration for the given attempt.
func (r *RetryProvider) backoff(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	if r.config.InitialWait <= 0 {
		return 0
	}

	multiplier := r.config.Multiplier
	if multiplier <= 0 {
		multiplier = 1
	}
	wait := float64(r.config.InitialWait) * math.Pow(multiplier, float64(attempt))
	if r.config.MaxWait > 0 && wait > float64(r.config.MaxWait) {
		wait = float64(r.config.MaxWait)
	}

	// Add ±20% jitter.
	jitter := wait * 0.2 * (2*rand.Float64() - 1)
	wait += jitter

	if wait < 0 {
		wait = 0
	}
	return time.Duration(wait)
}

func (r *RetryProvider) Name() string {
	return ProviderName(r.inner)
}
