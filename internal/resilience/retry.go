package resilience

import (
	"context"
	"math"
	"math/rand"
	"time"

	"go.uber.org/zap"
)

// RetryConfig controls class-aware retry behavior. Rate-limit errors back
// off at initial_delay * 2^attempt plus up to RateLimitJitter of the delay;
// server errors use the same curve scaled by ServerMultiplier with up to
// ServerJitter of jitter. Permanent errors are never retried.
type RetryConfig struct {
	// MaxAttempts is the total number of attempts (including the first
	// try). Default: 3.
	MaxAttempts int

	// InitialDelay is the base backoff before the first retry. Default: 2s.
	InitialDelay time.Duration

	// ServerMultiplier scales server-error backoff relative to the
	// rate-limit curve. Default: 1.5.
	ServerMultiplier float64

	// RateLimitJitter is the maximum jitter fraction added to rate-limit
	// backoff. Default: 0.20.
	RateLimitJitter float64

	// ServerJitter is the maximum jitter fraction added to server-error
	// backoff. Default: 0.30.
	ServerJitter float64

	// OnRetry is called before each retry sleep.
	OnRetry func(attempt int, class ErrorClass, delay time.Duration, err error)
}

// DefaultRetryConfig returns the retry policy used for model API calls.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:      3,
		InitialDelay:     2 * time.Second,
		ServerMultiplier: 1.5,
		RateLimitJitter:  0.20,
		ServerJitter:     0.30,
	}
}

func applyDefaults(cfg RetryConfig) RetryConfig {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.InitialDelay <= 0 {
		cfg.InitialDelay = 2 * time.Second
	}
	if cfg.ServerMultiplier <= 0 {
		cfg.ServerMultiplier = 1.5
	}
	if cfg.RateLimitJitter < 0 {
		cfg.RateLimitJitter = 0
	}
	if cfg.ServerJitter < 0 {
		cfg.ServerJitter = 0
	}
	return cfg
}

// DoVal executes fn with class-aware retries, preserving the value from the
// successful call. Permanent errors propagate immediately; after exhausting
// retries the last error is wrapped in a TransientServiceError. Context
// cancellation stops retries.
func DoVal[T any](ctx context.Context, cfg RetryConfig, fn func(ctx context.Context) (T, error)) (T, error) {
	cfg = applyDefaults(cfg)

	var zero T
	var lastErr error
	var lastClass ErrorClass

	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		val, err := fn(ctx)
		if err == nil {
			return val, nil
		}
		lastErr = err
		lastClass = Classify(err)

		if ctx.Err() != nil {
			return zero, lastErr
		}
		if lastClass == ClassPermanent {
			return zero, lastErr
		}
		if attempt >= cfg.MaxAttempts-1 {
			break
		}

		delay := computeBackoff(attempt, lastClass, cfg)
		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt+1, lastClass, delay, lastErr)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, lastErr
		case <-timer.C:
		}
	}

	return zero, &TransientServiceError{Err: lastErr, Class: lastClass, Attempts: cfg.MaxAttempts}
}

func computeBackoff(attempt int, class ErrorClass, cfg RetryConfig) time.Duration {
	base := float64(cfg.InitialDelay) * math.Pow(2, float64(attempt))
	jitterFrac := cfg.RateLimitJitter
	if class == ClassServer {
		base *= cfg.ServerMultiplier
		jitterFrac = cfg.ServerJitter
	}
	// Jitter is additive in [0, jitterFrac*base).
	delay := base + rand.Float64()*jitterFrac*base
	return time.Duration(delay)
}

// RetryLogger returns an OnRetry callback that logs each retry attempt.
func RetryLogger(service, operation string) func(int, ErrorClass, time.Duration, error) {
	return func(attempt int, class ErrorClass, delay time.Duration, err error) {
		zap.L().Warn("retrying operation",
			zap.String("service", service),
			zap.String("operation", operation),
			zap.Int("attempt", attempt),
			zap.String("class", class.String()),
			zap.Duration("delay", delay),
			zap.Error(err),
		)
	}
}
