// Package resilience retries export calls with capped exponential backoff.
package resilience

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/Adithya-Monish-Kumar-K/chunk-tfidf/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/chunk-tfidf/pkg/logger"
)

// Policy bounds a retried operation. Zero fields take the package defaults.
type Policy struct {
	MaxAttempts    int
	InitialDelay   time.Duration
	MaxDelay       time.Duration
	Multiplier     float64
	JitterFraction float64
	// AttemptTimeout bounds a single call of fn. Zero means no bound.
	AttemptTimeout time.Duration
}

// permanentError marks an error that must not be retried.
type permanentError struct {
	err error
}

func (p *permanentError) Error() string { return p.err.Error() }

func (p *permanentError) Unwrap() error { return p.err }

// Permanent wraps err so Retry returns it immediately.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// FromConfig converts the export retry settings.
func FromConfig(cfg config.RetryConfig) Policy {
	return Policy{
		MaxAttempts:    cfg.MaxAttempts,
		InitialDelay:   cfg.InitialBackoff,
		MaxDelay:       cfg.MaxBackoff,
		AttemptTimeout: cfg.AttemptTimeout,
	}
}

func (p Policy) withDefaults() Policy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 3
	}
	if p.InitialDelay <= 0 {
		p.InitialDelay = 100 * time.Millisecond
	}
	if p.MaxDelay <= 0 {
		p.MaxDelay = 10 * time.Second
	}
	if p.Multiplier <= 0 {
		p.Multiplier = 2.0
	}
	if p.JitterFraction <= 0 {
		p.JitterFraction = 0.1
	}
	return p
}

// Retry calls fn until it succeeds, returns a Permanent error, the attempts
// run out, or ctx is done.
func Retry(ctx context.Context, name string, policy Policy, fn func(ctx context.Context) error) error {
	policy = policy.withDefaults()
	log := logger.FromContext(ctx).With("component", "retry", "operation", name)

	var lastErr error
	for attempt := 1; ; attempt++ {
		lastErr = policy.attempt(ctx, fn)
		if lastErr == nil {
			if attempt > 1 {
				log.Info("succeeded after retry", "attempt", attempt)
			}
			return nil
		}
		var perm *permanentError
		if errors.As(lastErr, &perm) {
			return fmt.Errorf("%s: %w", name, perm.err)
		}
		if attempt >= policy.MaxAttempts {
			break
		}
		if ctx.Err() != nil {
			return fmt.Errorf("retry aborted: %w", ctx.Err())
		}
		delay := policy.delay(attempt)
		log.Warn("operation failed, retrying",
			"attempt", attempt,
			"max_attempts", policy.MaxAttempts,
			"error", lastErr,
			"next_delay", delay,
		)
		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("retry aborted during backoff: %w", ctx.Err())
		}
	}
	return fmt.Errorf("all %d attempts failed for %s: %w", policy.MaxAttempts, name, lastErr)
}

func (p Policy) attempt(ctx context.Context, fn func(ctx context.Context) error) error {
	if p.AttemptTimeout <= 0 {
		return fn(ctx)
	}
	actx, cancel := context.WithTimeout(ctx, p.AttemptTimeout)
	defer cancel()
	return fn(actx)
}

func (p Policy) delay(attempt int) time.Duration {
	backoff := float64(p.InitialDelay) * math.Pow(p.Multiplier, float64(attempt-1))
	backoff += backoff * p.JitterFraction * (2*rand.Float64() - 1)
	backoff = math.Min(backoff, float64(p.MaxDelay))
	if backoff < 0 {
		backoff = float64(p.InitialDelay)
	}
	return time.Duration(backoff)
}
