package llm

import (
	"context"
	"time"

	"github.com/ternarybob/arbor"
)

// RetryConfig defines retry behavior for model API calls.
type RetryConfig struct {
	// MaxAttempts is the total number of attempts including the first (default: 3)
	MaxAttempts int

	// ServerBase is the initial wait before retrying a server-side
	// transient failure (default: 2s)
	ServerBase time.Duration

	// RateLimitBase is the initial wait before retrying a rate-limited
	// failure. Longer than ServerBase to let the quota bucket refill
	// (default: 8s)
	RateLimitBase time.Duration
}

// Default retry constants for model API calls.
const (
	DefaultMaxAttempts   = 3
	DefaultServerBase    = 2 * time.Second
	DefaultRateLimitBase = 8 * time.Second
)

// NewDefaultRetryConfig returns a RetryConfig with sensible defaults.
func NewDefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxAttempts:   DefaultMaxAttempts,
		ServerBase:    DefaultServerBase,
		RateLimitBase: DefaultRateLimitBase,
	}
}

// Executor wraps a single asynchronous operation with bounded retries and
// exponential backoff. Only rate-limited and server-side transient failures
// are retried; everything else propagates on first occurrence.
type Executor struct {
	config *RetryConfig
	logger arbor.ILogger

	// sleep is swappable for tests
	sleep func(ctx context.Context, d time.Duration) error
}

// NewExecutor creates a retry executor. A nil config uses defaults.
func NewExecutor(config *RetryConfig, logger arbor.ILogger) *Executor {
	if config == nil {
		config = NewDefaultRetryConfig()
	}
	if config.MaxAttempts < 1 {
		config.MaxAttempts = 1
	}
	return &Executor{
		config: config,
		logger: logger,
		sleep: func(ctx context.Context, d time.Duration) error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(d):
				return nil
			}
		},
	}
}

// Execute runs op, retrying retryable failures with exponential backoff.
// The delay doubles on each attempt; rate-limited failures start from the
// longer RateLimitBase. On exhausting all attempts the last failure is
// returned unchanged for the error normalizer to classify.
func (e *Executor) Execute(ctx context.Context, op func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 0; attempt < e.config.MaxAttempts; attempt++ {
		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}

		class := ClassifyFailure(lastErr)
		if class == FailureOther {
			return lastErr
		}

		if attempt == e.config.MaxAttempts-1 {
			break
		}

		base := e.config.ServerBase
		if class == FailureRateLimited {
			base = e.config.RateLimitBase
		}
		backoff := base << uint(attempt)

		if e.logger != nil {
			e.logger.Warn().
				Int("attempt", attempt+1).
				Int("max_attempts", e.config.MaxAttempts).
				Str("class", string(class)).
				Dur("backoff", backoff).
				Err(lastErr).
				Msg("Retrying model API call")
		}

		if err := e.sleep(ctx, backoff); err != nil {
			return err
		}
	}

	return lastErr
}
