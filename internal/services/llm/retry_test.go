package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExecutor(config *RetryConfig) (*Executor, *[]time.Duration) {
	e := NewExecutor(config, nil)
	waits := &[]time.Duration{}
	e.sleep = func(ctx context.Context, d time.Duration) error {
		*waits = append(*waits, d)
		return nil
	}
	return e, waits
}

func TestExecute_RateLimitedThenSuccess(t *testing.T) {
	e, waits := newTestExecutor(nil)

	calls := 0
	err := e.Execute(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("googleapi: Error 429: quota exceeded")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	require.Len(t, *waits, 2)

	// Backoff doubles between attempts and starts from the longer
	// rate-limit base.
	assert.Equal(t, DefaultRateLimitBase, (*waits)[0])
	assert.Equal(t, 2*DefaultRateLimitBase, (*waits)[1])
}

func TestExecute_ServerTransientUsesShorterBase(t *testing.T) {
	e, waits := newTestExecutor(nil)

	calls := 0
	err := e.Execute(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 2 {
			return errors.New("googleapi: Error 503: The model is overloaded")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	require.Len(t, *waits, 1)
	assert.Equal(t, DefaultServerBase, (*waits)[0])
}

func TestExecute_NonRetryableReturnsImmediately(t *testing.T) {
	e, waits := newTestExecutor(nil)

	original := errors.New("googleapi: Error 400: invalid argument")
	calls := 0
	err := e.Execute(context.Background(), func(ctx context.Context) error {
		calls++
		return original
	})

	assert.Equal(t, 1, calls)
	assert.Empty(t, *waits)

	// Failure propagates unchanged for the normalizer.
	assert.Same(t, original, err)
}

func TestExecute_ExhaustedReturnsLastError(t *testing.T) {
	e, _ := newTestExecutor(&RetryConfig{
		MaxAttempts:   3,
		ServerBase:    time.Millisecond,
		RateLimitBase: time.Millisecond,
	})

	last := errors.New("googleapi: Error 500: internal error")
	calls := 0
	err := e.Execute(context.Background(), func(ctx context.Context) error {
		calls++
		return last
	})

	assert.Equal(t, 3, calls)
	assert.Same(t, last, err)
}

func TestExecute_ContextCancelledDuringBackoff(t *testing.T) {
	e := NewExecutor(nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := e.Execute(ctx, func(ctx context.Context) error {
		calls++
		return errors.New("googleapi: Error 503: service unavailable")
	})

	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClassifyFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want FailureClass
	}{
		{"status 429", errors.New(`googleapi: Error 429: Resource has been exhausted`), FailureRateLimited},
		{"quota keyword", errors.New("quota exceeded for model"), FailureRateLimited},
		{"resource exhausted", errors.New("RESOURCE_EXHAUSTED: try again later"), FailureRateLimited},
		{"status 500", errors.New("googleapi: Error 500: internal error"), FailureServerTransient},
		{"status 503", errors.New("googleapi: Error 503: unavailable"), FailureServerTransient},
		{"overloaded keyword", errors.New("the model is overloaded, please retry"), FailureServerTransient},
		{"status 400", errors.New("googleapi: Error 400: invalid argument"), FailureOther},
		{"status 401", errors.New("googleapi: Error 401: API key not valid"), FailureOther},
		{"plain failure", errors.New("connection refused"), FailureOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyFailure(tt.err); got != tt.want {
				t.Errorf("ClassifyFailure(%q) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestUnwrapFailure_EmbeddedJSONBody(t *testing.T) {
	err := errors.New(`Error 429, Message: {"error":{"code":429,"message":"Quota exceeded","status":"RESOURCE_EXHAUSTED"}}`)

	status, message := UnwrapFailure(err)
	assert.Equal(t, 429, status)
	assert.Equal(t, "Quota exceeded", message)
}
