package llm

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/prospecto/internal/common"
	"github.com/ternarybob/prospecto/internal/models"
)

func TestDetectProvider(t *testing.T) {
	tests := []struct {
		model string
		want  string
	}{
		{"claude-sonnet-4-5", "claude"},
		{"Claude-Haiku", "claude"},
		{"gemini-2.5-flash", "gemini"},
		{"", "gemini"},
	}

	for _, tt := range tests {
		if got := DetectProvider(tt.model); got != tt.want {
			t.Errorf("DetectProvider(%q) = %q, want %q", tt.model, got, tt.want)
		}
	}
}

func TestForModel_MissingCredential(t *testing.T) {
	config := common.NewDefaultConfig()
	config.Claude.APIKey = ""
	factory := NewProviderFactory(config, common.GetLogger())

	_, err := factory.ForModel(context.Background(), "claude-sonnet-4-5")
	require.Error(t, err)

	desc, ok := models.AsErrorDescriptor(err)
	require.True(t, ok)
	assert.Equal(t, "Missing API Key", desc.Title)
	assert.False(t, desc.IsRetryable)
}

// Concurrent callers must share one provider instance so the per-provider
// rate limiter stays effective.
func TestForModel_ConcurrentCallersShareProvider(t *testing.T) {
	config := common.NewDefaultConfig()
	config.Claude.APIKey = "test-key"
	factory := NewProviderFactory(config, common.GetLogger())

	const callers = 8
	providers := make([]Provider, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			providers[i], errs[i] = factory.ForModel(context.Background(), "claude-sonnet-4-5")
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
	}
	for i := 1; i < callers; i++ {
		assert.Same(t, providers[0], providers[i])
	}
}
