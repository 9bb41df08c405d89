package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/prospecto/internal/common"
)

// ContentRequest describes a single model invocation. OutputSchema, when set,
// constrains the response to a JSON object of that shape.
type ContentRequest struct {
	Prompt       string
	System       string
	Model        string
	Temperature  float64
	MaxTokens    int
	EnableSearch bool
	OutputSchema map[string]interface{}
}

// ContentResponse carries the raw model output plus the model that produced it.
type ContentResponse struct {
	Text  string
	Model string
}

// Provider generates content from a single model backend. Implementations
// make exactly one attempt per call; retry policy lives in Executor.
type Provider interface {
	Name() string
	GenerateContent(ctx context.Context, req ContentRequest) (*ContentResponse, error)
}

// ProviderFactory selects a Provider by model name prefix. Safe for
// concurrent use; each backend is constructed at most once.
type ProviderFactory struct {
	config *common.Config
	logger arbor.ILogger

	mu     sync.Mutex
	gemini Provider
	claude Provider
}

func NewProviderFactory(config *common.Config, logger arbor.ILogger) *ProviderFactory {
	return &ProviderFactory{
		config: config,
		logger: logger,
	}
}

// DetectProvider returns the provider name for a model identifier.
func DetectProvider(model string) string {
	if strings.HasPrefix(strings.ToLower(model), "claude") {
		return "claude"
	}
	return "gemini"
}

// ForModel returns a provider able to serve the given model, constructing it
// lazily. Fails with a non-retryable descriptor when the required API key is
// missing.
func (f *ProviderFactory) ForModel(ctx context.Context, model string) (Provider, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch DetectProvider(model) {
	case "claude":
		if f.claude == nil {
			if f.config.Claude.APIKey == "" {
				return nil, NewMissingCredentialError("Claude")
			}
			f.claude = NewClaudeProvider(f.config, f.logger)
		}
		return f.claude, nil
	default:
		if f.gemini == nil {
			if f.config.Gemini.APIKey == "" {
				return nil, NewMissingCredentialError("Gemini")
			}
			p, err := NewGeminiProvider(ctx, f.config, f.logger)
			if err != nil {
				return nil, fmt.Errorf("failed to create gemini provider: %w", err)
			}
			f.gemini = p
		}
		return f.gemini, nil
	}
}
