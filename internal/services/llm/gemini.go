package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/ternarybob/prospecto/internal/common"
)

// GeminiProvider generates reports through the Gemini API. Each call is a
// single attempt; the caller owns retry policy.
type GeminiProvider struct {
	client  *genai.Client
	config  common.GeminiConfig
	logger  arbor.ILogger
	limiter *rate.Limiter
	timeout time.Duration
}

func NewGeminiProvider(ctx context.Context, config *common.Config, logger arbor.ILogger) (*GeminiProvider, error) {
	if config.Gemini.APIKey == "" {
		return nil, NewMissingCredentialError("Gemini")
	}

	timeout, err := time.ParseDuration(config.Gemini.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid timeout duration '%s': %w", config.Gemini.Timeout, err)
	}

	interval, err := time.ParseDuration(config.Gemini.RateLimit)
	if err != nil {
		return nil, fmt.Errorf("invalid rate limit duration '%s': %w", config.Gemini.RateLimit, err)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.Gemini.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &GeminiProvider{
		client:  client,
		config:  config.Gemini,
		logger:  logger,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
		timeout: timeout,
	}, nil
}

func (p *GeminiProvider) Name() string {
	return "gemini"
}

func (p *GeminiProvider) GenerateContent(ctx context.Context, req ContentRequest) (*ContentResponse, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	model := req.Model
	if model == "" {
		model = p.config.Model
	}

	temp := float32(req.Temperature)
	if temp <= 0 {
		temp = float32(p.config.Temperature)
	}

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(temp),
	}

	if req.System != "" {
		config.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}

	if req.MaxTokens > 0 {
		config.MaxOutputTokens = int32(req.MaxTokens)
	}

	prompt := req.Prompt

	// Gemini rejects requests combining search grounding with a response
	// schema, so with search enabled the schema travels in the prompt and the
	// output is parsed leniently.
	if req.EnableSearch {
		config.Tools = []*genai.Tool{
			{GoogleSearch: &genai.GoogleSearch{}},
		}
		prompt += schemaAsPromptText(req.OutputSchema)
	} else if len(req.OutputSchema) > 0 {
		genaiSchema, err := convertToGenaiSchema(req.OutputSchema)
		if err != nil {
			p.logger.Error().Err(err).Msg("Failed to convert output schema")
			prompt += schemaAsPromptText(req.OutputSchema)
		} else if genaiSchema != nil {
			config.ResponseMIMEType = "application/json"
			config.ResponseSchema = genaiSchema
		}
	}

	start := time.Now()
	resp, err := p.client.Models.GenerateContent(ctx, model, genai.Text(prompt), config)
	if err != nil {
		return nil, err
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("empty response from Gemini API")
	}

	responseText := resp.Text()
	if responseText == "" {
		return nil, fmt.Errorf("empty text in Gemini response")
	}

	p.logger.Debug().
		Str("model", model).
		Dur("elapsed", time.Since(start)).
		Int("length", len(responseText)).
		Msg("Gemini generation complete")

	return &ContentResponse{
		Text:  responseText,
		Model: model,
	}, nil
}
