package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/prospecto/internal/common"
)

// ClaudeProvider generates reports through the Anthropic API. Claude has no
// structured output mode here, so schemas always travel in the prompt.
type ClaudeProvider struct {
	client anthropic.Client
	config common.ClaudeConfig
	logger arbor.ILogger
}

func NewClaudeProvider(config *common.Config, logger arbor.ILogger) *ClaudeProvider {
	client := anthropic.NewClient(
		option.WithAPIKey(config.Claude.APIKey),
	)

	return &ClaudeProvider{
		client: client,
		config: config.Claude,
		logger: logger,
	}
}

func (p *ClaudeProvider) Name() string {
	return "claude"
}

func (p *ClaudeProvider) GenerateContent(ctx context.Context, req ContentRequest) (*ContentResponse, error) {
	model := req.Model
	if model == "" {
		model = p.config.Model
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = p.config.MaxTokens
	}

	prompt := req.Prompt + schemaAsPromptText(req.OutputSchema)

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}

	temp := req.Temperature
	if temp <= 0 {
		temp = float64(p.config.Temperature)
	}
	if temp > 0 {
		params.Temperature = anthropic.Float(temp)
	}

	if req.System != "" {
		params.System = []anthropic.TextBlockParam{
			{Text: req.System},
		}
	}

	start := time.Now()
	resp, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return nil, err
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	if text.Len() == 0 {
		return nil, fmt.Errorf("empty response from Claude API")
	}

	p.logger.Debug().
		Str("model", model).
		Dur("elapsed", time.Since(start)).
		Int("length", text.Len()).
		Msg("Claude generation complete")

	return &ContentResponse{
		Text:  text.String(),
		Model: model,
	}, nil
}
