package research

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/prospecto/internal/common"
	"github.com/ternarybob/prospecto/internal/interfaces"
	"github.com/ternarybob/prospecto/internal/models"
	"github.com/ternarybob/prospecto/internal/services/llm"
)

// stubProvider returns canned responses and records requests.
type stubProvider struct {
	response string
	err      error
	requests []llm.ContentRequest
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) GenerateContent(ctx context.Context, req llm.ContentRequest) (*llm.ContentResponse, error) {
	p.requests = append(p.requests, req)
	if p.err != nil {
		return nil, p.err
	}
	return &llm.ContentResponse{Text: p.response, Model: req.Model}, nil
}

type stubSource struct {
	provider llm.Provider
	err      error
}

func (s stubSource) ForModel(ctx context.Context, model string) (llm.Provider, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.provider, nil
}

func newTestService(t *testing.T, provider *stubProvider) *Service {
	t.Helper()
	config := common.NewDefaultConfig()
	logger := common.GetLogger()
	cache := NewCacheService(config.Cache, nil, logger)
	return newServiceWith(config, stubSource{provider: provider}, llm.NewExecutor(nil, logger), cache, logger)
}

func TestAnalyze(t *testing.T) {
	provider := &stubProvider{response: `{
		"ticker": "AAPL",
		"summary": "Constructive setup above the 50-day average.",
		"trade_plan": {"bias": "long", "entry": 230.5, "stop": 221.0, "target": 258.0, "risk_reward": 2.9},
		"evidence": [{"claim": "Price reclaimed the 50-day average", "category": "entry"}],
		"reasoning": [
			{"step": 1, "category": "data", "text": "Volume expanded on up days", "confidence": 85},
			{"step": 2, "category": "projection", "text": "Breakout could extend to prior high", "confidence": 55}
		]
	}`}
	svc := newTestService(t, provider)

	report, err := svc.Analyze(context.Background(), interfaces.AnalysisParams{Ticker: "aapl"})
	require.NoError(t, err)

	assert.Equal(t, "AAPL", report.Ticker)
	assert.Equal(t, "NASDAQ", report.Exchange)
	assert.Equal(t, "swing", report.Horizon)
	assert.False(t, report.GeneratedAt.IsZero())
	require.NotNil(t, report.TradePlan)
	assert.Equal(t, "long", report.TradePlan.Bias)

	// Low-confidence steps are flagged speculative even when the model
	// omits the flag.
	require.Len(t, report.Reasoning, 2)
	assert.False(t, report.Reasoning[0].Speculative)
	assert.True(t, report.Reasoning[1].Speculative)

	require.Len(t, provider.requests, 1)
	req := provider.requests[0]
	assert.Contains(t, req.Prompt, "NASDAQ:AAPL")
	assert.Contains(t, req.Prompt, "trade plan")
	assert.Contains(t, req.Prompt, "speculative")
	assert.Contains(t, req.Prompt, `"risk" for what could invalidate`)
	assert.NotEmpty(t, req.System)
	assert.NotNil(t, req.OutputSchema)
}

func TestAnalyze_EmptyTicker(t *testing.T) {
	provider := &stubProvider{}
	svc := newTestService(t, provider)

	_, err := svc.Analyze(context.Background(), interfaces.AnalysisParams{})

	desc, ok := models.AsErrorDescriptor(err)
	require.True(t, ok)
	assert.Equal(t, "Invalid Request", desc.Title)
	assert.Empty(t, provider.requests)
}

func TestMarketOverview_Cached(t *testing.T) {
	provider := &stubProvider{response: `{"summary": "Broad rally.", "sentiment": "risk-on"}`}
	svc := newTestService(t, provider)

	first, err := svc.MarketOverview(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, "risk-on", first.Sentiment)

	second, err := svc.MarketOverview(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, first.Summary, second.Summary)

	// Second call served from cache.
	assert.Len(t, provider.requests, 1)

	_, err = svc.MarketOverview(context.Background(), true)
	require.NoError(t, err)
	assert.Len(t, provider.requests, 2)
}

func TestScreen_NormalizedCacheKey(t *testing.T) {
	provider := &stubProvider{response: `{"criteria": ["small cap"], "matches": [{"ticker": "PLCE", "rationale": "fits"}]}`}
	svc := newTestService(t, provider)

	first, err := svc.Screen(context.Background(), "Small cap value", false)
	require.NoError(t, err)
	assert.Equal(t, "Small cap value", first.Query)

	// Case and whitespace variants share the cache slot.
	second, err := svc.Screen(context.Background(), "  small CAP value ", false)
	require.NoError(t, err)
	assert.Len(t, provider.requests, 1)
	require.Len(t, second.Matches, 1)

	last := svc.LastScreen()
	require.NotNil(t, last)
	assert.Equal(t, "  small CAP value ", last.Query)
}

func TestScreen_EmptyQuery(t *testing.T) {
	provider := &stubProvider{}
	svc := newTestService(t, provider)

	_, err := svc.Screen(context.Background(), "   ", false)

	desc, ok := models.AsErrorDescriptor(err)
	require.True(t, ok)
	assert.Equal(t, "Invalid Request", desc.Title)
}

func TestIPODetail_NeverCached(t *testing.T) {
	provider := &stubProvider{response: `{"name": "Acme Robotics", "business": "Industrial robots", "verdict": "Fairly priced"}`}
	svc := newTestService(t, provider)

	_, err := svc.IPODetail(context.Background(), "Acme Robotics")
	require.NoError(t, err)
	_, err = svc.IPODetail(context.Background(), "Acme Robotics")
	require.NoError(t, err)

	// Every detail request hits the model.
	assert.Len(t, provider.requests, 2)
}

func TestIPOList_Cached(t *testing.T) {
	provider := &stubProvider{response: `{"upcoming": [{"name": "Acme Robotics", "status": "filed"}], "recent": []}`}
	svc := newTestService(t, provider)

	first, err := svc.IPOList(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, first.Upcoming, 1)

	_, err = svc.IPOList(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, provider.requests, 1)
}

func TestGenerate_MissingCredentialFailsFast(t *testing.T) {
	config := common.NewDefaultConfig()
	logger := common.GetLogger()
	cache := NewCacheService(config.Cache, nil, logger)
	svc := newServiceWith(config, stubSource{err: llm.NewMissingCredentialError("Gemini")}, llm.NewExecutor(nil, logger), cache, logger)

	_, err := svc.Analyze(context.Background(), interfaces.AnalysisParams{Ticker: "AAPL"})

	desc, ok := models.AsErrorDescriptor(err)
	require.True(t, ok)
	assert.Equal(t, "Missing API Key", desc.Title)
	assert.False(t, desc.IsRetryable)
}

func TestGenerate_RefusalBecomesEntityNotFound(t *testing.T) {
	provider := &stubProvider{response: "I cannot find any listed company with that ticker."}
	svc := newTestService(t, provider)

	_, err := svc.Analyze(context.Background(), interfaces.AnalysisParams{Ticker: "ZZZZ"})

	desc, ok := models.AsErrorDescriptor(err)
	require.True(t, ok)
	assert.Equal(t, "Entity Not Found", desc.Title)
	assert.False(t, desc.IsRetryable)
}
