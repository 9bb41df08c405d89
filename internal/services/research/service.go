package research

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/prospecto/internal/common"
	"github.com/ternarybob/prospecto/internal/interfaces"
	"github.com/ternarybob/prospecto/internal/models"
	"github.com/ternarybob/prospecto/internal/services/llm"
)

// providerSource yields a provider for a model name. Satisfied by
// llm.ProviderFactory.
type providerSource interface {
	ForModel(ctx context.Context, model string) (llm.Provider, error)
}

// Service implements interfaces.ResearchService. Each operation builds a
// report-specific prompt and schema, invokes the model through the retry
// executor, and extracts the structured payload from the response. Market,
// screener and IPO calendar results are cached; analysis and IPO detail
// reports are always generated fresh.
type Service struct {
	config    *common.Config
	logger    arbor.ILogger
	providers providerSource
	executor  *llm.Executor
	cache     *CacheService

	mu         sync.RWMutex
	lastScreen *interfaces.ScreenResult
}

// NewService wires a research service from configuration. kv may be nil for
// a memory-only cache.
func NewService(config *common.Config, kv interfaces.KeyValueStorage, logger arbor.ILogger) *Service {
	retryConfig := llm.NewDefaultRetryConfig()
	if config.Gemini.MaxAttempts > 0 {
		retryConfig.MaxAttempts = config.Gemini.MaxAttempts
	}
	if d, err := time.ParseDuration(config.Gemini.RetryBase); err == nil && d > 0 {
		retryConfig.ServerBase = d
	}
	if d, err := time.ParseDuration(config.Gemini.RateRetryBase); err == nil && d > 0 {
		retryConfig.RateLimitBase = d
	}

	return &Service{
		config:    config,
		logger:    logger,
		providers: llm.NewProviderFactory(config, logger),
		executor:  llm.NewExecutor(retryConfig, logger),
		cache:     NewCacheService(config.Cache, kv, logger),
	}
}

// newServiceWith injects collaborators directly; used by tests.
func newServiceWith(config *common.Config, providers providerSource, executor *llm.Executor, cache *CacheService, logger arbor.ILogger) *Service {
	return &Service{
		config:    config,
		logger:    logger,
		providers: providers,
		executor:  executor,
		cache:     cache,
	}
}

// Cache exposes the cache service for DI into other components.
func (s *Service) Cache() *CacheService {
	return s.cache
}

func (s *Service) defaultModel() string {
	if s.config.LLM.DefaultProvider == common.LLMProviderClaude {
		return s.config.Claude.Model
	}
	return s.config.Gemini.Model
}

// generate runs the full invocation pipeline for one report: provider
// selection (fails fast on a missing credential), retry-wrapped model call,
// and JSON extraction into out. Any failure comes back as an
// *models.ErrorDescriptor.
func (s *Service) generate(ctx context.Context, kind models.ReportKind, prompt string, schema map[string]interface{}, out interface{}) error {
	model := s.defaultModel()

	provider, err := s.providers.ForModel(ctx, model)
	if err != nil {
		return llm.Normalize(err)
	}

	req := llm.ContentRequest{
		Prompt:       prompt,
		System:       researchSystemPrompt,
		Model:        model,
		Temperature:  float64(s.config.Gemini.Temperature),
		EnableSearch: s.config.Gemini.EnableSearch,
		OutputSchema: schema,
	}

	start := time.Now()
	var text string
	err = s.executor.Execute(ctx, func(ctx context.Context) error {
		resp, genErr := provider.GenerateContent(ctx, req)
		if genErr != nil {
			return genErr
		}
		text = resp.Text
		return nil
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("kind", string(kind)).Msg("Report generation failed")
		return llm.Normalize(err)
	}

	if err := llm.ExtractJSON(text, out); err != nil {
		s.logger.Warn().Err(err).Str("kind", string(kind)).Msg("Report extraction failed")
		return llm.Normalize(err)
	}

	s.logger.Info().
		Str("kind", string(kind)).
		Str("model", model).
		Dur("elapsed", time.Since(start)).
		Msg("Report generated")
	return nil
}

func (s *Service) Analyze(ctx context.Context, params interfaces.AnalysisParams) (*models.AnalysisReport, error) {
	if strings.TrimSpace(params.Ticker) == "" {
		return nil, models.NewErrorDescriptor("Invalid Request", "A ticker is required for analysis.", false)
	}

	ticker := common.ParseTicker(params.Ticker)
	if params.Exchange != "" {
		ticker.Exchange = strings.ToUpper(params.Exchange)
	}
	if params.Horizon == "" {
		params.Horizon = s.config.Research.DefaultHorizon
	}
	if params.LookbackDays <= 0 {
		params.LookbackDays = s.config.Research.DefaultLookback
	}

	var report models.AnalysisReport
	if err := s.generate(ctx, models.ReportKindAnalysis, buildAnalysisPrompt(params, ticker), analysisSchema(), &report); err != nil {
		return nil, err
	}

	report.Ticker = ticker.Code
	report.Exchange = ticker.Exchange
	report.Horizon = params.Horizon
	report.GeneratedAt = time.Now()
	markSpeculativeSteps(report.Reasoning)

	return &report, nil
}

// markSpeculativeSteps enforces the speculative flag on low-confidence
// reasoning steps regardless of what the model set.
func markSpeculativeSteps(steps []models.ReasoningStep) {
	for i := range steps {
		if steps[i].Confidence > 0 && steps[i].Confidence < models.SpeculativeConfidenceThreshold {
			steps[i].Speculative = true
		}
	}
}

const (
	marketCacheKey  = "overview"
	ipoListCacheKey = "calendar"
)

func (s *Service) MarketOverview(ctx context.Context, forceRefresh bool) (*models.MarketOverviewReport, error) {
	if !forceRefresh {
		var cached models.MarketOverviewReport
		if s.cache.Get(ctx, models.ReportKindMarket, marketCacheKey, &cached) {
			return &cached, nil
		}
	}

	var report models.MarketOverviewReport
	if err := s.generate(ctx, models.ReportKindMarket, buildMarketPrompt(), marketSchema(), &report); err != nil {
		return nil, err
	}
	report.AsOf = time.Now()

	s.cache.Put(ctx, models.ReportKindMarket, marketCacheKey, &report)
	return &report, nil
}

func (s *Service) Screen(ctx context.Context, query string, forceRefresh bool) (*models.ScreenerReport, error) {
	if strings.TrimSpace(query) == "" {
		return nil, models.NewErrorDescriptor("Invalid Request", "A screener query is required.", false)
	}

	// Cache key is the normalized query so whitespace and case variants of
	// the same screen share a slot; the report retains the text as typed.
	key := common.NormalizeQuery(query)

	if !forceRefresh {
		var cached models.ScreenerReport
		if s.cache.Get(ctx, models.ReportKindScreener, key, &cached) {
			s.setLastScreen(query, &cached)
			return &cached, nil
		}
	}

	var report models.ScreenerReport
	if err := s.generate(ctx, models.ReportKindScreener, buildScreenerPrompt(query), screenerSchema(), &report); err != nil {
		return nil, err
	}
	report.Query = query
	report.GeneratedAt = time.Now()

	s.cache.Put(ctx, models.ReportKindScreener, key, &report)
	s.setLastScreen(query, &report)
	return &report, nil
}

func (s *Service) setLastScreen(query string, report *models.ScreenerReport) {
	s.mu.Lock()
	s.lastScreen = &interfaces.ScreenResult{Query: query, Report: report}
	s.mu.Unlock()
}

func (s *Service) LastScreen() *interfaces.ScreenResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastScreen
}

func (s *Service) IPOList(ctx context.Context, forceRefresh bool) (*models.IPOListReport, error) {
	if !forceRefresh {
		var cached models.IPOListReport
		if s.cache.Get(ctx, models.ReportKindIPOList, ipoListCacheKey, &cached) {
			return &cached, nil
		}
	}

	var report models.IPOListReport
	if err := s.generate(ctx, models.ReportKindIPOList, buildIPOListPrompt(), ipoListSchema(), &report); err != nil {
		return nil, err
	}
	report.AsOf = time.Now()

	s.cache.Put(ctx, models.ReportKindIPOList, ipoListCacheKey, &report)
	return &report, nil
}

func (s *Service) IPODetail(ctx context.Context, name string) (*models.IPODetailReport, error) {
	if strings.TrimSpace(name) == "" {
		return nil, models.NewErrorDescriptor("Invalid Request", "A company name is required for IPO detail.", false)
	}

	var report models.IPODetailReport
	if err := s.generate(ctx, models.ReportKindIPODetail, buildIPODetailPrompt(name), ipoDetailSchema(), &report); err != nil {
		return nil, err
	}
	report.GeneratedAt = time.Now()

	return &report, nil
}
