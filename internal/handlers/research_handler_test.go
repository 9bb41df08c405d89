package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/prospecto/internal/common"
	"github.com/ternarybob/prospecto/internal/interfaces"
	"github.com/ternarybob/prospecto/internal/models"
)

// stubResearch returns canned reports or a fixed error.
type stubResearch struct {
	err        error
	analysis   *models.AnalysisReport
	market     *models.MarketOverviewReport
	screener   *models.ScreenerReport
	ipoList    *models.IPOListReport
	ipoDetail  *models.IPODetailReport
	lastScreen *interfaces.ScreenResult

	lastParams interfaces.AnalysisParams
	lastForce  bool
}

func (s *stubResearch) Analyze(ctx context.Context, params interfaces.AnalysisParams) (*models.AnalysisReport, error) {
	s.lastParams = params
	return s.analysis, s.err
}

func (s *stubResearch) MarketOverview(ctx context.Context, forceRefresh bool) (*models.MarketOverviewReport, error) {
	s.lastForce = forceRefresh
	return s.market, s.err
}

func (s *stubResearch) Screen(ctx context.Context, query string, forceRefresh bool) (*models.ScreenerReport, error) {
	s.lastForce = forceRefresh
	return s.screener, s.err
}

func (s *stubResearch) IPOList(ctx context.Context, forceRefresh bool) (*models.IPOListReport, error) {
	return s.ipoList, s.err
}

func (s *stubResearch) IPODetail(ctx context.Context, name string) (*models.IPODetailReport, error) {
	return s.ipoDetail, s.err
}

func (s *stubResearch) LastScreen() *interfaces.ScreenResult {
	return s.lastScreen
}

func postJSON(t *testing.T, handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestAnalyzeHandler(t *testing.T) {
	research := &stubResearch{analysis: &models.AnalysisReport{Ticker: "AAPL", Exchange: "NASDAQ"}}
	h := NewResearchHandler(research, common.GetLogger())

	rec := postJSON(t, h.AnalyzeHandler, `{"ticker": "AAPL", "horizon": "swing"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "swing", research.lastParams.Horizon)
}

func TestAnalyzeHandler_ValidationFailure(t *testing.T) {
	h := NewResearchHandler(&stubResearch{}, common.GetLogger())

	// Missing required ticker
	rec := postJSON(t, h.AnalyzeHandler, `{"horizon": "swing"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Horizon outside the allowed set
	rec = postJSON(t, h.AnalyzeHandler, `{"ticker": "AAPL", "horizon": "decade"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Malformed JSON
	rec = postJSON(t, h.AnalyzeHandler, `{"ticker"`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyzeHandler_MethodNotAllowed(t *testing.T) {
	h := NewResearchHandler(&stubResearch{}, common.GetLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/analyze", nil)
	rec := httptest.NewRecorder()
	h.AnalyzeHandler(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestAnalyzeHandler_DescriptorStatusMapping(t *testing.T) {
	tests := []struct {
		title      string
		wantStatus int
	}{
		{"Entity Not Found", http.StatusNotFound},
		{"Rate Limit Exceeded", http.StatusTooManyRequests},
		{"Service Overloaded", http.StatusServiceUnavailable},
		{"Missing API Key", http.StatusUnauthorized},
		{"Analysis Failed", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			research := &stubResearch{err: models.NewErrorDescriptor(tt.title, "m", false)}
			h := NewResearchHandler(research, common.GetLogger())

			rec := postJSON(t, h.AnalyzeHandler, `{"ticker": "AAPL"}`)
			assert.Equal(t, tt.wantStatus, rec.Code)

			body := decodeBody(t, rec)
			assert.Equal(t, false, body["success"])
			errObj, ok := body["error"].(map[string]interface{})
			require.True(t, ok)
			assert.Equal(t, tt.title, errObj["title"])
		})
	}
}

func TestMarketHandler_ForceRefresh(t *testing.T) {
	research := &stubResearch{market: &models.MarketOverviewReport{Sentiment: "mixed"}}
	h := NewResearchHandler(research, common.GetLogger())

	rec := postJSON(t, h.MarketHandler, `{"force_refresh": true}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, research.lastForce)
}

func TestLastScreenHandler(t *testing.T) {
	h := NewResearchHandler(&stubResearch{}, common.GetLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/screener/last", nil)
	rec := httptest.NewRecorder()
	h.LastScreenHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Nil(t, body["result"])

	research := &stubResearch{lastScreen: &interfaces.ScreenResult{
		Query:  "small caps",
		Report: &models.ScreenerReport{Query: "small caps"},
	}}
	h = NewResearchHandler(research, common.GetLogger())
	rec = httptest.NewRecorder()
	h.LastScreenHandler(rec, req)

	body = decodeBody(t, rec)
	result, ok := body["result"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "small caps", result["query"])
}

func TestIPODetailHandler_RequiresName(t *testing.T) {
	h := NewResearchHandler(&stubResearch{}, common.GetLogger())

	rec := postJSON(t, h.IPODetailHandler, `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
