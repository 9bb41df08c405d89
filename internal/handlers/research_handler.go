package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/prospecto/internal/interfaces"
	"github.com/ternarybob/prospecto/internal/models"
)

var validate = validator.New()

// ResearchHandler handles report generation requests.
type ResearchHandler struct {
	research interfaces.ResearchService
	logger   arbor.ILogger
}

func NewResearchHandler(research interfaces.ResearchService, logger arbor.ILogger) *ResearchHandler {
	return &ResearchHandler{
		research: research,
		logger:   logger,
	}
}

type analyzeRequest struct {
	Ticker       string `json:"ticker" validate:"required"`
	Exchange     string `json:"exchange"`
	Horizon      string `json:"horizon" validate:"omitempty,oneof=day swing position"`
	LookbackDays int    `json:"lookback_days" validate:"omitempty,min=1,max=3650"`
}

type marketRequest struct {
	ForceRefresh bool `json:"force_refresh"`
}

type screenerRequest struct {
	Query        string `json:"query" validate:"required"`
	ForceRefresh bool   `json:"force_refresh"`
}

type ipoDetailRequest struct {
	Name string `json:"name" validate:"required"`
}

// decodeRequest decodes and validates a JSON request body. A false return
// means the response has already been written.
func decodeRequest(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, models.NewErrorDescriptor("Invalid Request", "Request body is not valid JSON.", false))
		return false
	}
	if err := validate.Struct(v); err != nil {
		writeError(w, models.NewErrorDescriptor("Invalid Request", "Request validation failed: "+err.Error(), false))
		return false
	}
	return true
}

// AnalyzeHandler handles POST /api/analyze requests
func (h *ResearchHandler) AnalyzeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req analyzeRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	h.logger.Info().Str("ticker", req.Ticker).Msg("Processing analysis request")

	report, err := h.research.Analyze(r.Context(), interfaces.AnalysisParams{
		Ticker:       req.Ticker,
		Exchange:     req.Exchange,
		Horizon:      req.Horizon,
		LookbackDays: req.LookbackDays,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"report":  report,
	})
}

// MarketHandler handles POST /api/market requests
func (h *ResearchHandler) MarketHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req marketRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	report, err := h.research.MarketOverview(r.Context(), req.ForceRefresh)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"report":  report,
	})
}

// ScreenerHandler handles POST /api/screener requests
func (h *ResearchHandler) ScreenerHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req screenerRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	h.logger.Info().Str("query", req.Query).Msg("Processing screener request")

	report, err := h.research.Screen(r.Context(), req.Query, req.ForceRefresh)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"report":  report,
	})
}

// LastScreenHandler handles GET /api/screener/last requests
func (h *ResearchHandler) LastScreenHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	last := h.research.LastScreen()
	if last == nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"result":  nil,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"result": map[string]interface{}{
			"query":  last.Query,
			"report": last.Report,
		},
	})
}

// IPOListHandler handles POST /api/ipos requests
func (h *ResearchHandler) IPOListHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req marketRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	report, err := h.research.IPOList(r.Context(), req.ForceRefresh)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"report":  report,
	})
}

// IPODetailHandler handles POST /api/ipos/detail requests
func (h *ResearchHandler) IPODetailHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ipoDetailRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	h.logger.Info().Str("name", req.Name).Msg("Processing IPO detail request")

	report, err := h.research.IPODetail(r.Context(), req.Name)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"report":  report,
	})
}
