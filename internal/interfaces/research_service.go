// Package interfaces provides service interfaces for dependency injection.
package interfaces

import (
	"context"

	"github.com/ternarybob/prospecto/internal/models"
)

// AnalysisParams describes a single-ticker analysis request.
type AnalysisParams struct {
	Ticker       string // exchange-qualified or bare code
	Exchange     string // optional; default taken from config
	Horizon      string // day, swing, position
	LookbackDays int
}

// ScreenResult pairs a screener report with the query text as typed,
// for UI state restoration.
type ScreenResult struct {
	Query  string
	Report *models.ScreenerReport
}

// ResearchService produces structured research reports. Every method returns
// either a typed report or an error that unwraps to *models.ErrorDescriptor.
type ResearchService interface {
	// Analyze produces a fresh trade-plan analysis; never cached.
	Analyze(ctx context.Context, params AnalysisParams) (*models.AnalysisReport, error)

	// MarketOverview returns the market scan, served from the persisted
	// cache slot when fresh unless forceRefresh is set.
	MarketOverview(ctx context.Context, forceRefresh bool) (*models.MarketOverviewReport, error)

	// Screen runs a criteria-driven screen; results are cached per
	// normalized query text.
	Screen(ctx context.Context, query string, forceRefresh bool) (*models.ScreenerReport, error)

	// IPOList returns the IPO calendar, served from the persisted cache
	// slot when fresh unless forceRefresh is set.
	IPOList(ctx context.Context, forceRefresh bool) (*models.IPOListReport, error)

	// IPODetail produces a fresh due-diligence brief; never cached.
	IPODetail(ctx context.Context, name string) (*models.IPODetailReport, error)

	// LastScreen returns the most recently served screener result, or nil.
	// Synchronous accessor for UI state restoration.
	LastScreen() *ScreenResult
}

// ChatService answers free-form market questions in two phases.
type ChatService interface {
	// Ask returns the quick answer synchronously and kicks off the
	// detailed, search-grounded refinement in the background.
	Ask(ctx context.Context, question string, history []models.ChatMessage) (*models.ChatMessage, error)

	// Get returns the current state of a chat answer slot, which may have
	// been replaced by the detailed phase since Ask returned.
	Get(id string) (*models.ChatMessage, bool)
}

// RefinementListener is notified when a chat answer is replaced in place by
// its detailed phase. Used to push updates to connected UI clients.
type RefinementListener interface {
	OnRefinement(msg *models.ChatMessage)
}
