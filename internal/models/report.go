// Package models defines data structures for Prospecto.
package models

import "time"

// ReportKind discriminates research request descriptors and their results.
type ReportKind string

const (
	ReportKindAnalysis     ReportKind = "analysis"
	ReportKindMarket       ReportKind = "market"
	ReportKindScreener     ReportKind = "screener"
	ReportKindIPOList      ReportKind = "ipo_list"
	ReportKindIPODetail    ReportKind = "ipo_detail"
	ReportKindChatLite     ReportKind = "chat_lite"
	ReportKindChatDetailed ReportKind = "chat_detailed"
)

// Cacheable reports true for report kinds whose results may be served from
// cache. Analysis and IPO detail reports are always fresh-fetched: they are
// higher-value, lower-frequency, and reusing a stale trade plan is
// unacceptable.
func (k ReportKind) Cacheable() bool {
	switch k {
	case ReportKindMarket, ReportKindScreener, ReportKindIPOList:
		return true
	}
	return false
}

// EvidenceCategory tags which trade-plan element an evidence item supports.
type EvidenceCategory string

const (
	EvidenceEntry   EvidenceCategory = "entry"
	EvidenceStop    EvidenceCategory = "stop"
	EvidenceTarget  EvidenceCategory = "target"
	EvidenceGeneral EvidenceCategory = "general"
)

// ReasoningCategory tags a reasoning step by the nature of its inference.
type ReasoningCategory string

const (
	ReasoningData       ReasoningCategory = "data"
	ReasoningLogic      ReasoningCategory = "logic"
	ReasoningProjection ReasoningCategory = "projection"
	ReasoningRisk       ReasoningCategory = "risk"
)

// SpeculativeConfidenceThreshold is the confidence percentage below which a
// reasoning step must be flagged speculative.
const SpeculativeConfidenceThreshold = 70

// AnalysisReport is the structured result of a single-ticker deep analysis.
// All fields come from model output and may be absent or estimated; the
// extractor does not enforce schema conformance on the way back.
type AnalysisReport struct {
	Ticker      string    `json:"ticker"`
	Exchange    string    `json:"exchange"`
	CompanyName string    `json:"company_name,omitempty"`
	Horizon     string    `json:"horizon,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`

	Summary   string           `json:"summary,omitempty"`
	Snapshot  *MarketSnapshot  `json:"snapshot,omitempty"`
	TradePlan *TradePlan       `json:"trade_plan,omitempty"`
	Evidence  []Evidence       `json:"evidence,omitempty"`
	Reasoning []ReasoningStep  `json:"reasoning,omitempty"`
	Scenarios []Scenario       `json:"scenarios,omitempty"`
	News      []NewsItem       `json:"news,omitempty"`
	Macro     []string         `json:"macro,omitempty"`
}

// MarketSnapshot holds point-in-time quote and valuation context.
// Values are model-reported and may be fabricated or estimated.
type MarketSnapshot struct {
	Price        float64 `json:"price,omitempty"`
	ChangePct    float64 `json:"change_pct,omitempty"`
	Volume       int64   `json:"volume,omitempty"`
	MarketCap    string  `json:"market_cap,omitempty"`
	PE           float64 `json:"pe_ratio,omitempty"`
	High52Week   float64 `json:"high_52_week,omitempty"`
	Low52Week    float64 `json:"low_52_week,omitempty"`
	Sector       string  `json:"sector,omitempty"`
	ShortFloat   string  `json:"short_float,omitempty"`
	AvgVolume    int64   `json:"avg_volume,omitempty"`
}

// TradePlan is the actionable core of an analysis report.
type TradePlan struct {
	Bias       string  `json:"bias,omitempty"` // long, short, neutral
	Entry      float64 `json:"entry,omitempty"`
	Stop       float64 `json:"stop,omitempty"`
	Target     float64 `json:"target,omitempty"`
	RiskReward float64 `json:"risk_reward,omitempty"`
	Rationale  string  `json:"rationale,omitempty"`
}

// Evidence is a single supporting claim, categorized by which trade-plan
// element it backs.
type Evidence struct {
	Claim    string           `json:"claim"`
	Source   string           `json:"source,omitempty"`
	Category EvidenceCategory `json:"category"`
}

// ReasoningStep is one step of the model's chain of analysis. Steps with
// Confidence below SpeculativeConfidenceThreshold carry Speculative=true.
type ReasoningStep struct {
	Step        int               `json:"step"`
	Category    ReasoningCategory `json:"category"`
	Text        string            `json:"text"`
	Confidence  float64           `json:"confidence,omitempty"` // 0-100
	Speculative bool              `json:"speculative"`
}

// Scenario is one branch of a bull/base/bear scenario analysis.
type Scenario struct {
	Name        string  `json:"name"` // bull, base, bear
	Probability float64 `json:"probability,omitempty"`
	PriceTarget float64 `json:"price_target,omitempty"`
	Narrative   string  `json:"narrative,omitempty"`
}

// NewsItem is a model-surfaced news reference.
type NewsItem struct {
	Headline  string `json:"headline"`
	Source    string `json:"source,omitempty"`
	URL       string `json:"url,omitempty"`
	Published string `json:"published,omitempty"`
	Sentiment string `json:"sentiment,omitempty"`
}
