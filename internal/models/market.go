package models

import "time"

// MarketOverviewReport is the structured result of a whole-of-market scan.
type MarketOverviewReport struct {
	AsOf        time.Time           `json:"as_of"`
	Summary     string              `json:"summary,omitempty"`
	Sentiment   string              `json:"sentiment,omitempty"` // risk-on, risk-off, mixed
	Indices     []IndexQuote        `json:"indices,omitempty"`
	Gainers     []Mover             `json:"gainers,omitempty"`
	Losers      []Mover             `json:"losers,omitempty"`
	Sectors     []SectorPerformance `json:"sectors,omitempty"`
	News        []NewsItem          `json:"news,omitempty"`
	Flows       []string            `json:"flows,omitempty"` // fund flow and positioning notes
	Actions     []CorporateAction   `json:"actions,omitempty"`
}

// IndexQuote is a benchmark index level with daily change.
type IndexQuote struct {
	Name      string  `json:"name"`
	Symbol    string  `json:"symbol,omitempty"`
	Level     float64 `json:"level,omitempty"`
	ChangePct float64 `json:"change_pct,omitempty"`
}

// Mover is a notable gainer or loser.
type Mover struct {
	Ticker    string  `json:"ticker"`
	Name      string  `json:"name,omitempty"`
	Price     float64 `json:"price,omitempty"`
	ChangePct float64 `json:"change_pct,omitempty"`
	Reason    string  `json:"reason,omitempty"`
}

// SectorPerformance is a sector-level daily move.
type SectorPerformance struct {
	Name      string  `json:"name"`
	ChangePct float64 `json:"change_pct,omitempty"`
}

// CorporateAction is an upcoming or recent dividend, split, or similar event.
type CorporateAction struct {
	Ticker string `json:"ticker"`
	Type   string `json:"type"` // dividend, split, buyback, delisting
	Date   string `json:"date,omitempty"`
	Detail string `json:"detail,omitempty"`
}
