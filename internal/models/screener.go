package models

import "time"

// ScreenerReport is the structured result of a criteria-driven stock screen.
type ScreenerReport struct {
	Query       string          `json:"query"` // original query text as the user typed it
	GeneratedAt time.Time       `json:"generated_at"`
	Criteria    []string        `json:"criteria,omitempty"` // criteria as the model interpreted them
	Matches     []ScreenerMatch `json:"matches,omitempty"`
	Notes       string          `json:"notes,omitempty"`
}

// ScreenerMatch is one candidate surfaced by a screen.
type ScreenerMatch struct {
	Ticker    string  `json:"ticker"`
	Name      string  `json:"name,omitempty"`
	Exchange  string  `json:"exchange,omitempty"`
	Price     float64 `json:"price,omitempty"`
	MarketCap string  `json:"market_cap,omitempty"`
	Sector    string  `json:"sector,omitempty"`
	Score     float64 `json:"score,omitempty"` // fit against the criteria, 0-100
	Rationale string  `json:"rationale,omitempty"`
}
