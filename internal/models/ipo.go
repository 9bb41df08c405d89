package models

import "time"

// IPOListReport is the structured IPO calendar.
type IPOListReport struct {
	AsOf     time.Time    `json:"as_of"`
	Upcoming []IPOListing `json:"upcoming,omitempty"`
	Recent   []IPOListing `json:"recent,omitempty"`
	Summary  string       `json:"summary,omitempty"`
}

// IPOListing is one entry in the IPO calendar.
type IPOListing struct {
	Name         string `json:"name"`
	Symbol       string `json:"symbol,omitempty"`
	Exchange     string `json:"exchange,omitempty"`
	ExpectedDate string `json:"expected_date,omitempty"`
	PriceRange   string `json:"price_range,omitempty"`
	DealSize     string `json:"deal_size,omitempty"`
	Status       string `json:"status,omitempty"` // filed, priced, listed, withdrawn
	Sector       string `json:"sector,omitempty"`
}

// IPODetailReport is a due-diligence brief on a single listing.
type IPODetailReport struct {
	Name          string      `json:"name"`
	Symbol        string      `json:"symbol,omitempty"`
	Exchange      string      `json:"exchange,omitempty"`
	GeneratedAt   time.Time   `json:"generated_at"`
	ExpectedDate  string      `json:"expected_date,omitempty"`
	PriceRange    string      `json:"price_range,omitempty"`
	Valuation     string      `json:"valuation,omitempty"`
	Business      string      `json:"business,omitempty"`
	Financials    []IPOMetric `json:"financials,omitempty"`
	Strengths     []string    `json:"strengths,omitempty"`
	Risks         []string    `json:"risks,omitempty"`
	UseOfProceeds string      `json:"use_of_proceeds,omitempty"`
	Underwriters  []string    `json:"underwriters,omitempty"`
	Verdict       string      `json:"verdict,omitempty"`
}

// IPOMetric is a labelled financial data point from a listing prospectus.
// Values are kept as strings: the model frequently reports ranges,
// approximations, or footnoted figures.
type IPOMetric struct {
	Label  string `json:"label"`
	Value  string `json:"value"`
	Period string `json:"period,omitempty"`
}
