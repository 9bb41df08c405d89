// Package common provides shared utilities across the application.
package common

import (
	"strings"
)

// Ticker represents a parsed exchange-qualified ticker.
// Format: EXCHANGE:CODE (e.g., "NASDAQ:AAPL", "ASX:BHP")
type Ticker struct {
	// Exchange is the exchange code (e.g., "NASDAQ", "NYSE", "ASX")
	Exchange string
	// Code is the stock/security code (e.g., "AAPL", "BHP")
	Code string
	// Raw is the original ticker string
	Raw string
}

// KnownExchanges lists exchange codes recognized in dot-separated tickers.
var KnownExchanges = map[string]bool{
	"NASDAQ": true,
	"NYSE":   true,
	"AMEX":   true,
	"ASX":    true,
	"LSE":    true,
	"TSX":    true,
	"XETRA":  true,
	"HKEX":   true,
	"TSE":    true,
}

// DefaultExchange is the default exchange used when parsing tickers without
// an exchange prefix. Overridden via [research] default_exchange in TOML.
var DefaultExchange = "NASDAQ"

// SetDefaultExchange sets the default exchange for parsing tickers.
// Called during app initialization from config.
func SetDefaultExchange(exchange string) {
	if exchange != "" {
		DefaultExchange = strings.ToUpper(exchange)
	}
}

// ParseTicker parses an exchange-qualified ticker string.
// Supports formats:
//   - "NASDAQ:AAPL" -> Exchange="NASDAQ", Code="AAPL" (colon separator)
//   - "NASDAQ.AAPL" -> Exchange="NASDAQ", Code="AAPL" (dot separator)
//   - "AAPL" -> Exchange=DefaultExchange, Code="AAPL"
//   - " aapl " -> Exchange=DefaultExchange, Code="AAPL" (normalized)
func ParseTicker(ticker string) Ticker {
	ticker = strings.TrimSpace(ticker)
	if ticker == "" {
		return Ticker{}
	}

	if idx := strings.Index(ticker, ":"); idx > 0 {
		return Ticker{
			Exchange: strings.ToUpper(ticker[:idx]),
			Code:     strings.ToUpper(strings.TrimSpace(ticker[idx+1:])),
			Raw:      ticker,
		}
	}

	// Dot separator only when the prefix is a known exchange, to avoid
	// conflicts with share classes like BRK.B
	if idx := strings.Index(ticker, "."); idx > 0 {
		possibleExchange := strings.ToUpper(ticker[:idx])
		if KnownExchanges[possibleExchange] {
			return Ticker{
				Exchange: possibleExchange,
				Code:     strings.ToUpper(ticker[idx+1:]),
				Raw:      ticker,
			}
		}
	}

	return Ticker{
		Exchange: DefaultExchange,
		Code:     strings.ToUpper(ticker),
		Raw:      ticker,
	}
}

// String returns the full exchange-qualified ticker string.
func (t Ticker) String() string {
	if t.Exchange == "" || t.Code == "" {
		return t.Code
	}
	return t.Exchange + ":" + t.Code
}

// CacheKey returns the normalized cache identity for this ticker.
func (t Ticker) CacheKey() string {
	return strings.ToLower(t.String())
}

// NormalizeQuery normalizes a free-text query for use as a cache key.
// Trim then case-fold; idempotent.
func NormalizeQuery(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}
