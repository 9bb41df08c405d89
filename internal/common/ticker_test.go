package common

import (
	"testing"
)

func TestParseTicker(t *testing.T) {
	tests := []struct {
		name             string
		input            string
		expectedExchange string
		expectedCode     string
	}{
		{
			name:             "colon separator",
			input:            "NASDAQ:AAPL",
			expectedExchange: "NASDAQ",
			expectedCode:     "AAPL",
		},
		{
			name:             "lowercase colon separator",
			input:            "nyse:ibm",
			expectedExchange: "NYSE",
			expectedCode:     "IBM",
		},
		{
			name:             "dot separator with known exchange",
			input:            "ASX.BHP",
			expectedExchange: "ASX",
			expectedCode:     "BHP",
		},
		{
			name:             "share class dot is not an exchange",
			input:            "BRK.B",
			expectedExchange: "NASDAQ",
			expectedCode:     "BRK.B",
		},
		{
			name:             "bare ticker uses default exchange",
			input:            "TSLA",
			expectedExchange: "NASDAQ",
			expectedCode:     "TSLA",
		},
		{
			name:             "whitespace and case normalized",
			input:            "  aapl  ",
			expectedExchange: "NASDAQ",
			expectedCode:     "AAPL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed := ParseTicker(tt.input)
			if parsed.Exchange != tt.expectedExchange {
				t.Errorf("exchange: got %q, want %q", parsed.Exchange, tt.expectedExchange)
			}
			if parsed.Code != tt.expectedCode {
				t.Errorf("code: got %q, want %q", parsed.Code, tt.expectedCode)
			}
		})
	}
}

func TestParseTicker_Empty(t *testing.T) {
	parsed := ParseTicker("   ")
	if parsed.Code != "" {
		t.Errorf("expected empty ticker, got %q", parsed.Code)
	}
}

func TestNormalizeQuery_Idempotent(t *testing.T) {
	inputs := []string{"  Gold Miners under $5B  ", "AAPL", " aapl ", "Aapl"}
	for _, q := range inputs {
		once := NormalizeQuery(q)
		twice := NormalizeQuery(once)
		if once != twice {
			t.Errorf("normalization not idempotent for %q: %q != %q", q, once, twice)
		}
	}
}

func TestNormalizeQuery_CaseAndWhitespaceInsensitive(t *testing.T) {
	variants := []string{"AAPL", " aapl ", "Aapl"}
	want := NormalizeQuery(variants[0])
	for _, v := range variants {
		if NormalizeQuery(v) != want {
			t.Errorf("NormalizeQuery(%q) = %q, want %q", v, NormalizeQuery(v), want)
		}
	}
}

func TestTickerCacheKey(t *testing.T) {
	a := ParseTicker("NASDAQ:AAPL").CacheKey()
	b := ParseTicker(" aapl ").CacheKey()
	if a != b {
		t.Errorf("cache keys differ: %q vs %q", a, b)
	}
}
