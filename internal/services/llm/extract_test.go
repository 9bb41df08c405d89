package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON_FencedWithPreamble(t *testing.T) {
	raw := "Sure! Here is the analysis you asked for:\n```json\n{\"ticker\": \"AAPL\", \"score\": 82}\n```"

	var out struct {
		Ticker string `json:"ticker"`
		Score  int    `json:"score"`
	}
	require.NoError(t, ExtractJSON(raw, &out))
	assert.Equal(t, "AAPL", out.Ticker)
	assert.Equal(t, 82, out.Score)
}

func TestExtractJSON_BareObject(t *testing.T) {
	var out map[string]interface{}
	require.NoError(t, ExtractJSON(`{"a": 1}`, &out))
	assert.Equal(t, float64(1), out["a"])
}

func TestExtractJSON_TrailingProse(t *testing.T) {
	raw := "{\"a\": 1}\n\nLet me know if you need anything else."

	var out map[string]interface{}
	require.NoError(t, ExtractJSON(raw, &out))
	assert.Equal(t, float64(1), out["a"])
}

func TestExtractJSON_RefusalIsNotParseError(t *testing.T) {
	raw := "I'm sorry, there is no data available for ticker XYZQ on any exchange I know of."

	var out map[string]interface{}
	err := ExtractJSON(raw, &out)

	var refusal *RefusalError
	require.ErrorAs(t, err, &refusal)
	assert.Contains(t, refusal.Text, "XYZQ")

	var parseErr *ParseError
	assert.NotErrorAs(t, err, &parseErr)
}

func TestExtractJSON_LongResponseWithRefusalPhraseStillParses(t *testing.T) {
	// A genuine report can mention a refusal phrase in passing; length keeps
	// it out of refusal detection.
	payload := `{"summary": "` + strings.Repeat("x", 600) + ` cannot find better entry than current levels"}`

	var out struct {
		Summary string `json:"summary"`
	}
	require.NoError(t, ExtractJSON(payload, &out))
	assert.Contains(t, out.Summary, "cannot find")
}

func TestExtractJSON_NoObjectIsParseError(t *testing.T) {
	var out map[string]interface{}
	err := ExtractJSON("the market closed higher today", &out)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "the market closed higher today", parseErr.Text)
}

func TestExtractJSON_MalformedObjectIsParseError(t *testing.T) {
	var out map[string]interface{}
	err := ExtractJSON(`{"a": }`, &out)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Error(t, parseErr.Err)
}

func TestCleanMarkdownFences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"plain fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"no fence", `{"a":1}`, `{"a":1}`},
		{"surrounding whitespace", "  \n```json\n{\"a\":1}\n```\n  ", `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanMarkdownFences(tt.input); got != tt.want {
				t.Errorf("cleanMarkdownFences(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
