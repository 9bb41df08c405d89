package llm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/prospecto/internal/models"
)

func TestNormalize_Table(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantTitle string
		retryable bool
	}{
		{"invalid request", errors.New("googleapi: Error 400: invalid argument"), "Invalid Request", false},
		{"bad api key", errors.New("googleapi: Error 401: API key not valid"), "Authentication Error", false},
		{"permission denied", errors.New("googleapi: Error 403: permission denied"), "Permission Denied", false},
		{"missing model", errors.New("googleapi: Error 404: model not found"), "Resource Not Found", false},
		{"rate limited", errors.New("googleapi: Error 429: quota exceeded"), "Rate Limit Exceeded", true},
		{"server error", errors.New("googleapi: Error 500: internal error"), "Server Error", true},
		{"overloaded", errors.New("googleapi: Error 503: The model is overloaded"), "Service Overloaded", true},
		{"overloaded keyword only", errors.New("the model is overloaded, please try again"), "Service Overloaded", true},
		{"unclassified", errors.New("something strange happened"), "Analysis Failed", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desc := Normalize(tt.err)
			require.NotNil(t, desc)
			assert.Equal(t, tt.wantTitle, desc.Title)
			assert.Equal(t, tt.retryable, desc.IsRetryable)
			assert.NotEmpty(t, desc.Message)

			// Details always carries the raw failure text.
			assert.Contains(t, desc.Details, tt.err.Error())
		})
	}
}

func TestNormalize_DescriptorPassesThrough(t *testing.T) {
	original := models.NewErrorDescriptor("Missing API Key", "configure a key first", false)

	desc := Normalize(original)
	assert.Same(t, original, desc)
}

func TestNormalize_RefusalBecomesEntityNotFound(t *testing.T) {
	desc := Normalize(&RefusalError{Text: "I cannot find any data for ticker ZZZZ"})

	require.NotNil(t, desc)
	assert.Equal(t, "Entity Not Found", desc.Title)
	assert.False(t, desc.IsRetryable)
	assert.Contains(t, desc.Details, "ZZZZ")
}

func TestNormalize_ParseErrorIsRetryable(t *testing.T) {
	desc := Normalize(&ParseError{Text: "garbled output"})

	require.NotNil(t, desc)
	assert.Equal(t, "Data Parsing Error", desc.Title)
	assert.True(t, desc.IsRetryable)
}

func TestNormalize_Nil(t *testing.T) {
	assert.Nil(t, Normalize(nil))
}
