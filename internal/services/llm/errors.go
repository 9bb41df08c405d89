package llm

import (
	"context"
	"errors"
	"net"
	"strings"

	"github.com/ternarybob/prospecto/internal/models"
)

// NewMissingCredentialError is returned before any provider call when no API
// key is configured. Fail-fast; never retryable.
func NewMissingCredentialError(provider string) *models.ErrorDescriptor {
	return &models.ErrorDescriptor{
		Title:       "Missing API Key",
		Message:     "No API key is configured for " + provider + ". Set the key in configuration or the environment before requesting reports.",
		Details:     provider + " credential not found",
		IsRetryable: false,
	}
}

// Normalize maps any failure from the invocation pipeline to a user-facing
// ErrorDescriptor. An error that already is a descriptor passes through
// unchanged. Details always carries the raw failure text for diagnostics.
func Normalize(err error) *models.ErrorDescriptor {
	if err == nil {
		return nil
	}

	if desc, ok := models.AsErrorDescriptor(err); ok {
		return desc
	}

	raw := err.Error()

	var refusal *RefusalError
	if errors.As(err, &refusal) {
		return &models.ErrorDescriptor{
			Title:       "Entity Not Found",
			Message:     "The requested ticker or company could not be found. Check the symbol and try again.",
			Details:     refusal.Text,
			IsRetryable: false,
		}
	}

	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return &models.ErrorDescriptor{
			Title:       "Data Parsing Error",
			Message:     "The model returned a response that could not be parsed. This is usually transient; try again.",
			Details:     raw,
			IsRetryable: true,
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return &models.ErrorDescriptor{
			Title:       "Network Connection Error",
			Message:     "Could not reach the model provider. Check connectivity and try again.",
			Details:     raw,
			IsRetryable: true,
		}
	}

	status, _ := UnwrapFailure(err)
	lower := strings.ToLower(raw)

	switch {
	case status == 400 || strings.Contains(lower, "invalid argument"):
		return &models.ErrorDescriptor{
			Title:       "Invalid Request",
			Message:     "The request was rejected by the model provider as malformed.",
			Details:     raw,
			IsRetryable: false,
		}
	case status == 401 || strings.Contains(lower, "api key not valid") || strings.Contains(lower, "unauthenticated") || strings.Contains(lower, "invalid api key"):
		return &models.ErrorDescriptor{
			Title:       "Authentication Error",
			Message:     "The configured API key was rejected. Verify the key and try again.",
			Details:     raw,
			IsRetryable: false,
		}
	case status == 403 || strings.Contains(lower, "permission denied"):
		return &models.ErrorDescriptor{
			Title:       "Permission Denied",
			Message:     "The API key does not have access to the requested model.",
			Details:     raw,
			IsRetryable: false,
		}
	case status == 404 || strings.Contains(lower, "not found"):
		return &models.ErrorDescriptor{
			Title:       "Resource Not Found",
			Message:     "The requested model or resource does not exist.",
			Details:     raw,
			IsRetryable: false,
		}
	case status == 429 || strings.Contains(lower, "quota") || strings.Contains(lower, "resource exhausted") || strings.Contains(lower, "resource_exhausted") || strings.Contains(lower, "rate limit"):
		return &models.ErrorDescriptor{
			Title:       "Rate Limit Exceeded",
			Message:     "Too many requests to the model provider. Wait a moment and try again.",
			Details:     raw,
			IsRetryable: true,
		}
	case status == 503 || strings.Contains(lower, "overloaded") || strings.Contains(lower, "service unavailable"):
		return &models.ErrorDescriptor{
			Title:       "Service Overloaded",
			Message:     "The model provider is temporarily overloaded. Try again shortly.",
			Details:     raw,
			IsRetryable: true,
		}
	case status == 500 || strings.Contains(lower, "internal server error") || strings.Contains(lower, "internal error"):
		return &models.ErrorDescriptor{
			Title:       "Server Error",
			Message:     "The model provider reported an internal error. Try again shortly.",
			Details:     raw,
			IsRetryable: true,
		}
	}

	return &models.ErrorDescriptor{
		Title:       "Analysis Failed",
		Message:     "The report could not be generated. Try again shortly.",
		Details:     raw,
		IsRetryable: true,
	}
}
