package llm

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// FailureClass buckets a raw model-call failure for retry decisions.
type FailureClass string

const (
	// FailureRateLimited covers 429 and quota/resource-exhaustion failures.
	FailureRateLimited FailureClass = "rate_limited"
	// FailureServerTransient covers 500/503 and overload failures.
	FailureServerTransient FailureClass = "server_transient"
	// FailureOther is everything else; never retried by the executor.
	FailureOther FailureClass = "other"
)

// statusCodeRegex matches status codes embedded in error text, e.g.
// `"code": 429`, "Error 503", "status: 500".
var statusCodeRegex = regexp.MustCompile(`(?i)(?:"code"\s*:\s*|error\s+|status[:\s]+)(\d{3})`)

// embeddedError mirrors the googleapis error body that some transport layers
// wrap inside a serialized string.
type embeddedError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// UnwrapFailure attempts to recover an embedded status code and message from
// a raw failure. Some transports wrap the true failure inside a serialized
// JSON error body; others only carry textual markers. Returns 0 when no
// status could be recovered.
func UnwrapFailure(err error) (status int, message string) {
	if err == nil {
		return 0, ""
	}
	raw := err.Error()
	message = raw

	// Try the serialized JSON error body first
	if start := strings.Index(raw, "{"); start >= 0 {
		if end := strings.LastIndex(raw, "}"); end > start {
			var embedded embeddedError
			if jsonErr := json.Unmarshal([]byte(raw[start:end+1]), &embedded); jsonErr == nil && embedded.Error.Code != 0 {
				if embedded.Error.Message != "" {
					message = embedded.Error.Message
				}
				return embedded.Error.Code, message
			}
		}
	}

	if matches := statusCodeRegex.FindStringSubmatch(raw); len(matches) > 1 {
		if code, convErr := strconv.Atoi(matches[1]); convErr == nil {
			return code, message
		}
	}

	return 0, message
}

// ClassifyFailure decides retry-worthiness of a raw failure. Status 429 and
// textual quota markers are rate-limited; 500/503 and overload markers are
// server-side transient; all others propagate immediately.
func ClassifyFailure(err error) FailureClass {
	if err == nil {
		return FailureOther
	}

	status, message := UnwrapFailure(err)
	lower := strings.ToLower(message)

	switch status {
	case 429:
		return FailureRateLimited
	case 500, 503:
		return FailureServerTransient
	}

	if strings.Contains(lower, "quota") ||
		strings.Contains(lower, "resource exhausted") ||
		strings.Contains(lower, "resource_exhausted") ||
		strings.Contains(lower, "rate limit") {
		return FailureRateLimited
	}

	if strings.Contains(lower, "overloaded") ||
		strings.Contains(lower, "internal server error") ||
		strings.Contains(lower, "service unavailable") {
		return FailureServerTransient
	}

	return FailureOther
}
