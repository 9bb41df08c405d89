package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// refusalMaxLength is the length below which a response is checked for
// refusal phrases. Real reports comfortably exceed this; short responses
// containing a refusal phrase mean the input entity was not found.
const refusalMaxLength = 500

// refusalPhrases are matched case-insensitively against short responses.
var refusalPhrases = []string{
	"cannot find",
	"can't find",
	"unable to find",
	"no data available",
	"doesn't exist",
	"does not exist",
	"don't have information",
	"do not have information",
	"not a valid ticker",
	"no information available",
	"could not locate",
}

// RefusalError indicates the model declined to produce a report because the
// requested entity was not found. The input, not the transport, is at fault;
// never retryable.
type RefusalError struct {
	Text string // raw model output
}

func (e *RefusalError) Error() string {
	return "model could not find the requested entity"
}

// ParseError indicates model output could not be parsed as JSON.
type ParseError struct {
	Text string // raw model output
	Err  error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to parse model output: %v", e.Err)
	}
	return "failed to parse model output: no JSON object found"
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// fencePattern strips a single wrapping markdown code fence.
var fencePattern = regexp.MustCompile(`(?s)^\s*` + "```" + `(?:json|JSON)?\s*\n?(.*?)\n?\s*` + "```" + `\s*$`)

// cleanMarkdownFences removes markdown code fences from a model response.
func cleanMarkdownFences(s string) string {
	s = strings.TrimSpace(s)

	if matches := fencePattern.FindStringSubmatch(s); len(matches) > 1 {
		s = matches[1]
	}

	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```JSON")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")

	return strings.TrimSpace(s)
}

// isRefusal reports whether a cleaned response is a refusal rather than a
// malformed report. Checked before any parse attempt.
func isRefusal(s string) bool {
	if len(s) >= refusalMaxLength {
		return false
	}
	lower := strings.ToLower(s)
	for _, phrase := range refusalPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// ExtractJSON locates and parses the JSON payload in raw model output,
// unmarshalling it into v. Leading prose and code fences are tolerated: the
// payload is the substring from the first '{' to the last '}' inclusive.
// Fails with *RefusalError when the response is a short refusal, and with
// *ParseError when no JSON object is present or parsing fails. No schema
// conformance beyond structural parse is enforced here.
func ExtractJSON(raw string, v interface{}) error {
	cleaned := cleanMarkdownFences(raw)

	if isRefusal(cleaned) {
		return &RefusalError{Text: raw}
	}

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start < 0 || end < start {
		return &ParseError{Text: raw}
	}

	payload := cleaned[start : end+1]
	if err := json.Unmarshal([]byte(payload), v); err != nil {
		return &ParseError{Text: raw, Err: err}
	}

	return nil
}
