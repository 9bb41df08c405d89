package models

import "errors"

// ErrorDescriptor is the sole error representation surfaced to callers of the
// research core. All internal failures are converted to this shape before
// crossing the service boundary.
type ErrorDescriptor struct {
	Title       string `json:"title"`
	Message     string `json:"message"`
	Details     string `json:"details,omitempty"` // raw failure text, hidden by default in the UI
	IsRetryable bool   `json:"is_retryable"`
}

// Error implements the error interface
func (e *ErrorDescriptor) Error() string {
	return e.Title + ": " + e.Message
}

// NewErrorDescriptor creates a pre-classified error descriptor.
// Descriptors constructed this way pass through the normalizer unchanged.
func NewErrorDescriptor(title, message string, retryable bool) *ErrorDescriptor {
	return &ErrorDescriptor{
		Title:       title,
		Message:     message,
		IsRetryable: retryable,
	}
}

// AsErrorDescriptor unwraps an ErrorDescriptor from an error chain.
func AsErrorDescriptor(err error) (*ErrorDescriptor, bool) {
	var desc *ErrorDescriptor
	if errors.As(err, &desc) {
		return desc, true
	}
	return nil, false
}
