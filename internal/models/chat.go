package models

import "time"

// ChatPhase identifies which phase of the two-phase chat produced an answer.
type ChatPhase string

const (
	// ChatPhaseQuick is the low-latency first answer, returned synchronously.
	ChatPhaseQuick ChatPhase = "quick"
	// ChatPhaseDetailed is the search-grounded refinement that replaces the
	// quick answer in place when it resolves.
	ChatPhaseDetailed ChatPhase = "detailed"
)

// ChatMessage is a chat answer slot. The quick answer is written first; the
// detailed answer overwrites it when its sequence number is current.
type ChatMessage struct {
	ID        string    `json:"id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Phase     ChatPhase `json:"phase"`
	Seq       uint64    `json:"seq"`
	Model     string    `json:"model,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}
