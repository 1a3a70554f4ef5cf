package models

import "time"

// Message is a single conversation message. Messages are append-only:
// once added to a session's history they are never mutated or removed
// until the session itself is destroyed.
type Message struct {
	Sender    string `json:"sender"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"` // epoch milliseconds
}

// NewMessage creates a message stamped with the current time
func NewMessage(sender, text string) Message {
	return Message{
		Sender:    sender,
		Text:      text,
		Timestamp: time.Now().UnixMilli(),
	}
}

// EngagementRequest is the normalized input the core operates on.
// The transport layer guarantees every field is well-formed before
// the core sees it.
type EngagementRequest struct {
	SessionID string
	Message   Message
	History   []Message
}

// EngagementResult is what the core hands back to the transport layer
// for rendering into whatever wire schema the caller expects.
type EngagementResult struct {
	IsScam          bool         `json:"is_scam"`
	Confidence      float64      `json:"confidence"`
	Reply           string       `json:"reply"`
	Intelligence    Intelligence `json:"extracted_intelligence"`
	EngagementLevel int          `json:"engagement_level"`
}
