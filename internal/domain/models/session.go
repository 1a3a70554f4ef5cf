package models

import "time"

// ConversationState is the per-session mutable record. All mutation
// happens inside the session store's atomic update, so the struct
// itself carries no locking.
//
// Invariants: ScamDetected is a one-way latch, ScamConfidence tracks the
// maximum confidence observed once latched, EngagementLevel never
// decreases, and Intelligence never contains two items with the same
// (type, value).
type ConversationState struct {
	SessionID       string       `json:"session_id"`
	Messages        []Message    `json:"messages"`
	ScamDetected    bool         `json:"scam_detected"`
	ScamConfidence  float64      `json:"scam_confidence"`
	Intelligence    Intelligence `json:"intelligence"`
	EngagementLevel int          `json:"engagement_level"`
	Persona         string       `json:"persona"`
	Finalized       bool         `json:"finalized"`
	CreatedAt       time.Time    `json:"created_at"`
	LastSeen        time.Time    `json:"last_seen"`
}

// NewConversationState creates the initial state for a session
func NewConversationState(sessionID string) *ConversationState {
	now := time.Now()
	return &ConversationState{
		SessionID:    sessionID,
		Intelligence: NewIntelligence(),
		Persona:      "concerned_customer",
		CreatedAt:    now,
		LastSeen:     now,
	}
}

// Latch records a classified turn. The scam flag flips true the first
// time confidence exceeds the latch threshold and never reverts; once
// latched, the tracked confidence follows the running maximum.
func (s *ConversationState) Latch(confidence, threshold float64) {
	if !s.ScamDetected && confidence > threshold {
		s.ScamDetected = true
	}
	if s.ScamDetected && confidence > s.ScamConfidence {
		s.ScamConfidence = confidence
	}
}

// Clone returns a deep copy safe to use outside the store's lock
func (s *ConversationState) Clone() *ConversationState {
	cp := *s
	cp.Messages = make([]Message, len(s.Messages))
	copy(cp.Messages, s.Messages)
	cp.Intelligence = s.Intelligence.Clone()
	return &cp
}
