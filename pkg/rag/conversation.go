package rag

import "time"

// ConversationState is the in-memory view of one active conversation. The
// session store keeps these in a working set and persists them through the
// conversation repository.
type ConversationState struct {
	ConversationID  string
	UserID          string
	Context         map[string]string
	LastInteraction time.Time
}

// Expired reports whether the conversation has been idle longer than timeout.
func (s *ConversationState) Expired(now time.Time, timeout time.Duration) bool {
	return now.Sub(s.LastInteraction) > timeout
}
