package entity

import "time"

// SourceRef is one supporting document recorded with a turn. The JSON keys
// are part of the persisted sources payload and the API response shape.
type SourceRef struct {
	Source  string            `json:"source"`
	Content string            `json:"content"`
	Details map[string]string `json:"details"`
}

type ChatTurn struct {
	Id             uint
	ConversationId string
	UserId         string
	Question       string
	Response       string
	Sources        []SourceRef
	Timestamp      time.Time
	Feedback       *int
}
