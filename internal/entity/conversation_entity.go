package entity

import "time"

type Conversation struct {
	ConversationId string
	UserId         string
	Context        map[string]string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
