package dto

import "time"

type ChatRequest struct {
	Question       string `json:"question" validate:"required,min=1"`
	UserId         string `json:"user_id" validate:"required,min=1"`
	ConversationId string `json:"conversation_id,omitempty"`
}

// SourceDocumentDTO carries a grounding document as it was retrieved: the
// full content and metadata, untruncated.
type SourceDocumentDTO struct {
	Source  string            `json:"source"`
	Content string            `json:"content"`
	Details map[string]string `json:"details"`
}

type ChatResponse struct {
	Response           string              `json:"response"`
	Sources            []SourceDocumentDTO `json:"sources"`
	SuggestedQuestions []string            `json:"suggested_questions"`
	Timestamp          time.Time           `json:"timestamp"`
	ConversationId     string              `json:"conversation_id"`
}

type ConversationSummaryDTO struct {
	ConversationId string            `json:"conversation_id"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
	Context        map[string]string `json:"context"`
	FirstQuestion  *string           `json:"first_question"`
}

type GetUserConversationsResponse struct {
	Conversations []ConversationSummaryDTO `json:"conversations"`
}

type ConversationMessageDTO struct {
	Question  string              `json:"question"`
	Response  string              `json:"response"`
	Sources   []SourceDocumentDTO `json:"sources"`
	Timestamp time.Time           `json:"timestamp"`
}

type GetConversationMessagesResponse struct {
	Messages []ConversationMessageDTO `json:"messages"`
}

// PublishIngestSourceMessage replaces every stored document of one source
// with the documents it carries.
type PublishIngestSourceMessage struct {
	Source    string              `json:"source"`
	Documents []IngestDocumentDTO `json:"documents"`
}

type IngestDocumentDTO struct {
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata"`
}
