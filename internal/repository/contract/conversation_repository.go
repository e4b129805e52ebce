package contract

import (
	"context"

	"erp-chatbot-be/internal/entity"
	"erp-chatbot-be/internal/repository/specification"
)

// ConversationSummary is one row of the per-user conversation listing.
// FirstQuestion is nil for conversations that never recorded a turn.
type ConversationSummary struct {
	Conversation  *entity.Conversation
	FirstQuestion *string
}

type ConversationRepository interface {
	Create(ctx context.Context, conversation *entity.Conversation) error
	Update(ctx context.Context, conversation *entity.Conversation) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Conversation, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Conversation, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// ListSummariesByUser returns the user's conversations ordered by most
	// recent activity, each with the first question ever asked in it.
	ListSummariesByUser(ctx context.Context, userId string) ([]*ConversationSummary, error)
}
