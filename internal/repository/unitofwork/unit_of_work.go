package unitofwork

import (
	"context"

	"erp-chatbot-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ConversationRepository() contract.ConversationRepository
	ChatTurnRepository() contract.ChatTurnRepository
	DocumentRepository() contract.DocumentRepository
}
