package contract

import (
	"context"

	"erp-chatbot-be/internal/entity"
	"erp-chatbot-be/internal/repository/specification"
)

// ChatTurnRepository is append-only: turns are never updated or deleted.
type ChatTurnRepository interface {
	Create(ctx context.Context, turn *entity.ChatTurn) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatTurn, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
