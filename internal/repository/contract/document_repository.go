package contract

import (
	"context"

	"erp-chatbot-be/internal/entity"
	"erp-chatbot-be/internal/repository/specification"
)

// ScoredDocument wraps Document with its cosine distance to the query vector
type ScoredDocument struct {
	Document *entity.Document
	Distance float64 // 0.0 = identical, larger = less similar
}

type DocumentRepository interface {
	Create(ctx context.Context, document *entity.Document) error
	CreateBulk(ctx context.Context, documents []*entity.Document) error
	DeleteBySource(ctx context.Context, source string) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Document, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Document, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// SearchNearest returns the limit nearest documents by cosine distance, ascending
	SearchNearest(ctx context.Context, embedding []float32, limit int) ([]*ScoredDocument, error)
}
