package embedding

import "context"

// EmbeddingProvider defines the interface for generating text embeddings.
// taskType hints the intended use to providers that distinguish query and
// document embeddings (Gemini takes RETRIEVAL_QUERY / RETRIEVAL_DOCUMENT).
type EmbeddingProvider interface {
	Generate(ctx context.Context, text string, taskType string) (*EmbeddingResponse, error)
}

type EmbeddingResponseEmbedding struct {
	Values []float32 `json:"values"`
}

type EmbeddingResponse struct {
	Embedding EmbeddingResponseEmbedding `json:"embedding"`
}
