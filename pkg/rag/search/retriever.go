package search

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"sort"
	"strings"

	"erp-chatbot-be/internal/constant"
	"erp-chatbot-be/internal/repository/contract"
	"erp-chatbot-be/pkg/embedding"
	"erp-chatbot-be/pkg/rag"
)

// Status reports which retrieval path produced the result.
type Status string

const (
	// StatusSuccess means the vector path answered, with or without a lexical top-up.
	StatusSuccess Status = "success"
	// StatusDegraded means the vector path failed and the lexical fallback served alone.
	StatusDegraded Status = "degraded"
	// StatusFailed means neither path completed.
	StatusFailed Status = "failed"
)

// Result carries retrieved documents ordered by ascending distance.
type Result struct {
	Documents []rag.RetrievedDocument
	Status    Status
}

// Config encapsulates retrieval parameters
type Config struct {
	// DistanceCutoff drops vector hits at or beyond this cosine distance.
	DistanceCutoff float64
	// Limit caps how many documents a retrieval returns when the caller passes none.
	Limit int
}

// DefaultConfig returns default retrieval configuration
func DefaultConfig() Config {
	return Config{
		DistanceCutoff: constant.VectorDistanceCutoff,
		Limit:          constant.DefaultRetrieveLimit,
	}
}

// Retriever runs hybrid document retrieval: nearest-neighbor search over the
// document index, topped up by a keyword-overlap fallback when the index
// under-returns or is unavailable.
type Retriever struct {
	embeddingProvider embedding.EmbeddingProvider
	documents         contract.DocumentRepository
	logger            *log.Logger
	config            Config
}

// NewRetriever creates a new document retriever
func NewRetriever(embeddingProvider embedding.EmbeddingProvider, documents contract.DocumentRepository, logger *log.Logger) *Retriever {
	return &Retriever{
		embeddingProvider: embeddingProvider,
		documents:         documents,
		logger:            logger,
		config:            DefaultConfig(),
	}
}

// Retrieve returns up to limit documents relevant to the question, ascending
// by distance. It never returns an error: failures are logged and reflected in
// the result status so callers can tell a degraded answer from an empty one.
func (r *Retriever) Retrieve(ctx context.Context, question string, limit int) Result {
	if limit <= 0 {
		limit = r.config.Limit
	}

	docs, vectorErr := r.vectorSearch(ctx, question, limit)
	if vectorErr != nil {
		r.logger.Printf("[ERROR] Vector search failed: %v", vectorErr)
	}

	if len(docs) < limit {
		matches, err := r.lexicalSearch(ctx, question, limit-len(docs))
		if err != nil {
			r.logger.Printf("[ERROR] Lexical fallback failed: %v", err)
			if vectorErr != nil {
				return Result{Status: StatusFailed}
			}
		} else if len(matches) > 0 {
			r.logger.Printf("[DEBUG] Lexical fallback added %d documents", len(matches))
			docs = append(docs, matches...)
		}
	}

	final := dedupe(docs)
	sort.SliceStable(final, func(i, j int) bool {
		return final[i].Distance < final[j].Distance
	})
	if len(final) > limit {
		final = final[:limit]
	}

	status := StatusSuccess
	if vectorErr != nil {
		status = StatusDegraded
	}

	r.logger.Printf("[DEBUG] Final retrieved documents: %d (status=%s)", len(final), status)
	return Result{Documents: final, Status: status}
}

func (r *Retriever) vectorSearch(ctx context.Context, question string, limit int) ([]rag.RetrievedDocument, error) {
	embeddingRes, err := r.embeddingProvider.Generate(ctx, question, "RETRIEVAL_QUERY")
	if err != nil {
		return nil, fmt.Errorf("embedding generation failed: %w", err)
	}

	scored, err := r.documents.SearchNearest(ctx, embeddingRes.Embedding.Values, limit)
	if err != nil {
		return nil, err
	}

	r.logger.Printf("[DEBUG] Raw search results: %d documents", len(scored))

	var kept []rag.RetrievedDocument
	for i, res := range scored {
		if res.Distance >= r.config.DistanceCutoff {
			r.logger.Printf("[DEBUG] Candidate %d: Distance=%.4f [FILTERED]", i+1, res.Distance)
			continue
		}

		kept = append(kept, rag.RetrievedDocument{
			Content:  res.Document.Content,
			Metadata: res.Document.Metadata,
			Distance: res.Distance,
			Origin:   rag.OriginVector,
		})
		r.logger.Printf("[DEBUG] Candidate %d: Distance=%.4f [KEEP]", i+1, res.Distance)
	}

	return kept, nil
}

// lexicalSearch scans the whole collection scoring keyword overlap against the
// question. Matches are collected in scan order up to quota, then ordered by
// their synthesized distance.
func (r *Retriever) lexicalSearch(ctx context.Context, question string, quota int) ([]rag.RetrievedDocument, error) {
	if quota <= 0 {
		return nil, nil
	}

	questionTokens := tokenize(question)
	if len(questionTokens) == 0 {
		return nil, nil
	}

	all, err := r.documents.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	var matches []rag.RetrievedDocument
	for _, doc := range all {
		overlap := 0
		for token := range tokenize(doc.Content) {
			if questionTokens[token] {
				overlap++
			}
		}
		if overlap == 0 {
			continue
		}

		score := float64(overlap) / float64(len(questionTokens))
		matches = append(matches, rag.RetrievedDocument{
			Content:  doc.Content,
			Metadata: doc.Metadata,
			Distance: 1.0 - score,
			Origin:   rag.OriginLexical,
		})
		if len(matches) >= quota {
			break
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})
	return matches, nil
}

var wordRe = regexp.MustCompile(`\w+`)

func tokenize(text string) map[string]bool {
	tokens := make(map[string]bool)
	for _, word := range wordRe.FindAllString(strings.ToLower(text), -1) {
		tokens[word] = true
	}
	return tokens
}

// dedupe collapses entries sharing (content, source), keeping the smaller
// distance on collision. First-seen order is preserved for distinct entries.
func dedupe(docs []rag.RetrievedDocument) []rag.RetrievedDocument {
	type docKey struct {
		content string
		source  string
	}

	index := make(map[docKey]int)
	var out []rag.RetrievedDocument
	for _, doc := range docs {
		key := docKey{content: doc.Content, source: doc.Metadata[constant.MetadataSourceKey]}
		if at, seen := index[key]; seen {
			if doc.Distance < out[at].Distance {
				out[at] = doc
			}
			continue
		}
		index[key] = len(out)
		out = append(out, doc)
	}
	return out
}
