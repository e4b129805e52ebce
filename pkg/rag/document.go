package rag

import "erp-chatbot-be/internal/constant"

// Origin tags which retrieval path produced a document.
type Origin string

const (
	OriginVector  Origin = "vector"
	OriginLexical Origin = "lexical"
)

// RetrievedDocument is one grounding candidate returned by retrieval.
// Distance is a dissimilarity score, lower is more relevant. Vector results
// carry the index's cosine distance; lexical results synthesize 1 - overlap.
type RetrievedDocument struct {
	Content  string
	Metadata map[string]string
	Distance float64
	Origin   Origin
}

// Source returns the document's source name, or the generic placeholder when
// the metadata does not carry one.
func (d RetrievedDocument) Source() string {
	if s := d.Metadata[constant.MetadataSourceKey]; s != "" {
		return s
	}
	return constant.DefaultSourceName
}

// Label returns the stored FAQ question this document answers, if any.
func (d RetrievedDocument) Label() string {
	return d.Metadata[constant.MetadataQuestionKey]
}
