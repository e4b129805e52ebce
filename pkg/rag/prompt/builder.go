package prompt

import (
	"fmt"
	"strings"

	"erp-chatbot-be/internal/constant"
	"erp-chatbot-be/pkg/rag"
)

// GroundedBuilder assembles the grounding prompt for one question against
// the documents retrieval produced.
type GroundedBuilder struct {
	question  string
	documents []rag.RetrievedDocument
}

// NewGroundedBuilder creates a builder for a single question/documents pair
func NewGroundedBuilder(question string, documents []rag.RetrievedDocument) *GroundedBuilder {
	return &GroundedBuilder{
		question:  question,
		documents: documents,
	}
}

// Build renders the persona template around the documentation context block.
func (b *GroundedBuilder) Build() string {
	return fmt.Sprintf(constant.GroundedAnswerPromptV1, b.buildContext(), b.question)
}

// buildContext renders one block per document. Documents ingested from FAQ
// rows keep their stored question visible so the model sees the pairing.
func (b *GroundedBuilder) buildContext() string {
	blocks := make([]string, 0, len(b.documents))
	for _, doc := range b.documents {
		var block strings.Builder
		fmt.Fprintf(&block, "**Source: %s**\n", doc.Source())
		if label := doc.Label(); label != "" {
			fmt.Fprintf(&block, "**Question:** %s\n**Answer:** %s", label, doc.Content)
		} else {
			fmt.Fprintf(&block, "**Content:** %s", doc.Content)
		}
		blocks = append(blocks, block.String())
	}
	return strings.Join(blocks, "\n\n")
}
