package response

import (
	"fmt"
	"strings"

	"erp-chatbot-be/internal/constant"
	"erp-chatbot-be/pkg/rag"
)

// Messenger renders the canned and excerpt-built fallback replies.
type Messenger struct{}

func NewMessenger() *Messenger {
	return &Messenger{}
}

// NoDocumentsAnswer is the reply when composition has nothing to ground on.
func (m *Messenger) NoDocumentsAnswer() rag.ComposedAnswer {
	return rag.ComposedAnswer{
		Text:               constant.FallbackMessage,
		SuggestedQuestions: append([]string(nil), constant.EmptyFallbackSuggestedQuestions...),
		Via:                rag.ViaFallback,
		FallbackReason:     rag.FallbackNoDocuments,
	}
}

// StructuredFallbackAnswer digests the retrieved documents into excerpts when
// the model could not produce a usable answer. All documents stay attached as
// sources so the caller can still show where the excerpts came from.
func (m *Messenger) StructuredFallbackAnswer(docs []rag.RetrievedDocument, reason rag.FallbackReason) rag.ComposedAnswer {
	if len(docs) == 0 {
		answer := m.NoDocumentsAnswer()
		answer.FallbackReason = reason
		return answer
	}

	excerpts := make([]string, 0, len(docs))
	for _, doc := range docs {
		excerpts = append(excerpts, fmt.Sprintf(
			"From %s (related to '%s...'): %s...",
			doc.Source(),
			truncateRunes(doc.Label(), 100),
			truncateRunes(doc.Content, 300),
		))
	}

	text := constant.StructuredFallbackIntro + "\n\n" +
		strings.Join(excerpts, "\n\n") + "\n\n" +
		constant.StructuredFallbackOutro

	return rag.ComposedAnswer{
		Text:               text,
		Sources:            docs,
		SuggestedQuestions: append([]string(nil), constant.StructuredFallbackSuggestedQuestions...),
		Via:                rag.ViaFallback,
		FallbackReason:     reason,
	}
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
