package rag

// GeneratedVia tells how the final answer text was produced.
type GeneratedVia string

const (
	// ViaModel means the language model produced the text.
	ViaModel GeneratedVia = "model"
	// ViaFallback means a canned or excerpt-built message replaced the model output.
	ViaFallback GeneratedVia = "fallback"
	// ViaGreeting is set by the orchestrator for greeting turns, which never
	// reach the composer.
	ViaGreeting GeneratedVia = "greeting"
)

// FallbackReason records why composition fell back, empty when it did not.
type FallbackReason string

const (
	FallbackNone             FallbackReason = ""
	FallbackNoDocuments      FallbackReason = "no_documents"
	FallbackGenerationFailed FallbackReason = "generation_failed"
	FallbackUnhelpfulAnswer  FallbackReason = "unhelpful_answer"
)

// ComposedAnswer is the outcome of answering one question against a set of
// retrieved documents. Compose never fails; a degraded turn is reported
// through Via and FallbackReason instead of an error.
type ComposedAnswer struct {
	Text               string
	Sources            []RetrievedDocument
	SuggestedQuestions []string
	Via                GeneratedVia
	FallbackReason     FallbackReason
}
