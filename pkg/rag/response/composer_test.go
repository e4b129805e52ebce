package response

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"

	"erp-chatbot-be/internal/constant"
	"erp-chatbot-be/pkg/llm"
	"erp-chatbot-be/pkg/rag"
)

type fakeLLM struct {
	response string
	err      error
	calls    int
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	f.calls++
	return f.response, f.err
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func testComposer(provider llm.LLMProvider) *Composer {
	return NewComposer(provider, NewParser(), 0, 0, log.New(io.Discard, "", 0))
}

func testDocs() []rag.RetrievedDocument {
	return []rag.RetrievedDocument{
		{
			Content: "Go to Settings > Security and click Reset Password.",
			Metadata: map[string]string{
				"source":   "faqs",
				"Question": "How do I reset my password?",
			},
			Distance: 0.3,
			Origin:   rag.OriginVector,
		},
	}
}

func TestComposeWithoutDocuments(t *testing.T) {
	provider := &fakeLLM{response: "should never be used"}
	answer := testComposer(provider).Compose(context.Background(), "anything", nil)

	if provider.calls != 0 {
		t.Errorf("LLM calls = %d, want 0", provider.calls)
	}
	if answer.Text != constant.FallbackMessage {
		t.Errorf("Text = %q, want the fallback message", answer.Text)
	}
	if answer.Via != rag.ViaFallback {
		t.Errorf("Via = %q, want %q", answer.Via, rag.ViaFallback)
	}
	if answer.FallbackReason != rag.FallbackNoDocuments {
		t.Errorf("FallbackReason = %q, want %q", answer.FallbackReason, rag.FallbackNoDocuments)
	}
}

func TestComposeModelAnswer(t *testing.T) {
	provider := &fakeLLM{response: "Certainly! You can reset your password under Settings > Security. Please let me know if you need any further clarification."}
	docs := testDocs()
	answer := testComposer(provider).Compose(context.Background(), "How do I reset my password?", docs)

	if answer.Via != rag.ViaModel {
		t.Fatalf("Via = %q, want %q", answer.Via, rag.ViaModel)
	}
	if answer.FallbackReason != rag.FallbackNone {
		t.Errorf("FallbackReason = %q, want none", answer.FallbackReason)
	}
	if answer.Text != provider.response {
		t.Errorf("Text = %q, want the model output unchanged", answer.Text)
	}
	if len(answer.Sources) != len(docs) {
		t.Errorf("Sources = %d, want %d", len(answer.Sources), len(docs))
	}
}

func TestComposeExtractsSuggestedQuestions(t *testing.T) {
	provider := &fakeLLM{response: "You can enable it under Settings.\n\nSuggested Questions:\n- What is two-factor authentication?\n- How do I contact support?"}
	answer := testComposer(provider).Compose(context.Background(), "How do I enable 2FA?", testDocs())

	if answer.Via != rag.ViaModel {
		t.Fatalf("Via = %q, want %q", answer.Via, rag.ViaModel)
	}
	if len(answer.SuggestedQuestions) != 2 {
		t.Fatalf("SuggestedQuestions = %d, want 2", len(answer.SuggestedQuestions))
	}
	if strings.Contains(answer.Text, "Suggested Questions") {
		t.Errorf("Text still contains the question block: %q", answer.Text)
	}
	if !strings.Contains(answer.Text, constant.ClosingLine) {
		t.Errorf("Text lacks the closing line: %q", answer.Text)
	}
}

func TestComposeGenerationFailure(t *testing.T) {
	provider := &fakeLLM{err: errors.New("model unavailable")}
	docs := testDocs()
	answer := testComposer(provider).Compose(context.Background(), "How do I reset my password?", docs)

	if answer.Via != rag.ViaFallback {
		t.Fatalf("Via = %q, want %q", answer.Via, rag.ViaFallback)
	}
	if answer.FallbackReason != rag.FallbackGenerationFailed {
		t.Errorf("FallbackReason = %q, want %q", answer.FallbackReason, rag.FallbackGenerationFailed)
	}
	if !strings.Contains(answer.Text, constant.StructuredFallbackIntro) {
		t.Errorf("Text lacks the structured fallback intro: %q", answer.Text)
	}
	if !strings.Contains(answer.Text, "Go to Settings > Security") {
		t.Errorf("Text lacks the document excerpt: %q", answer.Text)
	}
	if len(answer.Sources) != len(docs) {
		t.Errorf("Sources = %d, want %d", len(answer.Sources), len(docs))
	}
}

func TestComposeEmptyOutputFallsBack(t *testing.T) {
	provider := &fakeLLM{response: "   "}
	answer := testComposer(provider).Compose(context.Background(), "How do I reset my password?", testDocs())

	if answer.Via != rag.ViaFallback {
		t.Fatalf("Via = %q, want %q", answer.Via, rag.ViaFallback)
	}
	if answer.FallbackReason != rag.FallbackGenerationFailed {
		t.Errorf("FallbackReason = %q, want %q", answer.FallbackReason, rag.FallbackGenerationFailed)
	}
}

func TestComposeUnhelpfulAnswerFallsBack(t *testing.T) {
	provider := &fakeLLM{response: "I couldn't find specific information about that in our documentation."}
	answer := testComposer(provider).Compose(context.Background(), "Do you support LDAP?", testDocs())

	if answer.Via != rag.ViaFallback {
		t.Fatalf("Via = %q, want %q", answer.Via, rag.ViaFallback)
	}
	if answer.FallbackReason != rag.FallbackUnhelpfulAnswer {
		t.Errorf("FallbackReason = %q, want %q", answer.FallbackReason, rag.FallbackUnhelpfulAnswer)
	}
	if !strings.Contains(answer.Text, constant.StructuredFallbackIntro) {
		t.Errorf("Text lacks the structured fallback intro: %q", answer.Text)
	}
}
