package response

import (
	"context"
	"log"
	"strings"
	"time"

	"erp-chatbot-be/internal/constant"
	"erp-chatbot-be/pkg/llm"
	"erp-chatbot-be/pkg/rag"
	"erp-chatbot-be/pkg/rag/prompt"
)

// Composer turns a question and its retrieved documents into the final
// answer. It never returns an error: generation problems degrade to the
// structured fallback and are reported through the answer's FallbackReason.
type Composer struct {
	llmProvider llm.LLMProvider
	parser      Parser
	messenger   *Messenger
	temperature float64
	timeout     time.Duration
	logger      *log.Logger
}

// NewComposer wires a composer around the given provider. Zero temperature
// or timeout fall back to the service defaults.
func NewComposer(llmProvider llm.LLMProvider, parser Parser, temperature float64, timeout time.Duration, logger *log.Logger) *Composer {
	if temperature <= 0 {
		temperature = constant.DefaultLLMTemperature
	}
	if timeout <= 0 {
		timeout = constant.DefaultLLMTimeoutSeconds * time.Second
	}
	return &Composer{
		llmProvider: llmProvider,
		parser:      parser,
		messenger:   NewMessenger(),
		temperature: temperature,
		timeout:     timeout,
		logger:      logger,
	}
}

func (c *Composer) Compose(ctx context.Context, question string, docs []rag.RetrievedDocument) rag.ComposedAnswer {
	if len(docs) == 0 {
		c.logger.Printf("[WARN] Composing without documents for '%s'", truncateRunes(question, 50))
		return c.messenger.NoDocumentsAnswer()
	}

	promptText := prompt.NewGroundedBuilder(question, docs).Build()

	genCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	raw, err := c.llmProvider.Generate(genCtx, promptText, llm.WithTemperature(c.temperature))
	if err != nil {
		c.logger.Printf("[ERROR] LLM generation failed: %v", err)
		return c.messenger.StructuredFallbackAnswer(docs, rag.FallbackGenerationFailed)
	}
	c.logger.Printf("[DEBUG] LLM answered in %s (%d chars)", time.Since(start).Round(time.Millisecond), len(raw))

	if strings.TrimSpace(raw) == "" {
		c.logger.Printf("[WARN] LLM returned empty output, falling back")
		return c.messenger.StructuredFallbackAnswer(docs, rag.FallbackGenerationFailed)
	}

	cleaned := c.parser.Clean(raw)
	body, questions := c.parser.ExtractSuggestedQuestions(cleaned)

	if c.parser.IsUnhelpful(body) {
		c.logger.Printf("[WARN] LLM answer marked unhelpful, falling back")
		return c.messenger.StructuredFallbackAnswer(docs, rag.FallbackUnhelpfulAnswer)
	}

	return rag.ComposedAnswer{
		Text:               body,
		Sources:            docs,
		SuggestedQuestions: questions,
		Via:                rag.ViaModel,
		FallbackReason:     rag.FallbackNone,
	}
}
