// Package llm abstracts the chat model behind a provider interface so the
// answer pipeline can run against Gemini, a local Ollama server, or the
// Hugging Face router without caring which one is configured.
package llm

import (
	"context"
)

// LLMProvider is the contract every chat backend implements.
// Implementations must return an error when the backend produced no usable
// candidates; callers treat that the same as a transport failure.
type LLMProvider interface {
	// Chat sends a conversation history and returns the model's reply.
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// Generate is the single-prompt shorthand for Chat.
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)
}

// Message is one turn of a conversation in provider-neutral form. Role is
// "user", "assistant" or "system"; providers translate to their own naming.
// The JSON tags match the OpenAI-compatible shape the Hugging Face router
// consumes directly.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Options carries the per-call knobs. Zero values mean "use the provider's
// default".
type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string
}

type Option func(*Options)

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}
