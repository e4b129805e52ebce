package factory

import (
	"fmt"

	"erp-chatbot-be/pkg/llm"
	"erp-chatbot-be/pkg/llm/gemini"
	"erp-chatbot-be/pkg/llm/huggingface"
	"erp-chatbot-be/pkg/llm/ollama"
)

// NewLLMProvider builds the configured chat backend. baseURL only applies to
// self-hosted providers (Ollama); apiKey is the key for the chosen provider.
func NewLLMProvider(providerType, modelName, baseURL, apiKey string) (llm.LLMProvider, error) {
	switch providerType {
	case "gemini":
		return gemini.NewGeminiProvider(apiKey, modelName), nil
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	case "huggingface":
		return huggingface.NewHuggingFaceProvider(apiKey, "", modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
