package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"erp-chatbot-be/internal/constant"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Keys     APIKeys
	Ai       AIConfig
	Chat     ChatConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
}

type DatabaseConfig struct {
	Connection string
}

type APIKeys struct {
	GoogleGemini string
	HuggingFace  string
	Jina         string
}

type AIConfig struct {
	EmbeddingProvider string // "gemini", "ollama" or "jina"
	EmbeddingModel    string
	LLMProvider       string // "gemini", "ollama" or "huggingface"
	LLMModel          string
	OllamaBaseURL     string
	LLMTimeoutSeconds int
}

type ChatConfig struct {
	ConversationTimeoutSeconds int
	AnswerCacheTTLMinutes      int
	RetrieveLimit              int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "8000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/chatbot.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Keys: APIKeys{
			GoogleGemini: getEnv("GOOGLE_GEMINI_API_KEY", ""),
			HuggingFace:  getEnv("HUGGINGFACE_API_KEY", ""),
			Jina:         getEnv("JINA_API_KEY", ""),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "gemini"),
			EmbeddingModel:    getEnv("EMBEDDING_MODEL", "text-embedding-004"),
			LLMProvider:       getEnv("LLM_PROVIDER", "gemini"),
			LLMModel:          getEnv("LLM_MODEL", "gemini-1.5-flash-latest"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			LLMTimeoutSeconds: getEnvAsInt("LLM_TIMEOUT_SECONDS", constant.DefaultLLMTimeoutSeconds),
		},
		Chat: ChatConfig{
			ConversationTimeoutSeconds: getEnvAsInt("CONVERSATION_TIMEOUT_SECONDS", constant.DefaultConversationTimeoutSeconds),
			AnswerCacheTTLMinutes:      getEnvAsInt("ANSWER_CACHE_TTL_MINUTES", 60),
			RetrieveLimit:              getEnvAsInt("RETRIEVE_LIMIT", constant.DefaultRetrieveLimit),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
