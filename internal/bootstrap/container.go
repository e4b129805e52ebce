package bootstrap

import (
	"log"
	"time"

	"erp-chatbot-be/internal/config"
	"erp-chatbot-be/internal/controller"
	"erp-chatbot-be/internal/pkg/logger"
	"erp-chatbot-be/internal/repository/implementation"
	"erp-chatbot-be/internal/repository/memory"
	"erp-chatbot-be/internal/repository/unitofwork"
	"erp-chatbot-be/internal/service"
	"erp-chatbot-be/pkg/embedding"
	"erp-chatbot-be/pkg/llm/factory"

	pktNats "erp-chatbot-be/pkg/nats"

	"github.com/patrickmn/go-cache"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatbotController controller.IChatbotController

	// Services (Exposed for main.go warm-up)
	ChatbotService service.IChatbotService

	// Shared infrastructure
	Logger  logger.ILogger
	NatsPub *pktNats.Publisher
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. AI Providers
	// Initialize Embedding Provider based on Config
	var embeddingProvider embedding.EmbeddingProvider
	switch cfg.Ai.EmbeddingProvider {
	case "ollama":
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.EmbeddingModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.EmbeddingModel)
	case "jina":
		embeddingProvider = embedding.NewJinaProvider(
			cfg.Keys.Jina,
			cfg.Ai.EmbeddingModel,
		)
		log.Printf("[INFO] Using Embedding Provider: JINA (%s)", cfg.Ai.EmbeddingModel)
	default:
		embeddingProvider = embedding.NewGeminiProvider(
			cfg.Keys.GoogleGemini,
			cfg.Ai.EmbeddingModel,
		)
		log.Printf("[INFO] Using Embedding Provider: GEMINI (%s)", cfg.Ai.EmbeddingModel)
	}

	// Initialize LLM Provider based on Config
	llmAPIKey := cfg.Keys.GoogleGemini
	if cfg.Ai.LLMProvider == "huggingface" {
		llmAPIKey = cfg.Keys.HuggingFace
	}
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		llmAPIKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 3. In-Memory Stores
	// The working set entries outlive the conversation timeout on purpose:
	// expiry decisions belong to the session store sweep, the cache TTL is
	// only a backstop against leaks.
	answerCacheTTL := time.Duration(cfg.Chat.AnswerCacheTTLMinutes) * time.Minute
	conversationTimeout := time.Duration(cfg.Chat.ConversationTimeoutSeconds) * time.Second
	answerCache := memory.NewAnswerCacheRepository(cache.New(answerCacheTTL, 2*answerCacheTTL))
	workingSet := memory.NewConversationWorkingSet(cache.New(2*conversationTimeout, conversationTimeout))

	// 4. Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	documentRepo := implementation.NewDocumentRepository(db)

	// 5. Services
	chatbotService := service.NewChatbotService(
		uowFactory,
		documentRepo,
		embeddingProvider, // Injected
		llmProvider,       // Injected
		answerCache,       // Injected
		workingSet,        // Injected
		natsPub,
		conversationTimeout,
		cfg.Chat.RetrieveLimit,
	)

	// 6. Controllers
	// Note: We return the container with public fields for the server to register
	return &Container{
		ChatbotController: controller.NewChatbotController(chatbotService),
		ChatbotService:    chatbotService,
		Logger:            sysLogger,
		NatsPub:           natsPub,
	}
}

// Close releases the long-lived connections the container owns.
func (c *Container) Close() {
	if c.NatsPub != nil {
		c.NatsPub.Close()
	}
}
