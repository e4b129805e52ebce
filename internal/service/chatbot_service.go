package service

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"erp-chatbot-be/internal/constant"
	"erp-chatbot-be/internal/dto"
	"erp-chatbot-be/internal/entity"
	"erp-chatbot-be/internal/repository/contract"
	"erp-chatbot-be/internal/repository/memory"
	"erp-chatbot-be/internal/repository/specification"
	"erp-chatbot-be/internal/repository/unitofwork"
	"erp-chatbot-be/pkg/embedding"
	"erp-chatbot-be/pkg/events"
	"erp-chatbot-be/pkg/llm"
	"erp-chatbot-be/pkg/nats"
	"erp-chatbot-be/pkg/rag"
	"erp-chatbot-be/pkg/rag/response"
	"erp-chatbot-be/pkg/rag/search"
	"erp-chatbot-be/pkg/rag/session"
)

// IChatbotService defines the chatbot service interface
type IChatbotService interface {
	Chat(ctx context.Context, request *dto.ChatRequest) (*dto.ChatResponse, error)
	GetUserConversations(ctx context.Context, userId string) (*dto.GetUserConversationsResponse, error)
	GetConversationMessages(ctx context.Context, conversationId string) (*dto.GetConversationMessagesResponse, error)
	WarmUp(ctx context.Context) error
}

// chatbotService coordinates the retrieval, composition, caching, and
// conversation components around a turn.
type chatbotService struct {
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher *nats.Publisher
	ragLogger      *log.Logger
	retrieveLimit  int

	retriever         *search.Retriever
	composer          *response.Composer
	conversationStore *session.Store
	answerCache       memory.IAnswerCacheRepository
}

// NewChatbotService creates a new chatbot service with all domain components
func NewChatbotService(
	uowFactory unitofwork.RepositoryFactory,
	documents contract.DocumentRepository,
	embeddingProvider embedding.EmbeddingProvider,
	llmProvider llm.LLMProvider,
	answerCache memory.IAnswerCacheRepository,
	workingSet memory.IConversationWorkingSet,
	eventPublisher *nats.Publisher,
	conversationTimeout time.Duration,
	retrieveLimit int,
) IChatbotService {

	ragLogger := initRagLogger()
	if retrieveLimit <= 0 {
		retrieveLimit = constant.DefaultRetrieveLimit
	}

	return &chatbotService{
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
		ragLogger:      ragLogger,
		retrieveLimit:  retrieveLimit,

		retriever:         search.NewRetriever(embeddingProvider, documents, ragLogger),
		composer:          response.NewComposer(llmProvider, response.NewParser(), 0, 0, ragLogger),
		conversationStore: session.NewStore(workingSet, ragLogger, conversationTimeout),
		answerCache:       answerCache,
	}
}

func initRagLogger() *log.Logger {
	logPath := filepath.Join(".", "logs", "rag_pipeline.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		log.Printf("Failed to create logs directory: %v", err)
	}
	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return log.New(os.Stdout, "[RAG] ", log.LstdFlags)
	}
	return log.New(file, "", log.LstdFlags)
}

// Chat answers one user turn and records it on the resolved conversation.
func (cs *chatbotService) Chat(ctx context.Context, request *dto.ChatRequest) (*dto.ChatResponse, error) {
	cs.ragLogger.Printf("[INFO] Received query: '%s' (User: %s, Conv: %s)",
		preview(request.Question, 50), request.UserId, request.ConversationId)

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	state := cs.conversationStore.Resolve(ctx, uow, request.UserId, request.ConversationId)

	answer := cs.answerFor(ctx, request)

	now := time.Now()
	turn := &entity.ChatTurn{
		ConversationId: state.ConversationID,
		UserId:         request.UserId,
		Question:       request.Question,
		Response:       answer.Text,
		Sources:        sourceRefs(answer.Sources),
		Timestamp:      now,
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := cs.conversationStore.Touch(ctx, uow, state, request.Question); err != nil {
		return nil, err
	}
	if err := uow.ChatTurnRepository().Create(ctx, turn); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	if cs.eventPublisher != nil {
		evt := events.NewChatTurnRecorded(state.ConversationID, request.UserId,
			string(answer.Via), string(answer.FallbackReason))
		if err := cs.eventPublisher.Publish(ctx, evt); err != nil {
			cs.ragLogger.Printf("[WARN] Failed to publish chat turn event: %v", err)
		}
	}

	return &dto.ChatResponse{
		Response:           answer.Text,
		Sources:            sourceDTOs(answer.Sources),
		SuggestedQuestions: suggestedOrEmpty(answer.SuggestedQuestions),
		Timestamp:          now,
		ConversationId:     state.ConversationID,
	}, nil
}

// answerFor runs the query pipeline: greeting short circuit, cache, retrieval,
// then composition. Only successfully composed answers enter the cache, so a
// degraded turn gets retried on its next ask.
func (cs *chatbotService) answerFor(ctx context.Context, request *dto.ChatRequest) rag.ComposedAnswer {
	if isGreeting(request.Question) {
		cs.ragLogger.Printf("[INFO] Detected greeting, returning canned greeting message")
		return rag.ComposedAnswer{
			Text:               constant.GreetingMessage,
			SuggestedQuestions: constant.GreetingSuggestedQuestions,
			Via:                rag.ViaGreeting,
		}
	}

	if cached, found := cs.answerCache.Get(request.UserId, request.Question); found {
		cs.ragLogger.Printf("[DEBUG] Returning answer for '%s' from cache", preview(request.Question, 50))
		return *cached
	}

	result := cs.retriever.Retrieve(ctx, request.Question, cs.retrieveLimit)
	if len(result.Documents) == 0 {
		cs.ragLogger.Printf("[WARN] No relevant documents found for '%s' (retrieval status=%s), returning general fallback",
			preview(request.Question, 50), result.Status)
		return rag.ComposedAnswer{
			Text:               constant.FallbackMessage,
			SuggestedQuestions: constant.NoDocumentSuggestedQuestions,
			Via:                rag.ViaFallback,
			FallbackReason:     rag.FallbackNoDocuments,
		}
	}

	answer := cs.composer.Compose(ctx, request.Question, result.Documents)
	cs.answerCache.Save(request.UserId, request.Question, &answer)
	return answer
}

// GetUserConversations lists a user's conversations, most recently active first.
func (cs *chatbotService) GetUserConversations(ctx context.Context, userId string) (*dto.GetUserConversationsResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	summaries, err := uow.ConversationRepository().ListSummariesByUser(ctx, userId)
	if err != nil {
		return nil, err
	}

	conversations := make([]dto.ConversationSummaryDTO, 0, len(summaries))
	for _, s := range summaries {
		context := s.Conversation.Context
		if context == nil {
			context = map[string]string{}
		}
		conversations = append(conversations, dto.ConversationSummaryDTO{
			ConversationId: s.Conversation.ConversationId,
			CreatedAt:      s.Conversation.CreatedAt,
			UpdatedAt:      s.Conversation.UpdatedAt,
			Context:        context,
			FirstQuestion:  s.FirstQuestion,
		})
	}

	return &dto.GetUserConversationsResponse{Conversations: conversations}, nil
}

// GetConversationMessages returns a conversation's turns, oldest first.
func (cs *chatbotService) GetConversationMessages(ctx context.Context, conversationId string) (*dto.GetConversationMessagesResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	turns, err := uow.ChatTurnRepository().FindAll(ctx,
		specification.ByConversationID{ConversationID: conversationId},
		specification.OrderBy{Field: "timestamp", Desc: false},
	)
	if err != nil {
		return nil, err
	}
	if len(turns) == 0 {
		return nil, nil
	}

	messages := make([]dto.ConversationMessageDTO, 0, len(turns))
	for _, turn := range turns {
		messages = append(messages, dto.ConversationMessageDTO{
			Question:  turn.Question,
			Response:  turn.Response,
			Sources:   refDTOs(turn.Sources),
			Timestamp: turn.Timestamp,
		})
	}

	return &dto.GetConversationMessagesResponse{Messages: messages}, nil
}

// WarmUp probes the document store and primes the conversation working set so
// the first request does not pay for cold connections.
func (cs *chatbotService) WarmUp(ctx context.Context) error {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	count, err := uow.DocumentRepository().Count(ctx)
	if err != nil {
		return fmt.Errorf("document store probe failed: %w", err)
	}
	if count == 0 {
		cs.ragLogger.Printf("[WARN] Document store is empty, retrieval will fall back until ingestion runs")
	} else {
		cs.ragLogger.Printf("[INFO] Document store ready with %d documents", count)
	}

	cs.conversationStore.SweepExpired()
	return nil
}

// isGreeting is a substring match against the lowered, trimmed question.
func isGreeting(question string) bool {
	q := strings.ToLower(strings.TrimSpace(question))
	for _, greet := range constant.GreetingKeywords {
		if strings.Contains(q, greet) {
			return true
		}
	}
	return false
}

func sourceRefs(docs []rag.RetrievedDocument) []entity.SourceRef {
	refs := make([]entity.SourceRef, 0, len(docs))
	for _, doc := range docs {
		refs = append(refs, entity.SourceRef{
			Source:  doc.Source(),
			Content: doc.Content,
			Details: doc.Metadata,
		})
	}
	return refs
}

func sourceDTOs(docs []rag.RetrievedDocument) []dto.SourceDocumentDTO {
	sources := make([]dto.SourceDocumentDTO, 0, len(docs))
	for _, doc := range docs {
		sources = append(sources, dto.SourceDocumentDTO{
			Source:  doc.Source(),
			Content: doc.Content,
			Details: doc.Metadata,
		})
	}
	return sources
}

func refDTOs(refs []entity.SourceRef) []dto.SourceDocumentDTO {
	sources := make([]dto.SourceDocumentDTO, 0, len(refs))
	for _, ref := range refs {
		sources = append(sources, dto.SourceDocumentDTO{
			Source:  ref.Source,
			Content: ref.Content,
			Details: ref.Details,
		})
	}
	return sources
}

func suggestedOrEmpty(questions []string) []string {
	if questions == nil {
		return []string{}
	}
	return questions
}

func preview(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
