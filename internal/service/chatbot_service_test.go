package service

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"
	"time"

	"erp-chatbot-be/internal/constant"
	"erp-chatbot-be/internal/dto"
	"erp-chatbot-be/internal/entity"
	"erp-chatbot-be/internal/repository/contract"
	"erp-chatbot-be/internal/repository/memory"
	"erp-chatbot-be/internal/repository/specification"
	"erp-chatbot-be/internal/repository/unitofwork"
	"erp-chatbot-be/pkg/embedding"
	"erp-chatbot-be/pkg/llm"
	"erp-chatbot-be/pkg/rag/response"
	"erp-chatbot-be/pkg/rag/search"
	"erp-chatbot-be/pkg/rag/session"

	"github.com/patrickmn/go-cache"
)

type fakeEmbedder struct {
	calls int
}

func (f *fakeEmbedder) Generate(ctx context.Context, text string, taskType string) (*embedding.EmbeddingResponse, error) {
	f.calls++
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: []float32{0.1, 0.2}},
	}, nil
}

type fakeLLM struct {
	response string
	calls    int
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	f.calls++
	return f.response, nil
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	f.calls++
	return f.response, nil
}

type fakeDocumentRepo struct {
	scored   []*contract.ScoredDocument
	countErr error
}

func (f *fakeDocumentRepo) Create(ctx context.Context, document *entity.Document) error { return nil }
func (f *fakeDocumentRepo) CreateBulk(ctx context.Context, documents []*entity.Document) error {
	return nil
}
func (f *fakeDocumentRepo) DeleteBySource(ctx context.Context, source string) error { return nil }
func (f *fakeDocumentRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Document, error) {
	return nil, nil
}
func (f *fakeDocumentRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Document, error) {
	return nil, nil
}
func (f *fakeDocumentRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	return int64(len(f.scored)), nil
}
func (f *fakeDocumentRepo) SearchNearest(ctx context.Context, embedding []float32, limit int) ([]*contract.ScoredDocument, error) {
	return f.scored, nil
}

type fakeConversationRepo struct {
	byID      map[string]*entity.Conversation
	summaries []*contract.ConversationSummary
	listErr   error
	created   []*entity.Conversation
	updated   []*entity.Conversation
}

func (f *fakeConversationRepo) Create(ctx context.Context, conversation *entity.Conversation) error {
	if f.byID == nil {
		f.byID = map[string]*entity.Conversation{}
	}
	f.byID[conversation.ConversationId] = conversation
	f.created = append(f.created, conversation)
	return nil
}

func (f *fakeConversationRepo) Update(ctx context.Context, conversation *entity.Conversation) error {
	f.updated = append(f.updated, conversation)
	return nil
}

func (f *fakeConversationRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Conversation, error) {
	for _, spec := range specs {
		if s, ok := spec.(specification.ByConversationID); ok {
			return f.byID[s.ConversationID], nil
		}
	}
	return nil, nil
}

func (f *fakeConversationRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Conversation, error) {
	return nil, nil
}

func (f *fakeConversationRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(f.created)), nil
}

func (f *fakeConversationRepo) ListSummariesByUser(ctx context.Context, userId string) ([]*contract.ConversationSummary, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.summaries, nil
}

type fakeTurnRepo struct {
	created []*entity.ChatTurn
	turns   []*entity.ChatTurn
	findErr error
}

func (f *fakeTurnRepo) Create(ctx context.Context, turn *entity.ChatTurn) error {
	f.created = append(f.created, turn)
	return nil
}

func (f *fakeTurnRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatTurn, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.turns, nil
}

func (f *fakeTurnRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(f.created)), nil
}

type fakeUow struct {
	conversations *fakeConversationRepo
	turns         *fakeTurnRepo
	documents     *fakeDocumentRepo
	commits       int
}

func (f *fakeUow) Begin(ctx context.Context) error { return nil }
func (f *fakeUow) Commit() error {
	f.commits++
	return nil
}
func (f *fakeUow) Rollback() error { return nil }
func (f *fakeUow) ConversationRepository() contract.ConversationRepository {
	return f.conversations
}
func (f *fakeUow) ChatTurnRepository() contract.ChatTurnRepository { return f.turns }
func (f *fakeUow) DocumentRepository() contract.DocumentRepository { return f.documents }

type fakeUowFactory struct {
	uow *fakeUow
}

func (f *fakeUowFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

type serviceHarness struct {
	service   *chatbotService
	embedder  *fakeEmbedder
	llm       *fakeLLM
	documents *fakeDocumentRepo
	convRepo  *fakeConversationRepo
	turnRepo  *fakeTurnRepo
	uow       *fakeUow
	cache     memory.IAnswerCacheRepository
}

func newHarness() *serviceHarness {
	embedder := &fakeEmbedder{}
	provider := &fakeLLM{response: "Certainly! Go to Settings > Security. Please let me know if you need any further clarification."}
	documents := &fakeDocumentRepo{}
	convRepo := &fakeConversationRepo{}
	turnRepo := &fakeTurnRepo{}
	uow := &fakeUow{conversations: convRepo, turns: turnRepo, documents: documents}

	logger := log.New(io.Discard, "", 0)
	answerCache := memory.NewAnswerCacheRepository(cache.New(time.Hour, time.Hour))
	workingSet := memory.NewConversationWorkingSet(cache.New(time.Hour, time.Hour))

	svc := &chatbotService{
		uowFactory:        &fakeUowFactory{uow: uow},
		eventPublisher:    nil,
		ragLogger:         logger,
		retrieveLimit:     constant.DefaultRetrieveLimit,
		retriever:         search.NewRetriever(embedder, documents, logger),
		composer:          response.NewComposer(provider, response.NewParser(), 0, 0, logger),
		conversationStore: session.NewStore(workingSet, logger, time.Hour),
		answerCache:       answerCache,
	}

	return &serviceHarness{
		service:   svc,
		embedder:  embedder,
		llm:       provider,
		documents: documents,
		convRepo:  convRepo,
		turnRepo:  turnRepo,
		uow:       uow,
		cache:     answerCache,
	}
}

func faqDocument(content string) *contract.ScoredDocument {
	return &contract.ScoredDocument{
		Document: &entity.Document{
			Content: content,
			Metadata: map[string]string{
				"source":   "faqs",
				"Question": "How do I reset my password?",
			},
		},
		Distance: 0.2,
	}
}

func TestChatGreetingShortCircuit(t *testing.T) {
	h := newHarness()

	res, err := h.service.Chat(context.Background(), &dto.ChatRequest{Question: "hello", UserId: "alice"})
	if err != nil {
		t.Fatalf("Chat returned %v", err)
	}

	if res.Response != constant.GreetingMessage {
		t.Errorf("Response = %q, want the greeting message", res.Response)
	}
	if len(res.SuggestedQuestions) != len(constant.GreetingSuggestedQuestions) {
		t.Errorf("SuggestedQuestions = %d, want %d", len(res.SuggestedQuestions), len(constant.GreetingSuggestedQuestions))
	}
	if h.embedder.calls != 0 {
		t.Errorf("embedding calls = %d, want 0 for a greeting", h.embedder.calls)
	}
	if h.llm.calls != 0 {
		t.Errorf("LLM calls = %d, want 0 for a greeting", h.llm.calls)
	}
	if len(h.turnRepo.created) != 1 {
		t.Fatalf("persisted turns = %d, want the greeting recorded", len(h.turnRepo.created))
	}
	if h.turnRepo.created[0].Response != constant.GreetingMessage {
		t.Errorf("persisted response = %q, want the greeting message", h.turnRepo.created[0].Response)
	}
	if h.uow.commits != 1 {
		t.Errorf("commits = %d, want 1", h.uow.commits)
	}
}

func TestChatAnswersFromDocuments(t *testing.T) {
	h := newHarness()
	h.documents.scored = []*contract.ScoredDocument{
		faqDocument("Go to Settings > Security and click Reset Password."),
	}

	question := "How do I reset my password?"
	res, err := h.service.Chat(context.Background(), &dto.ChatRequest{Question: question, UserId: "bob"})
	if err != nil {
		t.Fatalf("Chat returned %v", err)
	}

	if res.Response != h.llm.response {
		t.Errorf("Response = %q, want the model output", res.Response)
	}
	if len(res.Sources) != 1 {
		t.Fatalf("Sources = %d, want 1", len(res.Sources))
	}
	if res.Sources[0].Source != "faqs" {
		t.Errorf("Sources[0].Source = %q, want %q", res.Sources[0].Source, "faqs")
	}
	if !strings.HasPrefix(res.ConversationId, "conv_") {
		t.Errorf("ConversationId = %q, want a created conversation", res.ConversationId)
	}

	if len(h.turnRepo.created) != 1 {
		t.Fatalf("persisted turns = %d, want 1", len(h.turnRepo.created))
	}
	turn := h.turnRepo.created[0]
	if turn.Question != question || turn.Response != res.Response {
		t.Errorf("persisted turn = %q / %q, want the exchanged pair", turn.Question, turn.Response)
	}
	if len(turn.Sources) != 1 || turn.Sources[0].Source != "faqs" {
		t.Errorf("persisted sources = %+v, want the faq source", turn.Sources)
	}

	if len(h.convRepo.updated) != 1 {
		t.Fatalf("conversation updates = %d, want the touch persisted", len(h.convRepo.updated))
	}
	if h.convRepo.updated[0].Context["last_question"] != question {
		t.Errorf("persisted context = %v, want last_question recorded", h.convRepo.updated[0].Context)
	}

	if _, found := h.cache.Get("bob", question); !found {
		t.Errorf("composed answer missing from the cache")
	}
}

func TestChatServesCachedAnswer(t *testing.T) {
	h := newHarness()
	h.documents.scored = []*contract.ScoredDocument{
		faqDocument("Go to Settings > Security and click Reset Password."),
	}

	question := "How do I reset my password?"
	first, err := h.service.Chat(context.Background(), &dto.ChatRequest{Question: question, UserId: "bob"})
	if err != nil {
		t.Fatalf("first Chat returned %v", err)
	}

	second, err := h.service.Chat(context.Background(), &dto.ChatRequest{
		Question:       question,
		UserId:         "bob",
		ConversationId: first.ConversationId,
	})
	if err != nil {
		t.Fatalf("second Chat returned %v", err)
	}

	if h.embedder.calls != 1 {
		t.Errorf("embedding calls = %d, want 1 (second ask served from cache)", h.embedder.calls)
	}
	if h.llm.calls != 1 {
		t.Errorf("LLM calls = %d, want 1 (second ask served from cache)", h.llm.calls)
	}
	if second.Response != first.Response {
		t.Errorf("cached response differs from the original")
	}
	if len(h.turnRepo.created) != 2 {
		t.Errorf("persisted turns = %d, want both asks recorded", len(h.turnRepo.created))
	}
}

func TestChatFallsBackWithoutDocuments(t *testing.T) {
	h := newHarness()

	question := "What will the weather be tomorrow?"
	res, err := h.service.Chat(context.Background(), &dto.ChatRequest{Question: question, UserId: "carol"})
	if err != nil {
		t.Fatalf("Chat returned %v", err)
	}

	if res.Response != constant.FallbackMessage {
		t.Errorf("Response = %q, want the fallback message", res.Response)
	}
	if len(res.SuggestedQuestions) != len(constant.NoDocumentSuggestedQuestions) {
		t.Errorf("SuggestedQuestions = %d, want %d", len(res.SuggestedQuestions), len(constant.NoDocumentSuggestedQuestions))
	}
	if h.llm.calls != 0 {
		t.Errorf("LLM calls = %d, want 0 without documents", h.llm.calls)
	}
	if len(h.turnRepo.created) != 1 {
		t.Errorf("persisted turns = %d, want the miss still recorded", len(h.turnRepo.created))
	}

	// A retrieval miss must not be cached, the next ask retries retrieval.
	if _, found := h.cache.Get("carol", question); found {
		t.Errorf("fallback answer was cached")
	}
	if _, err := h.service.Chat(context.Background(), &dto.ChatRequest{Question: question, UserId: "carol"}); err != nil {
		t.Fatalf("second Chat returned %v", err)
	}
	if h.embedder.calls != 2 {
		t.Errorf("embedding calls = %d, want 2 (miss retried)", h.embedder.calls)
	}
}

func TestChatContinuesConversation(t *testing.T) {
	h := newHarness()

	first, err := h.service.Chat(context.Background(), &dto.ChatRequest{Question: "hello", UserId: "dan"})
	if err != nil {
		t.Fatalf("first Chat returned %v", err)
	}
	second, err := h.service.Chat(context.Background(), &dto.ChatRequest{
		Question:       "hello again",
		UserId:         "dan",
		ConversationId: first.ConversationId,
	})
	if err != nil {
		t.Fatalf("second Chat returned %v", err)
	}

	if second.ConversationId != first.ConversationId {
		t.Errorf("ConversationId = %q, want the first conversation %q continued", second.ConversationId, first.ConversationId)
	}
	if len(h.convRepo.created) != 1 {
		t.Errorf("created conversations = %d, want 1", len(h.convRepo.created))
	}
	if len(h.turnRepo.created) != 2 {
		t.Fatalf("persisted turns = %d, want 2", len(h.turnRepo.created))
	}
	if h.turnRepo.created[0].ConversationId != h.turnRepo.created[1].ConversationId {
		t.Errorf("turns landed on different conversations")
	}
}

func TestGetUserConversations(t *testing.T) {
	h := newHarness()
	firstQuestion := "How do I reset my password?"
	h.convRepo.summaries = []*contract.ConversationSummary{
		{
			Conversation: &entity.Conversation{
				ConversationId: "conv_1_eve",
				UserId:         "eve",
				Context:        nil,
				CreatedAt:      time.Now().Add(-time.Hour),
				UpdatedAt:      time.Now(),
			},
			FirstQuestion: &firstQuestion,
		},
	}

	res, err := h.service.GetUserConversations(context.Background(), "eve")
	if err != nil {
		t.Fatalf("GetUserConversations returned %v", err)
	}

	if len(res.Conversations) != 1 {
		t.Fatalf("conversations = %d, want 1", len(res.Conversations))
	}
	conv := res.Conversations[0]
	if conv.ConversationId != "conv_1_eve" {
		t.Errorf("ConversationId = %q, want %q", conv.ConversationId, "conv_1_eve")
	}
	if conv.Context == nil {
		t.Errorf("Context = nil, want an empty map in the payload")
	}
	if conv.FirstQuestion == nil || *conv.FirstQuestion != firstQuestion {
		t.Errorf("FirstQuestion = %v, want %q", conv.FirstQuestion, firstQuestion)
	}

	h.convRepo.listErr = errors.New("db down")
	if _, err := h.service.GetUserConversations(context.Background(), "eve"); err == nil {
		t.Error("GetUserConversations returned nil, want the lookup failure propagated")
	}
}

func TestGetConversationMessages(t *testing.T) {
	h := newHarness()
	h.turnRepo.turns = []*entity.ChatTurn{
		{
			ConversationId: "conv_2_finn",
			Question:       "How do I reset my password?",
			Response:       "Go to Settings.",
			Sources:        []entity.SourceRef{{Source: "faqs", Content: "Reset steps."}},
			Timestamp:      time.Now().Add(-time.Minute),
		},
		{
			ConversationId: "conv_2_finn",
			Question:       "And my email?",
			Response:       "Also in Settings.",
			Timestamp:      time.Now(),
		},
	}

	res, err := h.service.GetConversationMessages(context.Background(), "conv_2_finn")
	if err != nil {
		t.Fatalf("GetConversationMessages returned %v", err)
	}

	if len(res.Messages) != 2 {
		t.Fatalf("messages = %d, want 2", len(res.Messages))
	}
	if res.Messages[0].Question != "How do I reset my password?" {
		t.Errorf("Messages[0].Question = %q, want the first turn", res.Messages[0].Question)
	}
	if len(res.Messages[0].Sources) != 1 || res.Messages[0].Sources[0].Source != "faqs" {
		t.Errorf("Messages[0].Sources = %+v, want the faq ref", res.Messages[0].Sources)
	}
}

func TestGetConversationMessagesUnknownId(t *testing.T) {
	h := newHarness()

	res, err := h.service.GetConversationMessages(context.Background(), "conv_none")
	if err != nil {
		t.Fatalf("GetConversationMessages returned %v", err)
	}
	if res != nil {
		t.Errorf("result = %+v, want nil for an unknown conversation", res)
	}

	h.turnRepo.findErr = errors.New("db down")
	if _, err := h.service.GetConversationMessages(context.Background(), "conv_none"); err == nil {
		t.Error("GetConversationMessages returned nil, want the lookup failure propagated")
	}
}

func TestWarmUp(t *testing.T) {
	h := newHarness()

	if err := h.service.WarmUp(context.Background()); err != nil {
		t.Errorf("WarmUp returned %v on an empty store", err)
	}

	h.documents.countErr = errors.New("db down")
	err := h.service.WarmUp(context.Background())
	if err == nil {
		t.Fatal("WarmUp returned nil, want the probe failure")
	}
	if !strings.Contains(err.Error(), "document store probe failed") {
		t.Errorf("error = %v, want the probe failure wrapped", err)
	}
}
