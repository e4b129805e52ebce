package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"erp-chatbot-be/internal/constant"
	"erp-chatbot-be/internal/entity"
	"erp-chatbot-be/internal/repository/memory"
	"erp-chatbot-be/internal/repository/specification"
	"erp-chatbot-be/internal/repository/unitofwork"
	"erp-chatbot-be/pkg/rag"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Store reconciles the in-memory conversation working set with the persisted
// conversation records. The persisted row is authoritative; the working set
// only saves a round trip for conversations this process touched recently.
type Store struct {
	workingSet memory.IConversationWorkingSet
	logger     *log.Logger
	timeout    time.Duration
}

// NewStore creates a new conversation store
func NewStore(workingSet memory.IConversationWorkingSet, logger *log.Logger, timeout time.Duration) *Store {
	if timeout <= 0 {
		timeout = constant.DefaultConversationTimeoutSeconds * time.Second
	}
	return &Store{
		workingSet: workingSet,
		logger:     logger,
		timeout:    timeout,
	}
}

// Resolve finds the conversation a turn belongs to: working-set hit, persisted
// record by id, the user's most recent conversation, then a fresh one. It never
// fails; lookup errors degrade to the next step and a failed insert still
// yields a usable in-memory state.
func (s *Store) Resolve(ctx context.Context, uow unitofwork.UnitOfWork, userID, conversationID string) *rag.ConversationState {
	s.SweepExpired()

	if conversationID != "" {
		if state, found := s.workingSet.Get(conversationID); found {
			if state.UserID == userID {
				s.logger.Printf("[DEBUG] Found active conversation '%s' in working set for user '%s'", conversationID, userID)
				return state
			}
			s.logger.Printf("[WARN] Conversation '%s' is in the working set but belongs to a different user, ignoring", conversationID)
		}

		conv, err := uow.ConversationRepository().FindOne(ctx, specification.ByConversationID{ConversationID: conversationID})
		if err != nil {
			s.logger.Printf("[ERROR] Loading conversation '%s' failed: %v", conversationID, err)
		} else if conv != nil {
			state := hydrate(conv)
			s.workingSet.Save(state)
			s.logger.Printf("[DEBUG] Loaded conversation '%s' from database for user '%s'", conversationID, userID)
			return state
		} else {
			s.logger.Printf("[WARN] Conversation '%s' not found in database for user '%s'", conversationID, userID)
		}
	}

	conv, err := uow.ConversationRepository().FindOne(ctx,
		specification.ByUserID{UserID: userID},
		specification.OrderBy{Field: "updated_at", Desc: true},
	)
	if err != nil {
		s.logger.Printf("[ERROR] Loading most recent conversation for user '%s' failed: %v", userID, err)
	} else if conv != nil {
		state := hydrate(conv)
		s.workingSet.Save(state)
		s.logger.Printf("[DEBUG] Loaded most recent conversation '%s' for user '%s'", state.ConversationID, userID)
		return state
	}

	return s.create(ctx, uow, userID)
}

// Touch marks a completed turn on the conversation: it refreshes
// last_interaction, records the question in the context, and persists the
// context so a later process can rehydrate it.
func (s *Store) Touch(ctx context.Context, uow unitofwork.UnitOfWork, state *rag.ConversationState, question string) error {
	state.LastInteraction = time.Now()
	if state.Context == nil {
		state.Context = map[string]string{}
	}
	state.Context["last_question"] = question
	s.workingSet.Save(state)

	conv, err := uow.ConversationRepository().FindOne(ctx, specification.ByConversationID{ConversationID: state.ConversationID})
	if err != nil {
		return err
	}
	if conv == nil {
		s.logger.Printf("[WARN] Conversation '%s' has no persisted record to touch", state.ConversationID)
		return nil
	}

	conv.Context = state.Context
	return uow.ConversationRepository().Update(ctx, conv)
}

// SweepExpired evicts working-set entries idle past the timeout. Evicted
// conversations stay persisted and are rehydrated on their next turn.
func (s *Store) SweepExpired() {
	now := time.Now()
	for _, state := range s.workingSet.All() {
		if state.Expired(now, s.timeout) {
			s.workingSet.Delete(state.ConversationID)
			s.logger.Printf("[DEBUG] Removed expired conversation '%s' from working set", state.ConversationID)
		}
	}
}

func (s *Store) create(ctx context.Context, uow unitofwork.UnitOfWork, userID string) *rag.ConversationState {
	prefix := userID
	if len(prefix) > 8 {
		prefix = prefix[:8]
	}
	id := fmt.Sprintf("conv_%d_%s", time.Now().Unix(), prefix)

	state := &rag.ConversationState{
		ConversationID:  id,
		UserID:          userID,
		Context:         map[string]string{},
		LastInteraction: time.Now(),
	}

	conv := &entity.Conversation{
		ConversationId: id,
		UserId:         userID,
		Context:        map[string]string{},
	}
	if err := uow.ConversationRepository().Create(ctx, conv); err != nil {
		if isDuplicateKey(err) {
			s.logger.Printf("[WARN] Conversation '%s' already exists, assuming a concurrent request created it", id)
		} else {
			s.logger.Printf("[ERROR] Failed to persist new conversation '%s' for user '%s': %v", id, userID, err)
		}
	} else {
		s.logger.Printf("[DEBUG] Created new conversation '%s' for user '%s'", id, userID)
	}

	s.workingSet.Save(state)
	return state
}

// hydrate rebuilds the in-memory state from a persisted row. The row's
// updated_at doubles as the last interaction time.
func hydrate(conv *entity.Conversation) *rag.ConversationState {
	context := conv.Context
	if context == nil {
		context = map[string]string{}
	}
	return &rag.ConversationState{
		ConversationID:  conv.ConversationId,
		UserID:          conv.UserId,
		Context:         context,
		LastInteraction: conv.UpdatedAt,
	}
}

// 23505 is the Postgres unique violation code.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
