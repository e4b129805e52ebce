package memory

import (
	"erp-chatbot-be/pkg/rag"

	"github.com/patrickmn/go-cache"
)

// IConversationWorkingSet holds the active conversations this process has
// touched recently. It is a best-effort accelerator: the persisted row stays
// authoritative and evicted conversations are rehydrated from it on demand.
type IConversationWorkingSet interface {
	Save(state *rag.ConversationState)
	Get(conversationID string) (*rag.ConversationState, bool)
	Delete(conversationID string)
	All() []*rag.ConversationState
}

type ConversationWorkingSet struct {
	cache *cache.Cache
}

func NewConversationWorkingSet(c *cache.Cache) IConversationWorkingSet {
	return &ConversationWorkingSet{
		cache: c,
	}
}

func (r *ConversationWorkingSet) Save(state *rag.ConversationState) {
	r.cache.Set(state.ConversationID, state, cache.DefaultExpiration)
}

func (r *ConversationWorkingSet) Get(conversationID string) (*rag.ConversationState, bool) {
	if x, found := r.cache.Get(conversationID); found {
		return x.(*rag.ConversationState), true
	}
	return nil, false
}

func (r *ConversationWorkingSet) Delete(conversationID string) {
	r.cache.Delete(conversationID)
}

// All snapshots the working set for the expiry sweep.
func (r *ConversationWorkingSet) All() []*rag.ConversationState {
	items := r.cache.Items()
	states := make([]*rag.ConversationState, 0, len(items))
	for _, item := range items {
		if s, ok := item.Object.(*rag.ConversationState); ok {
			states = append(states, s)
		}
	}
	return states
}
