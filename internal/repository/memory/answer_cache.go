package memory

import (
	"erp-chatbot-be/pkg/rag"

	"github.com/patrickmn/go-cache"
)

// IAnswerCacheRepository memoizes composed answers per (user, question) pair.
// Entries expire on the TTL of the backing cache; nothing invalidates them
// eagerly, so a re-ingest can serve stale answers until the TTL runs out.
type IAnswerCacheRepository interface {
	Save(userID, question string, answer *rag.ComposedAnswer)
	Get(userID, question string) (*rag.ComposedAnswer, bool)
}

type AnswerCacheRepository struct {
	cache *cache.Cache
}

// NewAnswerCacheRepository wraps an injected cache so TTL and sweep interval
// stay a bootstrap concern.
func NewAnswerCacheRepository(c *cache.Cache) IAnswerCacheRepository {
	return &AnswerCacheRepository{
		cache: c,
	}
}

// Keys join the raw user id and question verbatim. No normalization: two
// questions differing in case or whitespace are distinct entries.
func answerKey(userID, question string) string {
	return userID + ":" + question
}

func (r *AnswerCacheRepository) Save(userID, question string, answer *rag.ComposedAnswer) {
	r.cache.Set(answerKey(userID, question), answer, cache.DefaultExpiration)
}

func (r *AnswerCacheRepository) Get(userID, question string) (*rag.ComposedAnswer, bool) {
	if x, found := r.cache.Get(answerKey(userID, question)); found {
		return x.(*rag.ComposedAnswer), true
	}
	return nil, false
}
