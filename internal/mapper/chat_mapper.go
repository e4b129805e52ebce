package mapper

import (
	"encoding/json"

	"erp-chatbot-be/internal/entity"
	"erp-chatbot-be/internal/model"

	"gorm.io/datatypes"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

// Conversation Mappers

func (m *ChatMapper) ConversationToEntity(c *model.Conversation) *entity.Conversation {
	if c == nil {
		return nil
	}

	// Malformed context rows read as an empty map rather than failing the lookup.
	context := map[string]string{}
	if len(c.Context) > 0 {
		_ = json.Unmarshal(c.Context, &context)
	}

	return &entity.Conversation{
		ConversationId: c.ConversationId,
		UserId:         c.UserId,
		Context:        context,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

func (m *ChatMapper) ConversationToModel(c *entity.Conversation) *model.Conversation {
	if c == nil {
		return nil
	}

	var context datatypes.JSON
	if c.Context != nil {
		if b, err := json.Marshal(c.Context); err == nil {
			context = datatypes.JSON(b)
		}
	}

	return &model.Conversation{
		ConversationId: c.ConversationId,
		UserId:         c.UserId,
		Context:        context,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

func (m *ChatMapper) ConversationsToEntities(conversations []*model.Conversation) []*entity.Conversation {
	entities := make([]*entity.Conversation, len(conversations))
	for i, c := range conversations {
		entities[i] = m.ConversationToEntity(c)
	}
	return entities
}

// Chat Turn Mappers

func (m *ChatMapper) ChatTurnToEntity(t *model.ChatTurn) *entity.ChatTurn {
	if t == nil {
		return nil
	}

	var sources []entity.SourceRef
	if len(t.Sources) > 0 {
		_ = json.Unmarshal(t.Sources, &sources)
	}

	return &entity.ChatTurn{
		Id:             t.Id,
		ConversationId: t.ConversationId,
		UserId:         t.UserId,
		Question:       t.Question,
		Response:       t.Response,
		Sources:        sources,
		Timestamp:      t.Timestamp,
		Feedback:       t.Feedback,
	}
}

func (m *ChatMapper) ChatTurnToModel(t *entity.ChatTurn) *model.ChatTurn {
	if t == nil {
		return nil
	}

	var sources datatypes.JSON
	if t.Sources != nil {
		if b, err := json.Marshal(t.Sources); err == nil {
			sources = datatypes.JSON(b)
		}
	}

	return &model.ChatTurn{
		Id:             t.Id,
		ConversationId: t.ConversationId,
		UserId:         t.UserId,
		Question:       t.Question,
		Response:       t.Response,
		Sources:        sources,
		Timestamp:      t.Timestamp,
		Feedback:       t.Feedback,
	}
}

func (m *ChatMapper) ChatTurnsToEntities(turns []*model.ChatTurn) []*entity.ChatTurn {
	entities := make([]*entity.ChatTurn, len(turns))
	for i, t := range turns {
		entities[i] = m.ChatTurnToEntity(t)
	}
	return entities
}
