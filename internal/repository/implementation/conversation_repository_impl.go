package implementation

import (
	"context"
	"errors"

	"erp-chatbot-be/internal/entity"
	"erp-chatbot-be/internal/mapper"
	"erp-chatbot-be/internal/model"
	"erp-chatbot-be/internal/repository/contract"
	"erp-chatbot-be/internal/repository/specification"

	"gorm.io/gorm"
)

type ConversationRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatMapper
}

func NewConversationRepository(db *gorm.DB) contract.ConversationRepository {
	return &ConversationRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatMapper(),
	}
}

func (r *ConversationRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ConversationRepositoryImpl) Create(ctx context.Context, conversation *entity.Conversation) error {
	m := r.mapper.ConversationToModel(conversation)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*conversation = *r.mapper.ConversationToEntity(m)
	return nil
}

func (r *ConversationRepositoryImpl) Update(ctx context.Context, conversation *entity.Conversation) error {
	m := r.mapper.ConversationToModel(conversation)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*conversation = *r.mapper.ConversationToEntity(m)
	return nil
}

func (r *ConversationRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Conversation, error) {
	var m model.Conversation
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ConversationToEntity(&m), nil
}

func (r *ConversationRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Conversation, error) {
	var models []*model.Conversation
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ConversationsToEntities(models), nil
}

func (r *ConversationRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Conversation{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ConversationRepositoryImpl) ListSummariesByUser(ctx context.Context, userId string) ([]*contract.ConversationSummary, error) {
	// Correlated subquery pulls the earliest question of each conversation
	// in the same round trip as the listing itself.
	type result struct {
		model.Conversation
		FirstQuestion *string
	}
	var results []result

	err := r.db.WithContext(ctx).
		Table("conversations").
		Select("conversations.*, (SELECT question FROM chat_history WHERE chat_history.conversation_id = conversations.conversation_id ORDER BY timestamp ASC LIMIT 1) as first_question").
		Where("user_id = ?", userId).
		Order("updated_at DESC").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	summaries := make([]*contract.ConversationSummary, len(results))
	for i, res := range results {
		summaries[i] = &contract.ConversationSummary{
			Conversation:  r.mapper.ConversationToEntity(&res.Conversation),
			FirstQuestion: res.FirstQuestion,
		}
	}
	return summaries, nil
}
