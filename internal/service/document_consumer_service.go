// FILE: internal/service/document_consumer_service.go
package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"erp-chatbot-be/internal/constant"
	"erp-chatbot-be/internal/dto"
	"erp-chatbot-be/internal/entity"
	"erp-chatbot-be/internal/repository/specification"
	"erp-chatbot-be/internal/repository/unitofwork"
	"erp-chatbot-be/pkg/embedding"
	"erp-chatbot-be/pkg/utils"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IDocumentConsumerService interface {
	Consume(ctx context.Context) error
}

type documentConsumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
}

func NewDocumentConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
) IDocumentConsumerService {
	return &documentConsumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
	}
}

func (cs *documentConsumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *documentConsumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishIngestSourceMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal ingest message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}
	if payload.Source == "" {
		log.Printf("[ERROR] Ingest message carries no source name, dropping it")
		msg.Ack()
		return
	}

	log.Printf("[INFO] Processing ingest for source '%s' (%d documents)", payload.Source, len(payload.Documents))

	var newDocuments []*entity.Document
	for _, doc := range payload.Documents {
		chunks := utils.SplitText(doc.Content, 1500, 200)
		for _, chunk := range chunks {
			res, err := cs.embeddingProvider.Generate(ctx, chunk, "RETRIEVAL_DOCUMENT")
			if err != nil {
				log.Printf("[ERROR] Failed to embed chunk for source '%s': %v", payload.Source, err)
				msg.Nack() // Nack for retriable errors
				return
			}

			// Stored metadata must carry the source so a later replace can
			// find the rows again.
			metadata := make(map[string]string, len(doc.Metadata)+1)
			for k, v := range doc.Metadata {
				metadata[k] = v
			}
			metadata[constant.MetadataSourceKey] = payload.Source

			newDocuments = append(newDocuments, &entity.Document{
				Id:        uuid.New(),
				Content:   chunk,
				Metadata:  metadata,
				Embedding: res.Embedding.Values,
				CreatedAt: time.Now(),
			})
		}
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	if err := uow.Begin(ctx); err != nil {
		log.Printf("[ERROR] Failed to begin transaction: %v", err)
		msg.Nack()
		return
	}
	defer uow.Rollback()

	replaced, err := uow.DocumentRepository().Count(ctx, specification.BySourceName{Source: payload.Source})
	if err != nil {
		log.Printf("[ERROR] Failed to count existing documents for source '%s': %v", payload.Source, err)
		msg.Nack()
		return
	}

	if err := uow.DocumentRepository().DeleteBySource(ctx, payload.Source); err != nil {
		log.Printf("[ERROR] Failed to delete old documents for source '%s': %v", payload.Source, err)
		msg.Nack()
		return
	}

	if len(newDocuments) > 0 {
		if err := uow.DocumentRepository().CreateBulk(ctx, newDocuments); err != nil {
			log.Printf("[ERROR] Failed to create documents for source '%s': %v", payload.Source, err)
			msg.Nack()
			return
		}
	}

	if err := uow.Commit(); err != nil {
		log.Printf("[ERROR] Failed to commit transaction: %v", err)
		msg.Nack()
		return
	}

	log.Printf("[SUCCESS] Source '%s' ingested: %d chunks stored, %d replaced", payload.Source, len(newDocuments), replaced)
	msg.Ack()
}
