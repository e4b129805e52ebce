package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"regexp"
	"strings"
	"time"

	"erp-chatbot-be/internal/config"
	"erp-chatbot-be/internal/constant"
	"erp-chatbot-be/internal/dto"
	"erp-chatbot-be/internal/repository/implementation"
	"erp-chatbot-be/internal/repository/specification"
	"erp-chatbot-be/internal/repository/unitofwork"
	"erp-chatbot-be/internal/service"
	"erp-chatbot-be/pkg/database"
	"erp-chatbot-be/pkg/embedding"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/fatih/color"
)

var (
	allowedChars = regexp.MustCompile(`[^a-zA-Z0-9\s.,!?@#$%&*()\-_+/=\[\]{}'"]`)
	whitespace   = regexp.MustCompile(`\s+`)
)

func main() {
	csvPath := flag.String("file", "data/redclouds_erp_faqs.csv", "path to the FAQ CSV export")
	sourceName := flag.String("source", "faqs", "source name the rows are stored and replaced under")
	flag.Parse()

	color.Cyan("🚀 RedClouDS ERP knowledge base ingestion")

	// 1. Configuration & Database
	cfg := config.Load()
	db, err := database.NewGormDB(cfg.Database.Connection)
	if err != nil {
		color.Red("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	// 2. Embedding Provider (same selection the server makes)
	var embeddingProvider embedding.EmbeddingProvider
	switch cfg.Ai.EmbeddingProvider {
	case "ollama":
		embeddingProvider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.EmbeddingModel)
	case "jina":
		embeddingProvider = embedding.NewJinaProvider(cfg.Keys.Jina, cfg.Ai.EmbeddingModel)
	default:
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini, cfg.Ai.EmbeddingModel)
	}
	log.Printf("[INFO] Using Embedding Provider: %s (%s)", strings.ToUpper(cfg.Ai.EmbeddingProvider), cfg.Ai.EmbeddingModel)

	// 3. Load and clean the CSV
	documents, skipped, err := loadCSV(*csvPath, *sourceName)
	if err != nil {
		color.Red("Failed to load %s: %v", *csvPath, err)
		os.Exit(1)
	}
	if len(documents) == 0 {
		color.Red("No valid rows in %s, nothing to ingest", *csvPath)
		os.Exit(1)
	}
	color.Yellow("Loaded %d documents from %s (%d rows dropped by cleaning)", len(documents), *csvPath, skipped)

	// 4. In-process bus wired the same way the consumer expects it on the
	// server side. Blocking publish turns the async consumer into a
	// synchronous ingest step, so the process can exit when Publish returns.
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(gochannel.Config{
		BlockPublishUntilSubscriberAck: true,
	}, watermillLogger)
	defer pubSub.Close()

	ctx := context.Background()
	uowFactory := unitofwork.NewRepositoryFactory(db)
	consumer := service.NewDocumentConsumerService(pubSub, constant.IngestTopicName, uowFactory, embeddingProvider)
	if err := consumer.Consume(ctx); err != nil {
		color.Red("Failed to start consumer: %v", err)
		os.Exit(1)
	}

	// 5. Publish one replace-message carrying the whole source
	payload, err := json.Marshal(dto.PublishIngestSourceMessage{
		Source:    *sourceName,
		Documents: documents,
	})
	if err != nil {
		color.Red("Failed to encode ingest message: %v", err)
		os.Exit(1)
	}
	publisher := service.NewPublisherService(constant.IngestTopicName, pubSub)
	if err := publisher.Publish(ctx, payload); err != nil {
		color.Red("Ingestion failed: %v", err)
		os.Exit(1)
	}

	// 6. Report what the consumer stored
	stored, err := implementation.NewDocumentRepository(db).Count(ctx, specification.BySourceName{Source: *sourceName})
	if err != nil {
		color.Red("Ingestion finished but the final count failed: %v", err)
		os.Exit(1)
	}
	color.Green("✅ Data ingestion complete! Source '%s' now holds %d chunks.", *sourceName, stored)
}

// loadCSV reads the export, picks the text column, and turns every row that
// survives cleaning into an ingest document.
func loadCSV(path, sourceName string) ([]dto.IngestDocumentDTO, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, 0, err
	}
	if len(records) < 2 {
		return nil, 0, fmt.Errorf("%s has no data rows", path)
	}

	header := records[0]
	textIdx, err := textColumn(header)
	if err != nil {
		return nil, 0, err
	}

	ingestedAt := time.Now().Format(time.RFC3339)
	var documents []dto.IngestDocumentDTO
	skipped := 0
	for _, row := range records[1:] {
		content := cleanText(row[textIdx])
		if content == "" {
			skipped++
			continue
		}

		// Every remaining column rides along as metadata, so the answer
		// keeps its question label and category without a fixed schema.
		metadata := map[string]string{
			constant.MetadataSourceKey: sourceName,
			"ingested_at":              ingestedAt,
		}
		for i, value := range row {
			if i == textIdx || strings.TrimSpace(value) == "" {
				continue
			}
			metadata[header[i]] = value
		}

		documents = append(documents, dto.IngestDocumentDTO{
			Content:  content,
			Metadata: metadata,
		})
	}
	return documents, skipped, nil
}

// textColumn picks the column holding the answer body. Answer is preferred,
// Question is a last resort for exports that lack one.
func textColumn(header []string) (int, error) {
	for _, name := range []string{"Answer", "answer"} {
		for i, col := range header {
			if col == name {
				return i, nil
			}
		}
	}
	for i, col := range header {
		if col == constant.MetadataQuestionKey {
			log.Printf("[WARN] No 'Answer' column found, using 'Question' as document text")
			return i, nil
		}
	}
	return 0, fmt.Errorf("no suitable text column ('Answer' or 'Question') in header %v", header)
}

// cleanText normalizes one CSV cell. Rows shorter than 10 characters carry no
// answerable content and are dropped.
func cleanText(raw string) string {
	text := strings.TrimSpace(raw)
	if len(text) < 10 {
		return ""
	}
	text = allowedChars.ReplaceAllString(text, "")
	return whitespace.ReplaceAllString(text, " ")
}
