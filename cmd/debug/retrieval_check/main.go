package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"erp-chatbot-be/internal/config"
	"erp-chatbot-be/internal/repository/implementation"
	"erp-chatbot-be/pkg/database"
	"erp-chatbot-be/pkg/embedding"
	"erp-chatbot-be/pkg/rag/search"
)

func main() {
	cfg := config.Load()

	db, err := database.NewGormDB(cfg.Database.Connection)
	if err != nil {
		log.Fatal("Failed to connect to DB:", err)
	}

	var embeddingProvider embedding.EmbeddingProvider
	switch cfg.Ai.EmbeddingProvider {
	case "ollama":
		embeddingProvider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.EmbeddingModel)
	case "jina":
		embeddingProvider = embedding.NewJinaProvider(cfg.Keys.Jina, cfg.Ai.EmbeddingModel)
	default:
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini, cfg.Ai.EmbeddingModel)
	}

	documentRepo := implementation.NewDocumentRepository(db)
	retriever := search.NewRetriever(embeddingProvider, documentRepo, log.New(os.Stdout, "", log.LstdFlags))

	// === CUTOFFS TO TEST ===
	cutoffs := []float64{0.9, 0.8, 0.7, 0.6, 0.5}

	// === TEST QUERIES ===
	queries := []string{
		"How do I reset my password?",
		"password reset",
		"How do I generate an invoice for a customer?",
		"refund policy",
		"export inventory report",
	}
	if len(os.Args) > 1 {
		queries = []string{strings.Join(os.Args[1:], " ")}
	}

	ctx := context.Background()

	fmt.Println("=" + strings.Repeat("=", 79))
	fmt.Println("RETRIEVAL DIAGNOSTIC TOOL")
	fmt.Println("=" + strings.Repeat("=", 79))

	total, err := documentRepo.Count(ctx)
	if err != nil {
		log.Printf("Failed to count documents: %v", err)
	} else {
		fmt.Printf("Knowledge base: %d chunks\n", total)
	}
	fmt.Println()

	for _, query := range queries {
		fmt.Println("-" + strings.Repeat("-", 79))
		fmt.Printf("QUERY: %q\n", query)
		fmt.Println("-" + strings.Repeat("-", 79))

		// Raw search first, wider than the retriever asks for, so rows the
		// cutoff would drop stay visible.
		embeddingRes, err := embeddingProvider.Generate(ctx, query, "RETRIEVAL_QUERY")
		if err != nil {
			log.Printf("Embedding failed for query %q: %v", query, err)
			continue
		}

		topK := 10
		scored, err := documentRepo.SearchNearest(ctx, embeddingRes.Embedding.Values, topK)
		if err != nil {
			log.Printf("Search failed: %v", err)
			continue
		}

		fmt.Printf("\nRaw Results (TopK=%d):\n\n", topK)
		fmt.Printf("%-4s %-44s %-10s", "#", "Content", "Distance")
		for _, cutoff := range cutoffs {
			fmt.Printf(" <%.1f", cutoff)
		}
		fmt.Println()
		fmt.Println(strings.Repeat("-", 100))

		for i, res := range scored {
			content := strings.TrimSpace(res.Document.Content)
			if len(content) > 42 {
				content = content[:39] + "..."
			}
			fmt.Printf("%-4d %-44s %-10.4f", i+1, content, res.Distance)
			for _, cutoff := range cutoffs {
				if res.Distance < cutoff {
					fmt.Print("  Y ")
				} else {
					fmt.Print("  - ")
				}
			}
			fmt.Println()
		}
		fmt.Println()

		// Now the real pipeline, lexical fallback and dedup included.
		result := retriever.Retrieve(ctx, query, 0)
		fmt.Printf("Pipeline result: status=%s, %d documents\n", result.Status, len(result.Documents))
		for i, doc := range result.Documents {
			fmt.Printf("  %d. [%s/%s] distance=%.4f %q\n", i+1, doc.Source(), doc.Origin, doc.Distance, firstWords(doc.Content, 8))
		}
		fmt.Println()
	}

	fmt.Println("=" + strings.Repeat("=", 79))
	fmt.Println("ANALYSIS COMPLETE")
	fmt.Println("=" + strings.Repeat("=", 79))
	fmt.Println()
	fmt.Println("Current System Configuration:")
	fmt.Println("  pkg/rag/search/retriever.go:")
	fmt.Printf("    - DistanceCutoff: %.2f (cosine distance, keep below)\n", search.DefaultConfig().DistanceCutoff)
	fmt.Printf("    - Limit:          %d\n", search.DefaultConfig().Limit)
	fmt.Println("    - Lexical fallback: token overlap, distance = 1 - overlap")
}

func firstWords(s string, n int) string {
	words := strings.Fields(s)
	if len(words) <= n {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:n], " ") + " ..."
}
