package main

import (
	"log"
	"os"

	"erp-chatbot-be/internal/model"
	"erp-chatbot-be/pkg/database"

	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDB(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Starting GORM Migration...")

	// 3. Pre-Migration: Extensions (Things GORM AutoMigrate doesn't do)
	log.Println("Step 1: Setting up Extensions...")

	setupSQL := []string{
		// gen_random_uuid() for document ids
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		// vector(768) column type for embeddings
		`CREATE EXTENSION IF NOT EXISTS vector;`,
	}

	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute setup SQL: %v. Continuing...", err)
		}
	}

	// 4. AutoMigrate All Models
	log.Println("Step 2: Running AutoMigrate...")

	models := []interface{}{
		&model.Conversation{},
		&model.ChatTurn{},
		&model.Document{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	// 5. Post-Migration: Indexes the tags don't express
	log.Println("Step 3: Creating Indexes...")

	postMigrationSQL := []string{
		// Approximate nearest-neighbour search over document embeddings.
		// The retriever orders by cosine distance, so the opclass must match.
		`CREATE INDEX IF NOT EXISTS idx_documents_embedding_hnsw
		 ON documents USING hnsw (embedding vector_cosine_ops);`,

		// Source replacement deletes by metadata->>'source'.
		`CREATE INDEX IF NOT EXISTS idx_documents_metadata_source
		 ON documents ((metadata->>'source'));`,

		// Most-recent-conversation lookup orders by updated_at per user.
		`CREATE INDEX IF NOT EXISTS idx_conversations_user_updated
		 ON conversations (user_id, updated_at DESC);`,

		// Conversation history reads turns for one conversation in time order.
		`CREATE INDEX IF NOT EXISTS idx_chat_history_conversation_ts
		 ON chat_history (conversation_id, timestamp);`,
	}

	for _, sql := range postMigrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute post-migration SQL: %v", err)
		}
	}

	log.Println("✅ Success: Database migration completed successfully via GORM.")
}
