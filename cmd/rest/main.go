package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"erp-chatbot-be/internal/bootstrap"
	"erp-chatbot-be/internal/config"
	"erp-chatbot-be/internal/server"
	"erp-chatbot-be/internal/tracer"
	"erp-chatbot-be/pkg/database"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDB(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)
	defer container.Close()

	// 4. Warm-Up
	// Probe the document store now so an empty knowledge base shows up in the
	// logs before the first question arrives.
	warmCtx, cancelWarm := context.WithTimeout(context.Background(), 10*time.Second)
	if err := container.ChatbotService.WarmUp(warmCtx); err != nil {
		log.Printf("[WARN] Warm-up failed: %v", err)
	}
	cancelWarm()

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Run Server, stop on SIGINT/SIGTERM
	go func() {
		if err := srv.Run(); err != nil {
			log.Fatalf("Server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[WARN] Server shutdown error: %v", err)
	}
}
