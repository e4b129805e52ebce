package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"erp-chatbot-be/internal/config"
	"erp-chatbot-be/pkg/events"
	pktNats "erp-chatbot-be/pkg/nats"

	"github.com/fatih/color"
)

// Tails the EVENTS stream and prints every event as it arrives. Useful for
// verifying that chat turns reach the bus before pointing a real consumer
// (analytics, labeling) at it.
func main() {
	cfg := config.Load()

	color.Cyan("🚀 Tailing events on %s (Ctrl+C to stop)", cfg.App.NatsURL)

	sub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		color.Red("Failed to connect to NATS: %v", err)
		os.Exit(1)
	}
	defer sub.Close()

	err = sub.Subscribe("events.>", "event-tail", func(ctx context.Context, event events.Event) error {
		color.Yellow("[%s] %s", event.Timestamp().Format("15:04:05"), event.EventType())
		for key, value := range event.Payload() {
			fmt.Printf("    %s: %v\n", key, value)
		}
		return nil
	})
	if err != nil {
		color.Red("Failed to subscribe: %v", err)
		os.Exit(1)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	color.Cyan("\nStopped")
}
