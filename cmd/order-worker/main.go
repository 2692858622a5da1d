package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Gauhar-1/DesignsByAfreen-backend/internal/config"
	"github.com/Gauhar-1/DesignsByAfreen-backend/internal/events"
	"github.com/Gauhar-1/DesignsByAfreen-backend/internal/orderworker"
	"github.com/Gauhar-1/DesignsByAfreen-backend/internal/storeapi"
)

func main() {
	logger := log.New(os.Stdout, "[order-worker] ", log.LstdFlags|log.Lshortfile)

	cfg := config.Load()

	rabbitConn := events.MustDialRabbit()
	defer rabbitConn.Close()

	carts := storeapi.NewCartClient(storeapi.NewClient(
		"cart-store",
		cfg.CartStoreURL,
		&http.Client{Timeout: cfg.RequestTimeout},
	))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := orderworker.StartOrderCreatedConsumer(ctx, rabbitConn, carts, logger); err != nil {
		logger.Fatalf("start order.created consumer: %v", err)
	}

	logger.Printf("order-worker consuming from %s", events.EventsExchange)
	<-ctx.Done()
	logger.Printf("shutdown signal received")
}
