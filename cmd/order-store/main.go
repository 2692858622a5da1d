package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Gauhar-1/DesignsByAfreen-backend/internal/db"
	"github.com/Gauhar-1/DesignsByAfreen-backend/internal/events"
	"github.com/Gauhar-1/DesignsByAfreen-backend/internal/orderstore"
)

func main() {
	port := getEnv("PORT", "8082")

	logger := log.New(os.Stdout, "[order-store] ", log.LstdFlags|log.Lshortfile)

	dsn := db.GetDSN("ORDER_DB_DSN")
	if err := db.RunMigrations(dsn, orderstore.Migrations, logger); err != nil {
		logger.Fatalf("run migrations: %v", err)
	}

	database := db.MustOpen(dsn)
	defer database.Close()

	repo := orderstore.NewRepository(database)

	rabbitConn := events.MustDialRabbit()
	defer rabbitConn.Close()

	publisher, err := events.NewPublisher(rabbitConn)
	if err != nil {
		logger.Fatalf("create events publisher: %v", err)
	}

	mux := orderstore.NewRouter(repo, publisher, logger)

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Printf("order-store listening on :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Printf("shutdown signal received")
	case err := <-errCh:
		logger.Fatalf("server error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown error: %v", err)
	}
	if err := publisher.Close(); err != nil {
		logger.Printf("publisher close error: %v", err)
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
