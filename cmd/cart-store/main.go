package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Gauhar-1/DesignsByAfreen-backend/internal/cartstore"
	"github.com/Gauhar-1/DesignsByAfreen-backend/internal/db"
)

func main() {
	port := getEnv("PORT", "8081")

	logger := log.New(os.Stdout, "[cart-store] ", log.LstdFlags|log.Lshortfile)

	dsn := db.GetDSN("CART_DB_DSN")
	if err := db.RunMigrations(dsn, cartstore.Migrations, logger); err != nil {
		logger.Fatalf("run migrations: %v", err)
	}

	database := db.MustOpen(dsn)
	defer database.Close()

	repo := cartstore.NewRepository(database)

	// Redis is optional; without it the store just reads from Postgres.
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		client := redis.NewClient(&redis.Options{Addr: addr})
		repo = cartstore.WithCache(repo, cartstore.NewRedisCache(client), logger)
		logger.Printf("cart cache enabled via %s", addr)
	}

	mux := cartstore.NewRouter(repo, logger)

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
		logger.Printf("cart-store listening on :%s", port)
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
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
