package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/KaitoZan/fnm-dashboard/internal/cache"
	"github.com/KaitoZan/fnm-dashboard/internal/config"
	"github.com/KaitoZan/fnm-dashboard/internal/db"
	"github.com/KaitoZan/fnm-dashboard/internal/metrics"
	"github.com/KaitoZan/fnm-dashboard/internal/server"
)

func main() {
	ctx := context.Background()
	cfg := config.Load()

	// Initialize database
	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	// Run migrations
	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Migrations completed successfully")

	// View cache is optional: without Redis every list read hits the database.
	var views *cache.Cache
	if cfg.RedisAddr != "" {
		views = cache.New(cfg.RedisAddr, cfg.RedisPassword)
		defer views.Close()
	} else {
		log.Println("REDIS_ADDR not set, view caching disabled")
	}

	metrics.Init(database)

	srv := server.New(cfg)
	if err := srv.RegisterRoutes(ctx, database, views); err != nil {
		log.Fatalf("Failed to register routes: %v", err)
	}

	// Graceful shutdown
	go func() {
		if err := srv.Start(); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("Server started on %s", cfg.ServerAddr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := srv.Shutdown(); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited")
}
