package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"payables_app_echo/internal/models"
	"payables_app_echo/internal/services"
)

// The worker re-drives failed regeneration requests: the originating payment
// is already committed and only the next cycle's creation is outstanding.
// Overdue detection needs no worker at all; it is derived on read.
func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL not set")
	}

	db, err := services.InitDB(databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	var cache *services.RedisCache
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		cache, err = services.NewRedisCache(redisURL)
		if err != nil {
			log.Printf("Warning: Redis initialization failed: %v", err)
			cache = nil
		}
	}

	regenSvc := services.NewRegenerationService(db, cache)

	log.Println("Regeneration worker started. Waiting for next tick...")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		log.Println("Shutting down worker...")
		cancel()
	}()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	// Run once on start, then tick
	retryFailedRegenerations(ctx, db, regenSvc)

	for {
		select {
		case <-ticker.C:
			retryFailedRegenerations(ctx, db, regenSvc)
		case <-ctx.Done():
			return
		}
	}
}

func retryFailedRegenerations(ctx context.Context, db *gorm.DB, regenSvc *services.RegenerationService) {
	log.Println("Checking for failed regeneration requests...")

	var failed []models.RegenerationRequest
	if err := db.WithContext(ctx).
		Where("status = ? AND attempts < max_attempts", models.RegenerationStatusFailed).
		Find(&failed).Error; err != nil {
		log.Printf("Error fetching failed regeneration requests: %v", err)
		return
	}

	if len(failed) == 0 {
		log.Println("No failed regeneration requests found.")
		return
	}

	log.Printf("Found %d failed regeneration requests.", len(failed))

	for _, req := range failed {
		if ctx.Err() != nil {
			return
		}

		if _, err := regenSvc.Retry(ctx, req.ID); err != nil {
			log.Printf("Regeneration request %d retry failed: %v", req.ID, err)
			continue
		}
		log.Printf("Regeneration request %d completed.", req.ID)
	}
}
