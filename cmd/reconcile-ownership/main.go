// cmd/reconcile-ownership/main.go
// Repairs each user's post list from the posts that actually exist.
// Run after a crash between a post write and its ownership write.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"Ciale/internal/config"
	"Ciale/internal/core/posts"
	"Ciale/internal/core/users"
	"Ciale/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	log.Printf("Opening %s store...", cfg.StoreDriver)
	repos, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer func() {
		if err := repos.Close(); err != nil {
			log.Printf("Warning: failed to close storage: %v", err)
		}
	}()

	userService := users.NewUserService(repos.Users)
	postService := posts.NewPostService(repos.Posts, userService, nil, logger)

	start := time.Now()
	report, err := postService.ReconcileOwnership(ctx)
	if err != nil {
		log.Fatalf("Reconcile failed: %v", err)
	}

	log.Printf("Reconciled post ownership in %s: %d added, %d removed, %d skipped",
		time.Since(start).Round(time.Millisecond), report.Added, report.Removed, report.Skipped)
}
