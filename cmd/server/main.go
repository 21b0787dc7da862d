package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"Ciale/internal/api/routes"
	"Ciale/internal/auth"
	"Ciale/internal/config"
	"Ciale/internal/core/media"
	"Ciale/internal/core/posts"
	"Ciale/internal/core/users"
	"Ciale/internal/imagekit"
	"Ciale/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration:", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startupCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	repos, err := storage.Open(startupCtx, cfg, logger)
	cancel()
	if err != nil {
		log.Fatal("Failed to open storage:", err)
	}
	defer func() {
		if err := repos.Close(); err != nil {
			logger.Error("failed to close storage", "error", err)
		}
	}()

	// ImageKit is optional; without it remote file cleanup is skipped
	var imageKit *imagekit.Client
	var fileDeleter posts.FileDeleter
	if cfg.ImageKitEnabled() {
		imageKit, err = imagekit.NewClient(cfg.ImageKitPublicKey, cfg.ImageKitPrivateKey, cfg.ImageKitURL, "")
		if err != nil {
			log.Fatal("Failed to create ImageKit client:", err)
		}
		fileDeleter = imageKit
	} else {
		logger.Warn("ImageKit is not configured; uploads are disabled and CDN files will not be deleted")
	}

	// Initialize repositories and services
	userRepo := users.NewCachingRepository(repos.Users, cfg.UserCacheSize, cfg.UserCacheTTL)
	userService := users.NewUserService(userRepo)
	postService := posts.NewPostService(repos.Posts, userService, fileDeleter, logger.With("service", "posts"))
	mediaService := media.NewMediaService(repos.Images, repos.Videos, fileDeleter, logger.With("service", "media"))

	tokens, err := auth.NewTokenIssuer([]byte(cfg.SessionSecret), cfg.TokenTTL)
	if err != nil {
		log.Fatal("Failed to create token issuer:", err)
	}
	sessions, err := auth.NewSessionStore(cfg.SessionSecret, cfg.TokenTTL, cfg.SecureCookies)
	if err != nil {
		log.Fatal("Failed to create session store:", err)
	}

	router := routes.NewRouter(routes.Dependencies{
		Users:          userService,
		Posts:          postService,
		Media:          mediaService,
		Tokens:         tokens,
		Sessions:       sessions,
		ImageKit:       imageKit,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		RequestLogging: true,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		fmt.Printf("Ciale starting on port %s (store: %s)\n", cfg.Port, cfg.StoreDriver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}
