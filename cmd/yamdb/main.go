// Package main is the entry point for the catalog API server.
// It loads configuration, connects to services, sets up routing, and
// starts the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"yamdb/internal/auth"
	"yamdb/internal/cache"
	"yamdb/internal/config"
	"yamdb/internal/database"
	"yamdb/internal/handlers"
	"yamdb/internal/mail"
	"yamdb/internal/middleware"
	"yamdb/internal/router"
	"yamdb/internal/store"
)

func main() {
	// Structured logger — text output, debug level everywhere for now.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey. It only backs the auth rate limiter, so a dev
	// environment without it still starts.
	var rateLimiter *middleware.RateLimiter
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		if !cfg.IsDev() {
			slog.Error("failed to connect to valkey", "error", err)
			os.Exit(1)
		}
		slog.Warn("valkey unavailable, auth rate limiting disabled", "error", err)
	} else {
		defer valkeyClient.Close()
		rateLimiter = middleware.NewRateLimiter(valkeyClient, 10, time.Minute)
	}

	// Initialize data stores.
	userStore := store.NewUserStore(db)
	categoryStore := store.NewCategoryStore(db)
	genreStore := store.NewGenreStore(db)
	titleStore := store.NewTitleStore(db)
	reviewStore := store.NewReviewStore(db)
	commentStore := store.NewCommentStore(db)

	tokens := auth.NewTokens(cfg.TokenSecret, cfg.TokenTTL)

	// Confirmation-code delivery: real SMTP in production, log lines in dev.
	var mailer mail.Sender
	if cfg.IsDev() {
		mailer = mail.LogSender{}
	} else {
		mailer = mail.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.AdminEmail)
	}

	r := router.New(router.Deps{
		Identity:    middleware.Identity(tokens, userStore),
		RateLimiter: rateLimiter,
		Auth:        handlers.NewAuth(userStore, tokens, mailer),
		Categories:  handlers.NewCategories(categoryStore),
		Genres:      handlers.NewGenres(genreStore),
		Titles:      handlers.NewTitles(titleStore, categoryStore, genreStore),
		Reviews:     handlers.NewReviews(reviewStore, titleStore),
		Comments:    handlers.NewComments(commentStore, reviewStore, titleStore),
		Users:       handlers.NewUsers(userStore),
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start the server in a goroutine so we can listen for signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for an interrupt signal.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")

	// Give in-flight requests 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server shutdown failed", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
