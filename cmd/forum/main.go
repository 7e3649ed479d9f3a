// Package main is the entry point for the forum API server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lssb2003/university-forum/internal/authz"
	"github.com/lssb2003/university-forum/internal/cache"
	"github.com/lssb2003/university-forum/internal/config"
	"github.com/lssb2003/university-forum/internal/database"
	"github.com/lssb2003/university-forum/internal/handlers"
	"github.com/lssb2003/university-forum/internal/middleware"
	"github.com/lssb2003/university-forum/internal/notify"
	"github.com/lssb2003/university-forum/internal/reset"
	"github.com/lssb2003/university-forum/internal/router"
	"github.com/lssb2003/university-forum/internal/store"
	"github.com/lssb2003/university-forum/internal/token"
)

func main() {
	// Structured logger for the whole process.
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

	// Connect to Valkey (reset credentials and suggestion cache).
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	// Initialize data stores.
	userStore := store.NewUserStore(db)
	categoryStore := store.NewCategoryStore(db)
	threadStore := store.NewThreadStore(db)
	postStore := store.NewPostStore(db)
	moderatorStore := store.NewModeratorStore(db)
	searchStore := store.NewSearchStore(db)

	// Authorization resolver over moderator assignments and the
	// category tree.
	resolver := authz.NewResolver(moderatorStore, categoryStore)

	tokens := token.NewIssuer(cfg.JWTSecret)
	resets := reset.NewStore(valkeyClient)
	suggestionCache := cache.NewSuggestionCache(valkeyClient)

	// Create handler groups with their dependencies.
	authHandlers := handlers.NewAuth(userStore, tokens, resets, notify.LogNotifier{}, resolver)
	categoryHandlers := handlers.NewCategories(categoryStore)
	threadHandlers := handlers.NewThreads(threadStore, categoryStore, resolver)
	postHandlers := handlers.NewPosts(postStore, threadStore, resolver)
	searchHandlers := handlers.NewSearch(searchStore, suggestionCache)
	adminHandlers := handlers.NewAdmin(userStore, moderatorStore)

	// Per-IP rate limit across the whole API.
	limiter := middleware.NewRateLimiter(300, time.Minute)
	defer limiter.Stop()

	// Set up the Chi router with all middleware and routes.
	r := router.New(tokens, userStore, limiter,
		authHandlers, categoryHandlers, threadHandlers, postHandlers, searchHandlers, adminHandlers)

	// Create the HTTP server with sensible timeouts.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
