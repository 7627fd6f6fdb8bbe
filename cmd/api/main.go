package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pm-assistant/internal/app"
	"pm-assistant/internal/config"
	"pm-assistant/internal/handlers"
	"pm-assistant/internal/http"
	"pm-assistant/internal/service"
	"pm-assistant/internal/storage"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := app.NewLogger(cfg, os.Stdout)
	if err != nil {
		log.Fatalf("Failed to configure logging: %v", err)
	}
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel, "format", cfg.LogFormat)

	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	llmClient := app.NewLLMClient(cfg)
	kb := app.NewKnowledgeBase(cfg, llmClient)

	// A nil interface keeps knowledge routing off when Confluence is not configured.
	var knowledgeBase service.KnowledgeBase
	var knowledgeAdmin handlers.KnowledgeAdmin
	if cfg.ConfluenceEnabled() {
		knowledgeBase = kb.Handler
		knowledgeAdmin = kb.Handler
	}

	chatService := service.NewChatService(llmClient, knowledgeBase, storage.NewHistoryRepo(db))

	router := http.NewRouter(&http.Deps{
		ChatService: chatService,
		Knowledge:   knowledgeAdmin,
		Status:      kb.Initializer,
		DB:          db,
	})

	// Connectivity check and auto-indexing run after the router is ready
	go kb.Initializer.Init(ctx)

	addr := ":" + cfg.APIPort
	server := &nethttp.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Starting API server", "addr", addr)
		slog.Debug("LLM configuration", "base_url", cfg.LLMBaseURL, "model", cfg.LLMModelName)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			log.Fatalf("API server failed to start: %v", err)
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down API server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
	kb.Initializer.Teardown()
}
