// Package app builds the components shared by the API server and the kbctl CLI
// from a loaded configuration.
package app

import (
	"fmt"
	"io"
	"log/slog"

	"pm-assistant/internal/config"
	"pm-assistant/internal/confluence"
	"pm-assistant/internal/knowledge"
	"pm-assistant/internal/llm"
)

// NewLogger returns a text or JSON slog logger writing to w at the configured level.
func NewLogger(cfg *config.Config, w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.LogLevel, err)
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler), nil
}

// NewLLMClient creates the completion client.
func NewLLMClient(cfg *config.Config) *llm.Client {
	return llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModelName, cfg.LLMTimeout)
}

// NewKnowledgeBase wires a Confluence client into a knowledge base. completer may be nil,
// in which case answers are built from page excerpts only.
func NewKnowledgeBase(cfg *config.Config, completer knowledge.CompletionProvider) *knowledge.Base {
	client := confluence.NewClient(confluence.Options{
		BaseURL:   cfg.ConfluenceBaseURL,
		Username:  cfg.ConfluenceUsername,
		APIToken:  cfg.ConfluenceAPIToken,
		Timeout:   cfg.ConfluenceTimeout,
		PageLimit: cfg.ConfluencePageLimit,
	})
	return knowledge.New(client, completer, knowledge.Options{
		Enabled:    cfg.ConfluenceEnabled(),
		AutoIndex:  cfg.ConfluenceAutoIndex,
		BaseURL:    cfg.ConfluenceBaseURL,
		RootPageID: cfg.ConfluenceRootPageID,
		MaxDepth:   cfg.ConfluenceMaxDepth,
		Pacing:     cfg.ConfluencePacing,
	})
}
