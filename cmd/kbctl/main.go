// Command kbctl inspects and queries the Confluence knowledge base from a terminal.
package main

import (
	"fmt"
	"os"

	"pm-assistant/internal/app"
	"pm-assistant/internal/config"
)

func main() {
	root := newRootCmd(buildFromConfig)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// buildFromConfig wires the knowledge base and completion client from the environment.
// Logs go to stderr so command output stays clean.
func buildFromConfig() (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logger, err := app.NewLogger(cfg, os.Stderr)
	if err != nil {
		return nil, err
	}

	llmClient := app.NewLLMClient(cfg)
	return &runtime{
		base:    app.NewKnowledgeBase(cfg, llmClient),
		llm:     llmClient,
		enabled: cfg.ConfluenceEnabled(),
		logger:  logger,
	}, nil
}
