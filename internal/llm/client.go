package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"pm-assistant/internal/contextutil"
)

const (
	defaultTimeout = 60 * time.Second

	// maxErrorBody bounds how much of a failed response is kept in a StatusError.
	maxErrorBody = 512

	// groundedTemperature keeps documentation answers close to the supplied excerpts.
	groundedTemperature = 0.2
	groundedMaxTokens   = 800
)

// assistantPrompt frames general chat that is not answered from the documentation.
const assistantPrompt = "You are a project management assistant. Answer concisely and use Markdown where it helps readability."

// Client talks to an OpenAI-compatible chat completions endpoint (llama.cpp server or similar).
// It serves both general chat and grounded documentation answers.
type Client struct {
	BaseURL string
	APIKey  string
	Model   string
	client  *http.Client
}

// NewClient creates a new LLM client. A zero timeout means 60s per completion.
func NewClient(baseURL, apiKey, model string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Model:   model,
		client:  &http.Client{Timeout: timeout},
	}
}

// Chat answers a free-form user message with the assistant persona.
func (c *Client) Chat(ctx context.Context, message string) (string, error) {
	return c.ChatWithMessages(ctx, []Message{
		{Role: RoleSystem, Content: assistantPrompt},
		{Role: RoleUser, Content: message},
	}, ChatParams{})
}

// Complete answers user under the given system instruction. It is used for answers grounded
// in documentation excerpts, so sampling is kept conservative.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	return c.ChatWithMessages(ctx, []Message{
		{Role: RoleSystem, Content: system},
		{Role: RoleUser, Content: user},
	}, ChatParams{Temperature: groundedTemperature, MaxTokens: groundedMaxTokens})
}

// ChatWithMessages sends a full conversation and returns the first choice's text.
// A non-200 answer yields a *StatusError; a blank reply yields ErrEmptyReply.
func (c *Client) ChatWithMessages(ctx context.Context, messages []Message, params ChatParams) (string, error) {
	logger := contextutil.LoggerFromContext(ctx)

	model := params.Model
	if model == "" {
		model = c.Model
	}

	start := time.Now()
	resp, err := c.complete(ctx, completionRequest{
		Model:       model,
		Messages:    messages,
		MaxTokens:   params.MaxTokens,
		Temperature: params.Temperature,
	})
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned: %w", ErrEmptyReply)
	}
	choice := resp.Choices[0]
	reply := strings.TrimSpace(choice.Message.Content)
	if reply == "" {
		return "", ErrEmptyReply
	}

	attrs := []any{
		"model", model,
		"messages", len(messages),
		"finish_reason", choice.FinishReason,
		"duration", time.Since(start),
	}
	if resp.Usage != nil {
		attrs = append(attrs, "prompt_tokens", resp.Usage.PromptTokens, "completion_tokens", resp.Usage.CompletionTokens)
	}
	logger.DebugContext(ctx, "chat completion finished", attrs...)
	return reply, nil
}

func (c *Client) complete(ctx context.Context, payload completionRequest) (*completionResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	var out completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &out, nil
}
