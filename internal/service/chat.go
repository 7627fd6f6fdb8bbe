package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_llm_client.go -package=mocks pm-assistant/internal/service LLMClient
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_knowledge_base.go -package=mocks pm-assistant/internal/service KnowledgeBase
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_chat_service.go -package=mocks -mock_names=ChatService=MockChatService pm-assistant/internal/service ChatService

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pm-assistant/internal/contextutil"
	"pm-assistant/internal/knowledge"
	"pm-assistant/internal/storage"
)

// Reply sources.
const (
	SourceKnowledge = "knowledge"
	SourceLLM       = "llm"
)

// LLMClient is an interface for interacting with an LLM API.
// This interface is defined from the service layer's perspective (consumer-first).
type LLMClient interface {
	// Chat sends a message to the LLM and returns the reply.
	Chat(ctx context.Context, message string) (string, error)
}

// KnowledgeBase answers queries aimed at the indexed documentation.
type KnowledgeBase interface {
	// Handle returns handled=false when the query is not a knowledge-base query.
	Handle(ctx context.Context, query string) (answer string, intent knowledge.Intent, handled bool)
}

// ChatRequest represents a chat request in the domain layer.
type ChatRequest struct {
	Message string `validate:"required"`
}

// ChatResponse represents a chat response in the domain layer.
type ChatResponse struct {
	Reply  string
	Intent string
	Source string
}

// ChatService provides chat functionality.
type ChatService interface {
	// ProcessChat processes a chat request and returns a response.
	ProcessChat(ctx context.Context, req ChatRequest) (ChatResponse, error)
	// History returns the most recent exchanges, newest first.
	History(ctx context.Context, limit int) ([]storage.HistoryEntry, error)
	// HistoryEntry returns one recorded exchange by id.
	HistoryEntry(ctx context.Context, id string) (*storage.HistoryEntry, error)
}

// chatService implements ChatService.
type chatService struct {
	llmClient LLMClient
	knowledge KnowledgeBase
	history   storage.HistoryStore
}

// NewChatService creates a new ChatService. kb and history may be nil.
func NewChatService(llmClient LLMClient, kb KnowledgeBase, history storage.HistoryStore) ChatService {
	return &chatService{
		llmClient: llmClient,
		knowledge: kb,
		history:   history,
	}
}

// ProcessChat answers from the knowledge base when the query targets it and from the LLM otherwise.
func (s *chatService) ProcessChat(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	logger := contextutil.LoggerFromContext(ctx)

	// Business validation
	if strings.TrimSpace(req.Message) == "" {
		logger.WarnContext(ctx, "empty message in chat request")
		return ChatResponse{}, &ValidationError{
			Field:   "message",
			Message: "cannot be empty",
		}
	}

	var resp ChatResponse
	if s.knowledge != nil {
		if answer, intent, ok := s.knowledge.Handle(ctx, req.Message); ok {
			resp = ChatResponse{Reply: answer, Intent: string(intent.Kind), Source: SourceKnowledge}
		}
	}

	if resp.Source == "" {
		reply, err := s.llmClient.Chat(ctx, req.Message)
		if err != nil {
			logger.ErrorContext(ctx, "failed to get LLM response", "error", err)
			return ChatResponse{}, ExternalError(err, "failed to get LLM response")
		}
		resp = ChatResponse{Reply: reply, Source: SourceLLM}
	}

	s.record(ctx, req.Message, resp)

	logger.InfoContext(ctx, "chat request processed successfully",
		"source", resp.Source,
		"intent", resp.Intent,
		"message_length", len(req.Message),
		"reply_length", len(resp.Reply),
	)
	return resp, nil
}

// History returns the most recent exchanges.
func (s *chatService) History(ctx context.Context, limit int) ([]storage.HistoryEntry, error) {
	if s.history == nil {
		return []storage.HistoryEntry{}, nil
	}
	if limit < 0 {
		return nil, &ValidationError{Field: "limit", Message: "must not be negative"}
	}
	entries, err := s.history.Recent(ctx, limit)
	if err != nil {
		return nil, WrapError(err, "failed to load history")
	}
	return entries, nil
}

// HistoryEntry looks up a single exchange. Missing entries, or a service without
// history, yield ErrNotFound.
func (s *chatService) HistoryEntry(ctx context.Context, id string) (*storage.HistoryEntry, error) {
	if strings.TrimSpace(id) == "" {
		return nil, &ValidationError{Field: "id", Message: "cannot be empty"}
	}
	if s.history == nil {
		return nil, fmt.Errorf("history entry %s: %w", id, ErrNotFound)
	}
	entry, err := s.history.Get(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("history entry %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, WrapError(err, "failed to load history entry")
	}
	return entry, nil
}

// record stores the exchange. Failures are logged and never fail the request.
func (s *chatService) record(ctx context.Context, query string, resp ChatResponse) {
	if s.history == nil {
		return
	}
	entry := &storage.HistoryEntry{
		Query:  query,
		Intent: resp.Intent,
		Source: resp.Source,
		Answer: resp.Reply,
	}
	if err := s.history.Record(ctx, entry); err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "failed to record chat history", "error", err)
	}
}
