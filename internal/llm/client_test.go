package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func reply(w http.ResponseWriter, content string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(completionResponse{
		ID:      "cmpl-1",
		Choices: []completionChoice{{Message: Message{Role: RoleAssistant, Content: content}, FinishReason: "stop"}},
		Usage:   &completionUsage{PromptTokens: 12, CompletionTokens: 3},
	})
}

// recordingServer captures the decoded request and answers with handler.
func recordingServer(t *testing.T, handler func(http.ResponseWriter)) (*httptest.Server, *completionRequest) {
	t.Helper()
	var got completionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		handler(w)
	}))
	t.Cleanup(server.Close)
	return server, &got
}

func TestNewClient(t *testing.T) {
	client := NewClient("http://localhost:8081/", "test-key", "test-model", 0)

	assert.Equal(t, "http://localhost:8081", client.BaseURL)
	assert.Equal(t, "test-key", client.APIKey)
	assert.Equal(t, "test-model", client.Model)
	assert.Equal(t, defaultTimeout, client.client.Timeout)

	assert.Equal(t, 5*time.Second, NewClient("http://x", "", "m", 5*time.Second).client.Timeout)
}

func TestClient_Chat(t *testing.T) {
	server, got := recordingServer(t, func(w http.ResponseWriter) { reply(w, "  Hi there!\n") })

	answer, err := NewClient(server.URL, "test-key", "test-model", time.Second).Chat(context.Background(), "Hello")
	require.NoError(t, err)

	assert.Equal(t, "Hi there!", answer)
	assert.Equal(t, "test-model", got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, Message{Role: RoleSystem, Content: assistantPrompt}, got.Messages[0])
	assert.Equal(t, Message{Role: RoleUser, Content: "Hello"}, got.Messages[1])
}

func TestClient_Complete(t *testing.T) {
	server, got := recordingServer(t, func(w http.ResponseWriter) { reply(w, "Deploys happen on Tuesdays.") })

	answer, err := NewClient(server.URL, "", "test-model", time.Second).
		Complete(context.Background(), "Answer only from the context.", "Question: when do we deploy?")
	require.NoError(t, err)

	assert.Equal(t, "Deploys happen on Tuesdays.", answer)
	assert.Equal(t, float32(groundedTemperature), got.Temperature)
	assert.Equal(t, groundedMaxTokens, got.MaxTokens)
	assert.Equal(t, RoleSystem, got.Messages[0].Role)
	assert.Equal(t, "Answer only from the context.", got.Messages[0].Content)
}

func TestClient_ChatWithMessages_ModelOverride(t *testing.T) {
	server, got := recordingServer(t, func(w http.ResponseWriter) { reply(w, "ok") })

	_, err := NewClient(server.URL, "k", "default-model", time.Second).
		ChatWithMessages(context.Background(), []Message{{Role: RoleUser, Content: "hi"}}, ChatParams{Model: "other"})
	require.NoError(t, err)
	assert.Equal(t, "other", got.Model)
}

func TestClient_Errors(t *testing.T) {
	tests := []struct {
		name      string
		handler   func(http.ResponseWriter)
		wantErr   error
		wantCode  int
		wantInMsg string
	}{
		{
			name: "no choices",
			handler: func(w http.ResponseWriter) {
				_ = json.NewEncoder(w).Encode(completionResponse{ID: "x"})
			},
			wantErr: ErrEmptyReply,
		},
		{
			name:    "blank reply",
			handler: func(w http.ResponseWriter) { reply(w, "   ") },
			wantErr: ErrEmptyReply,
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter) {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte("model is loading"))
			},
			wantCode:  http.StatusServiceUnavailable,
			wantInMsg: "model is loading",
		},
		{
			name: "oversized error body is truncated",
			handler: func(w http.ResponseWriter) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(strings.Repeat("x", 4*maxErrorBody)))
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name:      "malformed body",
			handler:   func(w http.ResponseWriter) { _, _ = w.Write([]byte("{not json")) },
			wantInMsg: "failed to decode response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, _ := recordingServer(t, tt.handler)

			_, err := NewClient(server.URL, "k", "m", time.Second).Chat(context.Background(), "Hello")
			require.Error(t, err)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.wantCode != 0 {
				var statusErr *StatusError
				require.True(t, errors.As(err, &statusErr))
				assert.Equal(t, tt.wantCode, statusErr.StatusCode)
				assert.LessOrEqual(t, len(statusErr.Body), maxErrorBody)
			}
			if tt.wantInMsg != "" {
				assert.Contains(t, err.Error(), tt.wantInMsg)
			}
		})
	}
}

func TestClient_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient(server.URL, "k", "m", time.Second).Chat(ctx, "Hello")
	assert.ErrorIs(t, err, context.Canceled)
}
