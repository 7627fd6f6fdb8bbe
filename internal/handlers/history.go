package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"pm-assistant/internal/contextutil"
	"pm-assistant/internal/service"
	"pm-assistant/internal/storage"
)

// HistoryHandler serves recent chat exchanges.
type HistoryHandler struct {
	chatService service.ChatService
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(chatService service.ChatService) *HistoryHandler {
	return &HistoryHandler{chatService: chatService}
}

// HistoryResponse represents the response of GET /api/history.
type HistoryResponse struct {
	Entries []storage.HistoryEntry `json:"entries"`
}

// ServeHTTP returns the most recent exchanges, newest first. The optional limit
// query parameter bounds the number of entries.
func (h *HistoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Validation error: limit must be an integer")
			return
		}
		limit = n
	}

	entries, err := h.chatService.History(ctx, limit)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to load history")
		return
	}
	if entries == nil {
		entries = []storage.HistoryEntry{}
	}

	if err := writeJSON(w, http.StatusOK, HistoryResponse{Entries: entries}); err != nil {
		logger.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

// Entry returns a single exchange identified by the id path parameter.
func (h *HistoryHandler) Entry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	entry, err := h.chatService.HistoryEntry(ctx, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to load history entry")
		return
	}

	if err := writeJSON(w, http.StatusOK, entry); err != nil {
		logger.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}
