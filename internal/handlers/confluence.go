package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"pm-assistant/internal/contextutil"
)

// KnowledgeAdmin is the administrative surface of the knowledge base.
// *knowledge.Handler satisfies it.
type KnowledgeAdmin interface {
	Status() string
	Refresh(ctx context.Context) string
	IndexURL(ctx context.Context, rawURL string) string
}

// ConfluenceHandler serves the knowledge-base status, refresh and index-by-URL endpoints.
// A nil KnowledgeAdmin means the Confluence integration is not configured.
type ConfluenceHandler struct {
	kb KnowledgeAdmin
}

// NewConfluenceHandler creates a new ConfluenceHandler.
func NewConfluenceHandler(kb KnowledgeAdmin) *ConfluenceHandler {
	return &ConfluenceHandler{kb: kb}
}

// IndexRequest is the payload of POST /api/confluence/index.
type IndexRequest struct {
	URL string `json:"url"`
}

// Status reports the knowledge-base status summary.
func (h *ConfluenceHandler) Status(w http.ResponseWriter, r *http.Request) {
	if !h.available(w) {
		return
	}
	h.respond(r.Context(), w, http.StatusOK, MessageResponse{Message: h.kb.Status()})
}

// Refresh re-indexes the configured root page. With ?async=true the refresh runs
// in the background and the request returns 202 immediately.
func (h *ConfluenceHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)
	if !h.available(w) {
		return
	}

	if r.URL.Query().Get("async") == "true" {
		logger.InfoContext(ctx, "background refresh triggered via API")
		// Detached from the request so the refresh outlives the response.
		go func() {
			refreshCtx := contextutil.WithLogger(context.Background(), logger)
			msg := h.kb.Refresh(refreshCtx)
			logger.InfoContext(refreshCtx, "background refresh finished", "summary", msg)
		}()
		h.respond(ctx, w, http.StatusAccepted, MessageResponse{
			Message: "Refresh started. Check server logs for progress.",
			Status:  "accepted",
		})
		return
	}

	logger.InfoContext(ctx, "refresh triggered via API")
	h.respond(ctx, w, http.StatusOK, MessageResponse{Message: h.kb.Refresh(ctx)})
}

// Index indexes the page referenced by the URL in the request body.
func (h *ConfluenceHandler) Index(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !h.available(w) {
		return
	}

	var req IndexRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.URL == "" {
		writeError(w, http.StatusBadRequest, "Validation error: url is required")
		return
	}

	h.respond(ctx, w, http.StatusOK, MessageResponse{Message: h.kb.IndexURL(ctx, req.URL)})
}

func (h *ConfluenceHandler) available(w http.ResponseWriter) bool {
	if h.kb == nil {
		writeError(w, http.StatusServiceUnavailable, "Confluence is not configured")
		return false
	}
	return true
}

func (h *ConfluenceHandler) respond(ctx context.Context, w http.ResponseWriter, statusCode int, resp MessageResponse) {
	if err := writeJSON(w, statusCode, resp); err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}
