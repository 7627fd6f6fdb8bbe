package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"pm-assistant/internal/contextutil"
	"pm-assistant/internal/knowledge"
)

// StatusReporter reports the state of the knowledge base. *knowledge.Initializer satisfies it.
type StatusReporter interface {
	Status() knowledge.SubsystemStatus
}

// Pinger checks a database connection. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler handles HTTP requests for health checks.
type HealthHandler struct {
	knowledge          StatusReporter
	db                 Pinger
	healthCheckTimeout time.Duration
}

// NewHealthHandler creates a new HealthHandler. Either dependency may be nil, in
// which case its check is skipped.
func NewHealthHandler(kb StatusReporter, db Pinger) *HealthHandler {
	return &HealthHandler{
		knowledge:          kb,
		db:                 db,
		healthCheckTimeout: 5 * time.Second,
	}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	// Overall health status: "healthy", "degraded", or "unhealthy"
	Status string `json:"status"`

	Timestamp string `json:"timestamp"`

	Checks map[string]string `json:"checks"`

	Confluence *knowledge.SubsystemStatus `json:"confluence,omitempty"`

	// Only present if status is degraded or unhealthy
	Issues []string `json:"issues,omitempty"`
}

// ServeHTTP returns 200 OK if healthy, 503 Service Unavailable if degraded or unhealthy.
// A disabled Confluence integration is not an issue; an enabled but unreachable one is.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	checkCtx, cancel := context.WithTimeout(ctx, h.healthCheckTimeout)
	defer cancel()

	checks := make(map[string]string)
	var issues []string
	status := "healthy"

	if h.db != nil {
		if h.checkDatabase(checkCtx, logger) {
			checks["database"] = "ok"
		} else {
			checks["database"] = "error"
			issues = append(issues, "database_unavailable")
			status = "unhealthy"
		}
	}

	var kbStatus *knowledge.SubsystemStatus
	if h.knowledge != nil {
		s := h.knowledge.Status()
		kbStatus = &s
		switch {
		case !s.Enabled:
			checks["confluence"] = "disabled"
		case s.Connected:
			checks["confluence"] = "ok"
		default:
			checks["confluence"] = "error"
			issues = append(issues, "confluence_unreachable")
			if status == "healthy" {
				status = "degraded"
			}
		}
		checks["knowledge_pages"] = strconv.Itoa(s.Pages)
	}

	httpStatus := http.StatusOK
	if status != "healthy" {
		httpStatus = http.StatusServiceUnavailable
	}

	response := HealthResponse{
		Status:     status,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Checks:     checks,
		Confluence: kbStatus,
		Issues:     issues,
	}

	if err := writeJSON(w, httpStatus, response); err != nil {
		logger.ErrorContext(ctx, "failed to encode health response", "error", err)
	}
}

func (h *HealthHandler) checkDatabase(ctx context.Context, logger *slog.Logger) bool {
	if err := h.db.PingContext(ctx); err != nil {
		logger.WarnContext(ctx, "database health check failed", "error", err)
		return false
	}
	return true
}
