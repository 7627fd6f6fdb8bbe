package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"pm-assistant/internal/handlers"
	"pm-assistant/internal/service"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	ChatService service.ChatService
	// Knowledge is nil when Confluence is not configured.
	Knowledge handlers.KnowledgeAdmin
	Status    handlers.StatusReporter
	DB        handlers.Pinger
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(LoggerMiddleware)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(CORS)

	chatHandler := handlers.NewChatHandler(deps.ChatService)
	historyHandler := handlers.NewHistoryHandler(deps.ChatService)
	healthHandler := handlers.NewHealthHandler(deps.Status, deps.DB)
	confluenceHandler := handlers.NewConfluenceHandler(deps.Knowledge)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodPost, "/chat", chatHandler)
		r.Method(http.MethodGet, "/history", historyHandler)
		r.Get("/history/{id}", historyHandler.Entry)
		r.Method(http.MethodGet, "/health", healthHandler)

		r.Route("/confluence", func(r chi.Router) {
			r.Get("/status", confluenceHandler.Status)
			r.Post("/refresh", confluenceHandler.Refresh)
			r.Post("/index", confluenceHandler.Index)
		})
	})

	return r
}
