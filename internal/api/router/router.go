package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/echomi/echomi-ai-platform/internal/conversation"
	httpmiddleware "github.com/echomi/echomi-ai-platform/internal/http/middleware"
	"github.com/echomi/echomi-ai-platform/internal/orders"
	"github.com/echomi/echomi-ai-platform/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger              *logging.Logger
	ConversationHandler *conversation.Handler
	OrdersHandler       *orders.Handler
	MetricsHandler      http.Handler
	AdminJWTSecret      string
	CallToken           string
	CORSAllowedOrigins  []string

	// Collaborators reports which optional backends are configured,
	// surfaced on the health endpoint.
	Collaborators map[string]bool

	// Per-IP limits for the turn endpoint. Zero disables limiting.
	TurnRateLimit float64
	TurnRateBurst int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", healthCheck(cfg.Collaborators))
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	if cfg.ConversationHandler != nil {
		r.Route("/conversations", func(conv chi.Router) {
			conv.Use(requireCallToken(cfg.CallToken))
			if cfg.TurnRateLimit > 0 {
				conv.Use(httpmiddleware.RateLimit(cfg.TurnRateLimit, cfg.TurnRateBurst))
			}
			conv.Post("/turn", cfg.ConversationHandler.HandleTurn)
			conv.Get("/{sessionID}/summary", cfg.ConversationHandler.HandleSummary)
			conv.Delete("/{sessionID}", cfg.ConversationHandler.HandleReset)
		})
	}

	// Order wallet management for the companion app
	if cfg.OrdersHandler != nil {
		r.Route("/admin/orders", func(admin chi.Router) {
			admin.Use(httpmiddleware.AdminJWT(cfg.AdminJWTSecret))
			admin.Post("/", cfg.OrdersHandler.Create)
			admin.Get("/", cfg.OrdersHandler.List)
			admin.Post("/approval", cfg.OrdersHandler.Approval)
			admin.Delete("/", cfg.OrdersHandler.Clear)
		})
	}

	return r
}

func healthCheck(collaborators map[string]bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{"status": "ok"}
		if len(collaborators) > 0 {
			resp["collaborators"] = collaborators
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(resp)
	}
}
