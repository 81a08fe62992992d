// Package api provides the dashboard HTTP handlers.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/ashureev/healthdash/internal/conversation"
	"github.com/ashureev/healthdash/internal/identity"
	"github.com/ashureev/healthdash/internal/sessions"
	"github.com/go-chi/chi/v5"
)

const maxRequestBodySize = 64 << 10

// Handler serves the dashboard for every browser session in the registry.
type Handler struct {
	registry      *sessions.Registry
	conns         *sessions.ConnManager
	limiter       *RateLimiter
	allowedOrigin string
	isDev         bool
	loc           *time.Location
	now           func() time.Time
}

// HandlerConfig holds the dependencies of a Handler.
type HandlerConfig struct {
	Registry      *sessions.Registry
	Conns         *sessions.ConnManager
	Limiter       *RateLimiter
	AllowedOrigin string
	IsDev         bool
	// Location renders meal times; defaults to time.Local.
	Location *time.Location
}

// NewHandler creates a new Handler.
func NewHandler(cfg HandlerConfig) *Handler {
	h := &Handler{
		registry:      cfg.Registry,
		conns:         cfg.Conns,
		limiter:       cfg.Limiter,
		allowedOrigin: cfg.AllowedOrigin,
		isDev:         cfg.IsDev,
		loc:           cfg.Location,
		now:           time.Now,
	}
	if h.conns == nil {
		h.conns = sessions.NewConnManager()
	}
	if h.loc == nil {
		h.loc = time.Local
	}
	return h
}

// RegisterRoutes mounts the dashboard routes. Identity middleware must run first.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/state", h.HandleState)
		r.Get("/moods", h.HandleMoods)
		r.Get("/export.csv", h.HandleExport)
		r.Get("/ws", h.HandleWebSocket)

		r.Group(func(r chi.Router) {
			r.Use(h.rateLimit)
			r.Post("/chat", h.HandleChat)
			r.Post("/meal-plan", h.HandleMealPlan)
			r.Post("/log/{kind}", h.HandleQuickLog)
			r.Post("/refresh", h.HandleRefresh)
		})
	})
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// sessionKey identifies the caller's dashboard session.
func sessionKey(r *http.Request) sessions.Key {
	return sessions.Key{
		UserID:    identity.DeviceIDFromContext(r.Context()),
		SessionID: identity.SessionIDFromContext(r.Context()),
	}
}

func (h *Handler) coordinator(r *http.Request) (*conversation.Coordinator, sessions.Key) {
	key := sessionKey(r)
	return h.registry.Get(key), key
}

func (h *Handler) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.limiter == nil {
			next.ServeHTTP(w, r)
			return
		}
		deviceID := identity.DeviceIDFromContext(r.Context())
		if !h.limiter.Allow(deviceID) {
			slog.Warn("Rate limit exceeded", "user_id", deviceID, "path", r.URL.Path)
			Error(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
