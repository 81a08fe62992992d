package devbackend

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/ashureev/healthdash/internal/api"
	"github.com/ashureev/healthdash/internal/backend"
	"github.com/ashureev/healthdash/internal/domain"
	"github.com/ashureev/healthdash/internal/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

const maxRequestBodySize = 1 << 20

// Handler serves the backend HTTP contract.
type Handler struct {
	store *Store
	agent *Agent
}

// NewHandler creates a handler over store.
func NewHandler(store *Store, agent *Agent) *Handler {
	return &Handler{store: store, agent: agent}
}

// Router returns the backend routes with the standard middleware stack.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))

	r.Get("/health", h.HandleHealth)
	r.Post(backend.DefaultChatPath, h.HandleChat)
	r.Get("/users/{id}", h.HandleGetUser)
	r.Get("/users/{id}/logs", h.HandleListLogs)
	r.Post("/logs", h.HandleCreateLog)
	return r
}

// HandleHealth handles GET /health.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		api.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy", "error": err.Error()})
		return
	}
	api.JSON(w, http.StatusOK, map[string]string{"status": "healthy", "service": "healthcare-multi-agent"})
}

// HandleChat handles POST /ag-ui-agent.
func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

	var req backend.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		detail(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}

	text, err := h.agent.Reply(r.Context(), req)
	if err != nil {
		slog.Error("Agent execution failed", "error", err)
		detail(w, http.StatusInternalServerError, "Agent execution failed: "+err.Error())
		return
	}

	api.JSON(w, http.StatusOK, map[string]any{
		"response": text,
		"status":   "success",
		"data":     map[string]any{"user_id": req.UserID, "session_id": req.SessionID},
	})
}

// HandleGetUser handles GET /users/{id}.
func (h *Handler) HandleGetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := userIDParam(w, r)
	if !ok {
		return
	}
	p, err := h.store.GetUser(r.Context(), id)
	if err != nil {
		slog.Error("Failed to load user", "user_id", id, "error", err)
		detail(w, http.StatusInternalServerError, "failed to load user")
		return
	}
	if p == nil {
		detail(w, http.StatusNotFound, "User not found")
		return
	}
	api.JSON(w, http.StatusOK, p)
}

// HandleListLogs handles GET /users/{id}/logs.
func (h *Handler) HandleListLogs(w http.ResponseWriter, r *http.Request) {
	id, ok := userIDParam(w, r)
	if !ok {
		return
	}
	logs, err := h.store.ListLogs(r.Context(), id)
	if err != nil {
		slog.Error("Failed to list logs", "user_id", id, "error", err)
		detail(w, http.StatusInternalServerError, "failed to list logs")
		return
	}
	api.JSON(w, http.StatusOK, logs)
}

// HandleCreateLog handles POST /logs?user_id=&log_type=&value=.
func (h *Handler) HandleCreateLog(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	id, err := strconv.ParseInt(q.Get("user_id"), 10, 64)
	if err != nil {
		detail(w, http.StatusUnprocessableEntity, "user_id must be an integer")
		return
	}
	logType := strings.TrimSpace(q.Get("log_type"))
	value := q.Get("value")
	if logType == "" || value == "" {
		detail(w, http.StatusUnprocessableEntity, "log_type and value are required")
		return
	}

	if err := h.store.LogData(r.Context(), id, domain.LogType(logType), value); err != nil {
		slog.Error("Failed to store log", "user_id", id, "error", err)
		detail(w, http.StatusInternalServerError, "failed to store log")
		return
	}
	api.JSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": logType + " logged for user " + strconv.FormatInt(id, 10),
	})
}

func userIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		detail(w, http.StatusUnprocessableEntity, "user id must be an integer")
		return 0, false
	}
	return id, true
}

func detail(w http.ResponseWriter, status int, msg string) {
	api.JSON(w, status, map[string]string{"detail": msg})
}
