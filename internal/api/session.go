package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/ashureev/healthdash/internal/conversation"
	"github.com/ashureev/healthdash/internal/health"
	"github.com/go-chi/chi/v5"
)

type chatRequest struct {
	Message string `json:"message"`
}

type quickLogRequest struct {
	Value string `json:"value"`
}

// HandleState handles GET /api/state.
func (h *Handler) HandleState(w http.ResponseWriter, r *http.Request) {
	c, _ := h.coordinator(r)
	JSON(w, http.StatusOK, h.dashboard(c))
}

// HandleMoods handles GET /api/moods.
func (h *Handler) HandleMoods(w http.ResponseWriter, _ *http.Request) {
	JSON(w, http.StatusOK, map[string][]string{"moods": health.MoodOptions()})
}

// HandleChat handles POST /api/chat. The response is sent once the agent
// has replied and the session has been reconciled.
func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		Error(w, http.StatusBadRequest, "message is required")
		return
	}

	c, key := h.coordinator(r)
	// A client abort must not leave the session half reconciled.
	c.Send(context.WithoutCancel(r.Context()), req.Message)
	h.registry.Touch(key)
	JSON(w, http.StatusOK, h.dashboard(c))
}

// HandleMealPlan handles POST /api/meal-plan.
func (h *Handler) HandleMealPlan(w http.ResponseWriter, r *http.Request) {
	c, _ := h.coordinator(r)
	plan, err := c.GenerateMealPlan(r.Context())
	if err != nil {
		writeSessionError(w, err)
		return
	}
	JSON(w, http.StatusOK, plan)
}

// HandleQuickLog handles POST /api/log/{kind} for meal, glucose and mood forms.
func (h *Handler) HandleQuickLog(w http.ResponseWriter, r *http.Request) {
	c, key := h.coordinator(r)
	ctx := context.WithoutCancel(r.Context())

	var run func(v string) error
	switch chi.URLParam(r, "kind") {
	case "meal":
		run = func(v string) error { return c.LogMeal(ctx, v) }
	case "glucose":
		run = func(v string) error { return c.LogGlucose(ctx, v) }
	case "mood":
		run = func(v string) error { return c.LogMood(ctx, v) }
	default:
		Error(w, http.StatusNotFound, "unknown log kind")
		return
	}

	var req quickLogRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := run(req.Value); err != nil {
		writeSessionError(w, err)
		return
	}
	h.registry.Touch(key)
	JSON(w, http.StatusOK, h.dashboard(c))
}

// HandleRefresh handles POST /api/refresh.
func (h *Handler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	c, _ := h.coordinator(r)
	if err := c.Refresh(r.Context()); err != nil {
		writeSessionError(w, err)
		return
	}
	JSON(w, http.StatusOK, h.dashboard(c))
}

// HandleExport handles GET /api/export.csv.
func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	c, _ := h.coordinator(r)
	snap := c.Snapshot()
	if !snap.Bound() {
		writeSessionError(w, conversation.ErrNotBound)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+health.ExportFilename(*snap.UserID)+`"`)
	if err := health.WriteCSV(w, snap.Timelines); err != nil {
		slog.Error("Failed to write CSV export", "user_id", strconv.FormatInt(*snap.UserID, 10), "error", err)
	}
}

func writeSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, conversation.ErrNotBound):
		Error(w, http.StatusConflict, "share your user ID in chat first")
	case errors.Is(err, conversation.ErrEmptyInput):
		Error(w, http.StatusBadRequest, "value is required")
	default:
		slog.Error("Session operation failed", "error", err)
		Error(w, http.StatusBadGateway, "healthcare backend unavailable")
	}
}
