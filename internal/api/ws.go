package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

const wsWriteTimeout = 10 * time.Second

// HandleWebSocket handles GET /api/ws. It pushes the dashboard on connect
// and again after every change to the session. Client messages are ignored.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	key := sessionKey(r)
	slog.Info("Dashboard socket request", "user_id", key.UserID, "session_id", key.SessionID, "ip", r.RemoteAddr)

	if !h.checkOrigin(r) {
		http.Error(w, "origin not allowed", http.StatusForbidden)
		return
	}

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		slog.Error("Failed to accept WebSocket", "error", err, "user_id", key.UserID)
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "session ended"); closeErr != nil {
			slog.Debug("Failed to close websocket", "error", closeErr, "user_id", key.UserID)
		}
	}()

	h.conns.Register(key, ws)
	defer h.conns.Unregister(key, ws)

	c := h.registry.Get(key)
	changes, unsubscribe := c.Subscribe()
	defer unsubscribe()

	// CloseRead drains client frames and cancels ctx when the peer goes away.
	ctx := ws.CloseRead(r.Context())

	if err := h.push(ctx, ws, h.dashboard(c)); err != nil {
		return
	}
	for {
		select {
		case <-ctx.Done():
			slog.Debug("Dashboard socket closed by client", "user_id", key.UserID)
			return
		case <-changes:
			h.registry.Touch(key)
			if err := h.push(ctx, ws, h.dashboard(c)); err != nil {
				return
			}
		}
	}
}

func (h *Handler) push(ctx context.Context, ws *websocket.Conn, d Dashboard) error {
	ctx, cancel := context.WithTimeout(ctx, wsWriteTimeout)
	defer cancel()
	if err := wsjson.Write(ctx, ws, d); err != nil {
		slog.Debug("WebSocket write error", "error", err)
		return err
	}
	return nil
}

func (h *Handler) checkOrigin(r *http.Request) bool {
	if h.isDev {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" || h.allowedOrigin == "" || h.allowedOrigin == "*" {
		return true
	}
	if origin == h.allowedOrigin {
		return true
	}
	slog.Warn("WebSocket origin rejected", "origin", origin, "allowed", h.allowedOrigin)
	return false
}
