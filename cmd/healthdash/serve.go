package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/ashureev/healthdash/internal/api"
	"github.com/ashureev/healthdash/internal/conversation"
	"github.com/ashureev/healthdash/internal/identity"
	"github.com/ashureev/healthdash/internal/middleware"
	"github.com/ashureev/healthdash/internal/sessions"
	"github.com/ashureev/healthdash/web"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
)

var servePort string

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&servePort, "port", "", "listen port (overrides PORT)")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard and its API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if servePort != "" {
			cfg.Port = servePort
		}
		ctx := cmd.Context()

		slog.Info("Starting server", "port", cfg.Port, "dev", cfg.IsDevelopment(), "agent_url", cfg.Agent.URL)

		client, err := newBackendClient(cfg)
		if err != nil {
			return fmt.Errorf("initialize backend client: %w", err)
		}

		convLog, err := conversation.NewConversationLogger(conversation.ConversationLogConfig{
			Enabled:       cfg.ConversationLog.Enabled,
			Dir:           cfg.ConversationLog.Dir,
			GlobalEnabled: cfg.ConversationLog.GlobalEnabled,
			GlobalPath:    cfg.ConversationLog.GlobalPath,
			QueueSize:     cfg.ConversationLog.QueueSize,
		}, slog.Default())
		if err != nil {
			return fmt.Errorf("initialize conversation logger: %w", err)
		}
		defer func() {
			if closeErr := convLog.Close(); closeErr != nil {
				slog.Error("Failed to close conversation logger", "error", closeErr)
			}
		}()

		registry := sessions.NewRegistry(func(key sessions.Key) *conversation.Coordinator {
			return conversation.NewCoordinator(client, conversation.Options{
				SessionID:       key.String(),
				ConversationLog: convLog,
			})
		})
		conns := sessions.NewConnManager()

		limiter := api.NewRateLimiter(cfg.RateLimit.RequestsPerWindow, cfg.RateLimit.WindowDuration)
		defer limiter.Stop()

		handler := api.NewHandler(api.HandlerConfig{
			Registry:      registry,
			Conns:         conns,
			Limiter:       limiter,
			AllowedOrigin: cfg.FrontendURL,
			IsDev:         cfg.IsDevelopment(),
		})

		r := chi.NewRouter()

		// Global middleware.
		r.Use(chiMiddleware.RequestID)
		r.Use(chiMiddleware.RealIP)
		r.Use(chiMiddleware.Logger)
		r.Use(chiMiddleware.Recoverer)
		r.Use(chiMiddleware.Heartbeat("/health"))
		r.Use(middleware.CORS(cfg.AllowedOrigins()))
		r.Use(identity.Middleware(cfg.IsDevelopment()))

		handler.RegisterRoutes(r)

		// Serve embedded dashboard (SPA catch-all).
		r.Handle("/*", web.SPAHandler())

		// Chat requests wait for the agent, so there is no write timeout;
		// the websocket route needs that too.
		srv := &http.Server{
			Addr:         ":" + cfg.Port,
			Handler:      r,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 0,
			IdleTimeout:  120 * time.Second,
		}

		sessions.StartTTLWorker(ctx, registry, cfg.SessionTTL, conns.Close)

		return serveUntilDone(ctx, srv)
	},
}
