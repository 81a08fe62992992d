package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/ashureev/healthdash/internal/backend"
	"github.com/ashureev/healthdash/internal/config"
	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var agentURL string

var rootCmd = &cobra.Command{
	Use:   "healthdash",
	Short: "Chat-driven health dashboard for a healthcare agent",
	Long: `healthdash serves a browser dashboard that talks to a healthcare agent
backend: chat, glucose/mood/meal timelines, meal plans and CSV export.
The same operations are available from the terminal.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&agentURL, "agent-url", "", "healthcare backend base URL (overrides AGENT_URL)")
}

// Execute runs the root command and returns the process exit code.
func Execute(ctx context.Context) int {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if agentURL != "" {
		cfg.Agent.URL = agentURL
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid configuration: %w", err)
		}
	}
	return cfg, nil
}

func newBackendClient(cfg *config.Config) (*backend.Client, error) {
	return backend.NewClient(backend.Config{
		BaseURL:  cfg.Agent.URL,
		ChatPath: cfg.Agent.ChatPath,
		Timeout:  cfg.Agent.Timeout,
	}, slog.Default())
}

// emit prints content, copies it to the clipboard, or writes it to out.
// With neither copy nor out, content goes to stdout.
func emit(cmd *cobra.Command, content string, copyIt bool, out string) error {
	stdout := cmd.OutOrStdout()
	if copyIt {
		if err := clipboard.WriteAll(content); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: could not copy to clipboard: %v\n", err)
		} else {
			fmt.Fprintln(stdout, "Copied to clipboard!")
		}
	}

	if out != "" {
		outPath := out
		if !filepath.IsAbs(outPath) {
			dir, _ := os.Getwd()
			outPath = filepath.Join(dir, outPath)
		}
		if err := os.WriteFile(outPath, []byte(content), 0o644); err != nil {
			return fmt.Errorf("write file: %w", err)
		}
		fmt.Fprintf(stdout, "Written to %s\n", outPath)
	}

	if !copyIt && out == "" {
		fmt.Fprint(stdout, content)
	}
	return nil
}

// serveUntilDone runs srv until ctx is cancelled, then shuts it down gracefully.
func serveUntilDone(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("Server stopped successfully")
	return nil
}
