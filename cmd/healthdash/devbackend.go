package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/ashureev/healthdash/internal/devbackend"
	"github.com/spf13/cobra"
)

var (
	devPort  string
	devDB    string
	devSeed  int64
	devUsers int
)

func init() {
	rootCmd.AddCommand(devBackendCmd)

	devBackendCmd.Flags().StringVar(&devPort, "port", "", "listen port (overrides DEV_BACKEND_PORT)")
	devBackendCmd.Flags().StringVar(&devDB, "db", "", "SQLite database path (overrides DEV_BACKEND_DB_PATH)")
	devBackendCmd.Flags().Int64Var(&devSeed, "seed", 0, "seed for synthetic data (overrides DEV_BACKEND_SEED)")
	devBackendCmd.Flags().IntVar(&devUsers, "users", 0, "number of synthetic users (overrides DEV_BACKEND_USERS)")
}

var devBackendCmd = &cobra.Command{
	Use:   "devbackend",
	Short: "Run a local stand-in for the healthcare agent backend",
	Long: `devbackend serves the backend HTTP contract (chat, profiles, logs) from a
seeded SQLite database. Chat replies are keyword driven, not model driven.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		dc := cfg.DevBackend
		if devPort != "" {
			dc.Port = devPort
		}
		if devDB != "" {
			dc.DBPath = devDB
		}
		if cmd.Flags().Changed("seed") {
			dc.Seed = devSeed
		}
		if devUsers > 0 {
			dc.Users = devUsers
		}
		ctx := cmd.Context()

		store, err := devbackend.OpenStore(dc.DBPath)
		if err != nil {
			return fmt.Errorf("open dev backend store: %w", err)
		}
		defer func() {
			if closeErr := store.Close(); closeErr != nil {
				slog.Error("Failed to close dev backend store", "error", closeErr)
			}
		}()

		if _, err := store.Seed(ctx, devbackend.SeedOptions{Users: dc.Users, Seed: dc.Seed, Now: time.Now()}); err != nil {
			return fmt.Errorf("seed dev backend: %w", err)
		}

		h := devbackend.NewHandler(store, devbackend.NewAgent(store, slog.Default()))
		srv := &http.Server{
			Addr:         ":" + dc.Port,
			Handler:      h.Router(),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  120 * time.Second,
		}

		slog.Info("Starting dev backend", "port", dc.Port, "db_path", dc.DBPath, "users", dc.Users)
		return serveUntilDone(ctx, srv)
	},
}
