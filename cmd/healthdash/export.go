package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ashureev/healthdash/internal/health"
	"github.com/spf13/cobra"
)

var (
	exportUser int64
	exportCopy bool
	exportOut  string
)

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().Int64Var(&exportUser, "user", 0, "numeric user id")
	exportCmd.Flags().BoolVar(&exportCopy, "copy", false, "copy the CSV to clipboard")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "write the CSV to file (a directory gets health_data_<id>.csv)")
	_ = exportCmd.MarkFlagRequired("user")
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a user's glucose, mood and meal history as CSV",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		client, err := newBackendClient(cfg)
		if err != nil {
			return err
		}

		records, err := client.ListLogs(cmd.Context(), exportUser)
		if err != nil {
			return fmt.Errorf("load logs: %w", err)
		}

		var b strings.Builder
		if err := health.WriteCSV(&b, health.Normalize(records)); err != nil {
			return fmt.Errorf("render csv: %w", err)
		}

		return emit(cmd, b.String(), exportCopy, exportPath(exportOut, exportUser))
	},
}

func exportPath(out string, userID int64) string {
	if out == "" {
		return ""
	}
	if info, err := os.Stat(out); err == nil && info.IsDir() {
		return filepath.Join(out, health.ExportFilename(userID))
	}
	return out
}
