package main

import (
	"errors"
	"fmt"

	"github.com/ashureev/healthdash/internal/backend"
	"github.com/ashureev/healthdash/internal/mealplan"
	"github.com/spf13/cobra"
)

var (
	planUser int64
	planCopy bool
	planOut  string
)

func init() {
	rootCmd.AddCommand(mealPlanCmd)

	mealPlanCmd.Flags().Int64Var(&planUser, "user", 0, "numeric user id")
	mealPlanCmd.Flags().BoolVar(&planCopy, "copy", false, "copy the plan to clipboard")
	mealPlanCmd.Flags().StringVar(&planOut, "out", "", "write the plan to file")
	_ = mealPlanCmd.MarkFlagRequired("user")
}

var mealPlanCmd = &cobra.Command{
	Use:   "mealplan",
	Short: "Print a personalized meal plan for a user",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		client, err := newBackendClient(cfg)
		if err != nil {
			return err
		}

		profile, err := client.GetProfile(cmd.Context(), planUser)
		if errors.Is(err, backend.ErrProfileNotFound) {
			return fmt.Errorf("user ID %d not found", planUser)
		}
		if err != nil {
			return fmt.Errorf("load profile: %w", err)
		}

		return emit(cmd, mealplan.Synthesize(profile)+"\n", planCopy, planOut)
	},
}
