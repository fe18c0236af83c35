package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mhe931/jobflow/internal/config"
	"github.com/mhe931/jobflow/internal/db"
)

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete search sessions older than the retention window",
	Long:  "One-shot version of the janitor the server runs daily. Removes sessions (and their results) older than the retention window.",
	RunE:  runPurge,
}

var (
	purgeDays        int
	purgeDatabaseURL string
)

func init() {
	purgeCmd.Flags().IntVar(&purgeDays, "days", config.DefaultPurgeDays, "Retention window in days")
	purgeCmd.Flags().StringVar(&purgeDatabaseURL, "db-url", "", "Database URL (required)")
	rootCmd.AddCommand(purgeCmd)
}

func runPurge(_ *cobra.Command, _ []string) error {
	if purgeDays <= 0 {
		return fmt.Errorf("days must be greater than 0, got %d", purgeDays)
	}

	ctx := context.Background()

	if purgeDatabaseURL == "" {
		purgeDatabaseURL = os.Getenv("DATABASE_URL")
	}
	if purgeDatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL not set (set DATABASE_URL environment variable or use --db-url flag)")
	}

	database, err := db.Connect(ctx, purgeDatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	purged, err := database.PurgeOldSessions(ctx, time.Duration(purgeDays)*24*time.Hour)
	if err != nil {
		return fmt.Errorf("failed to purge sessions: %w", err)
	}

	fmt.Printf("Purged %d sessions older than %d days.\n", purged, purgeDays)
	return nil
}
