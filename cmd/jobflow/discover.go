package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mhe931/jobflow/internal/cache"
	"github.com/mhe931/jobflow/internal/db"
	"github.com/mhe931/jobflow/internal/discovery"
	"github.com/mhe931/jobflow/internal/llm"
	"github.com/mhe931/jobflow/internal/observability"
	"github.com/mhe931/jobflow/internal/ranking"
	"github.com/mhe931/jobflow/internal/types"
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Run a discovery search for a user",
	Long:  "Runs job discovery with the user's stored strategic parameters, persists the results as a new search session and prints them in display order.",
	RunE:  runDiscover,
}

var (
	discoverUserID      string
	discoverDatabaseURL string
	discoverRedisURL    string
	discoverVerbose     bool
)

func init() {
	discoverCmd.Flags().StringVarP(&discoverUserID, "user-id", "u", "", "User ID (required)")
	discoverCmd.Flags().StringVar(&discoverDatabaseURL, "db-url", "", "Database URL (required)")
	discoverCmd.Flags().StringVar(&discoverRedisURL, "redis-url", "", "Redis URL for the reachability cache (optional)")
	discoverCmd.Flags().BoolVarP(&discoverVerbose, "verbose", "v", false, "Verbose logging")

	if err := discoverCmd.MarkFlagRequired("user-id"); err != nil {
		panic(fmt.Sprintf("failed to mark user-id flag as required: %v", err))
	}

	rootCmd.AddCommand(discoverCmd)
}

func runDiscover(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	uid, err := uuid.Parse(discoverUserID)
	if err != nil {
		return fmt.Errorf("invalid user-id: %w", err)
	}

	if discoverDatabaseURL == "" {
		discoverDatabaseURL = os.Getenv("DATABASE_URL")
	}
	if discoverDatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL not set (set DATABASE_URL environment variable or use --db-url flag)")
	}

	database, err := db.Connect(ctx, discoverDatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	profile, err := database.GetProfile(ctx, uid)
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}
	if profile == nil {
		return fmt.Errorf("user %s not found", uid)
	}

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}
	client, err := llm.NewClient(ctx, llm.DefaultConfig(), apiKey)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer func() { _ = client.Close() }()

	if discoverRedisURL == "" {
		discoverRedisURL = os.Getenv("REDIS_URL")
	}
	var redisCache *cache.Cache
	if discoverRedisURL != "" {
		redisCache, err = cache.Connect(ctx, discoverRedisURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: redis unavailable, running without cache: %v\n", err)
			redisCache = nil
		}
	}

	printer := observability.NewPrinter(os.Stdout)
	if discoverVerbose {
		printer.PrintParameters(profile.Parameters)
	}

	svc := discovery.New(client, redisCache, discoverVerbose)
	results, err := svc.Discover(ctx, profile, profile.Parameters)
	if err != nil {
		return fmt.Errorf("discovery failed: %w", err)
	}

	session := types.NewSearchSession(profile.Parameters, results)
	if err := database.SaveSession(ctx, uid, session); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	fmt.Printf("Session %s saved with %d results.\n", session.ID, len(session.Results))
	printer.PrintResults(ranking.Rank(session.Results))
	return nil
}
