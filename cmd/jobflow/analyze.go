package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mhe931/jobflow/internal/analyzer"
	"github.com/mhe931/jobflow/internal/db"
	"github.com/mhe931/jobflow/internal/ingestion"
	"github.com/mhe931/jobflow/internal/llm"
	"github.com/mhe931/jobflow/internal/observability"
	"github.com/mhe931/jobflow/internal/types"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a resume and propose a search matrix",
	Long:  "Extracts skills and seniority from a resume (local file or URL, Google Docs links supported), then proposes hub/title search parameters. With --user-id the analysis is saved to the database.",
	RunE:  runAnalyze,
}

var (
	analyzeFile        string
	analyzeURL         string
	analyzeUserID      string
	analyzeDatabaseURL string
	analyzeUseBrowser  bool
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeFile, "file", "f", "", "Path to a plain-text resume file")
	analyzeCmd.Flags().StringVar(&analyzeURL, "url", "", "URL of a resume page or Google Doc")
	analyzeCmd.Flags().StringVarP(&analyzeUserID, "user-id", "u", "", "User ID to save the analysis for (optional)")
	analyzeCmd.Flags().StringVar(&analyzeDatabaseURL, "db-url", "", "Database URL (required with --user-id)")
	analyzeCmd.Flags().BoolVar(&analyzeUseBrowser, "browser", false, "Use a headless browser for JS-heavy pages")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(_ *cobra.Command, _ []string) error {
	if (analyzeFile == "") == (analyzeURL == "") {
		return fmt.Errorf("provide exactly one of --file or --url")
	}

	ctx := context.Background()

	var resumeText string
	var err error
	if analyzeFile != "" {
		raw, readErr := os.ReadFile(analyzeFile)
		if readErr != nil {
			return fmt.Errorf("failed to read resume file: %w", readErr)
		}
		resumeText, err = ingestion.IngestText(string(raw))
	} else {
		resumeText, err = ingestion.IngestFromURL(ctx, analyzeURL, analyzeUseBrowser, true)
	}
	if err != nil {
		return fmt.Errorf("failed to ingest resume: %w", err)
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

	a := analyzer.New(client)
	analysis, err := a.AnalyzeResume(ctx, resumeText)
	if err != nil {
		return fmt.Errorf("failed to analyze resume: %w", err)
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintAnalysis(analysis)

	profile := &types.UserProfile{
		ResumeText: resumeText,
		Skills:     analysis.Skills,
		Seniority:  analysis.Seniority,
	}
	matrix, err := a.BuildSearchMatrix(ctx, profile)
	if err != nil {
		return fmt.Errorf("failed to build search matrix: %w", err)
	}
	printer.PrintMatrix(matrix)

	if analyzeUserID == "" {
		return nil
	}

	uid, err := uuid.Parse(analyzeUserID)
	if err != nil {
		return fmt.Errorf("invalid user-id: %w", err)
	}
	if analyzeDatabaseURL == "" {
		analyzeDatabaseURL = os.Getenv("DATABASE_URL")
	}
	if analyzeDatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL not set (set DATABASE_URL environment variable or use --db-url flag)")
	}

	database, err := db.Connect(ctx, analyzeDatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	if err := database.UpdateResume(ctx, uid, resumeText, analysis.Skills, analysis.Seniority); err != nil {
		return fmt.Errorf("failed to save analysis: %w", err)
	}

	// Seed parameters from the matrix only when the user has none yet, so a
	// re-analysis never clobbers hand-edited search scope.
	stored, err := database.GetProfile(ctx, uid)
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}
	if stored != nil && stored.Parameters.IsEmpty() {
		params := types.StrategicParameters{Titles: matrix.Titles, Hubs: matrix.Hubs}
		if err := database.UpdateParameters(ctx, uid, params); err != nil {
			return fmt.Errorf("failed to save parameters: %w", err)
		}
		fmt.Println("Saved analysis and seeded strategic parameters.")
		return nil
	}

	fmt.Println("Saved analysis. Existing strategic parameters left untouched.")
	return nil
}
