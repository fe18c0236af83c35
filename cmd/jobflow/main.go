// Package main provides the entry point for the jobflow CLI and API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "jobflow",
	Short: "LLM-driven career discovery",
	Long:  "jobflow analyzes resumes, builds a strategic search matrix and discovers scored job postings, either from the command line or through a REST API.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
