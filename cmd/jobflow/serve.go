package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mhe931/jobflow/internal/config"
	"github.com/mhe931/jobflow/internal/server"
)

var (
	servePort       string
	serveConfigPath string
	serveUseBrowser bool
	serveVerbose    bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for resume analysis, job discovery and session history.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&servePort, "port", "", "Port to listen on (default from PORT or 8080)")
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to a JSON config file (optional)")
	serveCmd.Flags().BoolVar(&serveUseBrowser, "browser", false, "Use a headless browser for JS-heavy resume pages")
	serveCmd.Flags().BoolVarP(&serveVerbose, "verbose", "v", false, "Verbose logging")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg := config.FromEnv()
	if serveConfigPath != "" {
		fileCfg, err := config.LoadConfig(serveConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = fileCfg.MergeWithDefaults(cfg)
	}
	if servePort != "" {
		cfg.Port = servePort
	}
	cfg.UseBrowser = cfg.UseBrowser || serveUseBrowser
	cfg.Verbose = cfg.Verbose || serveVerbose
	cfg = cfg.MergeWithDefaults(config.Config{Port: "8080", PurgeDays: config.DefaultPurgeDays})

	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}
	if os.Getenv("API_KEY_SECRET") == "" {
		return fmt.Errorf("API_KEY_SECRET environment variable is required")
	}
	if cfg.APIKey == "" {
		fmt.Fprintln(os.Stderr, "Warning: GEMINI_API_KEY not set; users must bring their own API key")
	}

	srv, err := server.New(server.Config{
		Port:        cfg.Port,
		DatabaseURL: cfg.DatabaseURL,
		RedisURL:    cfg.RedisURL,
		APIKey:      cfg.APIKey,
		UseBrowser:  cfg.UseBrowser,
		Verbose:     cfg.Verbose,
		PurgeDays:   cfg.PurgeDays,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
