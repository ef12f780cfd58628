package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"sanitybox/internal/history"
	"sanitybox/internal/project"
	"sanitybox/internal/server"
	"sanitybox/pkg/fileutil"

	"github.com/spf13/cobra"
)

var (
	serveConfigFile string
	logFile         string
	dbPath          string
	host            string
	port            int
	testMode        bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the webhook receiver",
	Long: `Start the HTTP server to receive Sanity webhook deliveries.

Each configured project with a webhook_secret gets an endpoint at
/in/<project>. Deliveries are verified against the signature header and
recorded in the delivery history.`,
	RunE: runServe,
}

func init() {
	// Flags for serve command
	serveCmd.Flags().StringVarP(&serveConfigFile, "config", "c", getEnvOrDefault("SANITYBOX_CONFIG_FILE", ""), "Path to sanitybox.yaml configuration file")
	serveCmd.Flags().StringVar(&logFile, "log", getEnvOrDefault("SANITYBOX_LOG_FILE", "./deliveries.log"), "Path to log file")
	serveCmd.Flags().StringVar(&dbPath, "db", getEnvOrDefault("SANITYBOX_DB_PATH", "./deliveries.db"), "Path to SQLite database")
	serveCmd.Flags().StringVar(&host, "host", getEnvOrDefault("SANITYBOX_HOST", "127.0.0.1"), "Host to bind to")
	serveCmd.Flags().IntVarP(&port, "port", "p", getEnvOrDefaultInt("SANITYBOX_PORT", 5000), "Port to listen on")
	serveCmd.Flags().BoolVar(&testMode, "test-mode", os.Getenv("SANITYBOX_TEST_MODE") == "1", "Enable test mode (no rate limiting, no history database)")
}

func runServe(cmd *cobra.Command, args []string) error {
	// Determine config file path
	if serveConfigFile == "" {
		serveConfigFile = fileutil.FindConfigOptional(defaultConfigName)
		if serveConfigFile == "" {
			fmt.Fprintf(os.Stderr, "Error: No configuration file found in default locations:\n")
			for _, path := range fileutil.ConfigSearchPaths(defaultConfigName) {
				fmt.Fprintf(os.Stderr, "  - %s\n", path)
			}
			fmt.Fprintf(os.Stderr, "Use --config flag to specify a custom location\n")
			return fmt.Errorf("configuration file not found")
		}
	}

	// Set up logging
	logger, logFileHandle, err := setupLogging(logFile)
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	defer logFileHandle.Close()

	logger.Info("Starting sanitybox")

	// Load configuration
	logger.Info("Loading configuration", "config", serveConfigFile)
	_, projects, err := project.LoadConfig(serveConfigFile)
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger.Info("Configuration validated successfully", "count", len(projects))

	// Count projects that can actually receive deliveries
	webhookProjects := 0
	for _, p := range projects {
		if p.HasWebhookSecret() {
			webhookProjects++
		}
	}
	if webhookProjects == 0 {
		logger.Warn("No projects have a webhook_secret configured", "config", serveConfigFile)
		logger.Warn("The server will start but will reject all deliveries until secrets are added")
	}

	// Create project registry
	registry := project.NewRegistry(projects)

	// Initialize history database
	var hist *history.History
	if !testMode {
		logger.Info("Initializing history database", "db", dbPath)
		hist, err = history.NewHistory(dbPath)
		if err != nil {
			logger.Error("Failed to initialize history database", "error", err)
			return fmt.Errorf("failed to initialize history database: %w", err)
		}
		defer hist.Close()
	}

	// Create and start server
	srv := server.NewServer(registry, hist, logger, testMode)

	logger.Info("Starting HTTP server", "host", host, "port", port)
	if err := srv.Start(host, port); err != nil {
		logger.Error("Server failed", "error", err)
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

// setupLogging configures slog for file logging
// Returns both the logger and the file handle (caller must close the file)
func setupLogging(logPath string) (*slog.Logger, *os.File, error) {
	// Create log directory if needed
	logDir := filepath.Dir(logPath)
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	// Open log file with secure permissions
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0640)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	// Create multi-writer to log to both file and console
	multiWriter := io.MultiWriter(os.Stdout, file)

	// Create JSON handler for structured logging
	handler := slog.NewJSONHandler(multiWriter, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})

	logger := slog.New(handler)

	return logger, file, nil
}

// Helper functions for environment variables
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvOrDefaultInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var intVal int
		if _, err := fmt.Sscanf(value, "%d", &intVal); err == nil {
			return intVal
		}
	}
	return defaultValue
}
