// Package cmd implements the rin command line interface.
//
// Following the pattern used by kubectl, hugo, and other standard Go CLI
// tools, all application logic lives here and main.go stays a minimal entry
// point.
package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/rinhq/rin/internal/log"
)

var debug bool

var rootCmd = &cobra.Command{
	Use:   "rin",
	Short: "Rin - a small chat-assistant relay server",
	Long: `Rin relays a browser chat client to an OpenAI-compatible completion
endpoint, persisting per-user conversation history in PostgreSQL.

Running rin without a subcommand starts the HTTP server.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// initLogger creates the process-wide logger and installs it as slog default.
func initLogger() log.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	logger := log.New(log.Config{Level: level, JSON: os.Getenv("RIN_LOG_JSON") == "true"})
	slog.SetDefault(logger)
	return logger
}
