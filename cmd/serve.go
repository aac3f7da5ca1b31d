package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/rinhq/rin/db"
	"github.com/rinhq/rin/internal/api"
	"github.com/rinhq/rin/internal/completion"
	"github.com/rinhq/rin/internal/config"
	"github.com/rinhq/rin/internal/message"
	"github.com/rinhq/rin/internal/relay"
)

// completionTimeout caps a single upstream completion call. The relay itself
// defines no timeout semantics; a hung upstream would otherwise block the
// request forever.
const completionTimeout = 2 * time.Minute

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP relay server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// runServe wires configuration, storage, the completion client and the HTTP
// server together, then blocks until SIGINT/SIGTERM.
func runServe(parent context.Context) error {
	logger := initLogger()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.ValidateServe(); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}

	ctx, cancel := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := db.Migrate(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("creating connection pool: %w", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("pinging database: %w", err)
	}

	store := message.NewStore(pool, logger.With("component", "store"))

	completer := completion.NewClient(completion.ClientConfig{
		BaseURL: cfg.GroqBaseURL,
		APIKey:  cfg.GroqAPIKey,
		Model:   cfg.Model,
		Params: completion.Params{
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
		},
		Timeout: completionTimeout,
	})

	svc := relay.New(store, completer, relay.Config{
		SystemPrompt:    cfg.SystemPrompt,
		ContextMessages: cfg.ContextMessages,
		HistoryLimit:    cfg.HistoryLimit,
	}, logger.With("component", "relay"))

	srv, err := api.NewServer(api.ServerConfig{
		Logger:      logger.With("component", "api"),
		Service:     svc,
		Pool:        pool,
		CORSOrigins: cfg.CORSOrigins,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}

	logger.Info("rin server ready", "addr", cfg.Addr, "model", cfg.Model)
	return srv.Run(ctx, cfg.Addr)
}
