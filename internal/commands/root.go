package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"subscription-tracker/internal/config"
	"subscription-tracker/internal/database"
	"subscription-tracker/internal/events"
	"subscription-tracker/internal/services"

	"github.com/spf13/cobra"
)

// runtime carries what PersistentPreRunE prepared to the subcommands
type runtime struct {
	cfg    *config.Config
	logger *slog.Logger
}

// NewRootCommand builds the subtrack command tree
func NewRootCommand(version string) *cobra.Command {
	rt := &runtime{}

	rootCmd := &cobra.Command{
		Use:     "subtrack",
		Short:   "Detect and track recurring subscriptions from bank transactions",
		Version: version,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			if err := cfg.Validate(); err != nil {
				return err
			}
			rt.cfg = cfg
			rt.logger = NewLogger(cfg.Logging, cmd.ErrOrStderr())
			slog.SetDefault(rt.logger)
			return nil
		},
	}

	rootCmd.AddCommand(
		newServeCommand(rt),
		newImportCommand(rt),
		newSweepCommand(rt),
		newMigrateCommand(rt),
	)

	return rootCmd
}

// NewLogger builds the process logger from LOG_FORMAT and LOG_LEVEL
func NewLogger(cfg config.LoggingConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// openDatabase connects and migrates the configured store
func (rt *runtime) openDatabase(ctx context.Context) (*database.DB, error) {
	db, err := database.Initialize(ctx, rt.cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return db, nil
}

// connectPublisher dials AMQP when configured. A failed dial degrades to no events.
func (rt *runtime) connectPublisher() services.EventPublisherInterface {
	if rt.cfg.Events.AMQPURL == "" {
		return events.NoopPublisher{}
	}

	publisher, err := events.NewPublisher(rt.cfg.Events.AMQPURL, rt.cfg.Events.AMQPExchange, rt.cfg.Events.AMQPRoutingKey)
	if err != nil {
		rt.logger.Warn("event publishing disabled", "error", err)
		return events.NoopPublisher{}
	}

	rt.logger.Info("event publishing enabled", "exchange", rt.cfg.Events.AMQPExchange)
	return publisher
}
