package commands

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"subscription-tracker/internal/app"
	"subscription-tracker/internal/middleware"
	"subscription-tracker/internal/server"
	"subscription-tracker/internal/services"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 30 * time.Second

func newServeCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the upcoming-payment scheduler",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return rt.serve(ctx)
		},
	}
}

func (rt *runtime) serve(ctx context.Context) error {
	cfg := rt.cfg

	db, err := rt.openDatabase(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	a := app.New(cfg, db.DB, app.Options{
		Logger:    rt.logger,
		Metrics:   services.NewPrometheusMetrics(),
		Publisher: rt.connectPublisher(),
	})
	defer a.Close()

	limiter := middleware.NewRateLimiter(cfg.Security.RateLimitPerSecond, cfg.Security.RateLimitBurst)
	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:      server.NewRouter(cfg, a.RouterDependencies(limiter)),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rt.logger.Info("server starting", "addr", srv.Addr, "env", cfg.Server.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return limiter.Run(gctx)
	})

	if cfg.Detection.SweepInterval > 0 {
		g.Go(func() error {
			return runSweepLoop(gctx, a.Notifications, cfg.Detection.SweepInterval)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		rt.logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	rt.logger.Info("server stopped")
	return nil
}

// runSweepLoop runs the upcoming-payment sweep every interval until ctx ends.
// A failed sweep is logged and retried on the next tick.
func runSweepLoop(ctx context.Context, notifications services.NotificationServiceInterface, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			created, err := notifications.SweepUpcoming(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				slog.Warn("upcoming payment sweep failed", "error", err)
				continue
			}
			if created > 0 {
				slog.Info("upcoming payment sweep", "alerts_created", created)
			}
		}
	}
}
