package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/rickgao/bazaarsetu/internal/config"
	"github.com/rickgao/bazaarsetu/internal/refresh"
	"github.com/rickgao/bazaarsetu/internal/server"
	"github.com/rickgao/bazaarsetu/internal/session"
	"github.com/rickgao/bazaarsetu/internal/version"
)

func serveCmd(opts *options) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve dashboard views over HTTP and WebSocket",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			logger, err := newLogger(cfg.Log, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			slog.SetDefault(logger)

			return serve(cmd.Context(), cfg, logger)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting dashboard",
		"version", version.Version,
		"commit", version.Commit,
		"source", cfg.Source.Kind,
	)

	src, closeSource, err := openSource(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeSource()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	if err := src.Ping(pingCtx); err != nil {
		// Not fatal: screens show a network failure notice until it recovers.
		logger.Warn("price source unreachable", "error", err)
	}
	cancel()

	sessions := session.NewRegistry(session.Config{
		MaxSessions:  cfg.Sessions.MaxSessions,
		IdleTimeout:  cfg.Sessions.IdleTimeout,
		ReapInterval: cfg.Sessions.ReapInterval,
	}, logger)
	if err := sessions.Start(ctx); err != nil {
		return fmt.Errorf("start sessions: %w", err)
	}
	defer stopWithTimeout(logger, "session registry", cfg.Server.ShutdownTimeout, sessions.Stop)

	if cfg.Refresh.Disabled {
		logger.Info("periodic refresh disabled")
	} else {
		refreshCfg := refresh.DefaultConfig()
		refreshCfg.Interval = cfg.Refresh.Interval
		refreshCfg.Concurrency = cfg.Refresh.Concurrency

		refresher := refresh.New(refreshCfg, sessions, logger)
		if err := refresher.Start(ctx); err != nil {
			return fmt.Errorf("start refresher: %w", err)
		}
		defer stopWithTimeout(logger, "refresher", cfg.Server.ShutdownTimeout, refresher.Stop)
	}

	handler := server.New(server.Config{
		DefaultTrendDays: cfg.Trend.DefaultDays,
	}, src, sessions, logger)

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("dashboard listening", "addr", cfg.Server.Addr)
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down...")
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http server shutdown", "error", err)
	}

	logger.Info("dashboard stopped")
	return nil
}

func stopWithTimeout(logger *slog.Logger, name string, timeout time.Duration, stop func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := stop(ctx); err != nil {
		logger.Warn("stop failed", "component", name, "error", err)
	}
}
