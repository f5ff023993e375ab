package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/rickgao/bazaarsetu/internal/api"
	"github.com/rickgao/bazaarsetu/internal/config"
	"github.com/rickgao/bazaarsetu/internal/database"
	"github.com/rickgao/bazaarsetu/internal/store"
	"github.com/rickgao/bazaarsetu/internal/view"
)

type options struct {
	configPath string
}

// Execute runs the command line with ctx as the base context.
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "dashboard",
		Short:         "Daily commodity price dashboard",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "",
		"path to config file (BAZAAR_* environment variables override it)")

	root.AddCommand(serveCmd(opts), checkCmd(opts), versionCmd())
	return root
}

func (o *options) load() (*config.Config, error) {
	return config.LoadAndValidate(o.configPath)
}

// newLogger builds the process logger from the log settings.
func newLogger(cfg config.LogConfig, w io.Writer) (*slog.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

// openSource connects to the configured price source.
// The returned func releases it.
func openSource(ctx context.Context, cfg *config.Config, logger *slog.Logger) (view.Source, func(), error) {
	switch cfg.Source.Kind {
	case config.SourcePostgres:
		logger.Info("connecting to database",
			"host", cfg.Database.Host,
			"port", cfg.Database.Port,
			"database", cfg.Database.Name,
		)
		pool, err := database.Connect(ctx, cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("connect database: %w", err)
		}
		return store.New(pool, logger), pool.Close, nil

	default:
		client := api.NewClient(cfg.API.BaseURL,
			api.WithLogger(logger),
			api.WithTimeout(cfg.API.Timeout),
			api.WithRetries(cfg.API.MaxRetries, cfg.API.RetryBackoff),
		)
		return client, func() {}, nil
	}
}
