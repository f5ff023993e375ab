package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func checkCmd(opts *options) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the configuration and ping the price source",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg.Log, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			src, closeSource, err := openSource(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer closeSource()

			if err := src.Ping(ctx); err != nil {
				return fmt.Errorf("ping %s source: %w", cfg.Source.Kind, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "config ok, %s source reachable\n", cfg.Source.Kind)
			return nil
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "connection timeout")
	return cmd
}
