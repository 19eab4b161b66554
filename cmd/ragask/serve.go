package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/ragask/internal/answer/factory"
	"github.com/at-ishikawa/ragask/internal/rag"
	"github.com/at-ishikawa/ragask/internal/server"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the ask endpoint over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			provider, closeProvider, err := factory.New(ctx, cfg.Provider)
			if err != nil {
				return fmt.Errorf("factory.New() > %w", err)
			}
			defer func() {
				if err := closeProvider(); err != nil {
					slog.Default().Warn("failed to close the answer provider", "error", err)
				}
			}()

			service, err := rag.NewService(provider, cfg.Server.RequestTimeout)
			if err != nil {
				return fmt.Errorf("rag.NewService() > %w", err)
			}

			slog.Default().Info("Using answer provider",
				"kind", cfg.Provider.Kind,
				"requestTimeout", cfg.Server.RequestTimeout)
			return server.New(cfg.Server, service).Run(ctx)
		},
	}
}
