package main

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/ZaguanLabs/conceptcard"
	"github.com/ZaguanLabs/conceptcard/config"
	"github.com/ZaguanLabs/conceptcard/provider"
	"github.com/ZaguanLabs/conceptcard/server"
	"github.com/spf13/cobra"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the analysis API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if cfg.Mode != config.ModeDirect {
				return errors.New("serve needs provider keys; it cannot run in proxy mode")
			}
			if listen == "" {
				listen = cfg.Server.Listen
			}

			store, closeStore, err := ctx.historyStore(cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			pc := cfg.ProviderConfig()
			resolver := conceptcard.NewResolver(pc, conceptcard.ServerPriority())
			if _, err := resolver.Resolve(""); err != nil {
				ctx.logger.Warn("no provider configured; every analysis will fail", "error", err)
			}
			orch := conceptcard.NewOrchestrator(resolver, provider.NewAdapters(pc), conceptcard.WithLogger(ctx.logger))

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := server.New(orch, server.WithHistory(store), server.WithLogger(ctx.logger))
			return srv.ListenAndServe(runCtx, listen)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "Listen address (default from config)")
	return cmd
}
