package main

import (
	"fmt"

	"github.com/ZaguanLabs/conceptcard/history"
	"github.com/spf13/cobra"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Manage recently analyzed concepts",
	}

	withStore := func(fn func(cmd *cobra.Command, store history.Store, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, closeStore, err := ctx.historyStore(cfg)
			if err != nil {
				return err
			}
			defer closeStore()
			if cfg.History.RedisURL == "" {
				fmt.Fprintln(ctx.stderr, "history is kept in memory; set REDIS_URL to persist it")
			}
			return fn(cmd, store, args)
		}
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List recent concepts, newest first",
		Args:  cobra.NoArgs,
		RunE: withStore(func(cmd *cobra.Command, store history.Store, _ []string) error {
			concepts, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			for i, c := range concepts {
				fmt.Fprintf(ctx.stdout, "%d. %s\n", i+1, c)
			}
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Forget all recent concepts",
		Args:  cobra.NoArgs,
		RunE: withStore(func(cmd *cobra.Command, store history.Store, _ []string) error {
			return store.Clear(cmd.Context())
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "export [file]",
		Short: "Export recent concepts as JSON (stdout when no file is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: withStore(func(cmd *cobra.Command, store history.Store, args []string) error {
			if len(args) == 0 {
				return history.Export(cmd.Context(), store, ctx.stdout)
			}
			return history.ExportToFile(cmd.Context(), store, args[0])
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "import <file>",
		Short: "Import concepts from an export file",
		Args:  cobra.ExactArgs(1),
		RunE: withStore(func(cmd *cobra.Command, store history.Store, args []string) error {
			n, err := history.ImportFromFile(cmd.Context(), store, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(ctx.stdout, "imported %d concepts\n", n)
			return nil
		}),
	})

	return cmd
}
