// Command conceptcard explains concepts as bilingual Why/How/What cards.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr, os.Getenv); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer, getenv func(string) string) error {
	cmd := newRootCommand(stdout, stderr, getenv)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(context.Background())
}

func newRootCommand(stdout, stderr io.Writer, getenv func(string) string) *cobra.Command {
	ctx := newCommandContext(stdout, stderr, getenv)

	rootCmd := &cobra.Command{
		Use:           "conceptcard",
		Short:         "Explain a concept as a Why / How / What card",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	rootCmd.PersistentFlags().StringVarP(&ctx.configFlag, "config", "c", "", "Configuration file path (default: ./conceptcard.toml if present)")
	rootCmd.PersistentFlags().StringVar(&ctx.envFileFlag, "env-file", ".env", "Environment file to read provider keys from")

	rootCmd.AddCommand(newAnalyzeCommand(ctx))
	rootCmd.AddCommand(newServeCommand(ctx))
	rootCmd.AddCommand(newShareCommand(ctx))
	rootCmd.AddCommand(newProvidersCommand(ctx))
	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))
	rootCmd.AddCommand(newVersionCommand(ctx))

	return rootCmd
}
