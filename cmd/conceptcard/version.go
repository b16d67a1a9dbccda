package main

import (
	"fmt"

	"github.com/ZaguanLabs/conceptcard"
	"github.com/spf13/cobra"
)

// Build-time variables (can be overridden with ldflags)
var (
	version   = conceptcard.Version
	commit    = conceptcard.GitCommit
	buildDate = conceptcard.BuildDate
)

func newVersionCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(ctx.stdout, "%s %s\n", conceptcard.Name, version)
			if commit != "unknown" && commit != "" {
				fmt.Fprintf(ctx.stdout, "  commit:  %s\n", commit)
			}
			if buildDate != "unknown" && buildDate != "" {
				fmt.Fprintf(ctx.stdout, "  built:   %s\n", buildDate)
			}
			return nil
		},
	}
}
