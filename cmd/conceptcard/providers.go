package main

import (
	"fmt"

	"github.com/ZaguanLabs/conceptcard"
	"github.com/ZaguanLabs/conceptcard/config"
	"github.com/ZaguanLabs/conceptcard/provider"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newProvidersCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List AI providers and whether they are configured",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			fmt.Fprintln(ctx.stdout, renderProviders(cfg))
			if cfg.Mode == config.ModeProxy {
				fmt.Fprintf(ctx.stdout, "proxy mode: requests go to %s (hint %s)\n",
					cfg.Proxy.BaseURL, conceptcard.ProxyHint(cfg.Provider))
			}
			return nil
		},
	}
}

func renderProviders(cfg *config.Config) string {
	pc := cfg.ProviderConfig()
	preferred := cfg.PreferredProvider()

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"#", "Provider", "Name", "Configured", "Model", "Base URL"})
	for i, id := range conceptcard.DirectPriority() {
		settings := pc[id]
		defaults := provider.Defaults(id)

		model := settings.Model
		if model == "" {
			model = defaults.Model
		}
		baseURL := settings.BaseURL
		if baseURL == "" {
			baseURL = defaults.BaseURL
		}
		name := id.DisplayName()
		if id == preferred {
			name += " (preferred)"
		}
		configured := "no"
		if settings.Configured() {
			configured = "yes"
		}
		tw.AppendRow(table.Row{i + 1, string(id), name, configured, model, baseURL})
	}
	return tw.Render()
}
