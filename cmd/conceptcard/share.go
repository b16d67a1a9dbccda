package main

import (
	"fmt"
	"os"

	"github.com/ZaguanLabs/conceptcard"
	"github.com/ZaguanLabs/conceptcard/card"
	"github.com/spf13/cobra"
)

func newShareCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "share",
		Short: "Inspect share links",
	}
	cmd.AddCommand(newShareDecodeCommand(ctx))
	return cmd
}

func newShareDecodeCommand(ctx *commandContext) *cobra.Command {
	var (
		jsonOutput bool
		lang       string
		htmlPath   string
	)

	cmd := &cobra.Command{
		Use:   "decode <data>",
		Short: "Decode the data parameter of a share link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc := conceptcard.ParseLocale(lang)
			state, ok := conceptcard.DecodeShareState(args[0])
			if !ok {
				err := &conceptcard.ShareLinkError{Message: "invalid or corrupt share data"}
				return fmt.Errorf("%s (%w)", conceptcard.Classify(err, "").UserMessage(loc), err)
			}

			if htmlPath != "" {
				page, err := card.Render(*state, loc)
				if err != nil {
					return fmt.Errorf("%s (%w)", conceptcard.Classify(err, "").UserMessage(loc), err)
				}
				if htmlPath == "-" {
					htmlPath = card.FileName(state.Concept) + ".html"
				}
				if err := os.WriteFile(htmlPath, []byte(page), 0o644); err != nil {
					return fmt.Errorf("write card: %w", err)
				}
				fmt.Fprintf(ctx.stderr, "card written to %s\n", htmlPath)
				return nil
			}

			if jsonOutput {
				return writeJSON(ctx.stdout, analysisOutput{Concept: state.Concept, Analysis: state.Analysis})
			}
			printAnalysis(ctx.stdout, *state, "", loc)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the shared state as JSON")
	cmd.Flags().StringVar(&lang, "lang", "en", "Display language (en or zh)")
	cmd.Flags().StringVar(&htmlPath, "html", "", "Write the card as HTML to this path (- for the default file name)")
	return cmd
}
