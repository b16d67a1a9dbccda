package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ZaguanLabs/conceptcard"
	"github.com/ZaguanLabs/conceptcard/card"
	"github.com/ZaguanLabs/conceptcard/logging"
	"github.com/spf13/cobra"
)

func newAnalyzeCommand(ctx *commandContext) *cobra.Command {
	var (
		jsonOutput bool
		lang       string
		retries    int
		share      bool
		htmlPath   string
	)

	cmd := &cobra.Command{
		Use:   "analyze <concept>",
		Short: "Analyze a concept with the configured AI providers",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			concept := strings.Join(args, " ")
			loc := conceptcard.ParseLocale(lang)

			store, closeStore, err := ctx.historyStore(cfg)
			if err != nil {
				ctx.logger.Warn("history unavailable", "error", err)
				store, closeStore = nil, func() {}
			}
			defer closeStore()

			svc := conceptcard.NewService(ctx.transport(cfg), conceptcard.WithServiceLogger(ctx.logger))
			opts := []conceptcard.SessionOption{conceptcard.WithStageDelay(0)}
			if logging.IsTerminal(ctx.stderr) {
				opts = []conceptcard.SessionOption{
					conceptcard.WithStageCallback(func(st conceptcard.Stage) {
						fmt.Fprintln(ctx.stderr, st.Text(loc, concept))
					}),
				}
			}
			if store != nil {
				opts = append(opts, conceptcard.WithRecorder(store))
			}
			session := conceptcard.NewSession(svc, opts...)

			retryCfg := conceptcard.DefaultRetryConfig()
			retryCfg.MaxRetries = retries
			retryCfg.OnRetry = func(n int, delay time.Duration, err error) {
				ctx.logger.Warn("analysis failed, retrying", "retry", n, "delay", delay, "error", err)
			}
			start := time.Now()
			result, err := conceptcard.WithRetry(cmd.Context(), retryCfg, func() (*conceptcard.Result, error) {
				return session.Submit(cmd.Context(), concept)
			})
			if err != nil {
				return analysisFailure(err, loc)
			}
			ctx.logger.Info("analysis completed",
				"provider", result.ProviderName,
				"attempts", len(result.Attempts),
				"elapsed", time.Since(start),
			)

			state := conceptcard.ShareableState{
				Concept:  strings.TrimSpace(concept),
				Analysis: result.Analysis,
			}

			var shareURL string
			if share || htmlPath != "" {
				token, err := conceptcard.EncodeShareState(state)
				if err != nil {
					return err
				}
				shareURL = shareLink(cfg.Proxy.BaseURL, token, loc)
			}

			if htmlPath != "" {
				page, err := card.Render(state, loc, card.WithProvider(result.ProviderName), card.WithShareURL(shareURL))
				if err != nil {
					return analysisFailure(err, loc)
				}
				if htmlPath == "-" {
					htmlPath = card.FileName(state.Concept) + ".html"
				}
				if err := os.WriteFile(htmlPath, []byte(page), 0o644); err != nil {
					return fmt.Errorf("write card: %w", err)
				}
				fmt.Fprintf(ctx.stderr, "card written to %s\n", htmlPath)
			}

			if jsonOutput {
				return writeJSON(ctx.stdout, analysisOutput{
					Concept:  state.Concept,
					Provider: result.ProviderName,
					Analysis: result.Analysis,
					ShareURL: shareURL,
					Elapsed:  time.Since(start).Milliseconds(),
				})
			}

			printAnalysis(ctx.stdout, state, result.ProviderName, loc)
			if share {
				fmt.Fprintf(ctx.stdout, "\n%s\n", shareURL)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the analysis as JSON")
	cmd.Flags().StringVar(&lang, "lang", "en", "Display language (en or zh)")
	cmd.Flags().IntVar(&retries, "retries", 0, "Retry retryable failures this many times")
	cmd.Flags().BoolVar(&share, "share", false, "Print a share link for the result")
	cmd.Flags().StringVar(&htmlPath, "html", "", "Write the card as HTML to this path (- for the default file name)")
	return cmd
}

// analysisFailure turns a classified error into the message shown to the
// user, keeping the underlying error in the chain.
func analysisFailure(err error, loc conceptcard.Locale) error {
	var aerr *conceptcard.AnalysisError
	if !errors.As(err, &aerr) {
		info := conceptcard.Classify(err, "")
		return fmt.Errorf("%s %s. (%w)", info.UserMessage(loc), info.ActionText(loc), err)
	}
	var verr *conceptcard.ValidationError
	if errors.As(err, &verr) {
		return fmt.Errorf("%s [%s] (%w)", verr.Message(loc), aerr.Info.Category, err)
	}
	return fmt.Errorf("%s [%s] %s. (%w)",
		aerr.Info.UserMessage(loc), aerr.Info.Category, aerr.Info.ActionText(loc), err)
}

func shareLink(base, token string, loc conceptcard.Locale) string {
	if base == "" {
		return token
	}
	return fmt.Sprintf("%s/share?lang=%s&data=%s", base, loc, token)
}
