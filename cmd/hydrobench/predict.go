package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/hydroworks/hydrobench/internal/llm"
	"github.com/hydroworks/hydrobench/internal/predict"
)

func newPredictCmd(st *cliState) *cobra.Command {
	var (
		benchPath   string
		provider    string
		out         string
		concurrency int
		timeout     time.Duration
		temperature float64
	)

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Collect a model's answers for every benchmark question",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(out) == "" {
				return errors.New("--out is required")
			}

			cfg, err := st.load()
			if err != nil {
				return err
			}
			p, err := llm.ProviderFromConfig(cfg, provider)
			if err != nil {
				return err
			}

			b, err := st.loadBenchmark(benchPath)
			if err != nil {
				return err
			}

			runner := predict.NewRunner(p, predict.Options{
				Concurrency: concurrency,
				Timeout:     timeout,
				Temperature: temperature,
			})

			res, runErr := runner.Run(context.Background(), b)
			if res != nil && res.Answered > 0 {
				if err := predict.Save(res, out); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(),
					"%s answered %d/%d questions (failed %d, tokens in=%d out=%d), predictions in %s\n",
					res.Model, res.Answered, b.Len(), res.Failed, res.InputTokens, res.OutputTokens, out)
			}
			return runErr
		},
	}

	cmd.Flags().StringVar(&benchPath, "benchmark", "", "benchmark file (JSON/CSV/XLSX)")
	cmd.Flags().StringVar(&provider, "provider", "", "LLM provider (claude|openai)")
	cmd.Flags().StringVar(&out, "out", "", "prediction destination file (JSON/CSV)")
	cmd.Flags().IntVar(&concurrency, "concurrency", 4, "parallel completions")
	cmd.Flags().DurationVar(&timeout, "timeout", 60*time.Second, "per-question timeout")
	cmd.Flags().Float64Var(&temperature, "temperature", 0, "sampling temperature")
	return cmd
}
