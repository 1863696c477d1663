package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hydroworks/hydrobench/internal/benchmark"
)

func newSampleCmd(st *cliState) *cobra.Command {
	var (
		benchPath   string
		perCategory int
		seed        int64
		out         string
	)

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Draw a deterministic per-category sample of the benchmark",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(out) == "" {
				return errors.New("--out is required")
			}

			b, err := st.loadBenchmark(benchPath)
			if err != nil {
				return err
			}

			sampled, err := b.SampleByCategory(perCategory, seed)
			if err != nil {
				return err
			}
			if err := benchmark.Save(sampled, out); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "sampled %d of %d questions into %s\n", sampled.Len(), b.Len(), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&benchPath, "benchmark", "", "benchmark file (JSON/CSV/XLSX)")
	cmd.Flags().IntVar(&perCategory, "per-category", 10, "questions to draw from each category")
	cmd.Flags().Int64Var(&seed, "seed", 42, "random seed")
	cmd.Flags().StringVar(&out, "out", "", "destination file (JSON/CSV/XLSX)")
	return cmd
}
