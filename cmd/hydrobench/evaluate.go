package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hydroworks/hydrobench/internal/report"
	"github.com/hydroworks/hydrobench/internal/scorer"
	"github.com/hydroworks/hydrobench/internal/store"
)

func newEvaluateCmd(st *cliState) *cobra.Command {
	var (
		benchPath   string
		predictions string
		idCol       string
		answerCol   string
		model       string
		provider    string
		out         string
		format      string
		save        bool
	)

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Score one model's predictions against the benchmark",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(predictions) == "" {
				return errors.New("--predictions is required")
			}

			b, err := st.loadBenchmark(benchPath)
			if err != nil {
				return err
			}

			preds, err := scorer.LoadFile(predictions, idCol, answerCol)
			if err != nil {
				return err
			}

			rep, err := scorer.Score(b, preds)
			if err != nil {
				return err
			}
			rep.Model = strings.TrimSpace(model)

			if out != "" {
				if err := report.Write(rep, out, format); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "report written to %s\n", out)
			}

			if save {
				if rep.Model == "" {
					return errors.New("--model is required with --save")
				}
				cfg, err := st.load()
				if err != nil {
					return err
				}
				db, err := store.Open(cfg.Storage.Path)
				if err != nil {
					return err
				}
				defer db.Close()
				if _, err := db.SaveReport(context.Background(), rep.Model, provider, rep); err != nil {
					return err
				}
			}

			printReportSummary(cmd.OutOrStdout(), rep)
			return nil
		},
	}

	cmd.Flags().StringVar(&benchPath, "benchmark", "", "benchmark file (JSON/CSV/XLSX)")
	cmd.Flags().StringVar(&predictions, "predictions", "", "prediction file (JSON/CSV/XLSX)")
	cmd.Flags().StringVar(&idCol, "predictions-id-col", scorer.DefaultIDColumn, "id column of a tabular prediction file; empty matches rows by position")
	cmd.Flags().StringVar(&answerCol, "predictions-answer-col", "", "answer column of a tabular prediction file (default: Answer, Model Answer, or Prediction)")
	cmd.Flags().StringVar(&model, "model", "", "model name for the report")
	cmd.Flags().StringVar(&provider, "provider", "", "provider name recorded with --save")
	cmd.Flags().StringVar(&out, "out", "", "report destination file")
	cmd.Flags().StringVar(&format, "format", "", "report format (json|csv|xlsx|markdown)")
	cmd.Flags().BoolVar(&save, "save", false, "record the run in the local store")
	return cmd
}
