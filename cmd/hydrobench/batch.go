package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hydroworks/hydrobench/internal/batch"
	"github.com/hydroworks/hydrobench/internal/report"
	"github.com/hydroworks/hydrobench/internal/tabular"
)

func newBatchEvaluateCmd(st *cliState) *cobra.Command {
	var (
		benchPath   string
		predictions string
		idCol       string
		outDir      string
		format      string
	)

	cmd := &cobra.Command{
		Use:   "batch-evaluate",
		Short: "Score several models at once and compare them",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(predictions) == "" {
				return errors.New("--predictions is required")
			}

			b, err := st.loadBenchmark(benchPath)
			if err != nil {
				return err
			}

			columns, err := loadColumns(predictions, idCol)
			if err != nil {
				return err
			}

			sum, err := batch.EvaluateAll(b, columns)
			if err != nil {
				return err
			}

			if outDir != "" {
				if err := writeBatchReports(sum, outDir, format); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "reports written to %s\n", outDir)
			}

			printComparison(cmd.OutOrStdout(), sum)
			return nil
		},
	}

	cmd.Flags().StringVar(&benchPath, "benchmark", "", "benchmark file (JSON/CSV/XLSX)")
	cmd.Flags().StringVar(&predictions, "predictions", "", "multi-model prediction file (JSON object or table with one column per model)")
	cmd.Flags().StringVar(&idCol, "id-col", "", "id column of a tabular prediction file (default: ID)")
	cmd.Flags().StringVar(&outDir, "out-dir", "", "directory for per-model reports and the comparison table")
	cmd.Flags().StringVar(&format, "format", "csv", "per-model report format (json|csv|xlsx|markdown)")
	return cmd
}

func loadColumns(path, idCol string) ([]batch.Column, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %q: %w", path, err)
		}
		return batch.ColumnsFromJSON(data)
	}

	t, err := tabular.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return batch.ColumnsFromTable(t, idCol)
}

func writeBatchReports(sum *batch.Summary, dir, format string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %q: %w", dir, err)
	}

	format, err := report.ResolveFormat("", firstNonEmpty(format, report.FormatCSV))
	if err != nil {
		return err
	}
	ext := format
	if format == report.FormatMarkdown {
		ext = "md"
	}

	for _, mr := range sum.Results {
		path := filepath.Join(dir, sanitizeFilename(mr.Model)+"."+ext)
		if err := report.Write(mr.Report, path, format); err != nil {
			return err
		}
	}

	if err := writeBatchSummary(sum, filepath.Join(dir, "summary.json")); err != nil {
		return err
	}
	return tabular.WriteFile(sum.Comparison, filepath.Join(dir, "comparison.csv"))
}

type batchSummaryEntry struct {
	Model    string  `json:"model"`
	Count    int     `json:"count"`
	Correct  int     `json:"correct"`
	Missing  int     `json:"missing"`
	Accuracy float64 `json:"accuracy"`
	Error    string  `json:"error,omitempty"`
}

func writeBatchSummary(sum *batch.Summary, path string) error {
	entries := make([]batchSummaryEntry, 0, len(sum.Results))
	for _, mr := range sum.Results {
		e := batchSummaryEntry{Model: mr.Model, Error: mr.Err}
		if mr.Report != nil {
			o := mr.Report.Stats.Overall
			e.Count = o.Count
			e.Correct = o.Correct
			e.Missing = mr.Report.Stats.Missing
			e.Accuracy = o.Accuracy
		}
		entries = append(entries, e)
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func sanitizeFilename(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		}
		return r
	}, strings.TrimSpace(name))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
