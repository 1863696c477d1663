package main

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hydroworks/hydrobench/internal/benchmark"
	"github.com/hydroworks/hydrobench/internal/store"
)

func newLeaderboardCmd(st *cliState) *cobra.Command {
	var (
		benchName string
		limit     int
	)

	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the best recorded run per model",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := st.load()
			if err != nil {
				return err
			}
			db, err := store.Open(cfg.Storage.Path)
			if err != nil {
				return err
			}
			defer db.Close()

			name := strings.TrimSpace(benchName)
			if name == "" {
				name = benchmark.BuiltinName
			}

			entries, err := db.Leaderboard(context.Background(), name, limit)
			if err != nil {
				return err
			}
			printRuns(cmd.OutOrStdout(), entries)
			return nil
		},
	}

	cmd.Flags().StringVar(&benchName, "benchmark", "", "benchmark name")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum entries")
	return cmd
}

func newHistoryCmd(st *cliState) *cobra.Command {
	var benchName string

	cmd := &cobra.Command{
		Use:   "history <model>",
		Short: "Show every recorded run of one model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := st.load()
			if err != nil {
				return err
			}
			db, err := store.Open(cfg.Storage.Path)
			if err != nil {
				return err
			}
			defer db.Close()

			name := strings.TrimSpace(benchName)
			if name == "" {
				name = benchmark.BuiltinName
			}

			entries, err := db.ModelHistory(context.Background(), args[0], name)
			if err != nil {
				return err
			}
			printRuns(cmd.OutOrStdout(), entries)
			return nil
		},
	}

	cmd.Flags().StringVar(&benchName, "benchmark", "", "benchmark name")
	return cmd
}
