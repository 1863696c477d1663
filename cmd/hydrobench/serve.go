package main

import (
	"github.com/spf13/cobra"

	"github.com/hydroworks/hydrobench/api"
	"github.com/hydroworks/hydrobench/internal/store"
)

func newServeCmd(st *cliState) *cobra.Command {
	var (
		benchPath string
		addr      string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve evaluation and the leaderboard over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := st.load()
			if err != nil {
				return err
			}

			b, err := st.loadBenchmark(benchPath)
			if err != nil {
				return err
			}

			db, err := store.Open(cfg.Storage.Path)
			if err != nil {
				return err
			}
			defer db.Close()

			s, err := api.NewServer(cfg, b, db)
			if err != nil {
				return err
			}
			return s.Run(addr)
		},
	}

	cmd.Flags().StringVar(&benchPath, "benchmark", "", "benchmark file (JSON/CSV/XLSX)")
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return cmd
}
