package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hydroworks/hydrobench/internal/benchmark"
)

func newDownloadCmd(st *cliState) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "download",
		Short: "Copy the bundled benchmark to a file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(out) == "" {
				return errors.New("--out is required")
			}
			if _, err := st.load(); err != nil {
				return err
			}

			b, err := benchmark.LoadBuiltin()
			if err != nil {
				return err
			}
			if err := benchmark.Save(b, out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d questions written to %s\n", b.Len(), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "destination file (JSON/CSV/XLSX)")
	return cmd
}
