package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/hydroworks/hydrobench/internal/benchmark"
	"github.com/hydroworks/hydrobench/internal/config"
)

type cliState struct {
	configPath string
	cfg        *config.Config
}

var (
	osExit                 = os.Exit
	stderrWriter io.Writer = os.Stderr
)

func main() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(stderrWriter, err)
		osExit(1)
	}
}

func newRootCmd() *cobra.Command {
	st := &cliState{}

	root := &cobra.Command{
		Use:           "hydrobench",
		Short:         "Score models on the water-engineering multiple-choice benchmark",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVar(&st.configPath, "config", "", "path to config file")

	root.AddCommand(newEvaluateCmd(st))
	root.AddCommand(newBatchEvaluateCmd(st))
	root.AddCommand(newSampleCmd(st))
	root.AddCommand(newDownloadCmd(st))
	root.AddCommand(newPredictCmd(st))
	root.AddCommand(newLeaderboardCmd(st))
	root.AddCommand(newHistoryCmd(st))
	root.AddCommand(newServeCmd(st))
	return root
}

func (st *cliState) load() (*config.Config, error) {
	if st.cfg != nil {
		return st.cfg, nil
	}
	cfg, err := config.Load(st.configPath)
	if err != nil {
		return nil, err
	}
	st.cfg = cfg
	return cfg, nil
}

// loadBenchmark resolves the question set: the --benchmark flag first,
// then the configured path, then the bundled dataset.
func (st *cliState) loadBenchmark(flagPath string) (*benchmark.Benchmark, error) {
	cfg, err := st.load()
	if err != nil {
		return nil, err
	}

	path := flagPath
	if path == "" {
		path = cfg.Benchmark.Path
	}
	if path == "" {
		return benchmark.LoadBuiltin()
	}
	return benchmark.LoadFile(path, cfg.BenchmarkColumns())
}
