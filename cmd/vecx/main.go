package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/benbjohnson/vecx/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cmd := NewMain(stdout, stderr).Command()
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

// Main holds the options shared by every subcommand.
type Main struct {
	Stdout io.Writer
	Stderr io.Writer

	ConfigPath  string
	Workers     int
	NoPrune     bool
	BFS         bool
	MetricsPath string
	Verbose     bool
}

// NewMain returns a new instance of Main.
func NewMain(stdout, stderr io.Writer) *Main {
	return &Main{Stdout: stdout, Stderr: stderr}
}

// Command returns the root command with every subcommand attached.
func (m *Main) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vecx",
		Short: "Vecx extracts the cheapest fully vectorized expression from an e-graph.",
		// Errors are printed once by main.
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	cmd.SetOut(m.Stdout)
	cmd.SetErr(m.Stderr)

	flags := cmd.PersistentFlags()
	flags.StringVar(&m.ConfigPath, "config", "", "YAML file holding cost weights and search settings")
	flags.IntVar(&m.Workers, "workers", 0, "number of search workers (default GOMAXPROCS)")
	flags.BoolVar(&m.NoPrune, "no-prune", false, "disable branch-and-bound pruning")
	flags.BoolVar(&m.BFS, "bfs", false, "search breadth-first instead of depth-first")
	flags.StringVar(&m.MetricsPath, "metrics-file", "", "write extraction metrics to this file in Prometheus text format")
	flags.BoolVarP(&m.Verbose, "verbose", "v", false, "log search progress")

	cmd.AddCommand(m.newExtractCommand())
	cmd.AddCommand(m.newExprCommand())
	return cmd
}

func (m *Main) logger() *slog.Logger {
	level := slog.LevelInfo
	if m.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(m.Stderr, &slog.HandlerOptions{Level: level}))
}

// writeMetrics writes the statistics of source to the metrics file, if set.
func (m *Main) writeMetrics(source metrics.Source, input string) error {
	if m.MetricsPath == "" {
		return nil
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(metrics.NewCollector(source, prometheus.Labels{"input": filepath.Base(input)}))
	if err := prometheus.WriteToTextfile(m.MetricsPath, reg); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}
