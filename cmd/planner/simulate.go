package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/cxd309/longplan/internal/engine"
	"github.com/cxd309/longplan/internal/publish"
)

var (
	stream      bool
	showMetrics bool
)

// simulateCmd runs a scenario read from a file or stdin.
var simulateCmd = &cobra.Command{
	Use:   "simulate [file]",
	Short: "Run a simulation scenario and print the log",
	Long: `Reads a SimulationInput JSON from the file argument, or stdin when none is
given, and writes the SimulationLog JSON to stdout.

With --stream, plans are written as JSON lines while the simulation runs instead of
one log at the end. With --metrics, the planner metrics collected over the run are
printed to stderr.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().BoolVar(&stream, "stream", false, "write one JSON line per plan as it is produced")
	simulateCmd.Flags().BoolVar(&showMetrics, "metrics", false, "print collected planner metrics to stderr")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	var (
		data []byte
		err  error
	)
	if len(args) > 0 {
		data, err = os.ReadFile(args[0])
	} else {
		data, err = io.ReadAll(cmd.InOrStdin())
	}
	if err != nil {
		return fmt.Errorf("error reading input: %w", err)
	}

	metrics, err := publish.NewMetrics(meterProvider.Meter("github.com/cxd309/longplan"))
	if err != nil {
		return err
	}
	pubs := publish.Fanout{metrics}
	if stream {
		pubs = append(pubs, publish.NewJSONLines(cmd.OutOrStdout()))
	}

	result, err := engine.RunJSONWithConfig(string(data), cfg, engine.Options{
		Logger:    logger.Named("engine"),
		Publisher: pubs,
	})
	if err != nil {
		return fmt.Errorf("simulation error: %w", err)
	}
	if !stream {
		fmt.Fprintln(cmd.OutOrStdout(), result)
	}

	if showMetrics {
		var rm metricdata.ResourceMetrics
		if err := metricsReader.Collect(context.Background(), &rm); err != nil {
			return fmt.Errorf("collecting metrics: %w", err)
		}
		writeMetrics(cmd.ErrOrStderr(), rm)
	}
	return nil
}
