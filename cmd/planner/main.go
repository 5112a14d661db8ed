// Command planner runs the longitudinal planner against a simulated road scenario, or
// evaluates the acceleration blend law for a single set of inputs.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cxd309/longplan/internal/config"
)

var (
	// Global flags
	verbose    bool
	configPath string

	logger *zap.Logger
	cfg    config.Config

	// Metrics pipeline; the reader is collected on demand by simulate --metrics.
	meterProvider *sdkmetric.MeterProvider
	metricsReader *sdkmetric.ManualReader
)

var rootCmd = &cobra.Command{
	Use:   "planner",
	Short: "Longitudinal planner simulation",
	Long: `planner drives a simulated ego vehicle along a road profile and publishes one
longitudinal plan per control cycle.

Each cycle arbitrates between the cruise and curve-speed targets and blends the MPC
and end-to-end accelerations while the dynamic experimental controller changes mode.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		metricsReader = sdkmetric.NewManualReader()
		meterProvider = sdkmetric.NewMeterProvider(sdkmetric.WithReader(metricsReader))
		otel.SetMeterProvider(meterProvider)

		cfg = config.Default()
		if configPath != "" {
			if cfg, err = config.Load(configPath); err != nil {
				return err
			}
			logger.Debug("loaded config", zap.String("path", configPath), zap.Any("config", cfg))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if meterProvider != nil {
			if err := meterProvider.Shutdown(context.Background()); err != nil && logger != nil {
				logger.Warn("metrics shutdown", zap.Error(err))
			}
		}
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML planner configuration")

	rootCmd.AddCommand(simulateCmd, blendCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
