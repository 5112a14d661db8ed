package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cxd309/longplan/internal/blend"
	"github.com/cxd309/longplan/internal/transition"
)

var (
	mpcAccel   float64
	e2eAccel   float64
	vEgo       float64
	counter    int
	decEnabled bool
)

// blendCmd runs one blend cycle outside any control loop, from a tracker restored to
// the given point in the smoothing window.
var blendCmd = &cobra.Command{
	Use:   "blend",
	Short: "Evaluate one cycle of the MPC/end-to-end acceleration blend",
	Long: `Restores the smoothing window to --counter cycles into blended mode, runs one
blend cycle, and prints the commanded acceleration and the window progress after it.

With DEC disabled, or once the window has closed (counter equal to the configured
transition steps), the stronger of the two accelerations is returned unblended.`,
	Example: `  planner blend --mpc -1 --e2e -2 --v-ego 10 --counter 9`,
	Args:    cobra.NoArgs,
	RunE:    runBlend,
}

func init() {
	f := blendCmd.Flags()
	f.Float64Var(&mpcAccel, "mpc", 0, "MPC acceleration, m/s²")
	f.Float64Var(&e2eAccel, "e2e", 0, "end-to-end acceleration, m/s²")
	f.Float64Var(&vEgo, "v-ego", 0, "ego speed, m/s")
	f.IntVar(&counter, "counter", 0, "cycles already spent in the smoothing window")
	f.BoolVar(&decEnabled, "dec-enabled", true, "whether the dynamic experimental controller is enabled")
}

func runBlend(cmd *cobra.Command, args []string) error {
	steps := cfg.TransitionSteps
	if counter < 0 || counter > steps {
		return fmt.Errorf("counter must be within [0, %d], got %d", steps, counter)
	}

	tracker := transition.NewTrackerAt(steps, counter, transition.ModeBlended)
	b, err := blend.New(cfg.BlendLaw(), tracker)
	if err != nil {
		return err
	}
	final := b.Blend(mpcAccel, e2eAccel, vEgo, decEnabled)

	logger.Debug("blend",
		zap.Int("counter", tracker.Counter()),
		zap.Bool("dec_enabled", decEnabled),
		zap.Float64("final", final))
	fmt.Fprintf(cmd.OutOrStdout(), "%.6f %.2f\n", final, tracker.Progress())
	return nil
}
