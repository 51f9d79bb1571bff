package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/pavecost/estimate"
	"github.com/katalvlaran/pavecost/project"
)

// runFlags override the configured simulation settings.
type runFlags struct {
	samples int
	seed    uint64
}

func (f *runFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&f.samples, "samples", "n", 0, "Number of Monte Carlo draws (default from config)")
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "Random seed, 0 for time-based (default from config)")
}

// openSession loads the project at path into a session configured from the
// resolved settings and flags.
func openSession(ctx context.Context, path string, f runFlags, extra ...estimate.Option) (*estimate.Session, error) {
	s, err := settingsFrom(ctx)
	if err != nil {
		return nil, err
	}
	state, err := project.Load(path)
	if err != nil {
		return nil, err
	}

	samples, seed := s.cfg.Simulation.Samples, s.cfg.Simulation.Seed
	if f.samples > 0 {
		samples = f.samples
	}
	if f.seed != 0 {
		seed = f.seed
	}
	opts := []estimate.Option{estimate.WithSamples(samples), estimate.WithSeed(seed)}
	if s.metrics != nil {
		opts = append(opts, estimate.WithMetrics(s.metrics))
	}

	return estimate.Open(state, append(opts, extra...)...)
}

// interruptible cancels ctx on SIGINT or SIGTERM so a run stops between stages.
func interruptible(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}
