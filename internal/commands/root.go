// Package commands implements the pavecost command line.
package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/pavecost/config"
	"github.com/katalvlaran/pavecost/ctxlog"
	"github.com/katalvlaran/pavecost/metrics"
)

// Version is stamped at build time.
var Version = "dev"

type settingsKey struct{}

// settings is what every subcommand needs besides its own flags.
type settings struct {
	cfg     *config.Config
	metrics *metrics.Registry
}

func settingsFrom(ctx context.Context) (*settings, error) {
	s, ok := ctx.Value(settingsKey{}).(*settings)
	if !ok {
		return nil, errors.New("commands: configuration not loaded")
	}

	return s, nil
}

// RootCmd creates and returns the root command for the pavecost CLI
func RootCmd() *cobra.Command {
	var (
		verbose    bool
		configFile string
	)

	cmd := &cobra.Command{
		Use:   "pavecost",
		Short: "Probabilistic airport pavement cost estimator",
		Long: `pavecost estimates the construction cost of airport pavements.

Design variables (runway length, apron area, movements, ...) are linked in a
dependency network with rank correlations. Known project characteristics
condition the network, the rest is sampled, and the draws are priced with a
Monte Carlo run:
• estimate  runs a project and prints the cost summary
• graph     shows nodes, edges, bounds and the correlation matrix
• export    writes the network as CSV
• charges   derives landing and passenger charges from the estimate`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(config.New(configFile))
			if err != nil {
				return err
			}
			level := cfg.Log.Level
			if verbose {
				level = "debug"
			}
			log, err := ctxlog.New(os.Stderr, cfg.Log.Format, level)
			if err != nil {
				return err
			}

			s := &settings{cfg: cfg}
			if cfg.Metrics.Enabled {
				s.metrics = metrics.NewRegistry()
			}
			ctx := ctxlog.WithLogger(cmd.Context(), log)
			cmd.SetContext(context.WithValue(ctx, settingsKey{}, s))

			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			s, err := settingsFrom(cmd.Context())
			if err != nil || s.metrics == nil {
				return err
			}
			if err := s.metrics.WriteText(cmd.ErrOrStderr()); err != nil {
				return fmt.Errorf("writing metrics: %w", err)
			}

			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Config file (default ./pavecost.yaml)")

	return cmd
}
