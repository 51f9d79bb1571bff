package commands

import (
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/pavecost/ctxlog"
	"github.com/katalvlaran/pavecost/project"
)

// EstimateCmd creates the estimate command.
func EstimateCmd() *cobra.Command {
	var (
		flags   runFlags
		archive string
	)

	cmd := &cobra.Command{
		Use:   "estimate <project.yaml>",
		Short: "Run a Monte Carlo cost estimate for a project",
		Long: `Loads a project, conditions the dependency network on the known
characteristics, samples the free design variables and prints the cost
summary per element.

Examples:
  pavecost estimate examples/airport.yaml
  pavecost estimate -n 20000 --seed 7 --archive draws.csv.sz airport.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := interruptible(cmd.Context())
			defer stop()

			s, err := openSession(ctx, args[0], flags)
			if err != nil {
				return err
			}
			out, err := s.Run(ctx)
			if err != nil {
				return fmt.Errorf("estimate %s: %w", args[0], err)
			}

			w := cmd.OutOrStdout()
			in := s.Inputs()
			title(w, fmt.Sprintf("%s: code %s, %s airport", orDefault(in.Name, args[0]),
				out.Resolution.Code, out.Resolution.Size))
			warnings(w, out.Resolution.Warnings)
			warnings(w, out.Result.Warnings)
			renderSummary(w, out.Result)

			if archive == "" {
				return nil
			}
			f, err := os.Create(archive)
			if err != nil {
				return err
			}
			defer f.Close()
			columns := make([]string, 0, len(out.Vars))
			for name := range out.Vars {
				columns = append(columns, name)
			}
			slices.Sort(columns)
			if err := project.WriteSampleArchive(f, columns, out.Vars); err != nil {
				return fmt.Errorf("writing archive: %w", err)
			}
			ctxlog.FromContext(ctx).Info("design variables archived", "path", archive, "columns", len(columns))

			return f.Close()
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&archive, "archive", "", "Write the sampled design variables as snappy-compressed CSV")

	return cmd
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}

	return s
}
