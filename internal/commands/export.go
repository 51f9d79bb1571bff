package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/pavecost/ctxlog"
	"github.com/katalvlaran/pavecost/project"
)

// ExportCmd creates the export command.
func ExportCmd() *cobra.Command {
	var (
		dir    string
		format string
	)

	cmd := &cobra.Command{
		Use:   "export <project.yaml>",
		Short: "Export the network as CSV or convert the project file",
		Long: `Writes nodes.csv, edges.csv and matrix.csv into the output directory.
With --format the project itself is re-encoded as yaml or json instead.

Examples:
  pavecost export -o out/ airport.yaml
  pavecost export --format json -o out/ airport.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := settingsFrom(cmd.Context()); err != nil {
				return err
			}
			log := ctxlog.FromContext(cmd.Context())
			state, err := project.Load(args[0])
			if err != nil {
				return err
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}

			if format != "" {
				base := filepath.Base(args[0])
				path := filepath.Join(dir, base[:len(base)-len(filepath.Ext(base))]+"."+format)
				if err := project.Save(path, state); err != nil {
					return err
				}
				log.Info("project written", "path", path)
				return nil
			}

			net, err := state.Network()
			if err != nil {
				return err
			}
			files := []struct {
				name  string
				write func(f *os.File) error
			}{
				{"nodes.csv", func(f *os.File) error { return project.WriteNodesCSV(f, net.Nodes()) }},
				{"edges.csv", func(f *os.File) error { return project.WriteEdgesCSV(f, net.EdgeOverview()) }},
				{"matrix.csv", func(f *os.File) error {
					return project.WriteMatrixCSV(f, net.NodeNames(), net.CorrelationMatrix())
				}},
			}
			for _, file := range files {
				path := filepath.Join(dir, file.name)
				if err := writeFile(path, file.write); err != nil {
					return fmt.Errorf("export %s: %w", path, err)
				}
				log.Info("exported", "path", path)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "output", "o", ".", "Output directory")
	cmd.Flags().StringVar(&format, "format", "", "Re-encode the project as yaml or json")

	return cmd
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}
