package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/pavecost/project"
)

// GraphCmd creates the graph command.
func GraphCmd() *cobra.Command {
	var showMatrix bool

	cmd := &cobra.Command{
		Use:   "graph <project.yaml>",
		Short: "Show the dependency network of a project",
		Long: `Prints the nodes with their distributions, the edges with conditional
and observed rank correlations and the feasible range of each observed value,
and optionally the completed rank correlation matrix.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := settingsFrom(cmd.Context()); err != nil {
				return err
			}
			state, err := project.Load(args[0])
			if err != nil {
				return err
			}
			net, err := state.Network()
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			title(w, fmt.Sprintf("Nodes (%d)", net.Len()))
			renderNodes(w, net.Nodes())
			rows := net.EdgeOverview()
			title(w, fmt.Sprintf("Edges (%d)", len(rows)))
			renderEdges(w, rows)
			if showMatrix {
				title(w, "Rank correlation matrix")
				renderMatrix(w, net.NodeNames(), net.CorrelationMatrix())
			}

			return nil
		},
	}

	cmd.Flags().BoolVarP(&showMatrix, "matrix", "m", false, "Also print the correlation matrix")

	return cmd
}
