// SPDX-License-Identifier: MIT

package core

import (
	"fmt"
	"slices"

	"github.com/katalvlaran/pavecost/dist"
)

// Replace swaps the whole structure for nodes in a single commit, so the
// derived data is recomputed once. Node order and parent order are kept as
// given; parents may appear after their children. RankCorr and Bounds of the
// given edges are ignored and recomputed.
//
// The same rules as the incremental edits apply: unique non-empty names,
// known families and parents, no duplicate edges, conditional values in [-1, 1] and no
// cycle. On error the network is unchanged.
func (n *Network) Replace(nodes []Node) error {
	return n.commit(modeStructure, Change{Kind: NetworkReplaced}, func() (bool, error) {
		names := make(map[string]struct{}, len(nodes))
		for _, nd := range nodes {
			if nd.Name == "" {
				return false, ErrEmptyName
			}
			if _, dup := names[nd.Name]; dup {
				return false, fmt.Errorf("%w: %q", ErrDuplicateName, nd.Name)
			}
			if nd.Distribution.Arity() == 0 {
				return false, fmt.Errorf("node %q: %w", nd.Name, dist.ErrUnknownFamily)
			}
			names[nd.Name] = struct{}{}
		}

		next := make([]*Node, 0, len(nodes))
		for _, src := range nodes {
			nd := src
			nd.ParamsSmall = slices.Clone(src.ParamsSmall)
			nd.ParamsLarge = slices.Clone(src.ParamsLarge)
			nd.Edges = make([]Edge, 0, len(src.Edges))
			if nd.Condition == "" {
				nd.Condition = NotApplicable
			}
			for _, e := range src.Edges {
				if _, ok := names[e.Parent]; !ok {
					return false, fmt.Errorf("%w: parent %q of %q", ErrNodeNotFound, e.Parent, nd.Name)
				}
				if nd.parentIndex(e.Parent) >= 0 {
					return false, fmt.Errorf("%w: %s→%s", ErrDuplicateEdge, e.Parent, nd.Name)
				}
				if err := checkUnit(e.Parent, nd.Name, e.CondRankCorr); err != nil {
					return false, err
				}
				nd.Edges = append(nd.Edges, Edge{Parent: e.Parent, Child: nd.Name, CondRankCorr: e.CondRankCorr})
			}
			next = append(next, &nd)
		}
		n.nodes = next

		return true, nil
	})
}
