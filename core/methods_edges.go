// File: methods_edges.go
// Role: Edge lifecycle: AddEdge/RemoveEdge/ReverseEdge and parent reordering.
// Determinism:
//   - A new edge becomes the child's last parent.
//   - ReverseEdge appends the flipped edge as the old parent's last parent.
// Invariant:
//   - AddEdge and ReverseEdge run under modeStructure, so a cyclic result is
//     rejected with ErrCycleRejected and the network is restored.

package core

import (
	"fmt"
	"slices"
)

// AddEdge inserts parent→child with a zero conditional correlation.
//
// Errors:
//   - ErrNodeNotFound for unknown endpoints.
//   - ErrDuplicateEdge if parent→child exists.
//   - ErrCycleRejected if the edge closes a cycle (self-loops included).
//
// Complexity: O(V + E) plus one recomputation.
func (n *Network) AddEdge(parent, child string) error {
	return n.commit(modeStructure, Change{Kind: EdgeAdded, Parent: parent, Child: child}, func() (bool, error) {
		ci := n.indexOf(child)
		if ci < 0 {
			return false, fmt.Errorf("%w: %q", ErrNodeNotFound, child)
		}
		if n.indexOf(parent) < 0 {
			return false, fmt.Errorf("%w: %q", ErrNodeNotFound, parent)
		}
		if n.nodes[ci].parentIndex(parent) >= 0 {
			return false, fmt.Errorf("%w: %s→%s", ErrDuplicateEdge, parent, child)
		}
		n.nodes[ci].Edges = append(n.nodes[ci].Edges, Edge{Parent: parent, Child: child})

		return true, nil
	})
}

// RemoveEdge deletes parent→child. The child's other parents keep their order.
func (n *Network) RemoveEdge(parent, child string) error {
	return n.commit(modeRecompute, Change{Kind: EdgeRemoved, Parent: parent, Child: child}, func() (bool, error) {
		ci, j, err := n.edgeAt(parent, child)
		if err != nil {
			return false, err
		}
		n.nodes[ci].Edges = slices.Delete(n.nodes[ci].Edges, j, j+1)

		return true, nil
	})
}

// ReverseEdge replaces parent→child by child→parent.
//
// The conditional correlation is carried over unchanged; it is not converted
// to preserve the observed value. Callers that want the observed value kept
// read it beforehand and call ChangeObservedCorrelation on the flipped edge.
//
// Errors: ErrNodeNotFound, ErrEdgeNotFound, ErrCycleRejected.
func (n *Network) ReverseEdge(parent, child string) error {
	return n.commit(modeStructure, Change{Kind: EdgeReversed, Parent: parent, Child: child}, func() (bool, error) {
		ci, j, err := n.edgeAt(parent, child)
		if err != nil {
			return false, err
		}
		old := n.nodes[ci].Edges[j]
		n.nodes[ci].Edges = slices.Delete(n.nodes[ci].Edges, j, j+1)
		pi := n.indexOf(parent)
		n.nodes[pi].Edges = append(n.nodes[pi].Edges, Edge{
			Parent:       child,
			Child:        parent,
			CondRankCorr: old.CondRankCorr,
		})

		return true, nil
	})
}

// ChangeParentOrder moves one incoming edge of a child to another parent
// position. Positions index the flattened edge overview (EdgeOverview), and
// both must fall inside the same child's block.
//
// Errors: ErrPositionOutOfRange, ErrParentOrderCrossesChild.
func (n *Network) ChangeParentOrder(sourcePos, targetPos int) error {
	return n.commit(modeRecompute, Change{Kind: ParentOrderChanged}, func() (bool, error) {
		src, err := n.locateFlat(sourcePos)
		if err != nil {
			return false, err
		}
		dst, err := n.locateFlat(targetPos)
		if err != nil {
			return false, err
		}
		if src.node != dst.node {
			return false, fmt.Errorf("%w: %q vs %q", ErrParentOrderCrossesChild,
				n.nodes[src.node].Name, n.nodes[dst.node].Name)
		}
		if src.pos == dst.pos {
			return false, nil
		}
		nd := n.nodes[src.node]
		e := nd.Edges[src.pos]
		nd.Edges = slices.Delete(nd.Edges, src.pos, src.pos+1)
		nd.Edges = slices.Insert(nd.Edges, dst.pos, e)
		nd.ParentOrderVersion++

		return true, nil
	})
}

// flatRef addresses one edge of the flattened overview.
type flatRef struct {
	node int // child index
	pos  int // parent position within the child
}

// locateFlat maps a flattened edge position to (child, parent position).
func (n *Network) locateFlat(flat int) (flatRef, error) {
	if flat >= 0 {
		k := flat
		for i, nd := range n.nodes {
			if k < len(nd.Edges) {
				return flatRef{node: i, pos: k}, nil
			}
			k -= len(nd.Edges)
		}
	}

	return flatRef{}, fmt.Errorf("%w: edge position %d", ErrPositionOutOfRange, flat)
}
