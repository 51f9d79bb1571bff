// SPDX-License-Identifier: MIT
//
// File: methods_correlation.go
// Role: Correlation bookkeeping: matrix completion through the engine,
//       per-edge feasibility bounds, observed ↔ conditional conversion and
//       the two correlation edits.
// Scale conventions:
//   - Stored values (RankCorr, CondRankCorr, Bounds) are rank correlations.
//   - The algebra runs on the product-moment scale of the normal copula
//     (npbn.RankToPearson / npbn.PearsonToRank).

package core

import (
	"fmt"
	"math"

	"github.com/katalvlaran/pavecost/matrix"
	"github.com/katalvlaran/pavecost/npbn"
)

const (
	// boundsTol absorbs rounding when comparing an edit against its interval.
	boundsTol = 1e-12
	// degenerateA marks an edge fully determined by the child's earlier parents.
	degenerateA = 1e-15
)

// CalculateCorrelationMatrix asks the engine for the rank correlation matrix
// of the current structure, caches it and returns a copy.
// With zero nodes it returns an empty matrix without calling the engine.
func (n *Network) CalculateCorrelationMatrix() (*matrix.Dense, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.completeMatrix(); err != nil {
		return nil, err
	}

	return n.rank.Clone(), nil
}

// CalculateCorrelationBounds recomputes Bounds and RankCorr of every edge
// from the cached matrix.
//
// For the j-th parent p_j of child c, with S = {p_1..p_{j-1}}:
//
//	B = r_cS Σ_SS⁻¹ r_Sp,  A = (1 − r_cS Σ_SS⁻¹ r_Sc)(1 − r_pS Σ_SS⁻¹ r_Sp)
//	bounds = [B − √A, B + √A] on the product-moment scale, mapped to ranks.
//
// A child's first parent always gets [-1, 1].
func (n *Network) CalculateCorrelationBounds() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.computeBounds(); err != nil {
		return err
	}
	n.overview = n.buildOverview()

	return nil
}

// CalculateConditionalCorrelation converts an observed rank correlation of
// parent→child into the conditional rank correlation to store, given the
// child's earlier parents in their current order: ρ = (r − B)/√A.
// When the earlier parents fully determine the pair, the result is 0.
func (n *Network) CalculateConditionalCorrelation(parent, child string, observed float64) (float64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	b, a, err := n.terms(parent, child)
	if err != nil {
		return 0, err
	}

	return toConditional(observed, b, a), nil
}

// ObservedCorrelation is the inverse of CalculateConditionalCorrelation:
// r = ρ·√A + B.
func (n *Network) ObservedCorrelation(parent, child string, cond float64) (float64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	b, a, err := n.terms(parent, child)
	if err != nil {
		return 0, err
	}

	return npbn.PearsonToRank(npbn.RankToPearson(cond)*math.Sqrt(a) + b), nil
}

// ChangeObservedCorrelation sets the observed rank correlation of
// parent→child. Values outside the edge's current Bounds are rejected with a
// *BoundsError and nothing changes; otherwise the value is converted to its
// conditional counterpart and committed with a full recomputation.
func (n *Network) ChangeObservedCorrelation(parent, child string, value float64) error {
	return n.commit(modeRecompute, Change{Kind: CorrelationChanged, Parent: parent, Child: child}, func() (bool, error) {
		ci, j, err := n.edgeAt(parent, child)
		if err != nil {
			return false, err
		}
		e := &n.nodes[ci].Edges[j]
		if math.IsNaN(value) || !e.Bounds.Contains(value, boundsTol) {
			return false, &BoundsError{Parent: parent, Child: child, Value: value, Low: e.Bounds.Low, High: e.Bounds.High}
		}
		b, a, err := n.terms(parent, child)
		if err != nil {
			return false, err
		}
		e.CondRankCorr = toConditional(value, b, a)

		return true, nil
	})
}

// ChangeConditionalCorrelation stores a conditional rank correlation
// directly. Any value in [-1, 1] is feasible.
func (n *Network) ChangeConditionalCorrelation(parent, child string, value float64) error {
	return n.commit(modeRecompute, Change{Kind: CorrelationChanged, Parent: parent, Child: child}, func() (bool, error) {
		ci, j, err := n.edgeAt(parent, child)
		if err != nil {
			return false, err
		}
		if err = checkUnit(parent, child, value); err != nil {
			return false, err
		}
		n.nodes[ci].Edges[j].CondRankCorr = value

		return true, nil
	})
}

// ---------- internal (mu held) ----------

// checkUnit rejects conditional correlations outside [-1, 1].
func checkUnit(parent, child string, v float64) error {
	if math.IsNaN(v) || v < -1 || v > 1 {
		return &BoundsError{Parent: parent, Child: child, Value: v, Low: -1, High: 1}
	}

	return nil
}

// toConditional maps an observed rank correlation through ρ = (r − B)/√A.
func toConditional(observed, b, a float64) float64 {
	if a < degenerateA {
		return 0
	}
	rho := (npbn.RankToPearson(observed) - b) / math.Sqrt(a)

	return npbn.PearsonToRank(rho)
}

// recompute rebuilds the matrix, bounds and overview.
func (n *Network) recompute() error {
	if err := n.completeMatrix(); err != nil {
		return err
	}
	if err := n.computeBounds(); err != nil {
		return err
	}
	n.overview = n.buildOverview()

	return nil
}

// completeMatrix flattens the structure and calls the engine.
func (n *Network) completeMatrix() error {
	size := len(n.nodes)
	if size == 0 {
		n.rank, _ = matrix.NewDense(0, 0)
		return nil
	}
	parents, corrs := n.flatten()
	rank, err := n.engine.CompleteCorrelationMatrix(parents, corrs, n.names())
	if err != nil {
		return fmt.Errorf("core: complete correlation matrix: %w", err)
	}
	if rank == nil || rank.Rows() != size || rank.Cols() != size {
		return fmt.Errorf("core: complete correlation matrix: %w", matrix.ErrDimensionMismatch)
	}
	n.rank = rank

	return nil
}

// flatten returns parent indices and conditional correlations in node order.
func (n *Network) flatten() ([][]int, [][]float64) {
	index := make(map[string]int, len(n.nodes))
	for i, nd := range n.nodes {
		index[nd.Name] = i
	}
	parents := make([][]int, len(n.nodes))
	corrs := make([][]float64, len(n.nodes))
	for i, nd := range n.nodes {
		parents[i] = make([]int, len(nd.Edges))
		corrs[i] = make([]float64, len(nd.Edges))
		for j, e := range nd.Edges {
			parents[i][j] = index[e.Parent]
			corrs[i][j] = e.CondRankCorr
		}
	}

	return parents, corrs
}

// computeBounds refreshes Bounds and RankCorr of every edge.
func (n *Network) computeBounds() error {
	if len(n.nodes) == 0 {
		return nil
	}
	pm, err := npbn.ToPearson(n.rank)
	if err != nil {
		return fmt.Errorf("core: bounds: %w", err)
	}
	parents, _ := n.flatten()
	for ci, nd := range n.nodes {
		for j := range nd.Edges {
			pj := parents[ci][j]
			b, a, err := npbn.ConditionalTerms(pm, ci, parents[ci][:j], pj)
			if err != nil {
				return fmt.Errorf("core: bounds %s→%s: %w", nd.Edges[j].Parent, nd.Name, err)
			}
			half := math.Sqrt(a)
			nd.Edges[j].Bounds = Bounds{
				Low:  npbn.PearsonToRank(b - half),
				High: npbn.PearsonToRank(b + half),
			}
			nd.Edges[j].RankCorr, _ = n.rank.At(ci, pj)
		}
	}

	return nil
}

// terms returns (B, A) for parent→child from the cached matrix.
func (n *Network) terms(parent, child string) (float64, float64, error) {
	ci, j, err := n.edgeAt(parent, child)
	if err != nil {
		return 0, 0, err
	}
	pm, err := npbn.ToPearson(n.rank)
	if err != nil {
		return 0, 0, err
	}
	parents, _ := n.flatten()
	b, a, err := npbn.ConditionalTerms(pm, ci, parents[ci][:j], parents[ci][j])
	if err != nil {
		return 0, 0, fmt.Errorf("core: %s→%s: %w", parent, child, err)
	}

	return b, a, nil
}
