// SPDX-License-Identifier: MIT

package npbn

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/katalvlaran/pavecost/dfs"
	"github.com/katalvlaran/pavecost/matrix"
)

// feasTol is the slack allowed on residual variances and |r| <= 1 checks.
const feasTol = 1e-9

// CompleteCorrelationMatrix returns the rank correlation matrix implied by a
// DAG whose edges carry conditional rank correlations.
//
// Inputs:
//   - parents[i]: indices of node i's parents, in parent order.
//   - condRankCorrs[i][j]: conditional rank correlation of parent j of node i
//     given parents 0..j-1.
//   - names: node names, used for error messages only.
//
// Implementation:
//   - Stage 1: validate shapes and indices; compute a topological order with dfs.
//   - Stage 2: for each node c in that order, rebuild r(c, p_j) from the
//     conditional correlation via ConditionalTerms over p_1..p_{j-1}.
//   - Stage 3: regress c on its parents; every other processed node x gets
//     r(c, x) = Σ_j b_j·r(p_j, x), i.e. c ⟂ x | parents.
//   - Stage 4: reject negative residual variance; map back to rank scale.
//
// Complexity:
//   - Time O(V·(k^4 + V·k)) with k the maximal in-degree, Space O(V^2).
func (e *Engine) CompleteCorrelationMatrix(parents [][]int, condRankCorrs [][]float64, names []string) (*matrix.Dense, error) {
	n := len(parents)
	if len(condRankCorrs) != n || len(names) != n {
		return nil, fmt.Errorf("%w: %d parent lists, %d correlation lists, %d names",
			ErrInvalidStructure, n, len(condRankCorrs), len(names))
	}
	// Stage 1: validation and ordering.
	g := dfs.NewAdjacency()
	for i := 0; i < n; i++ {
		g.AddVertex(strconv.Itoa(i))
	}
	for c, ps := range parents {
		if len(ps) != len(condRankCorrs[c]) {
			return nil, fmt.Errorf("%w: node %q has %d parents and %d correlations",
				ErrInvalidStructure, names[c], len(ps), len(condRankCorrs[c]))
		}
		seen := make(map[int]struct{}, len(ps))
		for j, p := range ps {
			if p < 0 || p >= n || p == c {
				return nil, fmt.Errorf("%w: node %q parent index %d", ErrInvalidStructure, names[c], p)
			}
			if _, dup := seen[p]; dup {
				return nil, fmt.Errorf("%w: node %q lists parent %q twice", ErrInvalidStructure, names[c], names[p])
			}
			seen[p] = struct{}{}
			if rc := condRankCorrs[c][j]; math.IsNaN(rc) || rc < -1 || rc > 1 {
				return nil, fmt.Errorf("%w: %q→%q conditional correlation %g", ErrInvalidStructure, names[p], names[c], rc)
			}
			g.AddEdge(strconv.Itoa(p), strconv.Itoa(c))
		}
	}
	order, err := dfs.TopologicalSort(g)
	if err != nil {
		if errors.Is(err, dfs.ErrCycleDetected) {
			return nil, fmt.Errorf("%w: %v", ErrCycle, err)
		}

		return nil, err
	}

	sigma, _ := matrix.NewIdentity(n)
	processed := make([]int, 0, n)
	for _, id := range order {
		c, _ := strconv.Atoi(id)
		if err = completeNode(sigma, c, parents[c], condRankCorrs[c], processed); err != nil {
			return nil, fmt.Errorf("node %q: %w", names[c], err)
		}
		processed = append(processed, c)
	}

	return ToRank(sigma)
}

// completeNode fills row/column c of sigma against every processed node.
func completeNode(sigma *matrix.Dense, c int, ps []int, rcs []float64, processed []int) error {
	k := len(ps)
	if k == 0 {
		// root: independent of everything processed so far (identity already)
		return nil
	}
	// Stage 2: unconditional correlations to the parents.
	rPc := make([]float64, k)
	for j, p := range ps {
		b, a, err := ConditionalTerms(sigma, c, ps[:j], p)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInfeasible, err)
		}
		r := RankToPearson(rcs[j])*math.Sqrt(a) + b
		if math.Abs(r) > 1+feasTol {
			return fmt.Errorf("%w: correlation %g to parent %d", ErrInfeasible, r, p)
		}
		r = clampUnit(r)
		rPc[j] = r
		if err = sigma.SetSym(c, p, r); err != nil {
			return err
		}
	}
	// Stage 3: regression on the parents.
	spp, err := sigma.Induced(ps, ps)
	if err != nil {
		return err
	}
	beta, err := matrix.Solve(spp, rPc)
	if err != nil {
		return fmt.Errorf("%w: parents are collinear: %v", ErrInfeasible, err)
	}
	explained, _ := matrix.Dot(beta, rPc)
	if 1-explained < -feasTol {
		return fmt.Errorf("%w: residual variance %g", ErrInfeasible, 1-explained)
	}
	isParent := make(map[int]struct{}, k)
	for _, p := range ps {
		isParent[p] = struct{}{}
	}
	for _, x := range processed {
		if _, ok := isParent[x]; ok {
			continue
		}
		var r float64
		for j, p := range ps {
			v, _ := sigma.At(p, x)
			r += beta[j] * v
		}
		if math.Abs(r) > 1+feasTol {
			return fmt.Errorf("%w: implied correlation %g", ErrInfeasible, r)
		}
		if err = sigma.SetSym(c, x, clampUnit(r)); err != nil {
			return err
		}
	}

	return nil
}
