// SPDX-License-Identifier: MIT

package npbn

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/katalvlaran/pavecost/dist"
	"github.com/katalvlaran/pavecost/matrix"
)

// SampleConditional draws n joint samples under the normal copula with the
// nodes in condIdx fixed to condValues.
//
// Implementation:
//   - Stage 1: validate shapes; build every marginal from its engine parameters.
//   - Stage 2: map the rank matrix to the product-moment scale; map each
//     condition value to z = Φ⁻¹(F(v)).
//   - Stage 3: μ = Σ_UC Σ_CC⁻¹ z_C and Σ_U|C = Σ_UU − Σ_UC Σ_CC⁻¹ Σ_CU.
//   - Stage 4: semidefinite Cholesky of Σ_U|C, draw z_U = μ + L·ε, return
//     F⁻¹(Φ(z_U)). Correlations of ±1 leave zero pivots; the dependent
//     nodes then follow their parents exactly.
//
// Returns one slice of length n per node in index order; conditioned nodes
// carry the constant value.
//
// Errors: ErrInvalidSampleSize, ErrInvalidCondition, ErrInvalidStructure,
// ErrInfeasible, and dist errors for bad marginals.
func (e *Engine) SampleConditional(condIdx []int, condValues []float64, rank *matrix.Dense, n int,
	families []dist.Family, params [][]float64) ([][]float64, error) {
	// Stage 1: validation.
	if n <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSampleSize, n)
	}
	if err := matrix.ValidateCorrelation(rank); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStructure, err)
	}
	d := rank.Rows()
	if len(families) != d || len(params) != d {
		return nil, fmt.Errorf("%w: %d nodes, %d families, %d parameter tuples",
			ErrInvalidStructure, d, len(families), len(params))
	}
	if len(condIdx) != len(condValues) {
		return nil, fmt.Errorf("%w: %d indices, %d values", ErrInvalidCondition, len(condIdx), len(condValues))
	}
	margins := make([]dist.Marginal, d)
	for i := range margins {
		m, err := dist.NewMarginal(families[i], params[i])
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", i, err)
		}
		margins[i] = m
	}
	fixed := make(map[int]float64, len(condIdx))
	for k, i := range condIdx {
		if i < 0 || i >= d {
			return nil, fmt.Errorf("%w: index %d", ErrInvalidCondition, i)
		}
		if _, dup := fixed[i]; dup {
			return nil, fmt.Errorf("%w: index %d conditioned twice", ErrInvalidCondition, i)
		}
		if math.IsNaN(condValues[k]) || math.IsInf(condValues[k], 0) {
			return nil, fmt.Errorf("%w: value %g", ErrInvalidCondition, condValues[k])
		}
		fixed[i] = condValues[k]
	}
	free := make([]int, 0, d-len(fixed))
	for i := 0; i < d; i++ {
		if _, ok := fixed[i]; !ok {
			free = append(free, i)
		}
	}

	out := make([][]float64, d)
	for i, v := range fixed {
		col := make([]float64, n)
		for s := range col {
			col[s] = v
		}
		out[i] = col
	}
	if len(free) == 0 {
		return out, nil
	}

	// Stage 2 and 3: conditional normal law of the free block.
	sigma, err := ToPearson(rank)
	if err != nil {
		return nil, err
	}
	mu, L, err := conditionalGaussian(sigma, condIdx, condValues, free, margins)
	if err != nil {
		return nil, err
	}

	// Stage 4: draws.
	for _, i := range free {
		out[i] = make([]float64, n)
	}
	z := make([]float64, len(free))
	x := make([]float64, len(free))
	e.mu.Lock()
	defer e.mu.Unlock()
	for s := 0; s < n; s++ {
		for k := range z {
			z[k] = e.rng.NormFloat64()
		}
		matrix.LowerMatVec(L, z, x)
		for k, i := range free {
			u := clampProb(distuv.UnitNormal.CDF(mu[k] + x[k]))
			out[i][s] = margins[i].Quantile(u)
		}
	}

	return out, nil
}

// conditionalGaussian returns the mean vector and a lower factor of the
// covariance of the free block given the conditioned block, on the normal
// scale. The covariance may be singular.
func conditionalGaussian(sigma *matrix.Dense, condIdx []int, condValues []float64, free []int,
	margins []dist.Marginal) ([]float64, *matrix.Dense, error) {
	suu, err := sigma.Induced(free, free)
	if err != nil {
		return nil, nil, err
	}
	mu := make([]float64, len(free))
	cov := suu
	if len(condIdx) > 0 {
		zc := make([]float64, len(condIdx))
		for k, i := range condIdx {
			zc[k] = distuv.UnitNormal.Quantile(clampProb(margins[i].CDF(condValues[k])))
		}
		scc, _ := sigma.Induced(condIdx, condIdx)
		suc, _ := sigma.Induced(free, condIdx)
		sccInv, err := matrix.Inverse(scc)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: conditioned block: %v", ErrInfeasible, err)
		}
		gain, _ := matrix.Mul(suc, sccInv) // Σ_UC Σ_CC⁻¹
		if mu, err = matrix.MatVec(gain, zc); err != nil {
			return nil, nil, err
		}
		scu, _ := matrix.Transpose(suc)
		reduce, _ := matrix.Mul(gain, scu)
		if cov, err = matrix.Sub(suu, reduce); err != nil {
			return nil, nil, err
		}
		if err = symmetrize(cov); err != nil {
			return nil, nil, err
		}
	}
	L, err := matrix.CholeskyPSD(cov, matrix.SemidefiniteTolerance)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInfeasible, err)
	}

	return mu, L, nil
}

// symmetrize replaces m by (m + mᵀ)/2 to absorb rounding in the Schur complement.
func symmetrize(m *matrix.Dense) error {
	n := m.Rows()
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			a, _ := m.At(i, j)
			b, _ := m.At(j, i)
			if err := m.SetSym(i, j, (a+b)/2); err != nil {
				return err
			}
		}
	}

	return nil
}

// clampProb keeps p inside [probClamp, 1−probClamp].
func clampProb(p float64) float64 {
	return math.Max(probClamp, math.Min(1-probClamp, p))
}
