// SPDX-License-Identifier: MIT

package npbn

import (
	"fmt"
	"math"

	"github.com/katalvlaran/pavecost/matrix"
)

// RankToPearson maps a Spearman rank correlation to the product-moment
// correlation of the underlying normal copula: r = 2·sin(π·rs/6).
func RankToPearson(rs float64) float64 {
	return 2 * math.Sin(math.Pi*rs/6)
}

// PearsonToRank is the inverse of RankToPearson: rs = (6/π)·asin(r/2).
// The argument is clamped to [-1, 1] first.
func PearsonToRank(r float64) float64 {
	return 6 / math.Pi * math.Asin(clampUnit(r)/2)
}

// clampUnit clips v into [-1, 1].
func clampUnit(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}

// ToPearson converts a rank correlation matrix element-wise. The diagonal is
// left at 1.
func ToPearson(rank *matrix.Dense) (*matrix.Dense, error) {
	return mapOffDiagonal(rank, RankToPearson)
}

// ToRank converts a product-moment correlation matrix element-wise.
func ToRank(pearson *matrix.Dense) (*matrix.Dense, error) {
	return mapOffDiagonal(pearson, PearsonToRank)
}

func mapOffDiagonal(m *matrix.Dense, fn func(float64) float64) (*matrix.Dense, error) {
	if err := matrix.ValidateSquare(m); err != nil {
		return nil, err
	}
	out := m.Clone()
	n := m.Rows()
	for i := 0; i < n; i++ {
		if err := out.Set(i, i, 1); err != nil {
			return nil, err
		}
		for j := i + 1; j < n; j++ {
			v, _ := m.At(i, j)
			if err := out.SetSym(i, j, fn(v)); err != nil {
				return nil, err
			}
		}
	}

	return out, nil
}

// ConditionalTerms returns the offset B and the squared half-width A of the
// linear map between the partial correlation of (child, parent) given prior
// and their unconditional correlation, on the product-moment scale:
//
//	r(child, parent) = ρ(child, parent | prior)·√A + B
//	B = r_cS Σ_SS⁻¹ r_Sp
//	A = (1 − r_cS Σ_SS⁻¹ r_Sc)·(1 − r_pS Σ_SS⁻¹ r_Sp)
//
// With an empty prior set, B = 0 and A = 1.
//
// Complexity: O(|S|^3) for the solve.
func ConditionalTerms(sigma *matrix.Dense, child int, prior []int, parent int) (b, a float64, err error) {
	if len(prior) == 0 {
		return 0, 1, nil
	}
	sss, err := sigma.Induced(prior, prior)
	if err != nil {
		return 0, 0, fmt.Errorf("npbn: conditional terms: %w", err)
	}
	rc, err := column(sigma, prior, child)
	if err != nil {
		return 0, 0, err
	}
	rp, err := column(sigma, prior, parent)
	if err != nil {
		return 0, 0, err
	}
	xp, err := matrix.Solve(sss, rp)
	if err != nil {
		return 0, 0, fmt.Errorf("npbn: conditional terms: %w", err)
	}
	xc, err := matrix.Solve(sss, rc)
	if err != nil {
		return 0, 0, fmt.Errorf("npbn: conditional terms: %w", err)
	}
	b, _ = matrix.Dot(rc, xp)
	cc, _ := matrix.Dot(rc, xc)
	pp, _ := matrix.Dot(rp, xp)
	a = (1 - cc) * (1 - pp)
	if a < 0 {
		a = 0
	}

	return b, a, nil
}

// column reads sigma[rows[k], col] into a vector.
func column(sigma *matrix.Dense, rows []int, col int) ([]float64, error) {
	out := make([]float64, len(rows))
	for k, r := range rows {
		v, err := sigma.At(r, col)
		if err != nil {
			return nil, fmt.Errorf("npbn: %w", err)
		}
		out[k] = v
	}

	return out, nil
}
