// SPDX-License-Identifier: MIT

// Package matrix - linear algebra kernels.
//
// Purpose:
//   - Products, transposes and differences used to assemble Schur complements.
//   - LU/Inverse/Solve for general square systems (Doolittle, no pivoting).
//   - Cholesky/CholeskySolve for the symmetric positive-definite systems that
//     dominate correlation work.
//
// Determinism:
//   - Fixed loop orders everywhere; identical inputs give identical outputs.

package matrix

import (
	"fmt"
	"math"
)

// Operation tags used to wrap sentinel errors.
const (
	opMul       = "Mul"
	opMatVec    = "MatVec"
	opSub       = "Sub"
	opLU        = "LU"
	opInverse   = "Inverse"
	opSolve     = "Solve"
	opCholesky  = "Cholesky"
	opCholSolve = "CholeskySolve"
	opCholPSD   = "CholeskyPSD"
)

// matrixErrorf wraps a sentinel with the canonical operation tag.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// Mul returns a×b.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch (a.Cols != b.Rows).
//
// Complexity:
//   - Time O(r*k*c), Space O(r*c).
func Mul(a, b *Dense) (*Dense, error) {
	if a == nil || b == nil {
		return nil, matrixErrorf(opMul, ErrNilMatrix)
	}
	if a.c != b.r {
		return nil, matrixErrorf(opMul, ErrDimensionMismatch)
	}
	out, _ := NewDense(a.r, b.c)
	var i, j, k int
	var aik float64
	for i = 0; i < a.r; i++ {
		for k = 0; k < a.c; k++ {
			aik = a.at(i, k)
			if aik == 0 {
				continue
			}
			for j = 0; j < b.c; j++ {
				out.data[i*out.c+j] += aik * b.at(k, j)
			}
		}
	}

	return out, nil
}

// MatVec returns m·x.
func MatVec(m *Dense, x []float64) ([]float64, error) {
	if m == nil {
		return nil, matrixErrorf(opMatVec, ErrNilMatrix)
	}
	if len(x) != m.c {
		return nil, matrixErrorf(opMatVec, ErrDimensionMismatch)
	}
	out := make([]float64, m.r)
	for i := 0; i < m.r; i++ {
		var sum float64
		for j := 0; j < m.c; j++ {
			sum += m.at(i, j) * x[j]
		}
		out[i] = sum
	}

	return out, nil
}

// Transpose returns mᵀ.
func Transpose(m *Dense) (*Dense, error) {
	if m == nil {
		return nil, ErrNilMatrix
	}
	out, _ := NewDense(m.c, m.r)
	for i := 0; i < m.r; i++ {
		for j := 0; j < m.c; j++ {
			out.set(j, i, m.at(i, j))
		}
	}

	return out, nil
}

// Sub returns a−b for equally shaped matrices.
func Sub(a, b *Dense) (*Dense, error) {
	if a == nil || b == nil {
		return nil, matrixErrorf(opSub, ErrNilMatrix)
	}
	if a.r != b.r || a.c != b.c {
		return nil, matrixErrorf(opSub, ErrDimensionMismatch)
	}
	out := a.Clone()
	for i := range out.data {
		out.data[i] -= b.data[i]
	}

	return out, nil
}

// Dot returns the inner product of two equally sized vectors.
func Dot(x, y []float64) (float64, error) {
	if len(x) != len(y) {
		return 0, ErrDimensionMismatch
	}
	var s float64
	for i := range x {
		s += x[i] * y[i]
	}

	return s, nil
}

// LU computes the Doolittle factorization A = L*U with unit diagonal on L (no pivoting).
//
// Implementation:
//   - Stage 1: validate square; allocate L,U; set diag(L)=1.
//   - Stage 2: for i=0..n-1 build row i of U, then column i of L.
//
// Errors:
//   - ErrNilMatrix, ErrNonSquare, ErrSingular (zero pivot).
//
// Complexity:
//   - Time O(n^3), Space O(n^2).
func LU(m *Dense) (*Dense, *Dense, error) {
	if err := ValidateSquare(m); err != nil {
		return nil, nil, matrixErrorf(opLU, err)
	}
	n := m.r
	L, _ := NewIdentity(n)
	U, _ := NewDense(n, n)
	var i, j, k int
	var sum float64
	for i = 0; i < n; i++ {
		for j = i; j < n; j++ {
			sum = 0
			for k = 0; k < i; k++ {
				sum += L.at(i, k) * U.at(k, j)
			}
			U.set(i, j, m.at(i, j)-sum)
		}
		if U.at(i, i) == 0 {
			return nil, nil, matrixErrorf(opLU, ErrSingular)
		}
		for j = i + 1; j < n; j++ {
			sum = 0
			for k = 0; k < i; k++ {
				sum += L.at(j, k) * U.at(k, i)
			}
			L.set(j, i, (m.at(j, i)-sum)/U.at(i, i))
		}
	}

	return L, U, nil
}

// luSolve solves L*U*x = b by forward then backward substitution.
func luSolve(L, U *Dense, b []float64) []float64 {
	n := L.r
	y := make([]float64, n)
	x := make([]float64, n)
	var i, k int
	var sum float64
	for i = 0; i < n; i++ {
		sum = 0
		for k = 0; k < i; k++ {
			sum += L.at(i, k) * y[k]
		}
		y[i] = b[i] - sum
	}
	for i = n - 1; i >= 0; i-- {
		sum = 0
		for k = i + 1; k < n; k++ {
			sum += U.at(i, k) * x[k]
		}
		x[i] = (y[i] - sum) / U.at(i, i)
	}

	return x
}

// Solve returns x such that m·x = b.
func Solve(m *Dense, b []float64) ([]float64, error) {
	if err := ValidateSquare(m); err != nil {
		return nil, matrixErrorf(opSolve, err)
	}
	if len(b) != m.r {
		return nil, matrixErrorf(opSolve, ErrDimensionMismatch)
	}
	if m.r == 0 {
		return []float64{}, nil
	}
	L, U, err := LU(m)
	if err != nil {
		return nil, matrixErrorf(opSolve, err)
	}

	return luSolve(L, U, b), nil
}

// Inverse computes m⁻¹ via LU and n triangular solves.
//
// Errors:
//   - ErrNilMatrix, ErrNonSquare, ErrSingular.
//
// Complexity:
//   - Time O(n^3), Space O(n^2).
//
// Notes:
//   - For correlation matrices prefer CholeskySolve; Inverse is kept for the
//     Schur complement where the full inverse of a small block is reused.
func Inverse(m *Dense) (*Dense, error) {
	if err := ValidateSquare(m); err != nil {
		return nil, matrixErrorf(opInverse, err)
	}
	n := m.r
	inv, _ := NewDense(n, n)
	if n == 0 {
		return inv, nil
	}
	L, U, err := LU(m)
	if err != nil {
		return nil, matrixErrorf(opInverse, err)
	}
	e := make([]float64, n)
	for col := 0; col < n; col++ {
		for i := range e {
			e[i] = 0
		}
		e[col] = 1
		x := luSolve(L, U, e)
		for i := 0; i < n; i++ {
			inv.set(i, col, x[i])
		}
	}

	return inv, nil
}

// Cholesky returns the lower-triangular L with m = L·Lᵀ.
//
// Implementation:
//   - Stage 1: validate square and symmetric within DefaultEpsilon.
//   - Stage 2: column-by-column Cholesky–Banachiewicz; a pivot <= tol fails.
//
// Behavior highlights:
//   - A pivot in (−tol, tol] is treated as rank deficiency and rejected;
//     callers that accept semi-definite input add a jitter first.
//
// Errors:
//   - ErrNilMatrix, ErrNonSquare, ErrAsymmetry, ErrNotPositiveDefinite.
//
// Complexity:
//   - Time O(n^3/3), Space O(n^2).
func Cholesky(m *Dense) (*Dense, error) {
	if err := ValidateSymmetric(m, DefaultEpsilon); err != nil {
		return nil, matrixErrorf(opCholesky, err)
	}
	n := m.r
	L, _ := NewDense(n, n)
	var i, j, k int
	var sum float64
	for j = 0; j < n; j++ {
		sum = m.at(j, j)
		for k = 0; k < j; k++ {
			sum -= L.at(j, k) * L.at(j, k)
		}
		if sum <= PivotTolerance {
			return nil, matrixErrorf(opCholesky, fmt.Errorf("pivot %d = %g: %w", j, sum, ErrNotPositiveDefinite))
		}
		d := math.Sqrt(sum)
		L.set(j, j, d)
		for i = j + 1; i < n; i++ {
			sum = m.at(i, j)
			for k = 0; k < j; k++ {
				sum -= L.at(i, k) * L.at(j, k)
			}
			L.set(i, j, sum/d)
		}
	}

	return L, nil
}

// CholeskyPSD factors a symmetric positive semi-definite m as L·Lᵀ.
// A pivot within [-tol, tol] is taken as zero and its column of L is left
// zero, so perfectly dependent directions collapse instead of failing; a
// pivot below -tol still reports ErrNotPositiveDefinite. L is not
// invertible when a pivot was dropped: use it for draws, not CholeskySolve.
func CholeskyPSD(m *Dense, tol float64) (*Dense, error) {
	if err := ValidateSymmetric(m, DefaultEpsilon); err != nil {
		return nil, matrixErrorf(opCholPSD, err)
	}
	n := m.r
	L, _ := NewDense(n, n)
	var i, j, k int
	var sum float64
	for j = 0; j < n; j++ {
		sum = m.at(j, j)
		for k = 0; k < j; k++ {
			sum -= L.at(j, k) * L.at(j, k)
		}
		if sum < -tol {
			return nil, matrixErrorf(opCholPSD, fmt.Errorf("pivot %d = %g: %w", j, sum, ErrNotPositiveDefinite))
		}
		if sum <= tol {
			continue // column j stays zero
		}
		d := math.Sqrt(sum)
		L.set(j, j, d)
		for i = j + 1; i < n; i++ {
			sum = m.at(i, j)
			for k = 0; k < j; k++ {
				sum -= L.at(i, k) * L.at(j, k)
			}
			L.set(i, j, sum/d)
		}
	}

	return L, nil
}

// CholeskySolve solves (L·Lᵀ)·x = b given the Cholesky factor L.
func CholeskySolve(L *Dense, b []float64) ([]float64, error) {
	if err := ValidateSquare(L); err != nil {
		return nil, matrixErrorf(opCholSolve, err)
	}
	n := L.r
	if len(b) != n {
		return nil, matrixErrorf(opCholSolve, ErrDimensionMismatch)
	}
	y := make([]float64, n)
	x := make([]float64, n)
	var i, k int
	var sum float64
	for i = 0; i < n; i++ {
		sum = b[i]
		for k = 0; k < i; k++ {
			sum -= L.at(i, k) * y[k]
		}
		y[i] = sum / L.at(i, i)
	}
	for i = n - 1; i >= 0; i-- {
		sum = y[i]
		for k = i + 1; k < n; k++ {
			sum -= L.at(k, i) * x[k]
		}
		x[i] = sum / L.at(i, i)
	}

	return x, nil
}

// LowerMatVec returns L·z reading only the lower triangle; the hot path of
// correlated normal sampling.
func LowerMatVec(L *Dense, z, out []float64) {
	n := L.r
	for i := 0; i < n; i++ {
		var s float64
		row := L.data[i*n : i*n+i+1]
		for k, v := range row {
			s += v * z[k]
		}
		out[i] = s
	}
}
