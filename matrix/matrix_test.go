// SPDX-License-Identifier: MIT

package matrix_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/pavecost/matrix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-10

func mustRows(t *testing.T, rows [][]float64) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewFromRows(rows)
	require.NoError(t, err)

	return m
}

func TestNewDense_Shapes(t *testing.T) {
	m, err := matrix.NewDense(0, 0)
	require.NoError(t, err)     // 0×0 is legal
	assert.True(t, m.IsEmpty()) // and empty
	_, err = matrix.NewDense(-1, 2)
	assert.ErrorIs(t, err, matrix.ErrInvalidDimensions) // negative rejected
}

func TestDense_AtSetBounds(t *testing.T) {
	m, _ := matrix.NewDense(2, 2)
	require.NoError(t, m.Set(1, 0, 0.5))
	v, err := m.At(1, 0)
	require.NoError(t, err)
	assert.Equal(t, 0.5, v)

	_, err = m.At(2, 0)
	assert.ErrorIs(t, err, matrix.ErrOutOfRange)
	assert.ErrorIs(t, m.Set(0, 0, math.NaN()), matrix.ErrNaNInf)
}

func TestNewFromRows_Ragged(t *testing.T) {
	_, err := matrix.NewFromRows([][]float64{{1, 2}, {3}})
	assert.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}

func TestInduced(t *testing.T) {
	m := mustRows(t, [][]float64{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}})
	sub, err := m.Induced([]int{2, 0}, []int{1})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{8}, {2}}, sub.RawRows())

	empty, err := m.Induced(nil, nil)
	require.NoError(t, err)
	assert.True(t, empty.IsEmpty())

	_, err = m.Induced([]int{3}, []int{0})
	assert.ErrorIs(t, err, matrix.ErrOutOfRange)
}

func TestMulAndTranspose(t *testing.T) {
	a := mustRows(t, [][]float64{{1, 2}, {3, 4}})
	b := mustRows(t, [][]float64{{5}, {6}})
	p, err := matrix.Mul(a, b)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{17}, {39}}, p.RawRows())

	_, err = matrix.Mul(b, b)
	assert.ErrorIs(t, err, matrix.ErrDimensionMismatch)

	tr, err := matrix.Transpose(b)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{5, 6}}, tr.RawRows())
}

func TestInverse_RoundTrip(t *testing.T) {
	a := mustRows(t, [][]float64{{1, 0.5, 0.2}, {0.5, 1, 0.3}, {0.2, 0.3, 1}})
	inv, err := matrix.Inverse(a)
	require.NoError(t, err)
	id, err := matrix.Mul(a, inv)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			v, _ := id.At(i, j)
			want := 0.0
			if i == j {
				want = 1
			}
			assert.InDelta(t, want, v, tol) // A·A⁻¹ = I
		}
	}
}

func TestInverse_Singular(t *testing.T) {
	a := mustRows(t, [][]float64{{1, 1}, {1, 1}})
	_, err := matrix.Inverse(a)
	assert.ErrorIs(t, err, matrix.ErrSingular)
}

func TestCholesky(t *testing.T) {
	a := mustRows(t, [][]float64{{4, 2}, {2, 3}})
	L, err := matrix.Cholesky(a)
	require.NoError(t, err)
	Lt, _ := matrix.Transpose(L)
	back, _ := matrix.Mul(L, Lt)
	for i, row := range back.RawRows() {
		for j, v := range row {
			want, _ := a.At(i, j)
			assert.InDelta(t, want, v, tol)
		}
	}

	x, err := matrix.CholeskySolve(L, []float64{2, 1})
	require.NoError(t, err)
	ax, _ := matrix.MatVec(a, x)
	assert.InDelta(t, 2.0, ax[0], tol)
	assert.InDelta(t, 1.0, ax[1], tol)
}

func TestCholesky_NotPD(t *testing.T) {
	a := mustRows(t, [][]float64{{1, 0.99, -0.99}, {0.99, 1, 0.99}, {-0.99, 0.99, 1}})
	_, err := matrix.Cholesky(a)
	assert.ErrorIs(t, err, matrix.ErrNotPositiveDefinite)

	asym := mustRows(t, [][]float64{{1, 0.2}, {0.3, 1}})
	_, err = matrix.Cholesky(asym)
	assert.ErrorIs(t, err, matrix.ErrAsymmetry)
}

func TestCholeskyPSD_Singular(t *testing.T) {
	a := mustRows(t, [][]float64{{1, 1, 0.5}, {1, 1, 0.5}, {0.5, 0.5, 1}})
	_, err := matrix.Cholesky(a)
	require.ErrorIs(t, err, matrix.ErrNotPositiveDefinite)

	L, err := matrix.CholeskyPSD(a, matrix.SemidefiniteTolerance)
	require.NoError(t, err)
	Lt, _ := matrix.Transpose(L)
	back, _ := matrix.Mul(L, Lt)
	for i, row := range back.RawRows() {
		for j, v := range row {
			want, _ := a.At(i, j)
			assert.InDelta(t, want, v, tol)
		}
	}
	col, _ := L.At(1, 1)
	assert.Equal(t, 0.0, col) // dropped pivot

	notPSD := mustRows(t, [][]float64{{1, 0.99, -0.99}, {0.99, 1, 0.99}, {-0.99, 0.99, 1}})
	_, err = matrix.CholeskyPSD(notPSD, matrix.SemidefiniteTolerance)
	assert.ErrorIs(t, err, matrix.ErrNotPositiveDefinite)
}

func TestSolve(t *testing.T) {
	a := mustRows(t, [][]float64{{2, 1}, {1, 3}})
	x, err := matrix.Solve(a, []float64{3, 5})
	require.NoError(t, err)
	assert.InDelta(t, 0.8, x[0], tol)
	assert.InDelta(t, 1.4, x[1], tol)
}

func TestValidateCorrelation(t *testing.T) {
	ok := mustRows(t, [][]float64{{1, 0.4}, {0.4, 1}})
	assert.NoError(t, matrix.ValidateCorrelation(ok))

	badDiag := mustRows(t, [][]float64{{2, 0.4}, {0.4, 1}})
	assert.ErrorIs(t, matrix.ValidateCorrelation(badDiag), matrix.ErrNotCorrelation)

	assert.ErrorIs(t, matrix.ValidateSquare(nil), matrix.ErrNilMatrix)
}
