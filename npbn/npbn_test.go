// SPDX-License-Identifier: MIT

package npbn_test

import (
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"

	"github.com/katalvlaran/pavecost/dist"
	"github.com/katalvlaran/pavecost/matrix"
	"github.com/katalvlaran/pavecost/npbn"
)

const eps = 1e-9

func at(t *testing.T, m *matrix.Dense, i, j int) float64 {
	t.Helper()
	v, err := m.At(i, j)
	require.NoError(t, err)

	return v
}

func denseRows(t *testing.T, rows [][]float64) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDense(len(rows), len(rows[0]))
	require.NoError(t, err)
	for i, row := range rows {
		for j, v := range row {
			require.NoError(t, m.Set(i, j, v))
		}
	}

	return m
}

func TestRankPearsonRoundTrip(t *testing.T) {
	for _, rs := range []float64{-1, -0.7, -0.2, 0, 0.35, 0.9, 1} {
		assert.InDelta(t, rs, npbn.PearsonToRank(npbn.RankToPearson(rs)), eps)
	}
	assert.InDelta(t, 1.0, npbn.RankToPearson(1), eps) // endpoints preserved
	assert.Equal(t, 0.0, npbn.RankToPearson(0))
}

func TestComplete_Empty(t *testing.T) {
	e := npbn.New(npbn.WithSeed(1))
	R, err := e.CompleteCorrelationMatrix(nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, R.Rows())
}

func TestComplete_SingleEdge(t *testing.T) {
	e := npbn.New(npbn.WithSeed(1))
	R, err := e.CompleteCorrelationMatrix(
		[][]int{{}, {0}},
		[][]float64{{}, {0.5}},
		[]string{"A", "B"},
	)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, at(t, R, 0, 1), eps) // single parent: observed == conditional
	assert.InDelta(t, 1.0, at(t, R, 1, 1), eps)
}

// TestComplete_ChainMarkov checks A→B→C gives r(A,C) = r(A,B)·r(B,C) on the
// product-moment scale.
func TestComplete_ChainMarkov(t *testing.T) {
	e := npbn.New()
	R, err := e.CompleteCorrelationMatrix(
		[][]int{{}, {0}, {1}},
		[][]float64{{}, {0.6}, {0.4}},
		[]string{"A", "B", "C"},
	)
	require.NoError(t, err)
	want := npbn.RankToPearson(0.6) * npbn.RankToPearson(0.4)
	assert.InDelta(t, want, npbn.RankToPearson(at(t, R, 0, 2)), eps)
}

// TestComplete_TwoParents checks the partial correlation recursion with
// independent parents A and B of C.
func TestComplete_TwoParents(t *testing.T) {
	e := npbn.New()
	R, err := e.CompleteCorrelationMatrix(
		[][]int{{}, {}, {0, 1}},
		[][]float64{{}, {}, {0.5, 0.3}},
		[]string{"A", "B", "C"},
	)
	require.NoError(t, err)
	rCA := npbn.RankToPearson(0.5)
	rCB := npbn.RankToPearson(0.3) * math.Sqrt(1-rCA*rCA)
	assert.InDelta(t, 0.5, at(t, R, 2, 0), eps)
	assert.InDelta(t, rCB, npbn.RankToPearson(at(t, R, 2, 1)), eps)
	assert.InDelta(t, 0.0, at(t, R, 0, 1), eps) // parents stay independent

	require.NoError(t, matrix.ValidateCorrelation(R))
}

func TestComplete_OrderIndependentOfIndex(t *testing.T) {
	e := npbn.New()
	// child stored before its parent
	R, err := e.CompleteCorrelationMatrix(
		[][]int{{1}, {}},
		[][]float64{{0.7}, {}},
		[]string{"child", "parent"},
	)
	require.NoError(t, err)
	assert.InDelta(t, 0.7, at(t, R, 0, 1), eps)
}

func TestComplete_Errors(t *testing.T) {
	e := npbn.New()
	_, err := e.CompleteCorrelationMatrix([][]int{{1}, {0}}, [][]float64{{0.1}, {0.1}}, []string{"A", "B"})
	assert.ErrorIs(t, err, npbn.ErrCycle)

	_, err = e.CompleteCorrelationMatrix([][]int{{0}}, [][]float64{{0.1}}, []string{"A"})
	assert.ErrorIs(t, err, npbn.ErrInvalidStructure) // self-parent

	_, err = e.CompleteCorrelationMatrix([][]int{{}, {0}}, [][]float64{{}, {1.5}}, []string{"A", "B"})
	assert.ErrorIs(t, err, npbn.ErrInvalidStructure) // out of [-1, 1]

	_, err = e.CompleteCorrelationMatrix([][]int{{}}, [][]float64{}, []string{"A"})
	assert.ErrorIs(t, err, npbn.ErrInvalidStructure) // ragged input
}

func TestConditionalTerms_EmptyPrior(t *testing.T) {
	id, _ := matrix.NewIdentity(2)
	b, a, err := npbn.ConditionalTerms(id, 0, nil, 1)
	require.NoError(t, err)
	assert.Equal(t, 0.0, b)
	assert.Equal(t, 1.0, a)
}

func TestSample_TriangularMean(t *testing.T) {
	e := npbn.New(npbn.WithSeed(42))
	R, _ := matrix.NewIdentity(1)
	params, err := dist.EngineParameters(dist.Triangular, []float64{10, 20, 40})
	require.NoError(t, err)

	out, err := e.SampleConditional(nil, nil, R, 100000, []dist.Family{dist.Triangular}, [][]float64{params})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.InEpsilon(t, 70.0/3, stat.Mean(out[0], nil), 0.01)
}

// TestSample_ZeroCorrelationConditioning conditions A in A→B with a zero
// conditional correlation; B must keep its marginal.
func TestSample_ZeroCorrelationConditioning(t *testing.T) {
	e := npbn.New(npbn.WithSeed(9))
	R, err := e.CompleteCorrelationMatrix([][]int{{}, {0}}, [][]float64{{}, {0}}, []string{"A", "B"})
	require.NoError(t, err)

	pb := []float64{100, 20} // uniform on [100, 120]
	out, err := e.SampleConditional([]int{0}, []float64{8}, R, 50000,
		[]dist.Family{dist.Normal, dist.Uniform},
		[][]float64{{5, 1}, pb})
	require.NoError(t, err)

	for _, v := range out[0] {
		require.Equal(t, 8.0, v) // condition broadcast
	}
	assert.InDelta(t, 110, stat.Mean(out[1], nil), 0.15)
	assert.InDelta(t, 20/math.Sqrt(12), stat.StdDev(out[1], nil), 0.1)
}

func TestSample_PositiveConditioningShiftsChild(t *testing.T) {
	e := npbn.New(npbn.WithSeed(5))
	R, err := e.CompleteCorrelationMatrix([][]int{{}, {0}}, [][]float64{{}, {0.8}}, []string{"A", "B"})
	require.NoError(t, err)
	fam := []dist.Family{dist.Normal, dist.Normal}
	params := [][]float64{{0, 1}, {0, 1}}

	high, err := e.SampleConditional([]int{0}, []float64{1.5}, R, 20000, fam, params)
	require.NoError(t, err)
	assert.Greater(t, stat.Mean(high[1], nil), 0.8) // E[B|A=1.5] = r·1.5 ≈ 1.2
}

func TestSample_RankCorrelationReproduced(t *testing.T) {
	e := npbn.New(npbn.WithSeed(11))
	R, err := e.CompleteCorrelationMatrix([][]int{{}, {0}}, [][]float64{{}, {0.6}}, []string{"A", "B"})
	require.NoError(t, err)

	out, err := e.SampleConditional(nil, nil, R, 40000,
		[]dist.Family{dist.Exponential, dist.Uniform},
		[][]float64{{0, 2}, {0, 1}})
	require.NoError(t, err)
	assert.InDelta(t, 0.6, spearman(out[0], out[1]), 0.02)
}

// TestSample_PerfectCorrelation samples A→B with a rank correlation of 1:
// the completed matrix is only semi-definite and B must follow A exactly.
func TestSample_PerfectCorrelation(t *testing.T) {
	e := npbn.New(npbn.WithSeed(13))
	R, err := e.CompleteCorrelationMatrix([][]int{{}, {0}}, [][]float64{{}, {1}}, []string{"A", "B"})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, at(t, R, 0, 1), eps)

	fam := []dist.Family{dist.Uniform, dist.Uniform}
	params := [][]float64{{0, 1}, {10, 5}} // B on [10, 15]

	out, err := e.SampleConditional(nil, nil, R, 5000, fam, params)
	require.NoError(t, err)
	for s := range out[0] {
		require.InDelta(t, 10+5*out[0][s], out[1][s], 1e-6)
	}

	fixed, err := e.SampleConditional([]int{0}, []float64{0.3}, R, 1000, fam, params)
	require.NoError(t, err)
	for _, v := range fixed[1] {
		require.InDelta(t, 11.5, v, 1e-6) // fully determined by A = 0.3
	}

	neg, err := e.CompleteCorrelationMatrix([][]int{{}, {0}}, [][]float64{{}, {-1}}, []string{"A", "B"})
	require.NoError(t, err)
	out, err = e.SampleConditional(nil, nil, neg, 1000, fam, params)
	require.NoError(t, err)
	for s := range out[0] {
		require.InDelta(t, 15-5*out[0][s], out[1][s], 1e-6)
	}
}

func TestSample_Errors(t *testing.T) {
	e := npbn.New(npbn.WithSeed(1))
	R, _ := matrix.NewIdentity(1)
	fam := []dist.Family{dist.Uniform}
	par := [][]float64{{0, 1}}

	_, err := e.SampleConditional(nil, nil, R, 0, fam, par)
	assert.ErrorIs(t, err, npbn.ErrInvalidSampleSize)
	_, err = e.SampleConditional([]int{3}, []float64{1}, R, 10, fam, par)
	assert.ErrorIs(t, err, npbn.ErrInvalidCondition)
	_, err = e.SampleConditional(nil, nil, R, 10, nil, nil)
	assert.ErrorIs(t, err, npbn.ErrInvalidStructure)

	bad := denseRows(t, [][]float64{{1, 0.99, -0.99}, {0.99, 1, 0.99}, {-0.99, 0.99, 1}})
	fam3 := []dist.Family{dist.Uniform, dist.Uniform, dist.Uniform}
	_, err = e.SampleConditional(nil, nil, bad, 10, fam3, [][]float64{{0, 1}, {0, 1}, {0, 1}})
	assert.ErrorIs(t, err, npbn.ErrInfeasible)
}

// spearman is the Pearson correlation of the ranks.
func spearman(x, y []float64) float64 {
	return stat.Correlation(ranks(x), ranks(y), nil)
}

func ranks(x []float64) []float64 {
	idx := make([]int, len(x))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return x[idx[a]] < x[idx[b]] })
	out := make([]float64, len(x))
	for r, i := range idx {
		out[i] = float64(r)
	}

	return out
}
