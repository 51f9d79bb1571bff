package sampling_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/katalvlaran/pavecost/condition"
	"github.com/katalvlaran/pavecost/core"
	"github.com/katalvlaran/pavecost/dist"
	"github.com/katalvlaran/pavecost/matrix"
	"github.com/katalvlaran/pavecost/npbn"
	"github.com/katalvlaran/pavecost/sampling"
)

// pairNetwork builds A→B with A ~ U[0, 10) and B ~ N(5, 2).
func pairNetwork(t *testing.T, cond float64) *core.Network {
	t.Helper()
	net := core.NewNetwork()
	require.NoError(t, net.AddNode("A", core.WithDistribution(dist.Uniform, []float64{0, 10}, []float64{0, 10})))
	require.NoError(t, net.AddNode("B",
		core.WithDistribution(dist.Normal, []float64{5, 2}, []float64{50, 20}),
		core.WithParents([]string{"A"}, []float64{cond})))

	return net
}

func TestBuild(t *testing.T) {
	net := pairNetwork(t, 0.4)
	require.NoError(t, net.AddNode("C", core.WithDistribution(dist.Triangular, []float64{1, 2, 5}, []float64{10, 20, 50})))
	require.NoError(t, net.AddEdge("C", "B"))
	require.NoError(t, net.SetCondition("A", "2.5"))

	res := condition.Resolve(net)
	p, err := sampling.Build(net, condition.Small, res)
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B", "C"}, p.Names)
	assert.Equal(t, [][]int{{}, {0, 2}, {}}, p.Parents)
	assert.Equal(t, 0.4, p.CondRankCorrs[1][0])
	assert.Equal(t, []float64{0.25, 1, 4}, p.Params[2]) // (c, loc, scale)
	assert.Equal(t, []int{0}, p.CondIndices)
	assert.Equal(t, []float64{2.5}, p.CondValues)

	large, err := sampling.Build(net, condition.Large, nil)
	require.NoError(t, err)
	assert.Equal(t, []float64{50, 20}, large.Params[1])
	assert.Empty(t, large.CondIndices)
}

func TestBuild_BadParameters(t *testing.T) {
	net := core.NewNetwork()
	require.NoError(t, net.AddNode("A", core.WithDistribution(dist.Triangular, []float64{3, 2, 1}, []float64{1, 2, 3})))
	_, err := sampling.Build(net, condition.Small, nil)
	assert.ErrorIs(t, err, dist.ErrInvalidParameters)
	assert.Contains(t, err.Error(), "node A")
}

// TestRun_ZeroCorrelationKeepsMarginal conditions A while A→B carries a zero
// conditional correlation: B must follow its own marginal.
func TestRun_ZeroCorrelationKeepsMarginal(t *testing.T) {
	net := pairNetwork(t, 0)
	require.NoError(t, net.SetCondition("A", "9.5"))
	p, err := sampling.Build(net, condition.Small, condition.Resolve(net))
	require.NoError(t, err)

	vars, err := sampling.Run(context.Background(), npbn.New(npbn.WithSeed(11)), p, 50_000)
	require.NoError(t, err)

	require.Len(t, vars["A"], 50_000)
	assert.Equal(t, 9.5, vars["A"][0])
	assert.Equal(t, 9.5, vars["A"][49_999])

	mean, std := stat.MeanStdDev(vars["B"], nil)
	assert.InDelta(t, 5, mean, 0.05)
	assert.InDelta(t, 2, std, 0.05)
}

func TestRun_CorrelationShiftsChild(t *testing.T) {
	net := pairNetwork(t, 0.8)
	require.NoError(t, net.SetCondition("A", "9.5"))
	p, err := sampling.Build(net, condition.Small, condition.Resolve(net))
	require.NoError(t, err)

	vars, err := sampling.Run(context.Background(), npbn.New(npbn.WithSeed(11)), p, 20_000)
	require.NoError(t, err)
	assert.Greater(t, stat.Mean(vars["B"], nil), 6.0)
}

// TestRun_PerfectCorrelation accepts an observed correlation of 1 on the
// network and samples it, with and without the parent conditioned.
func TestRun_PerfectCorrelation(t *testing.T) {
	net := pairNetwork(t, 0)
	require.NoError(t, net.ChangeObservedCorrelation("A", "B", 1.0))

	p, err := sampling.Build(net, condition.Small, condition.Resolve(net))
	require.NoError(t, err)
	vars, err := sampling.Run(context.Background(), npbn.New(npbn.WithSeed(3)), p, 2000)
	require.NoError(t, err)
	for i, a := range vars["A"] {
		want := 5 + 2*distuv.UnitNormal.Quantile(a/10)
		require.InDelta(t, want, vars["B"][i], 1e-6)
	}

	require.NoError(t, net.SetCondition("A", "2.5"))
	p, err = sampling.Build(net, condition.Small, condition.Resolve(net))
	require.NoError(t, err)
	vars, err = sampling.Run(context.Background(), npbn.New(npbn.WithSeed(3)), p, 500)
	require.NoError(t, err)
	want := 5 + 2*distuv.UnitNormal.Quantile(0.25)
	for _, b := range vars["B"] {
		require.InDelta(t, want, b, 1e-6)
	}
}

type brokenEngine struct {
	completeErr, sampleErr error
	calls                  int
}

func (b *brokenEngine) CompleteCorrelationMatrix([][]int, [][]float64, []string) (*matrix.Dense, error) {
	b.calls++
	if b.completeErr != nil {
		return nil, b.completeErr
	}

	return matrix.NewIdentity(1)
}

func (b *brokenEngine) SampleConditional([]int, []float64, *matrix.Dense, int, []dist.Family, [][]float64) ([][]float64, error) {
	b.calls++
	if b.sampleErr != nil {
		return nil, b.sampleErr
	}

	return [][]float64{{1}}, nil // wrong length on purpose
}

func TestRun_EngineErrors(t *testing.T) {
	p := &sampling.Problem{Names: []string{"A"}, Families: []dist.Family{dist.Uniform},
		Params: [][]float64{{0, 1}}, Parents: [][]int{{}}, CondRankCorrs: [][]float64{{}}}

	cause := errors.New("not positive definite")
	eng := &brokenEngine{completeErr: cause}
	vars, err := sampling.Run(context.Background(), eng, p, 10)
	assert.ErrorIs(t, err, sampling.ErrEngineInvocation)
	assert.ErrorIs(t, err, cause)
	assert.Nil(t, vars)
	assert.Equal(t, 1, eng.calls)

	eng = &brokenEngine{sampleErr: npbn.ErrInfeasible}
	_, err = sampling.Run(context.Background(), eng, p, 10)
	assert.ErrorIs(t, err, npbn.ErrInfeasible)
	assert.Equal(t, 2, eng.calls)

	eng = &brokenEngine{}
	_, err = sampling.Run(context.Background(), eng, p, 10)
	assert.ErrorIs(t, err, sampling.ErrEngineInvocation)

	_, err = sampling.Run(context.Background(), eng, p, 0)
	assert.ErrorIs(t, err, sampling.ErrInvalidSampleSize)
}

func TestRun_Cancelled(t *testing.T) {
	p := &sampling.Problem{Names: []string{"A"}, Families: []dist.Family{dist.Uniform},
		Params: [][]float64{{0, 1}}, Parents: [][]int{{}}, CondRankCorrs: [][]float64{{}}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	eng := &brokenEngine{}
	_, err := sampling.Run(ctx, eng, p, 10)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, eng.calls) // stopped between the two stages
}
