package cost_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"

	"github.com/katalvlaran/pavecost/condition"
	"github.com/katalvlaran/pavecost/cost"
	"github.com/katalvlaran/pavecost/dist"
	"github.com/katalvlaran/pavecost/sampling"
)

const samples = 20_000

// fixedVars returns broadcast design variables for a code C airport.
func fixedVars(n int) sampling.DesignVars {
	col := func(v float64) []float64 {
		xs := make([]float64, n)
		for i := range xs {
			xs[i] = v
		}

		return xs
	}

	return sampling.DesignVars{
		condition.NodeRunwayLength:  col(2500),
		condition.NodeTurnpads:      col(2.7), // truncated to 2
		condition.NodeTaxiwayLength: col(80),
		condition.NodeExits:         col(3),
		condition.NodeApronArea:     []float64{40000}, // single value broadcast
	}
}

func request(addOns condition.AddOns) cost.Request {
	return cost.Request{
		Vars:     fixedVars(samples),
		Geometry: condition.GeometryFor(condition.CodeC),
		AddOns:   addOns,
		Rand:     dist.NewRand(42),
	}
}

func TestParsePrice(t *testing.T) {
	v, ok, err := cost.ParsePrice("€ 160.5 per m3")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 160.5, v)

	v, ok, err = cost.ParsePrice("1.2e2")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 120.0, v)

	for _, s := range []string{"", "  ", "n.a."} {
		_, ok, err = cost.ParsePrice(s)
		assert.NoError(t, err)
		assert.False(t, ok)
	}

	_, ok, err = cost.ParsePrice("expensive")
	assert.ErrorIs(t, err, cost.ErrUnparsablePrice)
	assert.False(t, ok)
}

func TestCorrectionFactors_AllUnspecified(t *testing.T) {
	f, warnings := cost.CorrectionFactors(condition.Prices{Asphalt: "n.a."})
	assert.Empty(t, warnings)
	assert.Equal(t, cost.Factors{Taxiway: 1, Runway: 1, Apron: 1, Airfield: 1}, f)
}

func TestCorrectionFactors_UserPrices(t *testing.T) {
	f, warnings := cost.CorrectionFactors(condition.Prices{Concrete: "200", Asphalt: "300", CTB: "50", Sand: "25"})
	assert.Empty(t, warnings)
	assert.InDelta(t, 575/cost.ReferenceTotal(cost.RunwayFamily), f.Runway, 1e-12)
	assert.InDelta(t, 575/cost.ReferenceTotal(cost.ApronFamily), f.Apron, 1e-12)

	zero, _ := cost.CorrectionFactors(condition.Prices{Concrete: "0", Asphalt: "0", CTB: "0", Sand: "0"})
	assert.Equal(t, 1.0, zero.Runway) // zero total falls back to the runway reference
	assert.Less(t, zero.Apron, 1.0)

	bad, warnings := cost.CorrectionFactors(condition.Prices{Sand: "cheap"})
	require.Len(t, warnings, 1)
	assert.ErrorIs(t, warnings[0], cost.ErrUnparsablePrice)
	assert.Equal(t, 1.0, bad.Taxiway)
}

func TestAggregate_AddOnsDisabled(t *testing.T) {
	res, err := cost.Aggregate(context.Background(), request(condition.AddOns{}))
	require.NoError(t, err)
	require.Equal(t, samples, res.N)
	assert.NotEqual(t, [16]byte{}, [16]byte(res.RunID))

	risk := res.UnitCosts[cost.RiskReserve]
	for i := 0; i < res.N; i++ {
		require.Zero(t, res.Elements[cost.ILS][i])
		require.Zero(t, res.Elements[cost.ControlTower][i])
		want := (res.Elements[cost.Runway][i] + res.Elements[cost.Taxiway][i] + res.Elements[cost.Apron][i]) *
			(1 + risk[i]/100)
		require.Equal(t, want, res.Simulation[i]) // exact identity
		require.Equal(t, res.Elements[cost.Airfield][i]*(1+risk[i]/100), res.RoughEstimate[i])
	}
}

func TestAggregate_ElementFormulas(t *testing.T) {
	res, err := cost.Aggregate(context.Background(), request(condition.AddOns{}))
	require.NoError(t, err)

	g := condition.GeometryFor(condition.CodeC)
	u := res.UnitCosts
	i := 17
	wantRwy := (g.RunwayWidth*2500 + g.TurnpadArea*2) * u[cost.M2Runway][i] * (1 + u[cost.InvestRunway][i]/100)
	assert.InDelta(t, wantRwy, res.Elements[cost.Runway][i], 1e-6*wantRwy)

	aTwy := g.TaxiwayWidth*80/100 + g.ExitClearance()*g.TaxiwayWidth*3
	wantTwy := aTwy * (1 + u[cost.M2Taxiway][i]*u[cost.InvestTaxiway][i]/100)
	assert.InDelta(t, wantTwy, res.Elements[cost.Taxiway][i], 1e-6*wantTwy)

	wantApron := 40000 * u[cost.M2Apron][i] * (1 + u[cost.InvestApron][i]/100)
	assert.InDelta(t, wantApron, res.Elements[cost.Apron][i], 1e-6*wantApron)
}

func TestAggregate_AddOnsEnabled(t *testing.T) {
	res, err := cost.Aggregate(context.Background(),
		request(condition.AddOns{ILS: condition.ILSCatI, ControlTower: true}))
	require.NoError(t, err)

	ils := res.Elements[cost.ILS]
	assert.GreaterOrEqual(t, floats(ils).min(), float64(cost.ILSCatILow))
	assert.LessOrEqual(t, floats(ils).max(), float64(cost.ILSCatIHigh))

	atc := res.Elements[cost.ControlTower]
	assert.GreaterOrEqual(t, floats(atc).min(), cost.ControlTowerLoc)
	assert.InDelta(t, cost.ControlTowerLoc+cost.ControlTowerScale, stat.Mean(atc, nil), 0.03*cost.ControlTowerScale)

	cat3, err := cost.Aggregate(context.Background(), request(condition.AddOns{ILS: condition.ILSCatIII}))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, floats(cat3.Elements[cost.ILS]).min(), float64(cost.ILSCatIIILow))
}

func TestAggregate_Deterministic(t *testing.T) {
	a, err := cost.Aggregate(context.Background(), request(condition.AddOns{ControlTower: true}))
	require.NoError(t, err)
	b, err := cost.Aggregate(context.Background(), request(condition.AddOns{ControlTower: true}))
	require.NoError(t, err)
	assert.Equal(t, a.Simulation, b.Simulation)
	assert.NotEqual(t, a.RunID, b.RunID)
}

func TestAggregate_MissingVariable(t *testing.T) {
	req := request(condition.AddOns{})
	delete(req.Vars, condition.NodeExits)
	_, err := cost.Aggregate(context.Background(), req)
	assert.ErrorIs(t, err, cost.ErrMissingDesignVariable)

	req = request(condition.AddOns{})
	req.Vars[condition.NodeExits] = []float64{1, 2}
	_, err = cost.Aggregate(context.Background(), req)
	assert.ErrorIs(t, err, cost.ErrSampleLength)
}

func TestSummarize(t *testing.T) {
	assert.Equal(t, cost.Summary{}, cost.Summarize(nil))

	xs := make([]float64, 100)
	for i := range xs {
		xs[99-i] = float64(i + 1)
	}
	s := cost.Summarize(xs)
	assert.Equal(t, 100, s.N)
	assert.InDelta(t, 50.5, s.Mean, 1e-12)
	assert.Equal(t, 5.0, s.P5)
	assert.Equal(t, 50.0, s.P50)
	assert.Equal(t, 95.0, s.P95)
	assert.Equal(t, 100.0, xs[0]) // input untouched

	one := cost.Summarize([]float64{3})
	assert.Zero(t, one.StdDev)
}

func TestResult_Summaries(t *testing.T) {
	res, err := cost.Aggregate(context.Background(), request(condition.AddOns{}))
	require.NoError(t, err)
	rows := res.Summaries()
	require.Len(t, rows, 8)
	assert.Equal(t, "Control Tower", rows[5].Name)
	assert.Equal(t, cost.SimulationName, rows[6].Name)
	assert.Less(t, rows[6].P5, rows[6].P95)
}

type floats []float64

func (f floats) min() float64 {
	m := f[0]
	for _, v := range f {
		m = min(m, v)
	}

	return m
}

func (f floats) max() float64 {
	m := f[0]
	for _, v := range f {
		m = max(m, v)
	}

	return m
}
