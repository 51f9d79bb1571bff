package cost

import (
	"fmt"
	"math/rand/v2"

	"github.com/katalvlaran/pavecost/condition"
	"github.com/katalvlaran/pavecost/dist"
)

// Unit-cost and supplement keys.
const (
	M2Taxiway       = "m2_TWY"
	InvestTaxiway   = "invest_TWY"
	M2Runway        = "m2_RWY"
	InvestRunway    = "invest_RWY"
	M2Apron         = "m2_apron"
	InvestApron     = "invest_apron"
	AirfieldLumpSum = "airfield"
	InvestAirfield  = "invest_af"
	RiskReserve     = "risk"
	unitCostEntries = 9
)

// UnitCost is one triangular (min, mode, max) row of the reference table.
type UnitCost struct {
	Name           string
	Min, Mode, Max float64
}

// UnitCosts is the reference table, in draw order. m2 rows are euros per
// square metre, the airfield row is a lump sum in euros and the remaining
// rows are percentage supplements.
var UnitCosts = [unitCostEntries]UnitCost{
	{M2Taxiway, 12.78, 37.29, 389},
	{InvestTaxiway, 10.65, 23.81, 87.44},
	{M2Runway, 61.9, 131.4, 445.9},
	{InvestRunway, 10.71, 28.75, 103.9},
	{M2Apron, 175, 403.7, 2102},
	{InvestApron, 10.88, 32.8, 89.28},
	{AirfieldLumpSum, 30.22e6, 86.36e6, 528.7e6},
	{InvestAirfield, 11.01, 37.47, 91.09},
	{RiskReserve, 10.04, 17.41, 48.87},
}

func simulateUnitCosts(n int, rng *rand.Rand) (map[string][]float64, error) {
	out := make(map[string][]float64, len(UnitCosts))
	for _, u := range UnitCosts {
		xs, err := dist.SampleTriangular(u.Min, u.Mode, u.Max, n, rng)
		if err != nil {
			return nil, fmt.Errorf("cost: %s: %w", u.Name, err)
		}
		out[u.Name] = xs
	}

	return out, nil
}

// Add-on price ranges in euros.
const (
	ILSCatILow    = 1_582_000
	ILSCatIHigh   = 1_685_000
	ILSCatIIILow  = 2_293_000
	ILSCatIIIHigh = 2_550_000

	ControlTowerLoc   = 814307.846885
	ControlTowerScale = 3706531.633851403
)

// simulateAddOns draws the ILS and control tower costs; disabled items are zero.
func simulateAddOns(a condition.AddOns, n int, rng *rand.Rand) (ils, atc []float64, err error) {
	switch a.ILS {
	case condition.ILSNone:
		ils = make([]float64, n)
	case condition.ILSCatI:
		ils, err = dist.Sample(dist.Uniform, []float64{ILSCatILow, ILSCatIHigh - ILSCatILow}, n, rng)
	default:
		ils, err = dist.Sample(dist.Uniform, []float64{ILSCatIIILow, ILSCatIIIHigh - ILSCatIIILow}, n, rng)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("cost: ILS: %w", err)
	}

	if !a.ControlTower {
		return ils, make([]float64, n), nil
	}
	atc, err = dist.Sample(dist.Exponential, []float64{ControlTowerLoc, ControlTowerScale}, n, rng)
	if err != nil {
		return nil, nil, fmt.Errorf("cost: control tower: %w", err)
	}

	return ils, atc, nil
}
