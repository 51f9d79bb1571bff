package cost

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/katalvlaran/pavecost/condition"
	"github.com/katalvlaran/pavecost/ctxlog"
	"github.com/katalvlaran/pavecost/dist"
	"github.com/katalvlaran/pavecost/sampling"
)

var (
	// ErrMissingDesignVariable is returned when a design variable the
	// element formulas need is absent or empty.
	ErrMissingDesignVariable = errors.New("cost: missing design variable")

	// ErrSampleLength is returned when design variables disagree on N.
	ErrSampleLength = errors.New("cost: design variable length mismatch")
)

// Element is a reported cost element.
type Element int

const (
	Runway Element = iota
	Taxiway
	Apron
	Airfield
	ILS
	ControlTower
)

var elementNames = map[Element]string{
	Runway:       "Runway",
	Taxiway:      "Taxiway",
	Apron:        "Apron",
	Airfield:     "Airfield",
	ILS:          "ILS",
	ControlTower: "Control Tower",
}

// Elements lists the elements in report order.
func Elements() []Element { return []Element{Runway, Taxiway, Apron, Airfield, ILS, ControlTower} }

func (e Element) String() string {
	if s, ok := elementNames[e]; ok {
		return s
	}

	return "unknown"
}

// Aggregate names.
const (
	SimulationName    = "Simulation"
	RoughEstimateName = "Rough estimate"
)

// RequiredDesignVariables are read by the element formulas.
var RequiredDesignVariables = []string{
	condition.NodeRunwayLength,
	condition.NodeTurnpads,
	condition.NodeTaxiwayLength,
	condition.NodeExits,
	condition.NodeApronArea,
}

// Request is the input of one aggregation run.
type Request struct {
	Vars     sampling.DesignVars
	Geometry condition.Geometry
	Prices   condition.Prices
	AddOns   condition.AddOns

	// Rand drives the unit-cost and add-on draws. Nil uses a time seed.
	Rand *rand.Rand
}

// Result is recomputed from scratch on every run and never persisted with
// the project.
type Result struct {
	RunID         uuid.UUID
	N             int
	Elements      map[Element][]float64
	UnitCosts     map[string][]float64
	Simulation    []float64
	RoughEstimate []float64
	Factors       Factors
	Warnings      []error
}

// Aggregate runs the cost model over the design variables in req.
//
// Per simulation i:
//
//	Runway   = (W_RWY·L_RWY + A_tpd·trunc(#Tpds)) · m2_RWY·f_RWY · (1 + invest_RWY/100)
//	Taxiway  = (W_TWY·L_TWY/100 + L_exit·W_TWY·trunc(#Exits)) · (1 + m2_TWY·f_TWY·invest_TWY/100)
//	Apron    = A_Apron · m2_apron·f_apron · (1 + invest_apron/100)
//	Airfield = airfield·f_af · (1 + invest_af/100) + f_af·(ILS + ATC)
//
//	Simulation     = (Runway + Taxiway + Apron)·(1 + risk/100) + ILS + ATC
//	Rough estimate = Airfield·(1 + risk/100)
//
// The taxiway formula applies the unit cost inside the supplement term, as
// in the reference model.
func Aggregate(ctx context.Context, req Request) (*Result, error) {
	log := ctxlog.FromContext(ctx)
	start := time.Now()

	vars, n, err := designColumns(req.Vars)
	if err != nil {
		return nil, err
	}
	rng := req.Rand
	if rng == nil {
		rng = dist.NewRand(uint64(time.Now().UnixNano()))
	}

	factors, warnings := CorrectionFactors(req.Prices)
	unit, err := simulateUnitCosts(n, rng)
	if err != nil {
		return nil, err
	}
	ils, atc, err := simulateAddOns(req.AddOns, n, rng)
	if err != nil {
		return nil, err
	}
	if err = ctx.Err(); err != nil {
		return nil, err
	}

	g := req.Geometry
	exit := g.ExitClearance()
	res := &Result{
		RunID:         uuid.New(),
		N:             n,
		UnitCosts:     unit,
		Simulation:    make([]float64, n),
		RoughEstimate: make([]float64, n),
		Factors:       factors,
		Warnings:      warnings,
		Elements: map[Element][]float64{
			Runway:       make([]float64, n),
			Taxiway:      make([]float64, n),
			Apron:        make([]float64, n),
			Airfield:     make([]float64, n),
			ILS:          ils,
			ControlTower: atc,
		},
	}

	lRwy, tpds := vars[condition.NodeRunwayLength], vars[condition.NodeTurnpads]
	lTwy, exits := vars[condition.NodeTaxiwayLength], vars[condition.NodeExits]
	apronArea := vars[condition.NodeApronArea]
	for i := 0; i < n; i++ {
		aRwy := g.RunwayWidth * lRwy[i]
		aTpd := g.TurnpadArea * math.Trunc(tpds[i])
		aTwy := g.TaxiwayWidth * lTwy[i] / 100
		aExit := exit * g.TaxiwayWidth * math.Trunc(exits[i])

		rwy := (aRwy + aTpd) * (unit[M2Runway][i] * factors.Runway) * (1 + unit[InvestRunway][i]/100)
		twy := (aTwy + aExit) * (1 + unit[M2Taxiway][i]*factors.Taxiway*unit[InvestTaxiway][i]/100)
		apron := apronArea[i] * (unit[M2Apron][i] * factors.Apron) * (1 + unit[InvestApron][i]/100)
		af := unit[AirfieldLumpSum][i]*factors.Airfield*(1+unit[InvestAirfield][i]/100) +
			factors.Airfield*(ils[i]+atc[i])

		risk := 1 + unit[RiskReserve][i]/100
		res.Elements[Runway][i] = rwy
		res.Elements[Taxiway][i] = twy
		res.Elements[Apron][i] = apron
		res.Elements[Airfield][i] = af
		res.Simulation[i] = (rwy+twy+apron)*risk + ils[i] + atc[i]
		res.RoughEstimate[i] = af * risk
	}

	log.Debug("cost aggregated", "run_id", res.RunID, "samples", n,
		"warnings", len(warnings), "elapsed", time.Since(start))

	return res, nil
}

// designColumns checks the required variables and broadcasts single values
// to the common length N.
func designColumns(v sampling.DesignVars) (map[string][]float64, int, error) {
	n := 0
	for _, name := range RequiredDesignVariables {
		col := v[name]
		if len(col) == 0 {
			return nil, 0, fmt.Errorf("%w: %s", ErrMissingDesignVariable, name)
		}
		n = max(n, len(col))
	}

	out := make(map[string][]float64, len(RequiredDesignVariables))
	for _, name := range RequiredDesignVariables {
		col := v[name]
		switch len(col) {
		case n:
			out[name] = col
		case 1:
			b := make([]float64, n)
			for i := range b {
				b[i] = col[0]
			}
			out[name] = b
		default:
			return nil, 0, fmt.Errorf("%w: %s has %d values, want %d", ErrSampleLength, name, len(col), n)
		}
	}

	return out, n, nil
}
