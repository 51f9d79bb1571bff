package dist

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Marginal is the one-dimensional law of a node on its natural scale.
// The copula sampler only needs the CDF/quantile pair.
type Marginal interface {
	CDF(x float64) float64
	Quantile(p float64) float64
	Mean() float64
}

// shifted moves a gonum distribution by loc.
type shifted struct {
	loc  float64
	base Marginal
}

func (s shifted) CDF(x float64) float64      { return s.base.CDF(x - s.loc) }
func (s shifted) Quantile(p float64) float64 { return s.loc + s.base.Quantile(p) }
func (s shifted) Mean() float64              { return s.loc + s.base.Mean() }

// NewMarginal builds the marginal for engine-convention parameters
// (the output of EngineParameters).
//
// Mapping onto gonum/stat/distuv:
//   - Triangular (c, loc, scale)  → Triangle{a: loc, b: loc+scale, c: loc+c·scale}
//   - Uniform (loc, scale)        → Uniform{Min: loc, Max: loc+scale}
//   - Exponential (loc, scale)    → loc + Exponential{Rate: 1/scale}
//   - Normal (loc, scale)         → Normal{Mu: loc, Sigma: scale}
//   - Lognormal (s, loc, scale)   → loc + LogNormal{Mu: ln scale, Sigma: s}
func NewMarginal(f Family, engine []float64) (Marginal, error) {
	if len(engine) != f.Arity() || f.Arity() == 0 {
		return nil, fmt.Errorf("%s: %w", f, ErrParameterCount)
	}
	switch f {
	case Triangular:
		c, loc, scale := engine[0], engine[1], engine[2]
		if !(scale > 0) || c < 0 || c > 1 {
			return nil, fmt.Errorf("%s %v: %w", f, engine, ErrInvalidParameters)
		}

		return distuv.NewTriangle(loc, loc+scale, loc+c*scale, nil), nil
	case Uniform:
		if !(engine[1] > 0) {
			return nil, fmt.Errorf("%s %v: %w", f, engine, ErrInvalidParameters)
		}

		return distuv.Uniform{Min: engine[0], Max: engine[0] + engine[1]}, nil
	case Exponential:
		if !(engine[1] > 0) {
			return nil, fmt.Errorf("%s %v: %w", f, engine, ErrInvalidParameters)
		}

		return shifted{loc: engine[0], base: distuv.Exponential{Rate: 1 / engine[1]}}, nil
	case Normal:
		if !(engine[1] > 0) {
			return nil, fmt.Errorf("%s %v: %w", f, engine, ErrInvalidParameters)
		}

		return distuv.Normal{Mu: engine[0], Sigma: engine[1]}, nil
	case Lognormal:
		s, loc, scale := engine[0], engine[1], engine[2]
		if !(s > 0) || !(scale > 0) {
			return nil, fmt.Errorf("%s %v: %w", f, engine, ErrInvalidParameters)
		}

		return shifted{loc: loc, base: distuv.LogNormal{Mu: math.Log(scale), Sigma: s}}, nil
	}

	return nil, fmt.Errorf("%w: %d", ErrUnknownFamily, uint8(f))
}

// Sample draws n independent values by inverse transform from the family f
// with engine-convention parameters.
func Sample(f Family, engine []float64, n int, rng *rand.Rand) ([]float64, error) {
	m, err := NewMarginal(f, engine)
	if err != nil {
		return nil, err
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = m.Quantile(openUnit(rng))
	}

	return out, nil
}

// SampleTriangular draws n values from a triangular law given as
// (min, mode, max).
func SampleTriangular(lo, mode, hi float64, n int, rng *rand.Rand) ([]float64, error) {
	engine, err := EngineParameters(Triangular, []float64{lo, mode, hi})
	if err != nil {
		return nil, err
	}

	return Sample(Triangular, engine, n, rng)
}

// openUnit returns a uniform variate in (0, 1); quantiles at exactly 0 are
// infinite for the unbounded families.
func openUnit(rng *rand.Rand) float64 {
	for {
		if u := rng.Float64(); u > 0 {
			return u
		}
	}
}

// NewRand returns a PCG-backed generator for seed; seed 0 is a valid seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
