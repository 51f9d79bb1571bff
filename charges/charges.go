// Package charges derives airport charges and payback periods from the
// simulated total project cost.
//
// The base charge recovers the weighted average cost of capital on every
// simulated CAPEX, split 1:2 between a landing charge per tonne MTOW and a
// charge per departing passenger.
package charges

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/katalvlaran/pavecost/condition"
)

var (
	ErrMixNotComplete   = errors.New("charges: aircraft mix does not add up to 100%")
	ErrChargeOutOfRange = errors.New("charges: charge out of range")
	ErrNoPayback        = errors.New("charges: revenue does not exceed OPEX")
	ErrNoCapex          = errors.New("charges: empty CAPEX sample")
	ErrNoTraffic        = errors.New("charges: no departing traffic")
)

// Charge limits in euros.
const (
	MinCharge = 0
	MaxCharge = 50
)

// mixTolerance absorbs decimal percentages such as 33.3 + 33.3 + 33.4.
const mixTolerance = 1e-9

// Capital structure of the WACC.
type Capital struct {
	Gearing           float64 // g, debt share
	CostOfDebt        float64 // Kd
	TaxRate           float64 // T
	RiskFree          float64 // Rf
	EquityRiskPremium float64 // EMRP
	EquityBeta        float64 // β
}

// DefaultCapital is the regulated-airport reference.
var DefaultCapital = Capital{
	Gearing:           0.4,
	CostOfDebt:        0.07,
	TaxRate:           0.258,
	RiskFree:          0.04,
	EquityRiskPremium: 0.05,
	EquityBeta:        0.7,
}

// WACC = g·Kd·(1+T) + (1−g)·(Rf + EMRP·β).
func (c Capital) WACC() float64 {
	return c.Gearing*c.CostOfDebt*(1+c.TaxRate) + (1-c.Gearing)*(c.RiskFree+c.EquityRiskPremium*c.EquityBeta)
}

// referenceMTOW lists maximum take-off weights in tonnes of typical aircraft
// per code.
var referenceMTOW = map[condition.ACCode][]float64{
	condition.CodeAB: {3.2, 3.83, 21.523, 5.67},                             // PA-31, Cessna 404, CRJ-200, DHC-6
	condition.CodeC:  {66.32, 73.5, 47.79},                                  // B737-700, A320, ERJ190-100
	condition.CodeD:  {179.17, 186.88, 204.12, 150},                         // B767 series, A310
	condition.CodeE:  {247.2, 299.37, 351.53, 228, 253, 251, 251, 230, 230}, // B777, B787, A330
	condition.CodeF:  {447.696, 560},                                        // B747, A380
}

// ReferenceMTOW is the mean reference MTOW of code c, zero for unknown codes.
func ReferenceMTOW(c condition.ACCode) float64 {
	w, ok := referenceMTOW[c]
	if !ok {
		return 0
	}

	return stat.Mean(w, nil)
}

// Mix holds the traffic share per code in percent.
type Mix map[condition.ACCode]float64

// DefaultMix puts all traffic on the critical code.
func DefaultMix(critical condition.ACCode) Mix { return Mix{critical: 100} }

// MTOW returns the mix-weighted mean MTOW. Only codes up to and including
// the critical code count, and their shares must add up to 100.
func (m Mix) MTOW(critical condition.ACCode) (float64, error) {
	if critical == condition.CodeUnknown {
		critical = condition.CodeAB
	}
	var pct, mtow float64
	for _, c := range condition.Codes() {
		if c > critical {
			break
		}
		pct += m[c]
		mtow += m[c] / 100 * ReferenceMTOW(c)
	}
	if math.Abs(pct-100) > mixTolerance {
		return 0, fmt.Errorf("%w: got %g%% up to %s", ErrMixNotComplete, pct, critical)
	}

	return mtow, nil
}

// Traffic is the annual traffic forecast; half of it departs.
type Traffic struct {
	AnnualOperations float64
	AnnualPassengers float64
}

// Charges are the two airport charges in euros.
type Charges struct {
	Landing   float64 // per tonne MTOW
	Passenger float64 // per departing passenger
}

// Validate rejects charges outside [MinCharge, MaxCharge].
func (c Charges) Validate() error {
	for _, v := range []float64{c.Landing, c.Passenger} {
		if math.IsNaN(v) || v < MinCharge || v > MaxCharge {
			return fmt.Errorf("%w: %g not in [%d, %d]", ErrChargeOutOfRange, v, MinCharge, MaxCharge)
		}
	}

	return nil
}

// Model holds everything derived from one cost run.
type Model struct {
	WACC          float64
	MTOWMovements float64 // tonnes MTOW of departing movements
	DepartingPax  float64
	Capex         []float64
}

// NewModel prepares the charge model for capex, typically cost.Result.Simulation.
func NewModel(capex []float64, capital Capital, critical condition.ACCode, mix Mix, traffic Traffic) (*Model, error) {
	if len(capex) == 0 {
		return nil, ErrNoCapex
	}
	mtow, err := mix.MTOW(critical)
	if err != nil {
		return nil, err
	}
	m := &Model{
		WACC:          capital.WACC(),
		MTOWMovements: mtow * traffic.AnnualOperations / 2,
		DepartingPax:  traffic.AnnualPassengers / 2,
		Capex:         capex,
	}
	if m.MTOWMovements+2*m.DepartingPax <= 0 {
		return nil, ErrNoTraffic
	}

	return m, nil
}

// BaseCharges returns, per simulation, the charge recovering WACC·CAPEX.
func (m *Model) BaseCharges() []float64 {
	out := make([]float64, len(m.Capex))
	denom := m.MTOWMovements + 2*m.DepartingPax
	for i, c := range m.Capex {
		out[i] = m.WACC * c / denom
	}

	return out
}

// DefaultCharges sets the landing charge to the mean base charge and the
// passenger charge to twice that, both clamped to the allowed range.
func (m *Model) DefaultCharges() Charges {
	base := stat.Mean(m.BaseCharges(), nil)
	clamp := func(v float64) float64 { return math.Min(math.Max(v, MinCharge), MaxCharge) }

	return Charges{Landing: clamp(base), Passenger: clamp(2 * base)}
}

// Revenue is the annual charge revenue.
func (m *Model) Revenue(c Charges) (float64, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}

	return c.Landing*m.MTOWMovements + c.Passenger*m.DepartingPax, nil
}

// Payback returns the payback period in years for every simulated CAPEX.
func (m *Model) Payback(c Charges, opex float64) ([]float64, error) {
	rev, err := m.Revenue(c)
	if err != nil {
		return nil, err
	}
	net := rev - opex
	if net <= 0 {
		return nil, fmt.Errorf("%w: revenue %.0f, OPEX %.0f", ErrNoPayback, rev, opex)
	}
	out := make([]float64, len(m.Capex))
	for i, capex := range m.Capex {
		out[i] = capex / net
	}

	return out, nil
}
