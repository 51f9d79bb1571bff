package cost

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/katalvlaran/pavecost/condition"
	"github.com/katalvlaran/pavecost/core"
)

// ErrUnparsablePrice marks a price without a numeric token. The reference
// price is used instead.
var ErrUnparsablePrice = errors.New("cost: unparsable price")

// priceToken is the first number in a free-text price, e.g. "€ 160/m3".
var priceToken = regexp.MustCompile(`[-+]?\d*\.?\d+(?:e[-+]?\d+)?`)

// Material indexes the four reference materials.
type Material int

const (
	Concrete Material = iota
	Asphalt
	CTB
	Sand
	numMaterials
)

var materialNames = [numMaterials]string{"concrete", "asphalt", "CTB", "sand"}

func (m Material) String() string {
	if m < 0 || m >= numMaterials {
		return "unknown"
	}

	return materialNames[m]
}

// Family groups the elements that share a price reference.
type Family int

const (
	TaxiwayFamily Family = iota
	RunwayFamily
	ApronFamily
	AirfieldFamily
	numFamilies
)

// referencePrices are the material prices of the reference study cases, per
// family, indexed by Material.
var referencePrices = [numFamilies][numMaterials]float64{
	TaxiwayFamily:  {157.9, 148.55, 46.47, 12.15},
	RunwayFamily:   {157.9, 252, 48, 22.5},
	ApronFamily:    {433.15, 1612.8, 414.35, 44},
	AirfieldFamily: {575, 252, 414.35, 22.5},
}

// ReferenceTotal is the summed reference price of family f.
func ReferenceTotal(f Family) float64 {
	var s float64
	for _, p := range referencePrices[f] {
		s += p
	}

	return s
}

// Factors are the regional correction factors applied to unit costs.
type Factors struct {
	Taxiway  float64 `json:"taxiway" yaml:"taxiway"`
	Runway   float64 `json:"runway" yaml:"runway"`
	Apron    float64 `json:"apron" yaml:"apron"`
	Airfield float64 `json:"airfield" yaml:"airfield"`
}

// ParsePrice extracts the first numeric token of s. Blank and "n.a." are
// unspecified and return ok == false with a nil error.
func ParsePrice(s string) (v float64, ok bool, err error) {
	s = strings.TrimSpace(s)
	if s == "" || s == core.NotApplicable {
		return 0, false, nil
	}
	tok := priceToken.FindString(s)
	if tok == "" {
		return 0, false, fmt.Errorf("%w: %q", ErrUnparsablePrice, s)
	}
	v, err = strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, false, fmt.Errorf("%w: %q: %v", ErrUnparsablePrice, s, err)
	}

	return v, true, nil
}

// CorrectionFactors derives the four factors from the user prices. An
// unspecified or unparsable price takes the family's own reference value, so
// with no prices every factor is exactly 1. A user total of zero falls back
// to the runway reference total. Parse failures are returned as warnings.
func CorrectionFactors(p condition.Prices) (Factors, []error) {
	raw := [numMaterials]string{Concrete: p.Concrete, Asphalt: p.Asphalt, CTB: p.CTB, Sand: p.Sand}
	var (
		user     [numMaterials]float64
		given    [numMaterials]bool
		warnings []error
	)
	for m, s := range raw {
		v, ok, err := ParsePrice(s)
		if err != nil {
			warnings = append(warnings, fmt.Errorf("%s: %w", Material(m), err))
		}
		user[m], given[m] = v, ok
	}

	factor := func(f Family) float64 {
		var total float64
		for m := range user {
			if given[m] {
				total += user[m]
			} else {
				total += referencePrices[f][m]
			}
		}
		if total == 0 {
			total = ReferenceTotal(RunwayFamily)
		}

		return total / ReferenceTotal(f)
	}

	return Factors{
		Taxiway:  factor(TaxiwayFamily),
		Runway:   factor(RunwayFamily),
		Apron:    factor(ApronFamily),
		Airfield: factor(AirfieldFamily),
	}, warnings
}
