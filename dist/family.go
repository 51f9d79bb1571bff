// Package dist models the closed set of marginal distribution families a
// network node may carry, and converts stored parameter tuples into the
// engine convention (shape, location, scale).
package dist

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Sentinel errors for distribution handling.
var (
	// ErrUnknownFamily indicates a tag outside the supported families.
	ErrUnknownFamily = errors.New("dist: unknown distribution family")

	// ErrParameterCount indicates a tuple of the wrong arity for its family.
	ErrParameterCount = errors.New("dist: wrong number of parameters")

	// ErrInvalidParameters indicates values that do not describe a distribution
	// (non-positive scale, min > mode, NaN and the like).
	ErrInvalidParameters = errors.New("dist: invalid parameters")
)

// Family is a closed tagged variant over the supported marginal families.
type Family uint8

const (
	// Triangular is stored as (min, mode, max) and sampled as (c, loc, scale).
	Triangular Family = iota + 1
	// Uniform is stored as (loc, scale) on [loc, loc+scale].
	Uniform
	// Exponential is stored as (loc, scale) with mean loc+scale.
	Exponential
	// Normal is stored as (loc, scale) = (mean, standard deviation).
	Normal
	// Lognormal is stored as (s, loc, scale): loc + scale·exp(s·Z).
	Lognormal
)

// familyTags holds the persisted tag of each family.
var familyTags = map[Family]string{
	Triangular:  "triang",
	Uniform:     "uniform",
	Exponential: "expon",
	Normal:      "norm",
	Lognormal:   "lognorm",
}

// Families lists every supported family in declaration order.
func Families() []Family {
	return []Family{Triangular, Uniform, Exponential, Normal, Lognormal}
}

// String returns the persisted tag ("triang", "uniform", ...).
func (f Family) String() string {
	if tag, ok := familyTags[f]; ok {
		return tag
	}

	return fmt.Sprintf("Family(%d)", uint8(f))
}

// ParseFamily maps a tag (case-insensitive, long names accepted) to a Family.
func ParseFamily(tag string) (Family, error) {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "triang", "triangular":
		return Triangular, nil
	case "uniform":
		return Uniform, nil
	case "expon", "exponential":
		return Exponential, nil
	case "norm", "normal":
		return Normal, nil
	case "lognorm", "lognormal":
		return Lognormal, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownFamily, tag)
}

// MarshalText implements encoding.TextMarshaler.
func (f Family) MarshalText() ([]byte, error) {
	tag, ok := familyTags[f]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownFamily, uint8(f))
	}

	return []byte(tag), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Family) UnmarshalText(b []byte) error {
	parsed, err := ParseFamily(string(b))
	if err != nil {
		return err
	}
	*f = parsed

	return nil
}

// Arity returns the length of the stored tuple for f.
func (f Family) Arity() int {
	switch f {
	case Triangular, Lognormal:
		return 3
	case Uniform, Exponential, Normal:
		return 2
	}

	return 0
}

// EngineParameters converts a stored tuple into the engine convention.
//
// Triangular (min, mode, max) becomes (c, loc, scale) with
// c = (mode−min)/(max−min), loc = min, scale = max−min. Every other family is
// already stored in the engine convention and is validated and copied.
//
// Errors: ErrUnknownFamily, ErrParameterCount, ErrInvalidParameters.
func EngineParameters(f Family, tuple []float64) ([]float64, error) {
	if f.Arity() == 0 {
		return nil, fmt.Errorf("%w: %d", ErrUnknownFamily, uint8(f))
	}
	if len(tuple) != f.Arity() {
		return nil, fmt.Errorf("%s: got %d, want %d: %w", f, len(tuple), f.Arity(), ErrParameterCount)
	}
	for _, v := range tuple {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%s %v: %w", f, tuple, ErrInvalidParameters)
		}
	}
	if f == Triangular {
		lo, mode, hi := tuple[0], tuple[1], tuple[2]
		if !(lo < hi) || mode < lo || mode > hi {
			return nil, fmt.Errorf("%s (min %g, mode %g, max %g): %w", f, lo, mode, hi, ErrInvalidParameters)
		}

		return []float64{(mode - lo) / (hi - lo), lo, hi - lo}, nil
	}
	if scale := tuple[len(tuple)-1]; scale <= 0 {
		return nil, fmt.Errorf("%s scale %g: %w", f, scale, ErrInvalidParameters)
	}
	if f == Lognormal && tuple[0] <= 0 {
		return nil, fmt.Errorf("%s shape %g: %w", f, tuple[0], ErrInvalidParameters)
	}

	return append([]float64(nil), tuple...), nil
}
