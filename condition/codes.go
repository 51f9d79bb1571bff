package condition

import "strings"

// ACCode is the aerodrome reference code of the critical aircraft.
type ACCode uint8

// Supported codes. A and B share geometry and are handled as one class.
const (
	CodeUnknown ACCode = iota
	CodeAB
	CodeC
	CodeD
	CodeE
	CodeF
)

var codeLabels = map[ACCode]string{
	CodeAB: "Code A/B",
	CodeC:  "Code C",
	CodeD:  "Code D",
	CodeE:  "Code E",
	CodeF:  "Code F",
}

// Codes lists the known codes in ascending aircraft size.
func Codes() []ACCode { return []ACCode{CodeAB, CodeC, CodeD, CodeE, CodeF} }

// String returns the display label, e.g. "Code C".
func (c ACCode) String() string {
	if s, ok := codeLabels[c]; ok {
		return s
	}

	return "unknown"
}

// ParseACCode accepts "Code A/B" .. "Code F" and the bare letters ("A/B",
// "A", "B", "C", ...), case-insensitively. Anything else is CodeUnknown.
func ParseACCode(label string) ACCode {
	s := strings.ToUpper(strings.TrimSpace(label))
	s = strings.TrimSpace(strings.TrimPrefix(s, "CODE"))
	switch s {
	case "A/B", "A", "B":
		return CodeAB
	case "C":
		return CodeC
	case "D":
		return CodeD
	case "E":
		return CodeE
	case "F":
		return CodeF
	default:
		return CodeUnknown
	}
}

// Size selects which of a node's two parameter tuples is sampled.
type Size uint8

const (
	// Small airports: codes A/B and C.
	Small Size = iota
	// Large airports: codes D, E, F and unknown codes.
	Large
)

func (s Size) String() string {
	if s == Small {
		return "small"
	}

	return "large"
}

// SizeFor maps a code to its size regime.
func SizeFor(c ACCode) Size {
	switch c {
	case CodeAB, CodeC:
		return Small
	default:
		return Large
	}
}

// Geometry holds the code-dependent pavement dimensions, in metres and
// square metres.
type Geometry struct {
	RunwayWidth       float64 `json:"runway_width" yaml:"runway_width"`
	TaxiwaySeparation float64 `json:"taxiway_separation" yaml:"taxiway_separation"`
	TaxiwayWidth      float64 `json:"taxiway_width" yaml:"taxiway_width"`
	TurnpadArea       float64 `json:"turnpad_area" yaml:"turnpad_area"`
}

// ExitClearance is the length of one runway exit: the separation between
// runway and taxiway centre lines minus the two half widths.
func (g Geometry) ExitClearance() float64 {
	return g.TaxiwaySeparation - (g.RunwayWidth+g.TaxiwayWidth)/2
}

// No turnpad reference exists for code F traffic, hence the zero area.
var geometries = map[ACCode]Geometry{
	CodeF:  {RunwayWidth: 60, TaxiwaySeparation: 190, TaxiwayWidth: 25, TurnpadArea: 0},
	CodeE:  {RunwayWidth: 45, TaxiwaySeparation: 182.5, TaxiwayWidth: 23, TurnpadArea: 2520},
	CodeD:  {RunwayWidth: 45, TaxiwaySeparation: 176, TaxiwayWidth: 23, TurnpadArea: 2520},
	CodeC:  {RunwayWidth: 30, TaxiwaySeparation: 168, TaxiwayWidth: 18, TurnpadArea: 1015},
	CodeAB: {RunwayWidth: 23, TaxiwaySeparation: 87, TaxiwayWidth: 10.5, TurnpadArea: 512},
}

// GeometryFor returns the static geometry of c; unknown codes get the A/B row.
func GeometryFor(c ACCode) Geometry {
	if g, ok := geometries[c]; ok {
		return g
	}

	return geometries[CodeAB]
}
