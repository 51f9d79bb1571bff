package condition

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/katalvlaran/pavecost/core"
)

// Resolution is the design context derived from the conditioned network.
type Resolution struct {
	Code     ACCode
	Size     Size
	Geometry Geometry

	// Conditions holds the numeric value of every conditioned node. The
	// AC code node resolves to the runway width.
	Conditions map[string]float64

	// DesignVars starts the per-run mapping: every node name is present,
	// free nodes map to nil and conditioned nodes to their single value.
	DesignVars map[string][]float64

	// Warnings collects the conditions that were ignored, each wrapping
	// ErrUnparsableInput.
	Warnings []error
}

// Conditioned reports whether name has a usable condition.
func (r *Resolution) Conditioned(name string) bool {
	_, ok := r.Conditions[name]

	return ok
}

// Resolve reads the conditions currently set on net.
func Resolve(net *core.Network) *Resolution {
	res := &Resolution{
		Code:       CodeUnknown,
		Conditions: make(map[string]float64),
		DesignVars: make(map[string][]float64),
	}
	nodes := net.Nodes()

	// the code must be known before any value, it fixes the geometry
	reason := fmt.Sprintf("no %q node in the network", NodeACCode)
	for _, nd := range nodes {
		if nd.Name != NodeACCode {
			continue
		}
		reason = fmt.Sprintf("%s not given", NodeACCode)
		if nd.Conditioned() {
			res.Code = ParseACCode(nd.Condition)
			reason = fmt.Sprintf("%s: unknown code %q", nd.Name, nd.Condition)
		}
	}
	if res.Code == CodeUnknown {
		res.Warnings = append(res.Warnings, fmt.Errorf("%w: %s, using %s geometry and %s size",
			ErrUnparsableInput, reason, CodeAB, SizeFor(CodeUnknown)))
	}
	res.Size = SizeFor(res.Code)
	res.Geometry = GeometryFor(res.Code)

	for _, nd := range nodes {
		res.DesignVars[nd.Name] = nil
		if !nd.Conditioned() {
			continue
		}
		var v float64
		if nd.Name == NodeACCode {
			v = res.Geometry.RunwayWidth
		} else {
			parsed, err := strconv.ParseFloat(strings.TrimSpace(nd.Condition), 64)
			if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
				res.Warnings = append(res.Warnings,
					fmt.Errorf("%w: %s: %q treated as %s", ErrUnparsableInput, nd.Name, nd.Condition, core.NotApplicable))
				continue
			}
			v = parsed
		}
		res.Conditions[nd.Name] = v
		res.DesignVars[nd.Name] = []float64{v}
	}

	return res
}
