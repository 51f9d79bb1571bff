package condition_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/pavecost/condition"
	"github.com/katalvlaran/pavecost/core"
	"github.com/katalvlaran/pavecost/ctxlog"
)

func TestParseACCode(t *testing.T) {
	cases := map[string]condition.ACCode{
		"Code A/B": condition.CodeAB,
		"code c":   condition.CodeC,
		" D ":      condition.CodeD,
		"B":        condition.CodeAB,
		"Code E":   condition.CodeE,
		"F":        condition.CodeF,
		"Code G":   condition.CodeUnknown,
		"":         condition.CodeUnknown,
	}
	for in, want := range cases {
		assert.Equal(t, want, condition.ParseACCode(in), "ParseACCode(%q)", in)
	}
	for _, c := range condition.Codes() {
		assert.Equal(t, c, condition.ParseACCode(c.String()))
	}
}

func TestSizeFor(t *testing.T) {
	assert.Equal(t, condition.Small, condition.SizeFor(condition.CodeAB))
	assert.Equal(t, condition.Small, condition.SizeFor(condition.CodeC))
	assert.Equal(t, condition.Large, condition.SizeFor(condition.CodeD))
	assert.Equal(t, condition.Large, condition.SizeFor(condition.CodeF))
	assert.Equal(t, condition.Large, condition.SizeFor(condition.CodeUnknown))
}

func TestGeometryFor(t *testing.T) {
	e := condition.GeometryFor(condition.CodeE)
	assert.Equal(t, 182.5, e.TaxiwaySeparation)
	assert.InDelta(t, 182.5-(45+23)/2.0, e.ExitClearance(), 1e-12)

	assert.Equal(t, condition.GeometryFor(condition.CodeAB), condition.GeometryFor(condition.CodeUnknown))
	assert.Zero(t, condition.GeometryFor(condition.CodeF).TurnpadArea)
}

func TestValidate(t *testing.T) {
	in := &condition.Inputs{ACCode: "Code C"}
	require.NoError(t, condition.Validate(in))

	in.Project.RunwayLength = condition.Float(-5)
	assert.ErrorIs(t, condition.Validate(in), condition.ErrInvalidInputs)

	in.Project.RunwayLength = nil
	in.AddOns.ILS = "Cat IV"
	err := condition.Validate(in)
	assert.ErrorIs(t, err, condition.ErrInvalidInputs)
	assert.Contains(t, err.Error(), "ILS")

	in.AddOns.ILS = condition.ILSCatIII
	assert.NoError(t, condition.Validate(in))
	assert.ErrorIs(t, condition.Validate(nil), condition.ErrInvalidInputs)
}

func TestConditions_Turnpads(t *testing.T) {
	in := &condition.Inputs{}
	assert.Equal(t, "0", in.Conditions()[condition.NodeTurnpads]) // disabled

	in.AddOns.Turnpads = true
	assert.Equal(t, core.NotApplicable, in.Conditions()[condition.NodeTurnpads])

	in.AddOns.TurnpadCount = condition.Float(2)
	assert.Equal(t, "2", in.Conditions()[condition.NodeTurnpads])
	assert.Equal(t, core.NotApplicable, in.Conditions()[condition.NodeACCode])
}

func newNet(t *testing.T, names ...string) *core.Network {
	t.Helper()
	net := core.NewNetwork()
	for _, n := range names {
		require.NoError(t, net.AddNode(n))
	}

	return net
}

func TestApplyAndResolve(t *testing.T) {
	net := newNet(t, condition.NodeACCode, condition.NodeRunwayLength, condition.NodeApronArea, condition.NodeTurnpads)
	in := &condition.Inputs{
		ACCode:  "Code D",
		Project: condition.Project{RunwayLength: condition.Float(2800), Runways: condition.Float(1)},
	}
	ctx := ctxlog.WithLogger(context.Background(), ctxlog.Discard())
	require.NoError(t, condition.Apply(ctx, net, in)) // #RWY absent: skipped

	res := condition.Resolve(net)
	assert.Empty(t, res.Warnings)
	assert.Equal(t, condition.CodeD, res.Code)
	assert.Equal(t, condition.Large, res.Size)
	assert.Equal(t, 45.0, res.Conditions[condition.NodeACCode]) // runway width
	assert.Equal(t, 2800.0, res.Conditions[condition.NodeRunwayLength])
	assert.Equal(t, 0.0, res.Conditions[condition.NodeTurnpads])
	assert.False(t, res.Conditioned(condition.NodeApronArea))

	v, ok := res.DesignVars[condition.NodeApronArea]
	assert.True(t, ok)
	assert.Nil(t, v)
	assert.Equal(t, []float64{2800}, res.DesignVars[condition.NodeRunwayLength])
}

func TestResolve_UnparsableIsWarning(t *testing.T) {
	net := newNet(t, condition.NodeACCode, condition.NodeMovements)
	require.NoError(t, net.SetCondition(condition.NodeMovements, "lots"))
	require.NoError(t, net.SetCondition(condition.NodeACCode, "Code Z"))

	res := condition.Resolve(net)
	require.Len(t, res.Warnings, 2)
	for _, w := range res.Warnings {
		assert.ErrorIs(t, w, condition.ErrUnparsableInput)
	}
	assert.False(t, res.Conditioned(condition.NodeMovements))
	assert.Equal(t, condition.Large, res.Size)
	assert.Equal(t, 23.0, res.Conditions[condition.NodeACCode])
}

// TestResolve_MissingCodeIsWarning covers a code the geometry never sees:
// the node is absent, or present but left n.a.
func TestResolve_MissingCodeIsWarning(t *testing.T) {
	ctx := ctxlog.WithLogger(context.Background(), ctxlog.Discard())
	in := &condition.Inputs{ACCode: "Code E"}

	absent := newNet(t, condition.NodeRunwayLength)
	require.NoError(t, condition.Apply(ctx, absent, in))
	res := condition.Resolve(absent)
	assert.Equal(t, condition.CodeUnknown, res.Code)
	require.Len(t, res.Warnings, 1)
	assert.ErrorIs(t, res.Warnings[0], condition.ErrUnparsableInput)
	assert.Contains(t, res.Warnings[0].Error(), "no \"AC code\" node")

	unset := newNet(t, condition.NodeACCode)
	res = condition.Resolve(unset)
	assert.Equal(t, condition.Large, res.Size)
	require.Len(t, res.Warnings, 1)
	assert.ErrorIs(t, res.Warnings[0], condition.ErrUnparsableInput)
	assert.Contains(t, res.Warnings[0].Error(), "AC code not given")
}

func TestApply_Invalid(t *testing.T) {
	net := newNet(t, condition.NodeMovements)
	in := &condition.Inputs{Project: condition.Project{AnnualOperations: condition.Float(-1)}}
	assert.ErrorIs(t, condition.Apply(context.Background(), net, in), condition.ErrInvalidInputs)

	nd, _ := net.Node(condition.NodeMovements)
	assert.False(t, nd.Conditioned())
}
