// SPDX-License-Identifier: MIT
// Package core_test contains fixtures shared by the network tests.

package core_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/pavecost/core"
	"github.com/katalvlaran/pavecost/matrix"
	"github.com/katalvlaran/pavecost/npbn"
)

// Common node names used across core tests.
const (
	NodeA = "A"
	NodeB = "B"
	NodeC = "C"
	NodeD = "D"
	NodeX = "X"
)

// corrTol is the tolerance of correlation comparisons.
const corrTol = 1e-9

// errEngineDown is returned by countingEngine when failing is set.
var errEngineDown = errors.New("engine down")

// countingEngine wraps the default engine and counts completion calls.
type countingEngine struct {
	inner   *npbn.Engine
	calls   int
	failing bool
}

func newCountingEngine() *countingEngine {
	return &countingEngine{inner: npbn.New(npbn.WithSeed(1))}
}

func (c *countingEngine) CompleteCorrelationMatrix(parents [][]int, corrs [][]float64, names []string) (*matrix.Dense, error) {
	c.calls++
	if c.failing {
		return nil, errEngineDown
	}

	return c.inner.CompleteCorrelationMatrix(parents, corrs, names)
}

// newNetwork returns a network over the counting engine with the given nodes.
func newNetwork(t *testing.T, names ...string) (*core.Network, *countingEngine) {
	t.Helper()
	eng := newCountingEngine()
	net := core.NewNetwork(core.WithEngine(eng))
	for _, name := range names {
		require.NoError(t, net.AddNode(name), "AddNode(%s)", name)
	}

	return net, eng
}

// mustEdge adds parent→child with a conditional rank correlation.
func mustEdge(t *testing.T, net *core.Network, parent, child string, cond float64) {
	t.Helper()
	require.NoError(t, net.AddEdge(parent, child), "AddEdge(%s,%s)", parent, child)
	require.NoError(t, net.ChangeConditionalCorrelation(parent, child, cond))
}

// requireBoundsHold asserts every edge's observed value lies inside its bounds.
func requireBoundsHold(t *testing.T, net *core.Network) {
	t.Helper()
	for _, e := range net.Edges() {
		require.True(t, e.Bounds.Contains(e.RankCorr, corrTol),
			"%s→%s: r=%g outside [%g, %g]", e.Parent, e.Child, e.RankCorr, e.Bounds.Low, e.Bounds.High)
	}
}
