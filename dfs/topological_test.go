package dfs_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/pavecost/dfs"
)

// position returns index of v in slice or -1 if not found
func position(order []string, v string) int {
	for i, x := range order {
		if x == v {
			return i
		}
	}

	return -1
}

// TestTopo_NilGraph verifies that passing a nil graph returns ErrGraphNil.
func TestTopo_NilGraph(t *testing.T) {
	order, err := dfs.TopologicalSort(nil)
	assert.Nil(t, order)
	assert.ErrorIs(t, err, dfs.ErrGraphNil)
}

// TestTopo_EmptyGraph covers a graph with no vertices.
func TestTopo_EmptyGraph(t *testing.T) {
	order, err := dfs.TopologicalSort(dfs.NewAdjacency())
	assert.NoError(t, err)
	assert.Empty(t, order)
}

// TestTopo_NoEdgesKeepsOrder checks that unrelated vertices keep their listed order.
func TestTopo_NoEdgesKeepsOrder(t *testing.T) {
	g := dfs.NewAdjacency("C", "A", "B")
	order, err := dfs.TopologicalSort(g)
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "A", "B"}, order)
}

// TestTopo_SimpleChain verifies linear chain A→B→C yields [A,B,C].
func TestTopo_SimpleChain(t *testing.T) {
	g := dfs.NewAdjacency()
	g.AddEdge("A", "B")
	g.AddEdge("B", "C")

	order, err := dfs.TopologicalSort(g)
	assert.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, order)
}

// TestTopo_ChildListedFirst makes sure a child listed before its parent is moved behind it.
func TestTopo_ChildListedFirst(t *testing.T) {
	g := dfs.NewAdjacency("B", "A", "X")
	g.AddEdge("A", "B")

	order, err := dfs.TopologicalSort(g)
	require.NoError(t, err)
	assert.Less(t, position(order, "A"), position(order, "B")) // parent first
	assert.Len(t, order, 3)
}

// TestTopo_Diamond checks every edge of a diamond points forward.
func TestTopo_Diamond(t *testing.T) {
	g := dfs.NewAdjacency()
	edges := [][2]string{{"A", "B"}, {"A", "C"}, {"B", "D"}, {"C", "D"}}
	for _, e := range edges {
		g.AddEdge(e[0], e[1])
	}

	order, err := dfs.TopologicalSort(g)
	require.NoError(t, err)
	for _, e := range edges {
		assert.Less(t, position(order, e[0]), position(order, e[1]), "%s→%s", e[0], e[1])
	}
}

// TestTopo_Cycle verifies ErrCycleDetected on A→B→A.
func TestTopo_Cycle(t *testing.T) {
	g := dfs.NewAdjacency()
	g.AddEdge("A", "B")
	g.AddEdge("B", "A")

	_, err := dfs.TopologicalSort(g)
	assert.ErrorIs(t, err, dfs.ErrCycleDetected)
}

// TestTopo_Cancelled verifies the context is honored.
func TestTopo_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := dfs.TopologicalSort(dfs.NewAdjacency("A"), dfs.WithCancelContext(ctx))
	assert.ErrorIs(t, err, context.Canceled)
}

// danglingGraph reports a successor that is not a vertex.
type danglingGraph struct{}

func (danglingGraph) Vertices() []string            { return []string{"A"} }
func (danglingGraph) Successors(id string) []string { return []string{"ghost"} }

func TestTopo_UnknownSuccessor(t *testing.T) {
	_, err := dfs.TopologicalSort(danglingGraph{})
	assert.ErrorIs(t, err, dfs.ErrUnknownVertex)
}
