// SPDX-License-Identifier: MIT
//
// File: api.go
// Role: Constructor and read-only getters.
// Policy:
//   - Getters return deep copies; callers never alias network state.
//   - Every getter takes mu, so a read never observes a half-applied edit.

package core

import (
	"fmt"

	"github.com/katalvlaran/pavecost/dfs"
	"github.com/katalvlaran/pavecost/dist"
	"github.com/katalvlaran/pavecost/matrix"
	"github.com/katalvlaran/pavecost/npbn"
)

// Default marginal of a freshly added node: uniform on [0, 1] in both regimes.
var (
	defaultFamily = dist.Uniform
	defaultParams = []float64{0, 1}
)

// NewNetwork creates an empty Network.
// Without WithEngine the default npbn engine completes correlation matrices.
// Complexity: O(1)
func NewNetwork(opts ...Option) *Network {
	n := &Network{}
	for _, opt := range opts {
		opt(n)
	}
	if n.engine == nil {
		n.engine = npbn.New()
	}
	n.rank, _ = matrix.NewDense(0, 0)

	return n
}

// Len returns the number of nodes.
func (n *Network) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()

	return len(n.nodes)
}

// Version returns the number of committed mutations so far.
func (n *Network) Version() uint64 {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.version
}

// NodeNames returns node names in network order.
func (n *Network) NodeNames() []string {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.names()
}

// Nodes returns deep copies of all nodes in network order.
// Complexity: O(V + E)
func (n *Network) Nodes() []Node {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]Node, len(n.nodes))
	for i, nd := range n.nodes {
		out[i] = *nd.clone()
	}

	return out
}

// Node returns a deep copy of the named node.
func (n *Network) Node(name string) (Node, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	i := n.indexOf(name)
	if i < 0 {
		return Node{}, fmt.Errorf("%w: %q", ErrNodeNotFound, name)
	}

	return *n.nodes[i].clone(), nil
}

// Edges returns all edges, grouped by child in network order and by parent order within a child.
func (n *Network) Edges() []Edge {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []Edge
	for _, nd := range n.nodes {
		out = append(out, nd.Edges...)
	}

	return out
}

// Edge returns the edge parent→child.
func (n *Network) Edge(parent, child string) (Edge, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	_, j, err := n.edgeAt(parent, child)
	if err != nil {
		return Edge{}, err
	}

	return n.nodes[n.indexOf(child)].Edges[j], nil
}

// CorrelationMatrix returns a copy of the cached rank correlation matrix,
// rows and columns in network order.
func (n *Network) CorrelationMatrix() *matrix.Dense {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.rank.Clone()
}

// Digraph returns a snapshot of the edge structure usable with package dfs.
func (n *Network) Digraph() *dfs.Adjacency {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.adjacency()
}

// ---------- internal helpers (mu held) ----------

func (n *Network) names() []string {
	out := make([]string, len(n.nodes))
	for i, nd := range n.nodes {
		out[i] = nd.Name
	}

	return out
}

// indexOf returns the position of name in the node sequence, or -1.
func (n *Network) indexOf(name string) int {
	for i, nd := range n.nodes {
		if nd.Name == name {
			return i
		}
	}

	return -1
}

// edgeAt locates parent→child; returns the child index and the parent position.
func (n *Network) edgeAt(parent, child string) (int, int, error) {
	ci := n.indexOf(child)
	if ci < 0 {
		return 0, 0, fmt.Errorf("%w: %q", ErrNodeNotFound, child)
	}
	if n.indexOf(parent) < 0 {
		return 0, 0, fmt.Errorf("%w: %q", ErrNodeNotFound, parent)
	}
	j := n.nodes[ci].parentIndex(parent)
	if j < 0 {
		return 0, 0, fmt.Errorf("%w: %s→%s", ErrEdgeNotFound, parent, child)
	}

	return ci, j, nil
}

// adjacency builds a dfs view of the current edges in node order.
func (n *Network) adjacency() *dfs.Adjacency {
	g := dfs.NewAdjacency(n.names()...)
	for _, nd := range n.nodes {
		for _, e := range nd.Edges {
			g.AddEdge(e.Parent, e.Child)
		}
	}

	return g
}
