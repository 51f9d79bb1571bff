package dfs

import "slices"

// Adjacency is an insertion-ordered directed edge list implementing Digraph.
// The zero value is not usable; call NewAdjacency.
type Adjacency struct {
	order []string            // vertex IDs in insertion order
	next  map[string][]string // tail → heads, in insertion order
}

// Compile-time check.
var _ Digraph = (*Adjacency)(nil)

// NewAdjacency returns an Adjacency seeded with the given vertices.
// Duplicate IDs are ignored.
func NewAdjacency(vertices ...string) *Adjacency {
	a := &Adjacency{next: make(map[string][]string, len(vertices))}
	for _, v := range vertices {
		a.AddVertex(v)
	}

	return a
}

// AddVertex appends id if it is not yet present.
func (a *Adjacency) AddVertex(id string) {
	if _, ok := a.next[id]; ok {
		return
	}
	a.order = append(a.order, id)
	a.next[id] = nil
}

// AddEdge records from→to, adding missing endpoints. Parallel edges are kept
// once.
func (a *Adjacency) AddEdge(from, to string) {
	a.AddVertex(from)
	a.AddVertex(to)
	if slices.Contains(a.next[from], to) {
		return
	}
	a.next[from] = append(a.next[from], to)
}

// RemoveEdge deletes from→to if present.
func (a *Adjacency) RemoveEdge(from, to string) {
	heads := a.next[from]
	if i := slices.Index(heads, to); i >= 0 {
		a.next[from] = slices.Delete(heads, i, i+1)
	}
}

// Vertices returns the vertex IDs in insertion order.
func (a *Adjacency) Vertices() []string { return slices.Clone(a.order) }

// Successors returns the heads of id's outgoing edges.
func (a *Adjacency) Successors(id string) []string { return slices.Clone(a.next[id]) }
