// Package dfs provides topological sort on directed graphs.
//
// TopologicalSort computes a linear ordering of vertices such that for
// every directed edge u→v, u appears before v in the ordering.
// If the graph contains a cycle, ErrCycleDetected is returned.
//
// Complexity:
//
//   - Time:   O(V + E) (each vertex and edge visited once)
//   - Memory: O(V)     (recursion stack and state map)
package dfs

import "fmt"

// topoSorter encapsulates state for a topological sort traversal.
type topoSorter struct {
	graph Digraph        // the graph being sorted
	opts  topoOptions    // traversal options (cancellation)
	state map[string]int // visitation state: 0=White,1=Gray,2=Black
	order []string       // recorded post-order sequence
}

// TopologicalSort computes a topological ordering of all vertices in g.
// If g is nil, returns ErrGraphNil.
// If a cycle is detected, returns ErrCycleDetected.
// If a successor is not among Vertices(), returns ErrUnknownVertex.
// You may pass WithCancelContext(ctx) to enable cancellation.
//
// Among all valid orders, the result keeps unrelated vertices in their
// Vertices() order as far as the reverse post-order allows.
func TopologicalSort(g Digraph, options ...TopoOption) ([]string, error) {
	// 1. Validate graph
	if g == nil {
		return nil, ErrGraphNil
	}
	// 2. Apply optional settings
	opts := defaultTopoOptions()
	for _, opt := range options {
		opt(&opts)
	}
	// 3. Initialize sorter state; every known vertex starts White
	verts := g.Vertices()
	sorter := &topoSorter{
		graph: g,
		opts:  opts,
		state: make(map[string]int, len(verts)),
		order: make([]string, 0, len(verts)),
	}
	for _, v := range verts {
		sorter.state[v] = White
	}
	// 4. Drive DFS from every unvisited vertex, last first, so that the
	//    reversed post-order starts with the earliest roots
	for i := len(verts) - 1; i >= 0; i-- {
		if sorter.state[verts[i]] == White {
			if err := sorter.visit(verts[i]); err != nil {
				return nil, err
			}
		}
	}
	// 5. Reverse post-order to produce topological order
	for i, j := 0, len(sorter.order)-1; i < j; i, j = i+1, j-1 {
		sorter.order[i], sorter.order[j] = sorter.order[j], sorter.order[i]
	}

	return sorter.order, nil
}

// visit performs a DFS from id, marking states and detecting cycles.
func (t *topoSorter) visit(id string) error {
	// 1. Cancellation check at entry
	select {
	case <-t.opts.ctx.Done():
		return t.opts.ctx.Err()
	default:
	}
	// 2. Mark as in-progress (Gray)
	t.state[id] = Gray

	// 3. Explore successors in reverse so earlier heads end up earlier
	succ := t.graph.Successors(id)
	for i := len(succ) - 1; i >= 0; i-- {
		next := succ[i]
		st, known := t.state[next]
		switch {
		case !known:
			return fmt.Errorf("%w: %q (from %q)", ErrUnknownVertex, next, id)
		case st == Gray:
			return fmt.Errorf("%w: back-edge %q→%q", ErrCycleDetected, id, next)
		case st == White:
			if err := t.visit(next); err != nil {
				return err
			}
		}
	}

	// 4. Mark as fully explored (Black) and record post-order
	t.state[id] = Black
	t.order = append(t.order, id)

	return nil
}
