// Package dfs implements directed cycle detection with three-color marking.
//
// FindCycle returns the first cycle met by a DFS that starts from each
// vertex in Vertices() order, as the closed vertex path [v0, v1, ..., v0].
//
// Complexity:
//
//   - Time:   O(V + E)
//   - Memory: O(V)     (recursion stack + state map + current path)
package dfs

// cycleFinder carries the traversal state of FindCycle.
type cycleFinder struct {
	graph Digraph
	state map[string]int
	path  []string
	found []string
}

// FindCycle reports the first directed cycle in g, or nil if g is acyclic.
// A nil graph is treated as cycle-free. Successors that are not vertices of g
// are ignored.
func FindCycle(g Digraph) []string {
	if g == nil {
		return nil
	}
	verts := g.Vertices()
	f := &cycleFinder{
		graph: g,
		state: make(map[string]int, len(verts)),
		path:  make([]string, 0, len(verts)),
	}
	for _, v := range verts {
		f.state[v] = White
	}
	for _, v := range verts {
		if f.state[v] == White && f.visit(v) {
			return f.found
		}
	}

	return nil
}

// visit returns true once a back-edge has been met and f.found is filled.
func (f *cycleFinder) visit(id string) bool {
	f.state[id] = Gray
	f.path = append(f.path, id)
	for _, next := range f.graph.Successors(id) {
		st, known := f.state[next]
		if !known {
			continue
		}
		if st == Gray {
			// cut the current path at the first occurrence of next
			for i, v := range f.path {
				if v == next {
					f.found = append(append([]string{}, f.path[i:]...), next)
					return true
				}
			}
		}
		if st == White && f.visit(next) {
			return true
		}
	}
	f.path = f.path[:len(f.path)-1]
	f.state[id] = Black

	return false
}
