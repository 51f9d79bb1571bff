// File: methods_nodes.go
// Role: Node lifecycle and attributes: AddNode/RemoveNode/ChangeNodeName/
//       ChangeNodeOrder and the distribution/condition/position setters.
// Determinism:
//   - New nodes are appended; ChangeNodeOrder is pop(source)+insert(target).

package core

import (
	"fmt"
	"math"
	"slices"

	"github.com/katalvlaran/pavecost/dist"
)

// AddNode appends a node with no condition.
//
// Steps:
//  1. Validate name (ErrEmptyName, ErrDuplicateName).
//  2. Apply options; validate WithParents (ErrParentsMismatch, ErrNodeNotFound,
//     ErrDuplicateEdge, conditional values in [-1, 1]).
//  3. Commit with a full recomputation. A new node has no children, so its
//     incoming edges cannot close a cycle.
//
// Complexity: O(V) plus one recomputation.
func (n *Network) AddNode(name string, opts ...NodeOption) error {
	if name == "" {
		return ErrEmptyName
	}
	spec := nodeSpec{node: Node{
		Name:         name,
		Distribution: defaultFamily,
		ParamsSmall:  slices.Clone(defaultParams),
		ParamsLarge:  slices.Clone(defaultParams),
		Condition:    NotApplicable,
	}}
	for _, opt := range opts {
		opt(&spec)
	}
	if spec.node.Condition == "" {
		spec.node.Condition = NotApplicable
	}
	if len(spec.parents) != len(spec.condCorrs) {
		return fmt.Errorf("%w: %d names, %d correlations", ErrParentsMismatch, len(spec.parents), len(spec.condCorrs))
	}

	return n.commit(modeStructure, Change{Kind: NodeAdded, Node: name}, func() (bool, error) {
		if n.indexOf(name) >= 0 {
			return false, fmt.Errorf("%w: %q", ErrDuplicateName, name)
		}
		nd := spec.node
		for i, p := range spec.parents {
			if n.indexOf(p) < 0 {
				return false, fmt.Errorf("%w: parent %q", ErrNodeNotFound, p)
			}
			if nd.parentIndex(p) >= 0 {
				return false, fmt.Errorf("%w: %s→%s", ErrDuplicateEdge, p, name)
			}
			if err := checkUnit(p, name, spec.condCorrs[i]); err != nil {
				return false, err
			}
			nd.Edges = append(nd.Edges, Edge{Parent: p, Child: name, CondRankCorr: spec.condCorrs[i]})
		}
		n.nodes = append(n.nodes, &nd)

		return true, nil
	})
}

// RemoveNode deletes the node and every edge touching it.
// Complexity: O(V + E) plus one recomputation.
func (n *Network) RemoveNode(name string) error {
	return n.commit(modeRecompute, Change{Kind: NodeRemoved, Node: name}, func() (bool, error) {
		i := n.indexOf(name)
		if i < 0 {
			return false, fmt.Errorf("%w: %q", ErrNodeNotFound, name)
		}
		n.nodes = slices.Delete(n.nodes, i, i+1)
		for _, nd := range n.nodes {
			nd.Edges = slices.DeleteFunc(nd.Edges, func(e Edge) bool { return e.Parent == name })
		}

		return true, nil
	})
}

// ChangeNodeName renames a node in place and rewrites every edge that refers
// to it. An empty new name is a silent no-op; renaming to the same name is a
// no-op as well.
func (n *Network) ChangeNodeName(oldName, newName string) error {
	if newName == "" || newName == oldName {
		return nil
	}

	return n.commit(modeAttribute, Change{Kind: NodeRenamed, Node: newName, Previous: oldName}, func() (bool, error) {
		i := n.indexOf(oldName)
		if i < 0 {
			return false, fmt.Errorf("%w: %q", ErrNodeNotFound, oldName)
		}
		if n.indexOf(newName) >= 0 {
			return false, fmt.Errorf("%w: %q", ErrDuplicateName, newName)
		}
		n.nodes[i].Name = newName
		for _, nd := range n.nodes {
			for j := range nd.Edges {
				if nd.Edges[j].Parent == oldName {
					nd.Edges[j].Parent = newName
				}
				if nd.Edges[j].Child == oldName {
					nd.Edges[j].Child = newName
				}
			}
		}
		n.refreshOverview()

		return true, nil
	})
}

// ChangeNodeOrder moves the node at sourcePos to targetPos
// (pop then insert) and recomputes every derived quantity.
func (n *Network) ChangeNodeOrder(sourcePos, targetPos int) error {
	return n.commit(modeRecompute, Change{Kind: NodeOrderChanged}, func() (bool, error) {
		size := len(n.nodes)
		if sourcePos < 0 || sourcePos >= size || targetPos < 0 || targetPos >= size {
			return false, fmt.Errorf("%w: move %d→%d of %d nodes", ErrPositionOutOfRange, sourcePos, targetPos, size)
		}
		if sourcePos == targetPos {
			return false, nil
		}
		nd := n.nodes[sourcePos]
		n.nodes = slices.Delete(n.nodes, sourcePos, sourcePos+1)
		n.nodes = slices.Insert(n.nodes, targetPos, nd)

		return true, nil
	})
}

// ChangeDistribution switches the marginal family of a node. Parameter
// tuples are kept; callers usually follow up with ChangeParamsSmall/Large.
func (n *Network) ChangeDistribution(name string, f dist.Family) error {
	if f.Arity() == 0 {
		return fmt.Errorf("%w: %d", dist.ErrUnknownFamily, uint8(f))
	}

	return n.setAttribute(DistributionChanged, name, func(nd *Node) bool {
		if nd.Distribution == f {
			return false
		}
		nd.Distribution = f

		return true
	})
}

// ChangeParamsSmall replaces the small-regime parameter tuple.
// An empty tuple is a no-op.
func (n *Network) ChangeParamsSmall(name string, params []float64) error {
	return n.changeParams(name, params, func(nd *Node) *[]float64 { return &nd.ParamsSmall })
}

// ChangeParamsLarge replaces the large-regime parameter tuple.
// An empty tuple is a no-op.
func (n *Network) ChangeParamsLarge(name string, params []float64) error {
	return n.changeParams(name, params, func(nd *Node) *[]float64 { return &nd.ParamsLarge })
}

func (n *Network) changeParams(name string, params []float64, field func(*Node) *[]float64) error {
	if len(params) == 0 {
		return nil
	}
	for _, v := range params {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%q: %w", name, dist.ErrInvalidParameters)
		}
	}

	return n.setAttribute(ParamsChanged, name, func(nd *Node) bool {
		*field(nd) = slices.Clone(params)

		return true
	})
}

// SetCondition sets the observed value of a node; NotApplicable clears it.
// An empty value is a no-op.
func (n *Network) SetCondition(name, value string) error {
	if value == "" {
		return nil
	}

	return n.setAttribute(ConditionChanged, name, func(nd *Node) bool {
		if nd.Condition == value {
			return false
		}
		nd.Condition = value

		return true
	})
}

// SetPosition stores the presentation position.
func (n *Network) SetPosition(name string, x, y float64) error {
	return n.setAttribute(PositionChanged, name, func(nd *Node) bool {
		nd.X, nd.Y = x, y

		return true
	})
}

// setAttribute commits an attribute-only edit of one node.
func (n *Network) setAttribute(kind ChangeKind, name string, edit func(*Node) bool) error {
	return n.commit(modeAttribute, Change{Kind: kind, Node: name}, func() (bool, error) {
		i := n.indexOf(name)
		if i < 0 {
			return false, fmt.Errorf("%w: %q", ErrNodeNotFound, name)
		}

		return edit(n.nodes[i]), nil
	})
}
