// SPDX-License-Identifier: MIT

package core

// ChangeKind enumerates committed mutations.
type ChangeKind uint8

const (
	NodeAdded ChangeKind = iota + 1
	NodeRemoved
	NodeRenamed
	NodeOrderChanged
	EdgeAdded
	EdgeRemoved
	EdgeReversed
	ParentOrderChanged
	CorrelationChanged
	DistributionChanged
	ParamsChanged
	ConditionChanged
	PositionChanged
	NetworkReplaced
)

var changeKindNames = map[ChangeKind]string{
	NodeAdded:           "node_added",
	NodeRemoved:         "node_removed",
	NodeRenamed:         "node_renamed",
	NodeOrderChanged:    "node_order_changed",
	EdgeAdded:           "edge_added",
	EdgeRemoved:         "edge_removed",
	EdgeReversed:        "edge_reversed",
	ParentOrderChanged:  "parent_order_changed",
	CorrelationChanged:  "correlation_changed",
	DistributionChanged: "distribution_changed",
	ParamsChanged:       "params_changed",
	ConditionChanged:    "condition_changed",
	PositionChanged:     "position_changed",
	NetworkReplaced:     "network_replaced",
}

// String returns a snake_case name, used as a metrics label.
func (k ChangeKind) String() string {
	if s, ok := changeKindNames[k]; ok {
		return s
	}

	return "unknown"
}

// Change describes one committed mutation. Node is set for node edits,
// Parent/Child for edge edits (for EdgeReversed they name the edge before
// the flip). Previous carries the old name on NodeRenamed.
type Change struct {
	Kind     ChangeKind
	Node     string
	Previous string
	Parent   string
	Child    string
	Version  uint64
}

type observer struct {
	id uint64
	fn func(Change)
}

// Subscribe registers fn for every committed mutation and returns a function
// that removes it. fn runs synchronously after the network lock is released,
// so it may call back into the network.
func (n *Network) Subscribe(fn func(Change)) (cancel func()) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.nextObsID++
	id := n.nextObsID
	n.observers = append(n.observers, observer{id: id, fn: fn})

	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		for i, o := range n.observers {
			if o.id == id {
				n.observers = append(n.observers[:i:i], n.observers[i+1:]...)
				return
			}
		}
	}
}

// activeObservers copies the callbacks (mu held).
func (n *Network) activeObservers() []func(Change) {
	out := make([]func(Change), len(n.observers))
	for i, o := range n.observers {
		out[i] = o.fn
	}

	return out
}
