// SPDX-License-Identifier: MIT
//
// File: snapshot.go
// Role: All-or-nothing commit of mutations.
// Every exported mutation runs through commit: snapshot, apply, validate,
// recompute, and either bump the version and notify, or restore the snapshot.

package core

import (
	"fmt"
	"strings"

	"github.com/katalvlaran/pavecost/dfs"
	"github.com/katalvlaran/pavecost/matrix"
)

// snapshot is a deep copy of the mutable state.
type snapshot struct {
	nodes    []*Node
	rank     *matrix.Dense
	overview []EdgeRow
}

// takeSnapshot copies nodes and caches (mu held).
func (n *Network) takeSnapshot() snapshot {
	s := snapshot{
		nodes:    make([]*Node, len(n.nodes)),
		rank:     n.rank.Clone(),
		overview: append([]EdgeRow(nil), n.overview...),
	}
	for i, nd := range n.nodes {
		s.nodes[i] = nd.clone()
	}

	return s
}

// restore reinstates s (mu held).
func (n *Network) restore(s snapshot) {
	n.nodes = s.nodes
	n.rank = s.rank
	n.overview = s.overview
}

// commitMode tells commit which derived data the mutation invalidates.
type commitMode uint8

const (
	// structural edits: cycle check plus full recomputation
	modeStructure commitMode = iota
	// correlation or order edits: full recomputation
	modeRecompute
	// attribute edits: no derived data changes
	modeAttribute
)

// commit applies fn atomically.
//
// Implementation:
//   - Stage 1: lock, snapshot.
//   - Stage 2: run fn; an error or a no-op (changed=false) restores and returns.
//   - Stage 3: for structural edits reject cycles with ErrCycleRejected.
//   - Stage 4: recompute matrix, bounds and overview unless attribute-only.
//   - Stage 5: bump version, unlock, notify observers.
func (n *Network) commit(mode commitMode, ch Change, fn func() (bool, error)) error {
	n.mu.Lock()
	snap := n.takeSnapshot()

	changed, err := fn()
	if err == nil && changed && mode == modeStructure {
		if cycle := dfs.FindCycle(n.adjacency()); cycle != nil {
			err = fmt.Errorf("%w: %s", ErrCycleRejected, strings.Join(cycle, " → "))
		}
	}
	if err == nil && changed && mode != modeAttribute {
		err = n.recompute()
	}
	if err != nil || !changed {
		n.restore(snap)
		n.mu.Unlock()

		return err
	}

	n.version++
	ch.Version = n.version
	obs := n.activeObservers()
	n.mu.Unlock()

	for _, fn := range obs {
		fn(ch)
	}

	return nil
}
