// Package core defines the Network, Node and Edge types, the options that
// configure them, and the sentinel errors of the dependency network.
//
// Errors:
//
//	ErrEmptyName               - node name is the empty string.
//	ErrDuplicateName           - node name already taken.
//	ErrNodeNotFound            - requested node does not exist.
//	ErrEdgeNotFound            - requested edge does not exist.
//	ErrDuplicateEdge           - edge parent→child already exists.
//	ErrCycleRejected           - edit would break acyclicity.
//	ErrCorrelationOutOfBounds  - correlation outside its feasible interval.
//	ErrParentOrderCrossesChild - parent reorder spans two children.
//	ErrPositionOutOfRange      - reorder position outside the sequence.
//	ErrParentsMismatch         - WithParents names and correlations differ in length.
package core

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/katalvlaran/pavecost/dist"
	"github.com/katalvlaran/pavecost/matrix"
)

// Sentinel errors for network operations.
var (
	// ErrEmptyName indicates that the provided node name is empty.
	ErrEmptyName = errors.New("core: node name is empty")

	// ErrDuplicateName indicates that a node with the same name exists.
	ErrDuplicateName = errors.New("core: duplicate node name")

	// ErrNodeNotFound indicates an operation referenced a non-existent node.
	ErrNodeNotFound = errors.New("core: node not found")

	// ErrEdgeNotFound indicates an operation referenced a non-existent edge.
	ErrEdgeNotFound = errors.New("core: edge not found")

	// ErrDuplicateEdge indicates that parent→child already exists.
	ErrDuplicateEdge = errors.New("core: edge already exists")

	// ErrCycleRejected indicates that the edit would make the network cyclic.
	ErrCycleRejected = errors.New("core: cycle rejected")

	// ErrCorrelationOutOfBounds indicates a correlation outside its feasible interval.
	ErrCorrelationOutOfBounds = errors.New("core: correlation out of bounds")

	// ErrParentOrderCrossesChild indicates a parent reorder between two different children.
	ErrParentOrderCrossesChild = errors.New("core: parent order change crosses children")

	// ErrPositionOutOfRange indicates a reorder position outside the sequence.
	ErrPositionOutOfRange = errors.New("core: position out of range")

	// ErrParentsMismatch indicates WithParents got slices of different length.
	ErrParentsMismatch = errors.New("core: parents and correlations differ in length")
)

// NotApplicable is the condition of a node that is sampled, not observed.
const NotApplicable = "n.a."

// Bounds is a closed interval [Low, High] on the rank correlation scale.
type Bounds struct {
	Low  float64
	High float64
}

// Contains reports whether v lies in [Low−tol, High+tol].
func (b Bounds) Contains(v, tol float64) bool {
	return v >= b.Low-tol && v <= b.High+tol
}

// BoundsError reports a rejected correlation edit and the interval the
// caller should offer instead.
type BoundsError struct {
	Parent string
	Child  string
	Value  float64
	Low    float64
	High   float64
}

// Error implements error.
func (e *BoundsError) Error() string {
	return fmt.Sprintf("core: %s→%s: choose a value in between %.4g and %.4g (got %.4g)",
		e.Parent, e.Child, e.Low, e.High, e.Value)
}

// Unwrap lets errors.Is match ErrCorrelationOutOfBounds.
func (e *BoundsError) Unwrap() error { return ErrCorrelationOutOfBounds }

// Edge is a directed dependence parent → child.
type Edge struct {
	// Parent and Child are node names; the ordered pair identifies the edge.
	Parent string
	Child  string

	// RankCorr is the observed (unconditional) rank correlation, refreshed
	// from the completed matrix on every recomputation.
	RankCorr float64

	// CondRankCorr is the conditional rank correlation given the child's
	// earlier parents; this is what the sampling engine consumes.
	CondRankCorr float64

	// Bounds is the feasible interval for RankCorr given the rest of the structure.
	Bounds Bounds
}

// Label is the presentation string of the edge.
func (e Edge) Label() string {
	return fmt.Sprintf("%s → %s  r=%.3f (cond %.3f) [%.3f, %.3f]",
		e.Parent, e.Child, e.RankCorr, e.CondRankCorr, e.Bounds.Low, e.Bounds.High)
}

// Node is a named random variable.
type Node struct {
	// Name is unique within the network and stable across structural edits.
	Name string

	// Distribution selects the marginal family.
	Distribution dist.Family

	// ParamsSmall and ParamsLarge are the stored tuples for the two size regimes.
	// Triangular tuples are (min, mode, max).
	ParamsSmall []float64
	ParamsLarge []float64

	// Condition is NotApplicable or the observed value as entered.
	Condition string

	// X, Y is the presentation position.
	X, Y float64

	// Edges are the incoming edges in parent order.
	Edges []Edge

	// ParentOrderVersion increases every time Edges is reordered.
	ParentOrderVersion uint64
}

// Conditioned reports whether the node carries an observed value.
func (n Node) Conditioned() bool {
	return n.Condition != "" && n.Condition != NotApplicable
}

// Parents returns the parent names in parent order.
func (n Node) Parents() []string {
	out := make([]string, len(n.Edges))
	for i, e := range n.Edges {
		out[i] = e.Parent
	}

	return out
}

// clone returns a deep copy.
func (n *Node) clone() *Node {
	cp := *n
	cp.ParamsSmall = slices.Clone(n.ParamsSmall)
	cp.ParamsLarge = slices.Clone(n.ParamsLarge)
	cp.Edges = slices.Clone(n.Edges)

	return &cp
}

// parentIndex returns the position of parent among n's edges, or -1.
func (n *Node) parentIndex(parent string) int {
	for i, e := range n.Edges {
		if e.Parent == parent {
			return i
		}
	}

	return -1
}

// Completer derives the full rank correlation matrix from per-child parent
// indices and conditional rank correlations.
type Completer interface {
	CompleteCorrelationMatrix(parents [][]int, condRankCorrs [][]float64, names []string) (*matrix.Dense, error)
}

// Option configures a Network before creation.
type Option func(*Network)

// WithEngine sets the correlation completion engine.
// Passing nil has no effect.
func WithEngine(c Completer) Option {
	return func(n *Network) {
		if c != nil {
			n.engine = c
		}
	}
}

// NodeOption configures a node when added.
type NodeOption func(*nodeSpec)

// nodeSpec collects AddNode options before validation.
type nodeSpec struct {
	node      Node
	parents   []string
	condCorrs []float64
}

// WithParents adds incoming edges at creation, with their conditional rank correlations.
func WithParents(names []string, condRankCorrs []float64) NodeOption {
	return func(s *nodeSpec) {
		s.parents = slices.Clone(names)
		s.condCorrs = slices.Clone(condRankCorrs)
	}
}

// WithDistribution sets the family and both parameter tuples.
func WithDistribution(f dist.Family, small, large []float64) NodeOption {
	return func(s *nodeSpec) {
		s.node.Distribution = f
		s.node.ParamsSmall = slices.Clone(small)
		s.node.ParamsLarge = slices.Clone(large)
	}
}

// WithPosition sets the presentation position.
func WithPosition(x, y float64) NodeOption {
	return func(s *nodeSpec) { s.node.X, s.node.Y = x, y }
}

// WithCondition sets the initial condition (NotApplicable by default).
func WithCondition(value string) NodeOption {
	return func(s *nodeSpec) { s.node.Condition = value }
}

// Network is the dependency network.
//
// mu guards every field; observers are invoked after mu is released.
// version increases by one per committed mutation.
type Network struct {
	mu sync.Mutex

	engine Completer

	nodes []*Node // ordered; order fixes the engine index

	// Derived caches, rebuilt by recompute.
	rank     *matrix.Dense
	overview []EdgeRow

	version   uint64
	observers []observer
	nextObsID uint64
}
