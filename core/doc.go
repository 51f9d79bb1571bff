// Package core provides the dependency network of the cost model: a small,
// thread-safe directed acyclic graph of random variables linked by rank
// correlations.
//
// The Network N = (V, E) keeps:
//
//   - An ordered node sequence. The order is meaningful: it fixes the index
//     of every variable when the network is flattened for the sampling engine.
//   - Per-child ordered parent edges. Each edge carries the observed rank
//     correlation (RankCorr), the conditional rank correlation actually stored
//     in the structure (CondRankCorr), and the feasible interval for the
//     observed value (Bounds).
//   - Derived caches: the full rank correlation matrix, per-edge bounds and a
//     flattened edge overview, recomputed after every committed edit.
//
// Why the conditional/observed split?
//
//	The sampling engine consumes conditional correlations ρ(c, p_j | p_1..p_{j-1}).
//	Users reason about observed correlations r(c, p_j). The two coincide only
//	for a child's first parent; for later parents the conversion depends on the
//	parent order, which is why reordering parents forces a full recomputation.
//
// Configuration Options (Option):
//
//	– WithEngine(c Completer)
//	    Supplies the rank-correlation completion engine (default: npbn.New()).
//
// Node options (NodeOption):
//
//	– WithParents(names, condRankCorrs)   incoming edges at creation time
//	– WithDistribution(family, small, large)
//	– WithPosition(x, y)
//	– WithCondition(value)
//
// Core Methods:
//
//	// Structure
//	AddNode(name string, opts ...NodeOption) error
//	RemoveNode(name string) error
//	AddEdge(parent, child string) error          // ErrCycleRejected on cycles
//	RemoveEdge(parent, child string) error
//	ReverseEdge(parent, child string) error      // ErrCycleRejected on cycles
//	ChangeNodeName(old, new string) error        // no-op on empty new name
//	ChangeParentOrder(sourcePos, targetPos int) error
//	ChangeNodeOrder(sourcePos, targetPos int) error
//	Replace(nodes []Node) error                  // bulk load, one recomputation
//
//	// Correlations
//	CalculateCorrelationMatrix() (*matrix.Dense, error)
//	CalculateCorrelationBounds() error
//	CalculateConditionalCorrelation(parent, child string, observed float64) (float64, error)
//	ObservedCorrelation(parent, child string, cond float64) (float64, error)
//	ChangeObservedCorrelation(parent, child string, value float64) error    // *BoundsError
//	ChangeConditionalCorrelation(parent, child string, value float64) error // *BoundsError
//
//	// Node attributes
//	ChangeDistribution, ChangeParamsSmall, ChangeParamsLarge, SetCondition, SetPosition
//
//	// Queries
//	Nodes(), Node(name), Edges(), Edge(parent, child), NodeNames(), Len(),
//	CorrelationMatrix(), EdgeOverview(), Version(), Digraph()
//
//	// Observers
//	Subscribe(fn func(Change)) (cancel func())
//
// Failure semantics:
//
//	Every mutation either fully commits (including the recomputation of the
//	derived caches) or leaves the network exactly as it was. Rejected edits
//	return ErrCycleRejected or a *BoundsError (errors.Is(err,
//	ErrCorrelationOutOfBounds)); unknown names return ErrNodeNotFound or
//	ErrEdgeNotFound.
//
// Concurrency:
//
//	One sync.Mutex serialises mutations and reads. Observers run after the
//	lock is released, in subscription order, and may query the network.
package core
