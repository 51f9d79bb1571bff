package estimate

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"

	"github.com/katalvlaran/pavecost/charges"
	"github.com/katalvlaran/pavecost/condition"
	"github.com/katalvlaran/pavecost/core"
	"github.com/katalvlaran/pavecost/cost"
	"github.com/katalvlaran/pavecost/ctxlog"
	"github.com/katalvlaran/pavecost/dist"
	"github.com/katalvlaran/pavecost/metrics"
	"github.com/katalvlaran/pavecost/npbn"
	"github.com/katalvlaran/pavecost/project"
	"github.com/katalvlaran/pavecost/sampling"
)

// costStream decorrelates the cost draws from the engine draws under one seed.
const costStream = 0x5bd1e995

// Outcome is everything one run produced.
type Outcome struct {
	Resolution *condition.Resolution
	Vars       sampling.DesignVars
	Result     *cost.Result
}

// Option configures a Session.
type Option func(*Session)

// WithEngine replaces the default npbn engine.
func WithEngine(e sampling.Engine) Option { return func(s *Session) { s.engine = e } }

// WithSamples sets the batch size (default sampling.DefaultSamples).
func WithSamples(n int) Option { return func(s *Session) { s.samples = n } }

// WithSeed fixes the random streams; 0 keeps a time-based seed.
func WithSeed(seed uint64) Option { return func(s *Session) { s.seed = seed } }

// WithMetrics records edits and runs on r.
func WithMetrics(r *metrics.Registry) Option { return func(s *Session) { s.metrics = r } }

// WithPreserveObserved makes ReverseEdge keep the observed correlation of the
// flipped edge when it is feasible in its new position.
func WithPreserveObserved(on bool) Option { return func(s *Session) { s.preserveObserved = on } }

// Session is one editable estimate.
type Session struct {
	ID uuid.UUID

	net              *core.Network
	engine           sampling.Engine
	metrics          *metrics.Registry
	samples          int
	seed             uint64
	preserveObserved bool

	mu        sync.Mutex
	inputs    condition.Inputs
	last      *Outcome
	onVars    []func(sampling.DesignVars)
	onResult  []func(*cost.Result)
	runNumber uint64
}

// New creates a session over an empty network.
func New(opts ...Option) *Session {
	s := &Session{ID: uuid.New(), samples: sampling.DefaultSamples}
	for _, opt := range opts {
		opt(s)
	}
	if s.engine == nil {
		if s.seed != 0 {
			s.engine = npbn.New(npbn.WithSeed(s.seed))
		} else {
			s.engine = npbn.New()
		}
	}
	s.net = core.NewNetwork(core.WithEngine(s.engine))
	if s.metrics != nil {
		s.net.Subscribe(func(ch core.Change) {
			s.metrics.RecordGraphEdit(ch.Kind.String(), nil)
			s.metrics.SetGraphSize(s.net.Len(), len(s.net.Edges()))
		})
	}

	return s
}

// Open creates a session from a saved project.
func Open(state *project.State, opts ...Option) (*Session, error) {
	s := New(opts...)
	if err := state.Restore(s.net); err != nil {
		return nil, err
	}
	s.inputs = state.Inputs

	return s, nil
}

// Network exposes the dependency network for direct edits.
func (s *Session) Network() *core.Network { return s.net }

// Inputs returns the current inputs.
func (s *Session) Inputs() condition.Inputs {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.inputs
}

// SetInputs validates and stores in for the next run.
func (s *Session) SetInputs(in condition.Inputs) error {
	if err := condition.Validate(&in); err != nil {
		return err
	}
	s.mu.Lock()
	s.inputs = in
	s.mu.Unlock()

	return nil
}

// State captures the session for saving.
func (s *Session) State() *project.State { return project.Capture(s.net, s.Inputs()) }

// Last returns the outcome of the latest successful run, or nil.
func (s *Session) Last() *Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.last
}

// OnDesignVars registers fn for the design variables of every run.
func (s *Session) OnDesignVars(fn func(sampling.DesignVars)) {
	s.mu.Lock()
	s.onVars = append(s.onVars, fn)
	s.mu.Unlock()
}

// OnResult registers fn for the cost result of every run.
func (s *Session) OnResult(fn func(*cost.Result)) {
	s.mu.Lock()
	s.onResult = append(s.onResult, fn)
	s.mu.Unlock()
}

// AddEdge adds parent→child and records rejected attempts.
func (s *Session) AddEdge(ctx context.Context, parent, child string) error {
	err := s.net.AddEdge(parent, child)
	s.logEdit(ctx, core.EdgeAdded, err, "parent", parent, "child", child)

	return err
}

// ChangeObservedCorrelation sets an observed rank correlation; a rejection
// carries the feasible interval as *core.BoundsError.
func (s *Session) ChangeObservedCorrelation(ctx context.Context, parent, child string, value float64) error {
	err := s.net.ChangeObservedCorrelation(parent, child, value)
	s.logEdit(ctx, core.CorrelationChanged, err, "parent", parent, "child", child, "value", value)

	return err
}

// ReverseEdge flips parent→child. With WithPreserveObserved the observed
// correlation is carried instead of the conditional one when it still fits
// the bounds of the reversed edge; otherwise the conditional value stays.
func (s *Session) ReverseEdge(ctx context.Context, parent, child string) error {
	var observed float64
	if s.preserveObserved {
		e, err := s.net.Edge(parent, child)
		if err != nil {
			s.logEdit(ctx, core.EdgeReversed, err, "parent", parent, "child", child)
			return err
		}
		observed = e.RankCorr
	}
	err := s.net.ReverseEdge(parent, child)
	s.logEdit(ctx, core.EdgeReversed, err, "parent", parent, "child", child)
	if err != nil || !s.preserveObserved {
		return err
	}

	var be *core.BoundsError
	err = s.net.ChangeObservedCorrelation(child, parent, observed)
	switch {
	case errors.As(err, &be):
		ctxlog.FromContext(ctx).Warn("observed correlation not feasible after reversal, conditional value kept",
			"parent", child, "child", parent, "value", observed, "low", be.Low, "high", be.High)
		return nil
	case err != nil:
		return err
	}

	return nil
}

func (s *Session) logEdit(ctx context.Context, kind core.ChangeKind, err error, attrs ...any) {
	log := ctxlog.FromContext(ctx)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordGraphEdit(kind.String(), err)
		}
		log.Info("network edit rejected", append(attrs, "kind", kind.String(), "error", err)...)
		return
	}
	log.Debug("network edit", append(attrs, "kind", kind.String())...)
}

// Run executes one estimate.
//
// Stages: apply inputs → resolve → flatten and sample → aggregate costs →
// publish. Fallback warnings of the resolver and price parser are logged and
// kept in the outcome; an engine failure aborts the run and publishes nothing.
func (s *Session) Run(ctx context.Context) (out *Outcome, err error) {
	log := ctxlog.FromContext(ctx).With("session", s.ID)
	s.mu.Lock()
	in := s.inputs
	s.runNumber++
	run := s.runNumber
	s.mu.Unlock()
	log = log.With("run", run)
	ctx = ctxlog.WithLogger(ctx, log)

	start := time.Now()
	defer func() {
		if s.metrics == nil {
			return
		}
		if err != nil {
			s.metrics.RecordRun("failure", 0)
		} else {
			s.metrics.RecordRun("success", s.samples)
		}
		s.metrics.RecordStage("total", time.Since(start))
	}()

	// Stage 1: conditions.
	stage := time.Now()
	if err = condition.Apply(ctx, s.net, &in); err != nil {
		return nil, err
	}
	res := condition.Resolve(s.net)
	s.warn(log, "conditions", res.Warnings)
	s.stageDone("resolve", stage)
	if err = ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 2: conditional sample.
	stage = time.Now()
	problem, err := sampling.Build(s.net, res.Size, res)
	if err != nil {
		return nil, err
	}
	vars, err := sampling.Run(ctx, s.engine, problem, s.samples)
	if err != nil {
		log.Error("sampling failed", "error", err)
		return nil, err
	}
	s.stageDone("sampling", stage)
	if err = ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 3: costs.
	stage = time.Now()
	result, err := cost.Aggregate(ctx, cost.Request{
		Vars:     vars,
		Geometry: res.Geometry,
		Prices:   in.Prices,
		AddOns:   in.AddOns,
		Rand:     s.costRand(run),
	})
	if err != nil {
		return nil, err
	}
	s.warn(log, "prices", result.Warnings)
	s.stageDone("cost", stage)

	out = &Outcome{Resolution: res, Vars: vars, Result: result}
	s.mu.Lock()
	s.last = out
	onVars := append([]func(sampling.DesignVars){}, s.onVars...)
	onResult := append([]func(*cost.Result){}, s.onResult...)
	s.mu.Unlock()

	for _, fn := range onVars {
		fn(vars)
	}
	for _, fn := range onResult {
		fn(result)
	}
	sum := cost.Summarize(result.Simulation)
	log.Info("estimate finished", "run_id", result.RunID, "code", res.Code.String(), "size", res.Size.String(),
		"samples", result.N, "mean", sum.Mean, "p5", sum.P5, "p95", sum.P95, "elapsed", time.Since(start))

	return out, nil
}

// ChargeModel prepares the charge model of the last run for mix. An empty
// mix puts all traffic on the critical code.
func (s *Session) ChargeModel(mix charges.Mix) (*charges.Model, error) {
	last := s.Last()
	if last == nil {
		return nil, ErrNoRun
	}
	in := s.Inputs()
	code := last.Resolution.Code
	if len(mix) == 0 {
		mix = charges.DefaultMix(code)
	}
	traffic := charges.Traffic{
		AnnualOperations: valueOr(in.Project.AnnualOperations, last.Vars[condition.NodeMovements]),
		AnnualPassengers: valueOr(in.Project.AnnualPassengers, last.Vars[condition.NodePassengers]),
	}

	return charges.NewModel(last.Result.Simulation, charges.DefaultCapital, code, mix, traffic)
}

// ErrNoRun is returned by ChargeModel before the first successful run.
var ErrNoRun = errors.New("estimate: no successful run yet")

// valueOr prefers the user input and falls back to the sampled mean.
func valueOr(p *float64, sample []float64) float64 {
	switch {
	case p != nil:
		return *p
	case len(sample) == 0:
		return 0
	}

	return stat.Mean(sample, nil)
}

func (s *Session) warn(log *slog.Logger, source string, warnings []error) {
	for _, w := range warnings {
		log.Warn("input ignored", "source", source, "error", w)
	}
	if s.metrics != nil {
		s.metrics.RecordWarnings(source, len(warnings))
	}
}

func (s *Session) stageDone(stage string, start time.Time) {
	if s.metrics != nil {
		s.metrics.RecordStage(stage, time.Since(start))
	}
}

// costRand gives each run its own stream; without a seed it is time-based.
func (s *Session) costRand(run uint64) *rand.Rand {
	if s.seed == 0 {
		return dist.NewRand(uint64(time.Now().UnixNano()))
	}

	return dist.NewRand((s.seed ^ costStream) + run)
}
