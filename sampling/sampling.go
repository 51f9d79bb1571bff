// Package sampling flattens the dependency network into the arrays the
// dependency-sampling engine consumes, runs the engine and publishes the
// per-node draws as design variables.
package sampling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/katalvlaran/pavecost/condition"
	"github.com/katalvlaran/pavecost/core"
	"github.com/katalvlaran/pavecost/ctxlog"
	"github.com/katalvlaran/pavecost/dist"
	"github.com/katalvlaran/pavecost/matrix"
)

// DefaultSamples is the Monte Carlo batch size.
const DefaultSamples = 100_000

var (
	// ErrEngineInvocation wraps any failure reported by the engine.
	ErrEngineInvocation = errors.New("sampling: engine invocation failed")

	// ErrInvalidSampleSize is returned for n <= 0.
	ErrInvalidSampleSize = errors.New("sampling: sample size must be positive")
)

// Engine is the dependency-sampling engine contract. npbn.Engine implements it.
type Engine interface {
	CompleteCorrelationMatrix(parents [][]int, condRankCorrs [][]float64, names []string) (*matrix.Dense, error)
	SampleConditional(condIdx []int, condValues []float64, rank *matrix.Dense, n int,
		families []dist.Family, params [][]float64) ([][]float64, error)
}

// Problem is the flattened network, every slice in network order.
type Problem struct {
	Names         []string
	Families      []dist.Family
	Params        [][]float64 // engine convention, size regime applied
	Parents       [][]int
	CondRankCorrs [][]float64
	CondIndices   []int
	CondValues    []float64
}

// DesignVars maps node names to their n draws.
type DesignVars map[string][]float64

// Build flattens net for the size regime, fixing the nodes conditioned in res.
func Build(net *core.Network, size condition.Size, res *condition.Resolution) (*Problem, error) {
	nodes := net.Nodes()
	index := make(map[string]int, len(nodes))
	for i, nd := range nodes {
		index[nd.Name] = i
	}

	p := &Problem{
		Names:         make([]string, len(nodes)),
		Families:      make([]dist.Family, len(nodes)),
		Params:        make([][]float64, len(nodes)),
		Parents:       make([][]int, len(nodes)),
		CondRankCorrs: make([][]float64, len(nodes)),
	}
	for i, nd := range nodes {
		p.Names[i] = nd.Name
		p.Families[i] = nd.Distribution

		tuple := nd.ParamsLarge
		if size == condition.Small {
			tuple = nd.ParamsSmall
		}
		params, err := dist.EngineParameters(nd.Distribution, tuple)
		if err != nil {
			return nil, fmt.Errorf("sampling: node %s (%s): %w", nd.Name, size, err)
		}
		p.Params[i] = params

		p.Parents[i] = make([]int, len(nd.Edges))
		p.CondRankCorrs[i] = make([]float64, len(nd.Edges))
		for j, e := range nd.Edges {
			p.Parents[i][j] = index[e.Parent]
			p.CondRankCorrs[i][j] = e.CondRankCorr
		}

		if res != nil {
			if v, ok := res.Conditions[nd.Name]; ok {
				p.CondIndices = append(p.CondIndices, i)
				p.CondValues = append(p.CondValues, v)
			}
		}
	}

	return p, nil
}

// Run completes the correlation matrix and draws n conditional samples. It
// calls each engine operation exactly once. Conditioned nodes are broadcast
// to constant columns. On any engine failure nothing is returned.
func Run(ctx context.Context, eng Engine, p *Problem, n int) (DesignVars, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSampleSize, n)
	}
	log := ctxlog.FromContext(ctx)
	start := time.Now()

	rank, err := eng.CompleteCorrelationMatrix(p.Parents, p.CondRankCorrs, p.Names)
	if err != nil {
		return nil, fmt.Errorf("%w: correlation matrix: %w", ErrEngineInvocation, err)
	}
	if err = ctx.Err(); err != nil {
		return nil, err
	}

	draws, err := eng.SampleConditional(p.CondIndices, p.CondValues, rank, n, p.Families, p.Params)
	if err != nil {
		return nil, fmt.Errorf("%w: conditional sampling: %w", ErrEngineInvocation, err)
	}
	if len(draws) != len(p.Names) {
		return nil, fmt.Errorf("%w: %d columns for %d nodes", ErrEngineInvocation, len(draws), len(p.Names))
	}

	out := make(DesignVars, len(p.Names))
	for i, name := range p.Names {
		if len(draws[i]) != n {
			return nil, fmt.Errorf("%w: node %s: %d draws, want %d", ErrEngineInvocation, name, len(draws[i]), n)
		}
		out[name] = draws[i]
	}
	for k, i := range p.CondIndices {
		out[p.Names[i]] = broadcast(p.CondValues[k], n)
	}

	log.Debug("conditional sample drawn",
		"nodes", len(p.Names), "conditioned", len(p.CondIndices), "samples", n, "elapsed", time.Since(start))

	return out, nil
}

func broadcast(v float64, n int) []float64 {
	col := make([]float64, n)
	for i := range col {
		col[i] = v
	}

	return col
}
