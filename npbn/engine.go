// SPDX-License-Identifier: MIT

package npbn

import (
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/katalvlaran/pavecost/dist"
)

// Sentinel errors returned by the engine.
var (
	// ErrInfeasible indicates that the conditional correlations do not define
	// a valid (positive semi-definite) joint structure.
	ErrInfeasible = errors.New("npbn: infeasible correlation structure")

	// ErrInvalidStructure indicates malformed parent lists (self-parent,
	// duplicate or out-of-range index, length mismatch).
	ErrInvalidStructure = errors.New("npbn: invalid network structure")

	// ErrCycle indicates that the parent lists do not describe a DAG.
	ErrCycle = errors.New("npbn: parent lists contain a cycle")

	// ErrInvalidSampleSize indicates a non-positive sample size.
	ErrInvalidSampleSize = errors.New("npbn: sample size must be positive")

	// ErrInvalidCondition indicates a malformed or duplicated conditioning entry.
	ErrInvalidCondition = errors.New("npbn: invalid conditioning")
)

// probClamp keeps copula probabilities away from 0 and 1 so the normal
// quantile stays finite.
const probClamp = 1e-12

// Engine is the default NPBN engine. It is safe for concurrent use; draws
// from the shared generator are serialised.
type Engine struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// Option configures an Engine.
type Option func(*Engine)

// WithSeed makes sampling reproducible.
func WithSeed(seed uint64) Option {
	return func(e *Engine) { e.rng = dist.NewRand(seed) }
}

// WithRand injects a caller-owned generator.
// Passing nil has no effect.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) {
		if rng != nil {
			e.rng = rng
		}
	}
}

// New returns an Engine seeded from the clock unless WithSeed or WithRand is
// given.
func New(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = dist.NewRand(uint64(time.Now().UnixNano()))
	}

	return e
}
