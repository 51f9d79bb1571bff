// SPDX-License-Identifier: MIT

// Package npbn is the default dependency-sampling engine for non-parametric
// Bayesian networks (NPBN) under the normal copula.
//
// It implements the two operations the estimator needs from an engine:
//
//   - CompleteCorrelationMatrix: turns per-edge conditional rank
//     correlations into the full node-by-node rank correlation matrix.
//     Each conditional rank correlation is mapped to the product-moment
//     scale (r = 2·sin(π·rs/6)), the unconditional correlations to the
//     parents are rebuilt through the partial-correlation recursion over the
//     parent order, and every non-edge pair is completed by conditional
//     independence given the parents (Gaussian DAG regression).
//   - SampleConditional: draws joint samples under the normal copula with a
//     set of nodes fixed to observed values (Schur complement on the
//     normal scale, semidefinite Cholesky draw, marginal quantile back-transform).
//
// The helpers RankToPearson, PearsonToRank and ConditionalTerms are exported
// because the dependency network uses the same algebra to compute edge
// correlation bounds and observed ↔ conditional conversions.
//
// Determinism: an Engine built WithSeed produces identical samples for
// identical inputs.
package npbn
