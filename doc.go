// Package pavecost estimates the construction cost of airport pavements with
// a Monte Carlo model over correlated design variables.
//
// The design variables (critical aircraft code, movements, passengers, runway
// and taxiway length, apron area, turnpads, runways, exits) form the nodes of
// a non-parametric Bayesian network. Edges carry conditional rank
// correlations; the network completes them into a full rank correlation
// matrix and keeps, per edge, the interval of observed correlations that the
// structure still allows.
//
// Everything is organized under these subpackages:
//
//	matrix/     dense matrices, LU and Cholesky factorization
//	dfs/        topological order and cycle detection on the network
//	dist/       marginal distribution families and parameter conversion
//	npbn/       matrix completion and Gaussian-copula conditional sampling
//	core/       the dependency network: nodes, edges, bounds, observers
//	condition/  project inputs, aircraft code geometry, conditioning
//	sampling/   flattening the network into one engine call per run
//	cost/       unit costs, price correction and element aggregation
//	charges/    WACC, aircraft mix and cost-recovering airport charges
//	project/    YAML/JSON persistence and CSV/snappy export
//	estimate/   the session tying one run together
//	metrics/    Prometheus collectors
//	config/     viper configuration
//	ctxlog/     slog logger carried in a context
//
// Quick example:
//
//	Mvts ──0.85──▶ pax ──0.8──▶ A_Apron
//
//	conditioning Mvts on 40000 shifts pax and, through it, the apron area.
//
// The command line lives in cmd/pavecost:
//
//	go install github.com/katalvlaran/pavecost/cmd/pavecost@latest
//	pavecost estimate examples/airport.yaml
package pavecost
