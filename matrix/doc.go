// SPDX-License-Identifier: MIT

// Package matrix provides the small dense linear-algebra kernel used by the
// correlation bookkeeping of the dependency graph and by the sampling engine.
//
// The package provides:
//
//   - Dense: a row-major float64 matrix with bounds-checked At/Set, Clone,
//     Induced submatrix extraction and symmetric writes.
//   - LU (Doolittle, no pivoting), Inverse and Solve for general square systems.
//   - Cholesky and CholeskySolve for symmetric positive-definite systems,
//     CholeskyPSD for semi-definite ones (correlations of ±1 and the
//     singular Schur complements they produce).
//   - Mul, MatVec, Transpose and Sub for assembling conditional covariances.
//   - Validators (ValidateSquare, ValidateSymmetric, ValidateCorrelation)
//     returning package-level sentinel errors.
//
// All public operations return errors instead of panicking on user-triggered
// conditions; errors are matched with errors.Is against the sentinels in
// errors.go.
//
// Matrices here are tiny (tens of rows), so every routine favors clarity and
// fixed loop orders over blocking or SIMD tricks.
package matrix
