// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//  - Provide a single source of truth for shape, symmetry and correlation checks.
//  - Return plain sentinel errors (no wrapping) so call sites can wrap uniformly.

package matrix

import (
	"fmt"
	"math"
)

const (
	// DefaultEpsilon is the symmetry/unit-diagonal tolerance used by validators.
	DefaultEpsilon = 1e-9

	// PivotTolerance is the smallest accepted Cholesky pivot.
	PivotTolerance = 1e-12

	// SemidefiniteTolerance is the band around zero in which CholeskyPSD
	// treats a pivot as an exact zero.
	SemidefiniteTolerance = 1e-10
)

// ValidateSquare ensures m is non-nil and square.
func ValidateSquare(m *Dense) error {
	if m == nil {
		return ErrNilMatrix
	}
	if m.r != m.c {
		return ErrNonSquare
	}

	return nil
}

// ValidateSymmetric ensures m is square and |m[i,j]-m[j,i]| <= tol on the upper triangle.
// Complexity: O(n²/2).
func ValidateSymmetric(m *Dense, tol float64) error {
	if err := ValidateSquare(m); err != nil {
		return err
	}
	for i := 0; i < m.r; i++ {
		for j := i + 1; j < m.c; j++ {
			if math.Abs(m.at(i, j)-m.at(j, i)) > tol {
				return ErrAsymmetry
			}
		}
	}

	return nil
}

// ValidateCorrelation checks that m is symmetric, has a unit diagonal and
// off-diagonal entries in [-1, 1]. Positive definiteness is not checked
// here; Cholesky reports it.
func ValidateCorrelation(m *Dense) error {
	if err := ValidateSymmetric(m, DefaultEpsilon); err != nil {
		return err
	}
	for i := 0; i < m.r; i++ {
		if math.Abs(m.at(i, i)-1) > DefaultEpsilon {
			return fmt.Errorf("diagonal %d = %g: %w", i, m.at(i, i), ErrNotCorrelation)
		}
		for j := i + 1; j < m.c; j++ {
			if v := m.at(i, j); v < -1-DefaultEpsilon || v > 1+DefaultEpsilon {
				return fmt.Errorf("entry (%d,%d) = %g: %w", i, j, v, ErrNotCorrelation)
			}
		}
	}

	return nil
}
