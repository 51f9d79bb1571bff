// SPDX-License-Identifier: MIT

package matrix

// Test bridge: exposes unexported constructors to package matrix_test only.

// NewFromRows wraps newFromRows.
var NewFromRows = newFromRows
