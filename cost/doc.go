// Package cost converts a conditional sample of the design variables into
// element-level construction cost distributions.
//
// One run draws, for every simulation:
//
//   - unit costs per square metre and investment/risk supplements from the
//     triangular reference table (Unit costs),
//   - the optional ILS and control tower add-ons,
//
// and combines them with the pavement areas derived from the design
// variables and the code geometry. Regional material prices scale every
// unit cost through per-family correction factors.
//
// All amounts are in euros; areas are in square metres.
package cost
