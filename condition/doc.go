// Package condition turns user inputs into fixed values on the dependency
// network and resolves them into the design context of one estimate.
//
// Apply writes the inputs as node conditions; Resolve reads them back,
// selecting the size regime and the pavement geometry from the aircraft
// reference code and parsing every other condition as a float64.
//
// Unparsable conditions never abort a run: the node is treated as free and
// the problem is reported in Resolution.Warnings.
package condition
