// Package estimate ties the pieces of one cost estimate together.
//
// A Session owns the dependency network and the user inputs. Run applies the
// inputs as node conditions, resolves them, draws the conditional sample and
// aggregates the costs; each stage checks the context first, so an interrupt
// aborts between stages. Results are handed to subscribers after every
// successful run and are never stored with the project.
package estimate
